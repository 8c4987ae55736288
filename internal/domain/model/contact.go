package model

import (
	"sort"
	"strings"
	"time"

	"tree-service-leads/internal/domain/phone"
)

// FormSubmissionScanLimit caps how many recent submissions are scanned when
// matching a contact by phone.
const FormSubmissionScanLimit = 500

type TimelineKind string

const (
	TimelineOptOut     TimelineKind = "opt_out"
	TimelineWarmLead   TimelineKind = "warm_lead"
	TimelineSubmission TimelineKind = "form_submission"
	TimelineNote       TimelineKind = "note"
)

type TimelineEntry struct {
	Kind    TimelineKind `json:"kind"`
	ID      string       `json:"id"`
	At      time.Time    `json:"at"`
	Summary string       `json:"summary"`
}

// Contact aggregates every record sharing one phone key.
type Contact struct {
	Phone           string            `json:"phone"`
	Display         string            `json:"display"`
	OptedOut        bool              `json:"opted_out"`
	OptOuts         []*OptOut         `json:"opt_outs"`
	WarmLeads       []*WarmLead       `json:"warm_leads"`
	FormSubmissions []*FormSubmission `json:"form_submissions"`
	Notes           []*ContactNote    `json:"notes"`
	DisplayName     *string           `json:"display_name"`
	DisplayAddress  *string           `json:"display_address"`
	Timeline        []TimelineEntry   `json:"timeline"`
}

// BuildContact assembles a Contact from already-fetched rows. Submissions
// are filtered here by normalized phone; the other slices must already
// belong to key and be sorted newest first.
func BuildContact(key string, optOuts []*OptOut, leads []*WarmLead, subs []*FormSubmission, notes []*ContactNote) *Contact {
	matched := make([]*FormSubmission, 0)
	for _, s := range subs {
		if s.Phone != nil && phone.Normalize(*s.Phone) == key {
			matched = append(matched, s)
		}
	}
	c := &Contact{
		Phone:           key,
		Display:         phone.Format(key),
		OptedOut:        len(optOuts) > 0,
		OptOuts:         nonNil(optOuts),
		WarmLeads:       nonNil(leads),
		FormSubmissions: matched,
		Notes:           nonNil(notes),
	}

	var leadName, leadAddr, subName, subAddr *string
	if len(leads) > 0 {
		leadName, leadAddr = leads[0].FullName, leads[0].Address
	}
	if len(matched) > 0 {
		subName, subAddr = matched[0].Name, matched[0].Address
	}
	c.DisplayName = firstNonBlank(leadName, subName)
	c.DisplayAddress = firstNonBlank(leadAddr, subAddr)
	c.Timeline = buildTimeline(c)
	return c
}

func buildTimeline(c *Contact) []TimelineEntry {
	out := make([]TimelineEntry, 0, len(c.OptOuts)+len(c.WarmLeads)+len(c.FormSubmissions)+len(c.Notes))
	for _, o := range c.OptOuts {
		out = append(out, TimelineEntry{Kind: TimelineOptOut, ID: o.ID, At: o.Date, Summary: "Opted out (" + o.Source + ")"})
	}
	for _, w := range c.WarmLeads {
		out = append(out, TimelineEntry{Kind: TimelineWarmLead, ID: w.ID, At: w.ReplyTime, Summary: "Replied: " + Deref(w.FirstReplyText)})
	}
	for _, s := range c.FormSubmissions {
		out = append(out, TimelineEntry{Kind: TimelineSubmission, ID: s.ID, At: s.CreatedAt, Summary: "Form: " + Deref(s.Message)})
	}
	for _, n := range c.Notes {
		out = append(out, TimelineEntry{Kind: TimelineNote, ID: n.ID, At: n.CreatedAt, Summary: n.Note})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.After(out[j].At) })
	return out
}

func firstNonBlank(vals ...*string) *string {
	for _, v := range vals {
		if v == nil {
			continue
		}
		if t := strings.TrimSpace(*v); t != "" {
			return &t
		}
	}
	return nil
}

func nonNil[T any](s []*T) []*T {
	if s == nil {
		return []*T{}
	}
	return s
}
