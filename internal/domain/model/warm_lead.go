package model

import (
	"strings"
	"time"
	"unicode/utf8"

	"tree-service-leads/internal/domain"
	"tree-service-leads/internal/domain/phone"

	"github.com/google/uuid"
)

// FirstReplyMaxLen bounds the stored text of the first interested reply.
const FirstReplyMaxLen = 500

// WarmLead is a contact who replied with interest. At most one per phone key.
type WarmLead struct {
	ID             string    `json:"id"`
	PhoneNumber    string    `json:"phone_number"`
	FullName       *string   `json:"full_name"`
	Address        *string   `json:"address"`
	FirstReplyText *string   `json:"first_reply_text"`
	ReplyTime      time.Time `json:"reply_time"`
	SourceCampaign *string   `json:"source_campaign"`
}

// NewWarmLead expects a validated key; the reply text is cut to FirstReplyMaxLen runes.
func NewWarmLead(key, firstReply, campaign string) (*WarmLead, error) {
	if !phone.Valid(key) {
		return nil, domain.ErrInvalidArgument
	}
	reply := truncateRunes(firstReply, FirstReplyMaxLen)
	wl := &WarmLead{
		ID:          uuid.NewString(),
		PhoneNumber: key,
		ReplyTime:   time.Now(),
	}
	if reply != "" {
		wl.FirstReplyText = &reply
	}
	if campaign != "" {
		wl.SourceCampaign = &campaign
	}
	return wl, nil
}

// WarmLeadPatch is a partial update. PhoneNumber nil means unchanged; the
// nullable fields distinguish "absent" from "set to null".
type WarmLeadPatch struct {
	PhoneNumber    *string        `json:"phone_number"`
	FullName       NullableString `json:"full_name"`
	Address        NullableString `json:"address"`
	FirstReplyText NullableString `json:"first_reply_text"`
	SourceCampaign NullableString `json:"source_campaign"`
}

func (p WarmLeadPatch) Empty() bool {
	return p.PhoneNumber == nil && !p.FullName.Set && !p.Address.Set &&
		!p.FirstReplyText.Set && !p.SourceCampaign.Set
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

func trimSpace(s string) string { return strings.TrimSpace(s) }
