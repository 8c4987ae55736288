//go:build !integration

package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"tree-service-leads/internal/domain"
)

func TestJobStatus(t *testing.T) {
	t.Run("terminal statuses", func(t *testing.T) {
		if JobStatusPending.Terminal() || JobStatusRunning.Terminal() {
			t.Fatal("pending and running must not be terminal")
		}
		if !JobStatusSuccess.Terminal() || !JobStatusFailed.Terminal() {
			t.Fatal("success and failed must be terminal")
		}
	})

	t.Run("labels and steps follow the progress track", func(t *testing.T) {
		cases := []struct {
			s     JobStatus
			step  int
			label string
		}{
			{JobStatusPending, 1, "Queued — waiting for worker"},
			{JobStatusRunning, 2, "Running"},
			{JobStatusSuccess, 3, "Done"},
			{JobStatusFailed, 3, "Failed"},
			{JobStatus("weird"), 0, "weird"},
		}
		for _, c := range cases {
			if c.s.Step() != c.step || c.s.Label() != c.label {
				t.Errorf("%s: got step=%d label=%q", c.s, c.s.Step(), c.s.Label())
			}
		}
	})
}

func TestNewJob(t *testing.T) {
	t.Run("should create a pending job", func(t *testing.T) {
		job, err := NewJob(ActionRunCBC, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if job.ID == "" || job.Status != JobStatusPending || job.Payload == nil {
			t.Fatalf("unexpected job: %+v", job)
		}
	})

	t.Run("should reject unknown actions", func(t *testing.T) {
		_, err := NewJob(JobAction("rm_rf"), nil)
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
		if _, err := ParseJobAction("send_campaign"); err != nil {
			t.Fatalf("send_campaign should parse: %v", err)
		}
	})
}

func TestNewWarmLead(t *testing.T) {
	long := make([]rune, 600)
	for i := range long {
		long[i] = 'é'
	}
	wl, err := NewWarmLead("9015551234", string(long), "SMS-neighborhood")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len([]rune(*wl.FirstReplyText)); n != FirstReplyMaxLen {
		t.Fatalf("expected reply cut to %d runes, got %d", FirstReplyMaxLen, n)
	}
	if *wl.SourceCampaign != "SMS-neighborhood" {
		t.Fatalf("unexpected campaign %q", *wl.SourceCampaign)
	}
	if _, err := NewWarmLead("123", "yes", ""); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid key error, got %v", err)
	}
}

func TestNewContactNote(t *testing.T) {
	n, err := NewContactNote("+1 901 555 1234", "  call after 5  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.PhoneNumber != "9015551234" || n.Note != "call after 5" {
		t.Fatalf("unexpected note: %+v", n)
	}
	if _, err := NewContactNote("12", "x"); domain.UserMessage(err, "") != domain.MsgInvalidPhone {
		t.Fatalf("expected invalid phone message, got %v", err)
	}
	if _, err := NewContactNote("9015551234", "   "); domain.UserMessage(err, "") != domain.MsgNoteRequired {
		t.Fatalf("expected note required message, got %v", err)
	}
}

func TestNewFormSubmission(t *testing.T) {
	fs, err := NewFormSubmission(FormInput{Name: " Ann ", Phone: "901-555-1234", Email: "  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *fs.Name != "Ann" || fs.Email != nil || fs.Message != nil {
		t.Fatalf("fields not trimmed to nullable values: %+v", fs)
	}
	if _, err := NewFormSubmission(FormInput{Name: "Ann"}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAppConfigEffective(t *testing.T) {
	var missing *AppConfig
	if got := missing.Effective(); got != DefaultCampaignSettings() {
		t.Fatalf("nil config should yield defaults, got %+v", got)
	}
	name := "Oak & Ash"
	cfg := &AppConfig{ID: AppConfigID, CompanyName: &name}
	eff := cfg.Effective()
	if eff.CompanyName != name || eff.SMSDelaySec != DefaultSMSDelaySec {
		t.Fatalf("unexpected effective settings: %+v", eff)
	}
	p := eff.Payload(0)
	if p["daily_batch_limit"] != DefaultDailyBatchLimit || p["addresses_csv_name"] != DefaultAddressesCSVName {
		t.Fatalf("unexpected payload: %v", p)
	}
	if _, err := NewAppConfig(AppConfigForm{SMSDelaySec: -1}, time.Now()); domain.UserMessage(err, "") != domain.MsgInvalidSMSDelay {
		t.Fatalf("expected delay validation, got %v", err)
	}
}

func TestNullableString(t *testing.T) {
	var p WarmLeadPatch
	if err := json.Unmarshal([]byte(`{"full_name":null,"address":"12 Elm"}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !p.FullName.Set || p.FullName.Value != nil {
		t.Fatal("explicit null should be set with nil value")
	}
	if !p.Address.Set || *p.Address.Value != "12 Elm" {
		t.Fatal("address should be set")
	}
	if p.FirstReplyText.Set || p.Empty() {
		t.Fatal("absent field must stay unset, patch is not empty")
	}
}

func TestBuildContact(t *testing.T) {
	key := "9015551234"
	now := time.Now()
	blank := "  "
	subName := "From Form"
	subAddr := "1 Form St"
	other := "555-000-1111"
	mine := "(901) 555-1234"
	leads := []*WarmLead{{ID: "w1", PhoneNumber: key, FullName: &blank, ReplyTime: now.Add(-time.Hour)}}
	subs := []*FormSubmission{
		{ID: "s1", Phone: &other, CreatedAt: now},
		{ID: "s2", Phone: &mine, Name: &subName, Address: &subAddr, CreatedAt: now.Add(-2 * time.Hour)},
	}
	notes := []*ContactNote{{ID: "n1", PhoneNumber: key, Note: "hi", CreatedAt: now.Add(-time.Minute)}}

	c := BuildContact(key, nil, leads, subs, notes)

	if len(c.FormSubmissions) != 1 || c.FormSubmissions[0].ID != "s2" {
		t.Fatalf("submissions not filtered by phone: %+v", c.FormSubmissions)
	}
	if c.DisplayName == nil || *c.DisplayName != subName {
		t.Fatalf("blank lead name should fall back to submission name, got %v", c.DisplayName)
	}
	if c.DisplayAddress == nil || *c.DisplayAddress != subAddr {
		t.Fatalf("unexpected address %v", c.DisplayAddress)
	}
	if c.OptedOut || c.OptOuts == nil {
		t.Fatal("no opt-outs expected, slice must be empty not nil")
	}
	if len(c.Timeline) != 3 || c.Timeline[0].ID != "n1" || c.Timeline[2].ID != "s2" {
		t.Fatalf("timeline not sorted newest first: %+v", c.Timeline)
	}
	if c.Display != "(901) 555-1234" {
		t.Fatalf("unexpected display %q", c.Display)
	}
}
