//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tree-service-leads/internal/domain"
	"tree-service-leads/internal/domain/model"
	"tree-service-leads/internal/usecase"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		body string
		want usecase.Intent
	}{
		{"STOP", usecase.IntentOptOut},
		{"please stop texting", usecase.IntentOptOut},
		{"Opt Out", usecase.IntentOptOut},
		{"optout", usecase.IntentOptOut},
		{"remove me", usecase.IntentOptOut},
		{"Yes", usecase.IntentInterest},
		{"call me tomorrow", usecase.IntentInterest},
		{"I'd like a quote", usecase.IntentInterest},
		{"stopwatch", usecase.IntentNone},
		{"yesterday", usecase.IntentNone},
		{"who is this?", usecase.IntentNone},
		{"", usecase.IntentNone},
	}
	for _, tc := range cases {
		if got := usecase.Classify(tc.body); got != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.body, got, tc.want)
		}
	}
}

func TestInboundUseCase_HandleSMS(t *testing.T) {
	ctx := context.Background()

	t.Run("opt-out inserts every time", func(t *testing.T) {
		optOuts := &MockOptOutRepo{}
		uc := usecase.NewInboundUseCase(optOuts, &MockWarmLeadRepo{}, nil, "SMS-neighborhood", false, newTestLogger())

		for i := 0; i < 2; i++ {
			intent, err := uc.HandleSMS(ctx, "+1 (901) 555-1234", " STOP ")
			if err != nil || intent != usecase.IntentOptOut {
				t.Fatalf("HandleSMS: intent=%s err=%v", intent, err)
			}
		}
		rows, _ := optOuts.ListByPhone(ctx, nil, "9015551234")
		if len(rows) != 2 {
			t.Fatalf("expected 2 opt-out rows, got %d", len(rows))
		}
		if rows[0].Source != model.OptOutSourceSMS {
			t.Errorf("unexpected source %q", rows[0].Source)
		}
	})

	t.Run("interest creates one lead and notifies once", func(t *testing.T) {
		leads := &MockWarmLeadRepo{}
		notifier := &MockNotifier{}
		uc := usecase.NewInboundUseCase(&MockOptOutRepo{}, leads, notifier, "SMS-neighborhood", false, newTestLogger())

		long := "yes " + strings.Repeat("x", 600)
		for i := 0; i < 2; i++ {
			intent, err := uc.HandleSMS(ctx, "9015551234", long)
			if err != nil || intent != usecase.IntentInterest {
				t.Fatalf("HandleSMS: intent=%s err=%v", intent, err)
			}
		}
		all, _ := leads.ListAll(ctx, nil)
		if len(all) != 1 {
			t.Fatalf("expected one warm lead, got %d", len(all))
		}
		if n := len([]rune(model.Deref(all[0].FirstReplyText))); n != model.FirstReplyMaxLen {
			t.Errorf("reply should be cut to %d runes, got %d", model.FirstReplyMaxLen, n)
		}
		if model.Deref(all[0].SourceCampaign) != "SMS-neighborhood" {
			t.Errorf("unexpected campaign %v", all[0].SourceCampaign)
		}
		if len(notifier.Leads) != 1 {
			t.Errorf("expected one notification, got %d", len(notifier.Leads))
		}
	})

	t.Run("opt-out wins over interest", func(t *testing.T) {
		optOuts, leads := &MockOptOutRepo{}, &MockWarmLeadRepo{}
		uc := usecase.NewInboundUseCase(optOuts, leads, nil, "c", false, newTestLogger())
		intent, _ := uc.HandleSMS(ctx, "9015551234", "yes please stop")
		if intent != usecase.IntentOptOut {
			t.Fatalf("expected opt-out, got %s", intent)
		}
		if n, _ := leads.Count(ctx, nil); n != 0 {
			t.Fatal("no lead should be created")
		}
	})

	t.Run("invalid phone touches nothing", func(t *testing.T) {
		optOuts := &MockOptOutRepo{}
		uc := usecase.NewInboundUseCase(optOuts, &MockWarmLeadRepo{}, nil, "c", false, newTestLogger())
		_, err := uc.HandleSMS(ctx, "555-1234", "STOP")
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected invalid argument, got %v", err)
		}
		if n, _ := optOuts.Count(ctx, nil); n != 0 {
			t.Fatal("no opt-out should be stored")
		}
	})

	t.Run("store errors keep the intent", func(t *testing.T) {
		uc := usecase.NewInboundUseCase(&MockOptOutRepo{CreateErr: errors.New("down")},
			&MockWarmLeadRepo{CreateErr: errors.New("down")}, &MockNotifier{}, "c", false, newTestLogger())
		if intent, err := uc.HandleSMS(ctx, "9015551234", "stop"); err != nil || intent != usecase.IntentOptOut {
			t.Fatalf("opt-out: intent=%s err=%v", intent, err)
		}
		if intent, err := uc.HandleSMS(ctx, "9015551234", "sure"); err != nil || intent != usecase.IntentInterest {
			t.Fatalf("interest: intent=%s err=%v", intent, err)
		}
	})

	t.Run("notifier failure is ignored", func(t *testing.T) {
		uc := usecase.NewInboundUseCase(&MockOptOutRepo{}, &MockWarmLeadRepo{}, &MockNotifier{Err: errors.New("429")}, "c", false, newTestLogger())
		if _, err := uc.HandleSMS(ctx, "9015551234", "interested"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("not configured", func(t *testing.T) {
		uc := usecase.NewInboundUseCase(nil, nil, nil, "c", false, newTestLogger())
		if _, err := uc.HandleSMS(ctx, "9015551234", "stop"); !errors.Is(err, domain.ErrNotConfigured) {
			t.Fatalf("expected ErrNotConfigured, got %v", err)
		}
	})
}
