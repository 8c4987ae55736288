//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tree-service-leads/internal/domain"
	"tree-service-leads/internal/domain/model"
	"tree-service-leads/internal/usecase"
)

func TestListUseCase_OptOuts(t *testing.T) {
	ctx := context.Background()
	optOuts := &MockOptOutRepo{}
	uc := usecase.NewListUseCase(&MockListRepo{}, optOuts, &MockWarmLeadRepo{}, newTestLogger())

	if _, err := uc.AddOptOut(ctx, "555-12", ""); domain.UserMessage(err, "") != domain.MsgEnterValidPhone {
		t.Fatalf("short phone: got %v", err)
	}
	o, err := uc.AddOptOut(ctx, "(901) 555-1234", "")
	if err != nil {
		t.Fatalf("AddOptOut: %v", err)
	}
	if o.PhoneNumber != "9015551234" || o.Source != model.OptOutSourceManual {
		t.Errorf("unexpected opt-out %+v", o)
	}

	if err := uc.UpdateOptOut(ctx, o.ID, model.OptOutPatch{}); err != nil {
		t.Fatalf("empty patch should be a no-op, got %v", err)
	}
	bad := "12"
	if err := uc.UpdateOptOut(ctx, o.ID, model.OptOutPatch{PhoneNumber: &bad}); domain.UserMessage(err, "") != domain.MsgInvalidPhone {
		t.Fatalf("bad phone: got %v", err)
	}
	raw := "+1 615 555 0000"
	if err := uc.UpdateOptOut(ctx, o.ID, model.OptOutPatch{PhoneNumber: &raw}); err != nil {
		t.Fatalf("UpdateOptOut: %v", err)
	}
	page, err := uc.OptOuts(ctx, 0)
	if err != nil || page.Total != 1 || page.Rows[0].PhoneNumber != "6155550000" {
		t.Fatalf("OptOuts: %v %+v", err, page)
	}

	if err := uc.DeleteOptOut(ctx, o.ID); err != nil {
		t.Fatalf("DeleteOptOut: %v", err)
	}
	if err := uc.DeleteOptOut(ctx, o.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestListUseCase_WarmLeads(t *testing.T) {
	ctx := context.Background()
	leads := &MockWarmLeadRepo{}
	uc := usecase.NewListUseCase(nil, nil, leads, newTestLogger())

	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.Local)
	for _, at := range []time.Time{
		now.Add(-time.Hour),
		time.Date(2026, 3, 10, 0, 0, 0, 0, time.Local),
		now.Add(-20 * time.Hour),
		now.Add(-6 * 24 * time.Hour),
		now.Add(-8 * 24 * time.Hour),
	} {
		wl := &model.WarmLead{ID: at.String(), PhoneNumber: at.Format("0102150405"), ReplyTime: at}
		if _, err := leads.CreateIfAbsent(ctx, nil, wl); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	counts, err := uc.WarmLeadCounts(ctx, now)
	if err != nil {
		t.Fatalf("WarmLeadCounts: %v", err)
	}
	if counts.Today != 2 || counts.ThisWeek != 4 {
		t.Errorf("expected today=2 week=4, got %+v", counts)
	}

	all, _ := uc.AllWarmLeads(ctx)
	id := all[0].ID
	patch := model.WarmLeadPatch{FullName: model.SetString("Sam Elm"), Address: model.SetNull()}
	if err := uc.UpdateWarmLead(ctx, id, patch); err != nil {
		t.Fatalf("UpdateWarmLead: %v", err)
	}
	page, _ := uc.WarmLeads(ctx, 0)
	if model.Deref(page.Rows[0].FullName) != "Sam Elm" {
		t.Errorf("patch not applied: %+v", page.Rows[0])
	}
	short := "123"
	if err := uc.UpdateWarmLead(ctx, id, model.WarmLeadPatch{PhoneNumber: &short}); domain.UserMessage(err, "") != domain.MsgInvalidPhone {
		t.Fatalf("bad phone: got %v", err)
	}

	// Not configured: the opt-out side has no repo.
	if _, err := uc.AddOptOut(ctx, "9015551234", ""); !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	empty, err := uc.OptOuts(ctx, 0)
	if err != nil || len(empty.Rows) != 0 {
		t.Fatalf("reads should degrade to empty, got %v %+v", err, empty)
	}
}

func TestListUseCase_ListViews(t *testing.T) {
	ctx := context.Background()
	rows := make([]*model.SmsCellListRow, 0, 120)
	for i := 0; i < 120; i++ {
		rows = append(rows, &model.SmsCellListRow{ID: "r", PhoneNumber: "9015551234"})
	}
	lists := &MockListRepo{
		Metadata: []*model.ListMetadata{{ID: "sms", Name: "SMS", ListType: "sms_cell"}},
		Previews: map[string]*model.ListPreview{"sms": {ListID: "sms", Rows: []byte(`[]`)}},
		SmsRows:  rows,
	}
	uc := usecase.NewListUseCase(lists, nil, nil, newTestLogger())

	page, err := uc.SmsRows(ctx, 2)
	if err != nil {
		t.Fatalf("SmsRows: %v", err)
	}
	if len(page.Rows) != 20 || page.Total != 120 {
		t.Errorf("expected last page of 20 of 120, got %d of %d", len(page.Rows), page.Total)
	}
	if _, err := uc.Preview(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	meta, err := uc.Metadata(ctx)
	if err != nil || len(meta) != 1 {
		t.Errorf("Metadata: %v len=%d", err, len(meta))
	}
}
