package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tree-service-leads/internal/domain"
	"tree-service-leads/internal/domain/model"
	"tree-service-leads/internal/domain/phone"
	"tree-service-leads/internal/domain/ports/repository"
	"tree-service-leads/internal/infra/logging"
)

// Compile-time check
var _ ListUseCase = (*listUC)(nil)

// ListUseCase backs the list pages. Reads on a service without a datastore
// return empty results; writes return domain.ErrNotConfigured.
type ListUseCase interface {
	Metadata(ctx context.Context) ([]*model.ListMetadata, error)
	Preview(ctx context.Context, listID string) (*model.ListPreview, error)
	SmsRows(ctx context.Context, page int) (*model.Page[*model.SmsCellListRow], error)

	OptOuts(ctx context.Context, page int) (*model.Page[*model.OptOut], error)
	AddOptOut(ctx context.Context, rawPhone, source string) (*model.OptOut, error)
	UpdateOptOut(ctx context.Context, id string, patch model.OptOutPatch) error
	DeleteOptOut(ctx context.Context, id string) error
	AllOptOuts(ctx context.Context) ([]*model.OptOut, error)

	WarmLeads(ctx context.Context, page int) (*model.Page[*model.WarmLead], error)
	UpdateWarmLead(ctx context.Context, id string, patch model.WarmLeadPatch) error
	DeleteWarmLead(ctx context.Context, id string) error
	AllWarmLeads(ctx context.Context) ([]*model.WarmLead, error)
	WarmLeadCounts(ctx context.Context, now time.Time) (model.WarmLeadCounts, error)
}

type listUC struct {
	lists   repository.ListRepository
	optOuts repository.OptOutRepository
	leads   repository.WarmLeadRepository

	log *zerolog.Logger
}

func NewListUseCase(lists repository.ListRepository, optOuts repository.OptOutRepository, leads repository.WarmLeadRepository, logger *zerolog.Logger) *listUC {
	return &listUC{lists: lists, optOuts: optOuts, leads: leads, log: logging.Component(logger, "list_uc")}
}

func (u *listUC) Metadata(ctx context.Context) ([]*model.ListMetadata, error) {
	if u.lists == nil {
		return []*model.ListMetadata{}, nil
	}
	rows, err := u.lists.ListMetadata(ctx, repository.NoTX)
	if err != nil {
		u.log.Error().Err(err).Msg("list metadata")
		return nil, err
	}
	return rows, nil
}

func (u *listUC) Preview(ctx context.Context, listID string) (*model.ListPreview, error) {
	if u.lists == nil {
		return nil, domain.ErrNotFound
	}
	return u.lists.GetPreview(ctx, repository.NoTX, listID)
}

func (u *listUC) SmsRows(ctx context.Context, page int) (*model.Page[*model.SmsCellListRow], error) {
	if u.lists == nil {
		return &model.Page[*model.SmsCellListRow]{Rows: []*model.SmsCellListRow{}}, nil
	}
	offset, limit := model.PageBounds(page)
	rows, err := u.lists.ListSmsCellRows(ctx, repository.NoTX, offset, limit)
	if err != nil {
		u.log.Error().Err(err).Int("page", page).Msg("list sms rows")
		return nil, err
	}
	total, err := u.lists.CountSmsCellRows(ctx, repository.NoTX)
	if err != nil {
		u.log.Error().Err(err).Msg("count sms rows")
		return nil, err
	}
	return &model.Page[*model.SmsCellListRow]{Rows: rows, Total: total}, nil
}

func (u *listUC) OptOuts(ctx context.Context, page int) (*model.Page[*model.OptOut], error) {
	if u.optOuts == nil {
		return &model.Page[*model.OptOut]{Rows: []*model.OptOut{}}, nil
	}
	offset, limit := model.PageBounds(page)
	rows, err := u.optOuts.List(ctx, repository.NoTX, offset, limit)
	if err != nil {
		u.log.Error().Err(err).Int("page", page).Msg("list opt-outs")
		return nil, err
	}
	total, err := u.optOuts.Count(ctx, repository.NoTX)
	if err != nil {
		u.log.Error().Err(err).Msg("count opt-outs")
		return nil, err
	}
	return &model.Page[*model.OptOut]{Rows: rows, Total: total}, nil
}

func (u *listUC) AddOptOut(ctx context.Context, rawPhone, source string) (*model.OptOut, error) {
	if u.optOuts == nil {
		return nil, domain.ErrNotConfigured
	}
	key, ok := phone.Key(rawPhone)
	if !ok {
		return nil, domain.Invalid(domain.MsgEnterValidPhone)
	}
	source = strings.TrimSpace(source)
	if source == "" {
		source = model.OptOutSourceManual
	}
	o, err := model.NewOptOut(key, source)
	if err != nil {
		return nil, err
	}
	if err := u.optOuts.Create(ctx, repository.NoTX, o); err != nil {
		return nil, fmt.Errorf("add opt-out: %w", err)
	}
	logging.With(ctx, u.log).Info().Str("opt_out_id", o.ID).Msg("opt-out added")
	return o, nil
}

func (u *listUC) UpdateOptOut(ctx context.Context, id string, patch model.OptOutPatch) error {
	if u.optOuts == nil {
		return domain.ErrNotConfigured
	}
	if patch.Empty() {
		return nil
	}
	if patch.PhoneNumber != nil {
		key, ok := phone.Key(*patch.PhoneNumber)
		if !ok {
			return domain.Invalid(domain.MsgInvalidPhone)
		}
		patch.PhoneNumber = &key
	}
	if err := u.optOuts.Update(ctx, repository.NoTX, id, patch); err != nil {
		return fmt.Errorf("update opt-out: %w", err)
	}
	return nil
}

func (u *listUC) DeleteOptOut(ctx context.Context, id string) error {
	if u.optOuts == nil {
		return domain.ErrNotConfigured
	}
	if err := u.optOuts.Delete(ctx, repository.NoTX, id); err != nil {
		return fmt.Errorf("delete opt-out: %w", err)
	}
	return nil
}

func (u *listUC) AllOptOuts(ctx context.Context) ([]*model.OptOut, error) {
	if u.optOuts == nil {
		return []*model.OptOut{}, nil
	}
	return u.optOuts.ListAll(ctx, repository.NoTX)
}

func (u *listUC) WarmLeads(ctx context.Context, page int) (*model.Page[*model.WarmLead], error) {
	if u.leads == nil {
		return &model.Page[*model.WarmLead]{Rows: []*model.WarmLead{}}, nil
	}
	offset, limit := model.PageBounds(page)
	rows, err := u.leads.List(ctx, repository.NoTX, offset, limit)
	if err != nil {
		u.log.Error().Err(err).Int("page", page).Msg("list warm leads")
		return nil, err
	}
	total, err := u.leads.Count(ctx, repository.NoTX)
	if err != nil {
		u.log.Error().Err(err).Msg("count warm leads")
		return nil, err
	}
	return &model.Page[*model.WarmLead]{Rows: rows, Total: total}, nil
}

func (u *listUC) UpdateWarmLead(ctx context.Context, id string, patch model.WarmLeadPatch) error {
	if u.leads == nil {
		return domain.ErrNotConfigured
	}
	if patch.Empty() {
		return nil
	}
	if patch.PhoneNumber != nil {
		key, ok := phone.Key(*patch.PhoneNumber)
		if !ok {
			return domain.Invalid(domain.MsgInvalidPhone)
		}
		patch.PhoneNumber = &key
	}
	if err := u.leads.Update(ctx, repository.NoTX, id, patch); err != nil {
		return fmt.Errorf("update warm lead: %w", err)
	}
	return nil
}

func (u *listUC) DeleteWarmLead(ctx context.Context, id string) error {
	if u.leads == nil {
		return domain.ErrNotConfigured
	}
	if err := u.leads.Delete(ctx, repository.NoTX, id); err != nil {
		return fmt.Errorf("delete warm lead: %w", err)
	}
	return nil
}

func (u *listUC) AllWarmLeads(ctx context.Context) ([]*model.WarmLead, error) {
	if u.leads == nil {
		return []*model.WarmLead{}, nil
	}
	return u.leads.ListAll(ctx, repository.NoTX)
}

// WarmLeadCounts counts replies since local midnight of now and in the
// seven days before now.
func (u *listUC) WarmLeadCounts(ctx context.Context, now time.Time) (model.WarmLeadCounts, error) {
	var out model.WarmLeadCounts
	if u.leads == nil {
		return out, nil
	}
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := u.leads.CountSince(ctx, repository.NoTX, midnight)
	if err != nil {
		return out, fmt.Errorf("count warm leads today: %w", err)
	}
	week, err := u.leads.CountSince(ctx, repository.NoTX, now.Add(-7*24*time.Hour))
	if err != nil {
		return out, fmt.Errorf("count warm leads this week: %w", err)
	}
	out.Today, out.ThisWeek = today, week
	return out, nil
}

// isNotConfigured is shared by use cases that degrade instead of failing.
func isNotConfigured(err error) bool { return errors.Is(err, domain.ErrNotConfigured) }
