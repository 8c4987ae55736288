package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"tree-service-leads/internal/domain"
	"tree-service-leads/internal/domain/model"
	"tree-service-leads/internal/domain/phone"
	"tree-service-leads/internal/domain/ports/repository"
	"tree-service-leads/internal/infra/logging"
)

// Compile-time check
var _ ContactUseCase = (*contactUC)(nil)

// ContactUseCase aggregates everything known about one phone key and manages
// staff notes on it.
type ContactUseCase interface {
	Get(ctx context.Context, rawPhone string) (*model.Contact, error)
	ListNotes(ctx context.Context, rawPhone string) ([]*model.ContactNote, error)
	AddNote(ctx context.Context, rawPhone, note string) (*model.ContactNote, error)
	UpdateNote(ctx context.Context, id, note string) error
	DeleteNote(ctx context.Context, id string) error
}

type contactUC struct {
	optOuts repository.OptOutRepository
	leads   repository.WarmLeadRepository
	subs    repository.FormSubmissionRepository
	notes   repository.ContactNoteRepository

	log *zerolog.Logger
}

func NewContactUseCase(optOuts repository.OptOutRepository, leads repository.WarmLeadRepository, subs repository.FormSubmissionRepository, notes repository.ContactNoteRepository, logger *zerolog.Logger) *contactUC {
	return &contactUC{
		optOuts: optOuts,
		leads:   leads,
		subs:    subs,
		notes:   notes,
		log:     logging.Component(logger, "contact_uc"),
	}
}

func (u *contactUC) configured() bool {
	return u.optOuts != nil && u.leads != nil && u.subs != nil && u.notes != nil
}

func (u *contactUC) Get(ctx context.Context, rawPhone string) (*model.Contact, error) {
	defer logging.TraceDuration(u.log, "ContactUC.Get")()

	key, ok := phone.Key(rawPhone)
	if !ok {
		return nil, domain.Invalid(domain.MsgInvalidPhone)
	}
	if !u.configured() {
		return model.BuildContact(key, nil, nil, nil, nil), nil
	}

	var (
		optOuts []*model.OptOut
		leads   []*model.WarmLead
		subs    []*model.FormSubmission
		notes   []*model.ContactNote
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() (err error) {
		optOuts, err = u.optOuts.ListByPhone(egCtx, repository.NoTX, key)
		return err
	})
	eg.Go(func() (err error) {
		leads, err = u.leads.ListByPhone(egCtx, repository.NoTX, key)
		return err
	})
	eg.Go(func() (err error) {
		subs, err = u.subs.ListWithPhone(egCtx, repository.NoTX, model.FormSubmissionScanLimit)
		return err
	})
	eg.Go(func() (err error) {
		notes, err = u.notes.ListByPhone(egCtx, repository.NoTX, key)
		return err
	})
	if err := eg.Wait(); err != nil {
		u.log.Error().Err(err).Msg("load contact")
		return nil, fmt.Errorf("load contact: %w", err)
	}
	return model.BuildContact(key, optOuts, leads, subs, notes), nil
}

func (u *contactUC) ListNotes(ctx context.Context, rawPhone string) ([]*model.ContactNote, error) {
	key, ok := phone.Key(rawPhone)
	if !ok {
		return nil, domain.Invalid(domain.MsgInvalidPhone)
	}
	if u.notes == nil {
		return []*model.ContactNote{}, nil
	}
	return u.notes.ListByPhone(ctx, repository.NoTX, key)
}

func (u *contactUC) AddNote(ctx context.Context, rawPhone, note string) (*model.ContactNote, error) {
	if u.notes == nil {
		return nil, domain.ErrNotConfigured
	}
	n, err := model.NewContactNote(rawPhone, note)
	if err != nil {
		return nil, err
	}
	if err := u.notes.Create(ctx, repository.NoTX, n); err != nil {
		return nil, fmt.Errorf("add note: %w", err)
	}
	return n, nil
}

func (u *contactUC) UpdateNote(ctx context.Context, id, note string) error {
	if u.notes == nil {
		return domain.ErrNotConfigured
	}
	text, err := model.CleanNote(note)
	if err != nil {
		return err
	}
	if err := u.notes.UpdateNote(ctx, repository.NoTX, id, text); err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	return nil
}

func (u *contactUC) DeleteNote(ctx context.Context, id string) error {
	if u.notes == nil {
		return domain.ErrNotConfigured
	}
	if err := u.notes.Delete(ctx, repository.NoTX, id); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}
