package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"tree-service-leads/internal/domain"
	"tree-service-leads/internal/domain/model"
	"tree-service-leads/internal/domain/ports/repository"
	"tree-service-leads/internal/infra/logging"
	"tree-service-leads/internal/infra/metrics"
)

// Compile-time check
var _ SubmissionUseCase = (*submissionUC)(nil)

type SubmissionUseCase interface {
	Submit(ctx context.Context, in model.FormInput) (*model.FormSubmission, error)
	List(ctx context.Context) ([]*model.FormSubmission, error)
	Update(ctx context.Context, id string, patch model.FormSubmissionPatch) error
	Delete(ctx context.Context, id string) error
}

type submissionUC struct {
	repo repository.FormSubmissionRepository

	log *zerolog.Logger
}

func NewSubmissionUseCase(repo repository.FormSubmissionRepository, logger *zerolog.Logger) *submissionUC {
	return &submissionUC{repo: repo, log: logging.Component(logger, "submission_uc")}
}

// Submit stores a public form entry. Without a datastore the error matches
// both domain.ErrNotConfigured and domain.ErrInvalidArgument.
func (u *submissionUC) Submit(ctx context.Context, in model.FormInput) (*model.FormSubmission, error) {
	if u.repo == nil {
		metrics.IncFormSubmission("unavailable")
		return nil, &domain.ValidationError{Message: domain.MsgFormUnavailable, Cause: domain.ErrNotConfigured}
	}
	fs, err := model.NewFormSubmission(in)
	if err != nil {
		metrics.IncFormSubmission("invalid")
		return nil, err
	}
	if err := u.repo.Create(ctx, repository.NoTX, fs); err != nil {
		metrics.IncFormSubmission("error")
		logging.With(ctx, u.log).Error().Err(err).Msg("store form submission")
		return nil, fmt.Errorf("submit form: %w", err)
	}
	metrics.IncFormSubmission("ok")
	return fs, nil
}

func (u *submissionUC) List(ctx context.Context) ([]*model.FormSubmission, error) {
	if u.repo == nil {
		return []*model.FormSubmission{}, nil
	}
	rows, err := u.repo.ListAll(ctx, repository.NoTX)
	if err != nil {
		u.log.Error().Err(err).Msg("list form submissions")
		return nil, err
	}
	return rows, nil
}

func (u *submissionUC) Update(ctx context.Context, id string, patch model.FormSubmissionPatch) error {
	if u.repo == nil {
		return domain.ErrNotConfigured
	}
	if patch.Empty() {
		return nil
	}
	trimPatch(&patch.Name)
	trimPatch(&patch.Phone)
	trimPatch(&patch.Address)
	trimPatch(&patch.Email)
	trimPatch(&patch.Message)
	if err := u.repo.Update(ctx, repository.NoTX, id, patch); err != nil {
		return fmt.Errorf("update form submission: %w", err)
	}
	return nil
}

func (u *submissionUC) Delete(ctx context.Context, id string) error {
	if u.repo == nil {
		return domain.ErrNotConfigured
	}
	if err := u.repo.Delete(ctx, repository.NoTX, id); err != nil {
		return fmt.Errorf("delete form submission: %w", err)
	}
	return nil
}

// trimPatch stores blank strings as NULL, like Submit does.
func trimPatch(f *model.NullableString) {
	if f.Set && f.Value != nil {
		f.Value = model.TrimmedOrNil(*f.Value)
	}
}
