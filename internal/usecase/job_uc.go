package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"tree-service-leads/internal/domain"
	"tree-service-leads/internal/domain/model"
	"tree-service-leads/internal/domain/ports/repository"
	"tree-service-leads/internal/infra/logging"
	"tree-service-leads/internal/infra/metrics"
)

// Compile-time check
var _ JobUseCase = (*jobUC)(nil)

// JobUseCase enqueues work for the external worker and reads it back.
type JobUseCase interface {
	// Create merges fields over the ambient campaign settings, validates the
	// result and inserts one pending job.
	Create(ctx context.Context, action model.JobAction, fields map[string]any) (*model.Job, error)
	Get(ctx context.Context, id string) (*model.Job, error)
	List(ctx context.Context) ([]*model.Job, error)
}

type jobUC struct {
	jobs            repository.JobRepository
	cfg             repository.AppConfigRepository
	validator       *payloadValidator
	dailyBatchLimit int
	listLimit       int

	log *zerolog.Logger
}

// NewJobUseCase accepts nil repositories for a service without a datastore.
func NewJobUseCase(jobs repository.JobRepository, cfg repository.AppConfigRepository, dailyBatchLimit, listLimit int, logger *zerolog.Logger) (*jobUC, error) {
	v, err := newPayloadValidator()
	if err != nil {
		return nil, err
	}
	if listLimit <= 0 {
		listLimit = model.PageSize
	}
	return &jobUC{
		jobs:            jobs,
		cfg:             cfg,
		validator:       v,
		dailyBatchLimit: dailyBatchLimit,
		listLimit:       listLimit,
		log:             logging.Component(logger, "job_uc"),
	}, nil
}

func (u *jobUC) Create(ctx context.Context, action model.JobAction, fields map[string]any) (*model.Job, error) {
	defer logging.TraceDuration(u.log, "JobUC.Create")()

	if u.jobs == nil {
		metrics.IncJobCreateFailure("not_configured")
		return nil, domain.ErrNotConfigured
	}
	if _, err := model.ParseJobAction(string(action)); err != nil {
		metrics.IncJobCreateFailure("validation")
		return nil, err
	}

	settings := u.settings(ctx)
	payload, err := mergePayload(action, settings.Payload(u.dailyBatchLimit), fields)
	if err != nil {
		metrics.IncJobCreateFailure("validation")
		return nil, err
	}
	if err := u.validator.Validate(action, payload); err != nil {
		metrics.IncJobCreateFailure("validation")
		u.log.Debug().Err(err).Str("action", string(action)).Msg("job payload rejected")
		return nil, err
	}

	job, err := model.NewJob(action, payload)
	if err != nil {
		metrics.IncJobCreateFailure("validation")
		return nil, err
	}
	if err := u.jobs.Create(ctx, repository.NoTX, job); err != nil {
		metrics.IncJobCreateFailure("datastore")
		logging.With(ctx, u.log).Error().Err(err).Str("action", string(action)).Msg("insert job")
		return nil, fmt.Errorf("create job: %w", err)
	}

	metrics.IncJobCreated(string(action))
	logging.With(logging.WithJobID(ctx, job.ID), u.log).Info().Str("action", string(action)).Msg("job enqueued")
	return job, nil
}

func (u *jobUC) Get(ctx context.Context, id string) (*model.Job, error) {
	if u.jobs == nil {
		return nil, domain.ErrNotConfigured
	}
	return u.jobs.FindByID(ctx, repository.NoTX, id)
}

func (u *jobUC) List(ctx context.Context) ([]*model.Job, error) {
	if u.jobs == nil {
		return []*model.Job{}, nil
	}
	jobs, err := u.jobs.ListRecent(ctx, repository.NoTX, u.listLimit)
	if err != nil {
		u.log.Error().Err(err).Msg("list jobs")
		return nil, err
	}
	return jobs, nil
}

// settings falls back to defaults when the row is missing or unreadable.
func (u *jobUC) settings(ctx context.Context) model.CampaignSettings {
	if u.cfg == nil {
		return model.DefaultCampaignSettings()
	}
	c, err := u.cfg.Get(ctx, repository.NoTX)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			u.log.Warn().Err(err).Msg("load app config for job payload")
		}
		return model.DefaultCampaignSettings()
	}
	return c.Effective()
}
