package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"tree-service-leads/internal/domain"
	"tree-service-leads/internal/domain/model"
	"tree-service-leads/internal/domain/ports/repository"
	"tree-service-leads/internal/infra/logging"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

// Dashboard is the summary card shown on the admin home page.
type Dashboard struct {
	Connected   bool                 `json:"connected"`
	CompanyName string               `json:"company_name"`
	PendingJobs int                  `json:"pending_jobs"`
	WarmLeads   model.WarmLeadCounts `json:"warm_leads"`
}

type StatsUseCase interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
}

type statsUC struct {
	cfg   repository.AppConfigRepository
	jobs  JobUseCase
	lists ListUseCase
	now   func() time.Time

	log *zerolog.Logger
}

func NewStatsUseCase(cfg repository.AppConfigRepository, jobs JobUseCase, lists ListUseCase, logger *zerolog.Logger) *statsUC {
	return &statsUC{cfg: cfg, jobs: jobs, lists: lists, now: time.Now, log: logging.Component(logger, "stats_uc")}
}

// Dashboard never fails on a missing datastore; Connected reports it.
func (s *statsUC) Dashboard(ctx context.Context) (*Dashboard, error) {
	d := &Dashboard{CompanyName: model.DefaultCompanyName}
	if s.cfg == nil {
		return d, nil
	}

	c, err := s.cfg.Get(ctx, repository.NoTX)
	switch {
	case err == nil:
		d.Connected = true
		d.CompanyName = c.Effective().CompanyName
	case errors.Is(err, domain.ErrNotFound):
		d.Connected = true
	case isNotConfigured(err):
		return d, nil
	default:
		s.log.Warn().Err(err).Msg("dashboard config read")
		return d, nil
	}

	jobs, err := s.jobs.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, j := range jobs {
		if j.Status == model.JobStatusPending {
			d.PendingJobs++
		}
	}

	counts, err := s.lists.WarmLeadCounts(ctx, s.now())
	if err != nil {
		return nil, err
	}
	d.WarmLeads = counts
	return d, nil
}
