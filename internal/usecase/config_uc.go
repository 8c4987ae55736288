package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"tree-service-leads/internal/domain"
	"tree-service-leads/internal/domain/model"
	"tree-service-leads/internal/domain/ports/repository"
	"tree-service-leads/internal/infra/logging"
)

// Compile-time check
var _ ConfigUseCase = (*configUC)(nil)

// ConfigUseCase reads and saves the singleton campaign settings.
type ConfigUseCase interface {
	Get(ctx context.Context) (*model.AppConfig, error)
	Effective(ctx context.Context) model.CampaignSettings
	Save(ctx context.Context, form model.AppConfigForm) (*model.AppConfig, error)
}

type configUC struct {
	repo repository.AppConfigRepository
	now  func() time.Time

	log *zerolog.Logger
}

func NewConfigUseCase(repo repository.AppConfigRepository, logger *zerolog.Logger) *configUC {
	return &configUC{repo: repo, now: time.Now, log: logging.Component(logger, "config_uc")}
}

func (u *configUC) Get(ctx context.Context) (*model.AppConfig, error) {
	if u.repo == nil {
		return nil, domain.ErrNotConfigured
	}
	return u.repo.Get(ctx, repository.NoTX)
}

func (u *configUC) Effective(ctx context.Context) model.CampaignSettings {
	c, err := u.Get(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrNotConfigured) {
			u.log.Warn().Err(err).Msg("load app config")
		}
		return model.DefaultCampaignSettings()
	}
	return c.Effective()
}

func (u *configUC) Save(ctx context.Context, form model.AppConfigForm) (*model.AppConfig, error) {
	if u.repo == nil {
		return nil, domain.ErrNotConfigured
	}
	c, err := model.NewAppConfig(form, u.now())
	if err != nil {
		return nil, err
	}
	if err := u.repo.Upsert(ctx, repository.NoTX, c); err != nil {
		return nil, fmt.Errorf("save app config: %w", err)
	}
	logging.With(ctx, u.log).Info().Str("company_name", *c.CompanyName).Msg("app config saved")
	return c, nil
}
