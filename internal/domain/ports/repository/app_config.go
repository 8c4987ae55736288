package repository

import (
	"context"

	"tree-service-leads/internal/domain/model"
)

type AppConfigRepository interface {
	// Get returns domain.ErrNotFound when the singleton row is absent.
	Get(ctx context.Context, tx Tx) (*model.AppConfig, error)
	Upsert(ctx context.Context, tx Tx, cfg *model.AppConfig) error
}
