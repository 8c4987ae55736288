package repository

import (
	"context"
	"time"

	"tree-service-leads/internal/domain/model"
)

type WarmLeadRepository interface {
	// CreateIfAbsent inserts unless a lead with the same phone exists and
	// reports whether a row was written.
	CreateIfAbsent(ctx context.Context, tx Tx, wl *model.WarmLead) (bool, error)
	Update(ctx context.Context, tx Tx, id string, patch model.WarmLeadPatch) error
	Delete(ctx context.Context, tx Tx, id string) error
	List(ctx context.Context, tx Tx, offset, limit int) ([]*model.WarmLead, error)
	Count(ctx context.Context, tx Tx) (int, error)
	CountSince(ctx context.Context, tx Tx, since time.Time) (int, error)
	ListByPhone(ctx context.Context, tx Tx, key string) ([]*model.WarmLead, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.WarmLead, error)
}
