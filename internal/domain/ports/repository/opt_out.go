package repository

import (
	"context"

	"tree-service-leads/internal/domain/model"
)

type OptOutRepository interface {
	// Create always inserts; duplicates for a phone are expected.
	Create(ctx context.Context, tx Tx, o *model.OptOut) error
	Update(ctx context.Context, tx Tx, id string, patch model.OptOutPatch) error
	Delete(ctx context.Context, tx Tx, id string) error
	List(ctx context.Context, tx Tx, offset, limit int) ([]*model.OptOut, error)
	Count(ctx context.Context, tx Tx) (int, error)
	ListByPhone(ctx context.Context, tx Tx, key string) ([]*model.OptOut, error)
	// ListAll returns every row, newest first, for export.
	ListAll(ctx context.Context, tx Tx) ([]*model.OptOut, error)
}
