package repository

import (
	"context"

	"tree-service-leads/internal/domain/model"
)

// ListRepository reads the worker-produced list tables.
type ListRepository interface {
	ListMetadata(ctx context.Context, tx Tx) ([]*model.ListMetadata, error)
	GetPreview(ctx context.Context, tx Tx, listID string) (*model.ListPreview, error)
	ListSmsCellRows(ctx context.Context, tx Tx, offset, limit int) ([]*model.SmsCellListRow, error)
	CountSmsCellRows(ctx context.Context, tx Tx) (int, error)
}
