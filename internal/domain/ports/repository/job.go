package repository

import (
	"context"

	"tree-service-leads/internal/domain/model"
)

// JobRepository only inserts and reads; status columns belong to the worker.
type JobRepository interface {
	Create(ctx context.Context, tx Tx, job *model.Job) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Job, error)
	ListRecent(ctx context.Context, tx Tx, limit int) ([]*model.Job, error)
}
