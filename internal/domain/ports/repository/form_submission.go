package repository

import (
	"context"

	"tree-service-leads/internal/domain/model"
)

type FormSubmissionRepository interface {
	Create(ctx context.Context, tx Tx, fs *model.FormSubmission) error
	Update(ctx context.Context, tx Tx, id string, patch model.FormSubmissionPatch) error
	Delete(ctx context.Context, tx Tx, id string) error
	ListAll(ctx context.Context, tx Tx) ([]*model.FormSubmission, error)
	// ListWithPhone returns the newest submissions that have a phone value.
	ListWithPhone(ctx context.Context, tx Tx, limit int) ([]*model.FormSubmission, error)
}
