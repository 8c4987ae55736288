package repository

import (
	"context"

	"tree-service-leads/internal/domain/model"
)

type ContactNoteRepository interface {
	Create(ctx context.Context, tx Tx, n *model.ContactNote) error
	UpdateNote(ctx context.Context, tx Tx, id, note string) error
	Delete(ctx context.Context, tx Tx, id string) error
	ListByPhone(ctx context.Context, tx Tx, key string) ([]*model.ContactNote, error)
}
