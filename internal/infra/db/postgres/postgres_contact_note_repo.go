package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"tree-service-leads/internal/domain/model"
	"tree-service-leads/internal/domain/ports/repository"
)

var _ repository.ContactNoteRepository = (*contactNoteRepo)(nil)

type contactNoteRepo struct {
	pool *pgxpool.Pool
}

func NewContactNoteRepo(pool *pgxpool.Pool) *contactNoteRepo {
	return &contactNoteRepo{pool: pool}
}

func (r *contactNoteRepo) Create(ctx context.Context, tx repository.Tx, n *model.ContactNote) error {
	const q = `INSERT INTO contact_notes (id, phone_number, note, created_at) VALUES ($1, $2, $3, $4);`
	if _, err := execSQL(ctx, r.pool, tx, q, n.ID, n.PhoneNumber, n.Note, n.CreatedAt); err != nil {
		return fmt.Errorf("insert contact note: %w", err)
	}
	return nil
}

func (r *contactNoteRepo) UpdateNote(ctx context.Context, tx repository.Tx, id, note string) error {
	return affectedOne(execSQL(ctx, r.pool, tx, `UPDATE contact_notes SET note = $2 WHERE id::text = $1;`, id, note))
}

func (r *contactNoteRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	return affectedOne(execSQL(ctx, r.pool, tx, `DELETE FROM contact_notes WHERE id::text = $1;`, id))
}

func (r *contactNoteRepo) ListByPhone(ctx context.Context, tx repository.Tx, key string) ([]*model.ContactNote, error) {
	const q = `
SELECT id, phone_number, note, created_at
  FROM contact_notes
 WHERE phone_number = $1
 ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, key)
	if err != nil {
		return nil, fmt.Errorf("list contact notes: %w", err)
	}
	return collect(rows, "list contact notes", func(rows pgx.Rows) (*model.ContactNote, error) {
		var n model.ContactNote
		if err := rows.Scan(&n.ID, &n.PhoneNumber, &n.Note, &n.CreatedAt); err != nil {
			return nil, err
		}
		return &n, nil
	})
}
