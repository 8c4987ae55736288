package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"tree-service-leads/internal/domain/model"
	"tree-service-leads/internal/domain/ports/repository"
)

var _ repository.FormSubmissionRepository = (*formSubmissionRepo)(nil)

type formSubmissionRepo struct {
	pool *pgxpool.Pool
}

func NewFormSubmissionRepo(pool *pgxpool.Pool) *formSubmissionRepo {
	return &formSubmissionRepo{pool: pool}
}

const formSubmissionColumns = `id, name, phone, address, email, message, created_at`

func (r *formSubmissionRepo) Create(ctx context.Context, tx repository.Tx, fs *model.FormSubmission) error {
	const q = `
INSERT INTO form_submissions (id, name, phone, address, email, message, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7);`
	if _, err := execSQL(ctx, r.pool, tx, q,
		fs.ID, fs.Name, fs.Phone, fs.Address, fs.Email, fs.Message, fs.CreatedAt); err != nil {
		return fmt.Errorf("insert form submission: %w", err)
	}
	return nil
}

func (r *formSubmissionRepo) Update(ctx context.Context, tx repository.Tx, id string, p model.FormSubmissionPatch) error {
	sets := make([]string, 0, 5)
	args := []interface{}{id}
	for _, f := range []struct {
		col string
		v   model.NullableString
	}{
		{"name", p.Name},
		{"phone", p.Phone},
		{"address", p.Address},
		{"email", p.Email},
		{"message", p.Message},
	} {
		if !f.v.Set {
			continue
		}
		args = append(args, f.v.Value)
		sets = append(sets, fmt.Sprintf("%s = $%d", f.col, len(args)))
	}
	if len(sets) == 0 {
		return nil
	}
	q := `UPDATE form_submissions SET ` + strings.Join(sets, ", ") + ` WHERE id::text = $1;`
	return affectedOne(execSQL(ctx, r.pool, tx, q, args...))
}

func (r *formSubmissionRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	return affectedOne(execSQL(ctx, r.pool, tx, `DELETE FROM form_submissions WHERE id::text = $1;`, id))
}

func (r *formSubmissionRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.FormSubmission, error) {
	q := `SELECT ` + formSubmissionColumns + ` FROM form_submissions ORDER BY created_at DESC;`
	return r.query(ctx, tx, "list form submissions", q)
}

func (r *formSubmissionRepo) ListWithPhone(ctx context.Context, tx repository.Tx, limit int) ([]*model.FormSubmission, error) {
	q := `SELECT ` + formSubmissionColumns + `
  FROM form_submissions
 WHERE phone IS NOT NULL
 ORDER BY created_at DESC
 LIMIT $1;`
	return r.query(ctx, tx, "list form submissions with phone", q, limit)
}

func (r *formSubmissionRepo) query(ctx context.Context, tx repository.Tx, op, q string, args ...interface{}) ([]*model.FormSubmission, error) {
	rows, err := queryRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return collect(rows, op, func(rows pgx.Rows) (*model.FormSubmission, error) {
		var fs model.FormSubmission
		if err := rows.Scan(&fs.ID, &fs.Name, &fs.Phone, &fs.Address, &fs.Email, &fs.Message, &fs.CreatedAt); err != nil {
			return nil, err
		}
		return &fs, nil
	})
}
