package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"tree-service-leads/internal/domain/model"
	"tree-service-leads/internal/domain/ports/repository"
)

var _ repository.OptOutRepository = (*optOutRepo)(nil)

type optOutRepo struct {
	pool *pgxpool.Pool
}

func NewOptOutRepo(pool *pgxpool.Pool) *optOutRepo {
	return &optOutRepo{pool: pool}
}

func (r *optOutRepo) Create(ctx context.Context, tx repository.Tx, o *model.OptOut) error {
	const q = `INSERT INTO opt_outs (id, phone_number, date, source) VALUES ($1, $2, $3, $4);`
	if _, err := execSQL(ctx, r.pool, tx, q, o.ID, o.PhoneNumber, o.Date, o.Source); err != nil {
		return fmt.Errorf("insert opt-out: %w", err)
	}
	return nil
}

func (r *optOutRepo) Update(ctx context.Context, tx repository.Tx, id string, p model.OptOutPatch) error {
	const q = `
UPDATE opt_outs
   SET phone_number = COALESCE($2, phone_number),
       source       = COALESCE($3, source)
 WHERE id::text = $1;`
	return affectedOne(execSQL(ctx, r.pool, tx, q, id, p.PhoneNumber, p.Source))
}

func (r *optOutRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	return affectedOne(execSQL(ctx, r.pool, tx, `DELETE FROM opt_outs WHERE id::text = $1;`, id))
}

func (r *optOutRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.OptOut, error) {
	const q = `
SELECT id, phone_number, date, source
  FROM opt_outs
 ORDER BY date DESC
 OFFSET $1 LIMIT $2;`
	return r.query(ctx, tx, "list opt-outs", q, offset, limit)
}

func (r *optOutRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	var n int
	if err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM opt_outs;`).Scan(&n); err != nil {
		return 0, scanErr("count opt-outs", err)
	}
	return n, nil
}

func (r *optOutRepo) ListByPhone(ctx context.Context, tx repository.Tx, key string) ([]*model.OptOut, error) {
	const q = `
SELECT id, phone_number, date, source
  FROM opt_outs
 WHERE phone_number = $1
 ORDER BY date DESC;`
	return r.query(ctx, tx, "list opt-outs by phone", q, key)
}

func (r *optOutRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.OptOut, error) {
	const q = `SELECT id, phone_number, date, source FROM opt_outs ORDER BY date DESC;`
	return r.query(ctx, tx, "list all opt-outs", q)
}

func (r *optOutRepo) query(ctx context.Context, tx repository.Tx, op, q string, args ...interface{}) ([]*model.OptOut, error) {
	rows, err := queryRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return collect(rows, op, func(rows pgx.Rows) (*model.OptOut, error) {
		var o model.OptOut
		if err := rows.Scan(&o.ID, &o.PhoneNumber, &o.Date, &o.Source); err != nil {
			return nil, err
		}
		return &o, nil
	})
}
