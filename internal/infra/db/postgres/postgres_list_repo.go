package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"tree-service-leads/internal/domain/model"
	"tree-service-leads/internal/domain/ports/repository"
)

var _ repository.ListRepository = (*listRepo)(nil)

// listRepo reads tables that only the worker writes.
type listRepo struct {
	pool *pgxpool.Pool
}

func NewListRepo(pool *pgxpool.Pool) *listRepo {
	return &listRepo{pool: pool}
}

func (r *listRepo) ListMetadata(ctx context.Context, tx repository.Tx) ([]*model.ListMetadata, error) {
	const q = `
SELECT id, name, list_type, source, source_identifier, row_count, last_updated_at, updated_by_job_id
  FROM list_metadata
 ORDER BY list_type;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, fmt.Errorf("list metadata: %w", err)
	}
	return collect(rows, "list metadata", func(rows pgx.Rows) (*model.ListMetadata, error) {
		var m model.ListMetadata
		if err := rows.Scan(&m.ID, &m.Name, &m.ListType, &m.Source, &m.SourceIdentifier,
			&m.RowCount, &m.LastUpdatedAt, &m.UpdatedByJobID); err != nil {
			return nil, err
		}
		return &m, nil
	})
}

func (r *listRepo) GetPreview(ctx context.Context, tx repository.Tx, listID string) (*model.ListPreview, error) {
	const q = `SELECT list_id, rows, updated_at FROM list_preview WHERE list_id = $1;`
	var (
		p    model.ListPreview
		data []byte
	)
	if err := pickRow(ctx, r.pool, tx, q, listID).Scan(&p.ListID, &data, &p.UpdatedAt); err != nil {
		return nil, scanErr("get list preview", err)
	}
	p.Rows = data
	return &p, nil
}

func (r *listRepo) ListSmsCellRows(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.SmsCellListRow, error) {
	const q = `
SELECT id, phone_number, full_name, address, source_address, lead_type, resident_type, created_at
  FROM sms_cell_list_rows
 ORDER BY created_at DESC
 OFFSET $1 LIMIT $2;`
	rows, err := queryRows(ctx, r.pool, tx, q, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list sms rows: %w", err)
	}
	return collect(rows, "list sms rows", func(rows pgx.Rows) (*model.SmsCellListRow, error) {
		var s model.SmsCellListRow
		if err := rows.Scan(&s.ID, &s.PhoneNumber, &s.FullName, &s.Address, &s.SourceAddress,
			&s.LeadType, &s.ResidentType, &s.CreatedAt); err != nil {
			return nil, err
		}
		return &s, nil
	})
}

func (r *listRepo) CountSmsCellRows(ctx context.Context, tx repository.Tx) (int, error) {
	var n int
	if err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM sms_cell_list_rows;`).Scan(&n); err != nil {
		return 0, scanErr("count sms rows", err)
	}
	return n, nil
}
