package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"tree-service-leads/internal/domain/model"
	"tree-service-leads/internal/domain/ports/repository"
)

var _ repository.WarmLeadRepository = (*warmLeadRepo)(nil)

type warmLeadRepo struct {
	pool *pgxpool.Pool
}

func NewWarmLeadRepo(pool *pgxpool.Pool) *warmLeadRepo {
	return &warmLeadRepo{pool: pool}
}

const warmLeadColumns = `id, phone_number, full_name, address, first_reply_text, reply_time, source_campaign`

// CreateIfAbsent relies on warm_leads_phone_number_key; a concurrent duplicate
// is a no-op rather than an error.
func (r *warmLeadRepo) CreateIfAbsent(ctx context.Context, tx repository.Tx, wl *model.WarmLead) (bool, error) {
	const q = `
INSERT INTO warm_leads (id, phone_number, full_name, address, first_reply_text, reply_time, source_campaign)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (phone_number) DO NOTHING;`
	tag, err := execSQL(ctx, r.pool, tx, q,
		wl.ID, wl.PhoneNumber, wl.FullName, wl.Address, wl.FirstReplyText, wl.ReplyTime, wl.SourceCampaign)
	if err != nil {
		return false, fmt.Errorf("insert warm lead: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *warmLeadRepo) Update(ctx context.Context, tx repository.Tx, id string, p model.WarmLeadPatch) error {
	sets := make([]string, 0, 5)
	args := []interface{}{id}
	add := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if p.PhoneNumber != nil {
		add("phone_number", *p.PhoneNumber)
	}
	if p.FullName.Set {
		add("full_name", p.FullName.Value)
	}
	if p.Address.Set {
		add("address", p.Address.Value)
	}
	if p.FirstReplyText.Set {
		add("first_reply_text", p.FirstReplyText.Value)
	}
	if p.SourceCampaign.Set {
		add("source_campaign", p.SourceCampaign.Value)
	}
	if len(sets) == 0 {
		return nil
	}
	q := `UPDATE warm_leads SET ` + strings.Join(sets, ", ") + ` WHERE id::text = $1;`
	return affectedOne(execSQL(ctx, r.pool, tx, q, args...))
}

func (r *warmLeadRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	return affectedOne(execSQL(ctx, r.pool, tx, `DELETE FROM warm_leads WHERE id::text = $1;`, id))
}

func (r *warmLeadRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.WarmLead, error) {
	q := `SELECT ` + warmLeadColumns + ` FROM warm_leads ORDER BY reply_time DESC OFFSET $1 LIMIT $2;`
	return r.query(ctx, tx, "list warm leads", q, offset, limit)
}

func (r *warmLeadRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	var n int
	if err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM warm_leads;`).Scan(&n); err != nil {
		return 0, scanErr("count warm leads", err)
	}
	return n, nil
}

func (r *warmLeadRepo) CountSince(ctx context.Context, tx repository.Tx, since time.Time) (int, error) {
	var n int
	if err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM warm_leads WHERE reply_time >= $1;`, since).Scan(&n); err != nil {
		return 0, scanErr("count warm leads since", err)
	}
	return n, nil
}

func (r *warmLeadRepo) ListByPhone(ctx context.Context, tx repository.Tx, key string) ([]*model.WarmLead, error) {
	q := `SELECT ` + warmLeadColumns + ` FROM warm_leads WHERE phone_number = $1 ORDER BY reply_time DESC;`
	return r.query(ctx, tx, "list warm leads by phone", q, key)
}

func (r *warmLeadRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.WarmLead, error) {
	q := `SELECT ` + warmLeadColumns + ` FROM warm_leads ORDER BY reply_time DESC;`
	return r.query(ctx, tx, "list all warm leads", q)
}

func (r *warmLeadRepo) query(ctx context.Context, tx repository.Tx, op, q string, args ...interface{}) ([]*model.WarmLead, error) {
	rows, err := queryRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return collect(rows, op, func(rows pgx.Rows) (*model.WarmLead, error) {
		var wl model.WarmLead
		if err := rows.Scan(&wl.ID, &wl.PhoneNumber, &wl.FullName, &wl.Address,
			&wl.FirstReplyText, &wl.ReplyTime, &wl.SourceCampaign); err != nil {
			return nil, err
		}
		return &wl, nil
	})
}
