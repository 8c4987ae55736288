package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"tree-service-leads/internal/domain/model"
	"tree-service-leads/internal/domain/ports/repository"
)

var _ repository.JobRepository = (*jobRepo)(nil)

type jobRepo struct {
	pool *pgxpool.Pool
}

func NewJobRepo(pool *pgxpool.Pool) *jobRepo {
	return &jobRepo{pool: pool}
}

const jobColumns = `id, action, payload, status, created_at, started_at, finished_at, COALESCE(log, ''), COALESCE(error, '')`

func (r *jobRepo) Create(ctx context.Context, tx repository.Tx, job *model.Job) error {
	payload, err := json.Marshal(job.Payload)
	if err != nil {
		return fmt.Errorf("encode job payload: %w", err)
	}
	const q = `
INSERT INTO jobs (id, action, payload, status, created_at)
VALUES ($1, $2, $3, $4, $5);`
	if _, err := execSQL(ctx, r.pool, tx, q, job.ID, string(job.Action), payload, string(job.Status), job.CreatedAt); err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (r *jobRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Job, error) {
	q := `SELECT ` + jobColumns + ` FROM jobs WHERE id::text = $1;`
	j, err := scanJob(pickRow(ctx, r.pool, tx, q, id))
	if err != nil {
		return nil, scanErr("find job", err)
	}
	return j, nil
}

func (r *jobRepo) ListRecent(ctx context.Context, tx repository.Tx, limit int) ([]*model.Job, error) {
	q := `SELECT ` + jobColumns + ` FROM jobs ORDER BY created_at DESC LIMIT $1;`
	rows, err := queryRows(ctx, r.pool, tx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return collect(rows, "list jobs", func(rows pgx.Rows) (*model.Job, error) { return scanJob(rows) })
}

func scanJob(row pgx.Row) (*model.Job, error) {
	var (
		j       model.Job
		action  string
		status  string
		payload []byte
	)
	if err := row.Scan(&j.ID, &action, &payload, &status, &j.CreatedAt, &j.StartedAt, &j.FinishedAt, &j.Log, &j.Error); err != nil {
		return nil, err
	}
	j.Action = model.JobAction(action)
	j.Status = model.JobStatus(status)
	j.Payload = map[string]any{}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &j.Payload); err != nil {
			return nil, fmt.Errorf("decode job payload: %w", err)
		}
	}
	return &j, nil
}
