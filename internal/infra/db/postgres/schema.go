package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ErrSchemaOutdated means the warm-lead unique index that CreateIfAbsent
// relies on is missing.
var ErrSchemaOutdated = errors.New("schema outdated: warm_leads_phone_number_key is missing")

const uniqueViolation = "23505"

// schemaSQL is safe to run on every start.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS jobs (
  id          UUID PRIMARY KEY,
  action      TEXT NOT NULL,
  payload     JSONB NOT NULL DEFAULT '{}'::jsonb,
  status      TEXT NOT NULL DEFAULT 'pending',
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  started_at  TIMESTAMPTZ NULL,
  finished_at TIMESTAMPTZ NULL,
  log         TEXT NULL,
  error       TEXT NULL
);
CREATE INDEX IF NOT EXISTS jobs_created_at_idx ON jobs (created_at DESC);
CREATE INDEX IF NOT EXISTS jobs_status_idx ON jobs (status);

CREATE TABLE IF NOT EXISTS opt_outs (
  id           UUID PRIMARY KEY,
  phone_number TEXT NOT NULL,
  date         TIMESTAMPTZ NOT NULL DEFAULT now(),
  source       TEXT NOT NULL DEFAULT 'Manual'
);
CREATE INDEX IF NOT EXISTS opt_outs_phone_number_idx ON opt_outs (phone_number);

CREATE TABLE IF NOT EXISTS warm_leads (
  id               UUID PRIMARY KEY,
  phone_number     TEXT NOT NULL,
  full_name        TEXT NULL,
  address          TEXT NULL,
  first_reply_text TEXT NULL,
  reply_time       TIMESTAMPTZ NOT NULL DEFAULT now(),
  source_campaign  TEXT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS warm_leads_phone_number_key ON warm_leads (phone_number);

CREATE TABLE IF NOT EXISTS form_submissions (
  id         UUID PRIMARY KEY,
  name       TEXT NULL,
  phone      TEXT NULL,
  address    TEXT NULL,
  email      TEXT NULL,
  message    TEXT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS form_submissions_created_at_idx ON form_submissions (created_at DESC);

CREATE TABLE IF NOT EXISTS contact_notes (
  id           UUID PRIMARY KEY,
  phone_number TEXT NOT NULL,
  note         TEXT NOT NULL,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS contact_notes_phone_number_idx ON contact_notes (phone_number);

CREATE TABLE IF NOT EXISTS app_config (
  id                         TEXT PRIMARY KEY,
  company_name               TEXT NULL,
  message_template           TEXT NULL,
  sms_delay_sec              INTEGER NULL,
  include_unknown_phone_type BOOLEAN NULL,
  addresses_csv_name         TEXT NULL,
  updated_at                 TIMESTAMPTZ NULL
);

CREATE TABLE IF NOT EXISTS list_metadata (
  id                TEXT PRIMARY KEY,
  name              TEXT NOT NULL,
  list_type         TEXT NOT NULL,
  source            TEXT NOT NULL,
  source_identifier TEXT NULL,
  row_count         INTEGER NULL,
  last_updated_at   TIMESTAMPTZ NULL,
  updated_by_job_id TEXT NULL
);

CREATE TABLE IF NOT EXISTS list_preview (
  list_id    TEXT PRIMARY KEY,
  rows       JSONB NOT NULL DEFAULT '[]'::jsonb,
  updated_at TIMESTAMPTZ NULL
);

CREATE TABLE IF NOT EXISTS sms_cell_list_rows (
  id             UUID PRIMARY KEY,
  phone_number   TEXT NOT NULL,
  full_name      TEXT NULL,
  address        TEXT NULL,
  source_address TEXT NULL,
  lead_type      TEXT NULL,
  resident_type  TEXT NULL,
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS sms_cell_list_rows_created_at_idx ON sms_cell_list_rows (created_at DESC);
`

// AutoMigrate applies the schema on startup. Building the warm-lead unique
// index fails while duplicate phone rows exist; they must be merged first.
func AutoMigrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("auto migrate: warm_leads has duplicate phone_number rows, merge them first: %w", err)
		}
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// CheckSchema verifies an existing schema when auto migration is off.
func CheckSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const idx = `
SELECT EXISTS (
  SELECT 1 FROM pg_indexes
  WHERE tablename = 'warm_leads' AND indexname = 'warm_leads_phone_number_key'
);`
	var ok bool
	if err := pool.QueryRow(ctx, idx).Scan(&ok); err != nil {
		return fmt.Errorf("check schema: %w", err)
	}
	if ok {
		return nil
	}

	const dups = `
SELECT COUNT(*) FROM (
  SELECT phone_number FROM warm_leads GROUP BY phone_number HAVING COUNT(*) > 1
) d;`
	var n int
	if err := pool.QueryRow(ctx, dups).Scan(&n); err != nil {
		return fmt.Errorf("%w (warm_leads unreadable: %v)", ErrSchemaOutdated, err)
	}
	if n > 0 {
		return fmt.Errorf("%w; %d phone numbers have duplicate rows to merge before migrating", ErrSchemaOutdated, n)
	}
	return fmt.Errorf("%w; run cmd/seed or set database.auto_migrate", ErrSchemaOutdated)
}
