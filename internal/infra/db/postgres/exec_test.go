//go:build !integration

package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v4"

	"tree-service-leads/internal/domain"
)

func TestGetExecutor(t *testing.T) {
	if _, err := getExecutor(nil, nil); !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("nil pool and tx: got %v", err)
	}
	if _, err := getExecutor(nil, "not a tx"); !errors.Is(err, domain.ErrInvalidExecContext) {
		t.Fatalf("foreign tx: got %v", err)
	}
}

func TestScanErr(t *testing.T) {
	if err := scanErr("op", pgx.ErrNoRows); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("no rows: got %v", err)
	}
	if err := scanErr("op", errors.New("bad column")); !errors.Is(err, domain.ErrReadDatabaseRow) {
		t.Fatalf("scan failure: got %v", err)
	}
	if err := scanErr("op", domain.ErrNotConfigured); !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("not configured: got %v", err)
	}
}

func TestReposWithoutPool(t *testing.T) {
	ctx := context.Background()
	if _, err := NewJobRepo(nil).FindByID(ctx, nil, "x"); !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("job repo: got %v", err)
	}
	if _, err := NewOptOutRepo(nil).Count(ctx, nil); !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("opt-out repo: got %v", err)
	}
	if err := NewTxManager(nil).WithTx(ctx, pgx.TxOptions{}, nil); !errors.Is(err, domain.ErrNotConfigured) {
		t.Fatalf("tx manager: got %v", err)
	}
}
