package database

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"

	"github.com/ghuser/catalog/pkg/logger"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set; skipping database integration test")
	}
	d, err := NewPool(context.Background(), url, logger.Nop())
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestNewPool_InvalidURL(t *testing.T) {
	_, err := NewPool(context.Background(), "postgres://nobody@127.0.0.1:1/none?connect_timeout=1", logger.Nop())
	if err == nil {
		t.Fatal("expected an error for an unreachable database")
	}
}

func TestWithTx_CommitAndRollback(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()

	if _, err := d.DB().ExecContext(ctx, `CREATE TEMP TABLE tx_probe (id int PRIMARY KEY)`); err != nil {
		t.Fatalf("create table: %v", err)
	}
	// Temp tables are per-connection; pin the pool to one.
	d.DB().SetMaxOpenConns(1)

	if err := d.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO tx_probe (id) VALUES (1)`)
		return err
	}); err != nil {
		t.Fatalf("commit path: %v", err)
	}

	boom := errors.New("boom")
	err := d.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO tx_probe (id) VALUES (2)`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	var n int
	if err := d.DB().QueryRowContext(ctx, `SELECT count(*) FROM tx_probe`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 committed row, got %d", n)
	}
}

func TestPing(t *testing.T) {
	d := openTestDB(t)
	if err := d.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
