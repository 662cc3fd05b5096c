package storage

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"storefront/internal/migrate"
)

func TestPostgres_GetSet(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE storage_entries`); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	p := NewPostgres(pool)
	if _, err := p.Get(ctx, "session:1:cart"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := p.Set(ctx, "session:1:cart", `[{"productId":"1","name":"Test","price":100,"quantity":1}]`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := p.Set(ctx, "session:1:cart", `[]`); err != nil {
		t.Fatalf("Set upsert: %v", err)
	}
	got, err := p.Get(ctx, "session:1:cart")
	if err != nil || got != `[]` {
		t.Fatalf("unexpected value %q err=%v", got, err)
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func TestPostgres_WrapsDriverErrors(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	// Nothing listens on port 1, so every query fails without a database.
	pool, err := pgxpool.New(ctx, "postgres://storefront@127.0.0.1:1/storefront?sslmode=disable&connect_timeout=1")
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	defer pool.Close()

	p := NewPostgres(pool)
	_, err = p.Get(ctx, "session:1:cart")
	if err == nil || errors.Is(err, ErrNotFound) || !strings.Contains(err.Error(), "postgres get session:1:cart") {
		t.Fatalf("expected wrapped get error, got %v", err)
	}
	err = p.Set(ctx, "session:1:cart", "[]")
	if err == nil || !strings.Contains(err.Error(), "postgres set session:1:cart") {
		t.Fatalf("expected wrapped set error, got %v", err)
	}
}
