package storage

import (
	"context"
	"errors"
	"testing"
)

func TestMemory_GetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, err := m.Get(ctx, "cart"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := m.Set(ctx, "cart", `[]`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := m.Get(ctx, "cart")
	if err != nil || got != `[]` {
		t.Fatalf("unexpected value %q err=%v", got, err)
	}

	m.Clear()
	if _, err := m.Get(ctx, "cart"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after Clear, got %v", err)
	}
}

func TestNamespace_IsolatesKeys(t *testing.T) {
	ctx := context.Background()
	backend := NewMemory()
	a := Namespace(backend, "session:a")
	b := Namespace(backend, "session:b")

	if err := a.Set(ctx, "cart", "A"); err != nil {
		t.Fatalf("Set a: %v", err)
	}
	if _, err := b.Get(ctx, "cart"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected b to be empty, got %v", err)
	}
	raw, err := backend.Get(ctx, "session:a:cart")
	if err != nil || raw != "A" {
		t.Fatalf("expected prefixed key in backend, got %q err=%v", raw, err)
	}
	if p, ok := a.(Pinger); !ok || p.Ping(ctx) != nil {
		t.Fatalf("expected namespace to forward ping")
	}
}

func TestFile_GetSet(t *testing.T) {
	ctx := context.Background()
	f, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}

	if _, err := f.Get(ctx, "session:x:cart"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := f.Set(ctx, "session:x:cart", `[{"productId":"1"}]`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := f.Set(ctx, "session:x:cart", `[]`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := f.Get(ctx, "session:x:cart")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != `[]` {
		t.Fatalf("expected overwritten value, got %q", got)
	}
	if err := f.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
