package session

import (
	"context"
	"sync"
	"testing"

	"storefront/internal/cart"
	"storefront/internal/domain"
	"storefront/internal/storage"
)

func TestRegistry_OpenReturnsSameStore(t *testing.T) {
	reg, err := NewRegistry(storage.NewMemory(), 4, nil)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	ctx := context.Background()
	a, releaseA := reg.Open(ctx, "a")
	defer releaseA()
	again, releaseAgain := reg.Open(ctx, "a")
	defer releaseAgain()
	if again != a {
		t.Fatalf("expected the same store for the same session")
	}
	b, releaseB := reg.Open(ctx, "b")
	defer releaseB()
	if b == a {
		t.Fatalf("expected distinct stores for distinct sessions")
	}
}

func TestRegistry_SessionsAreIsolated(t *testing.T) {
	backend := storage.NewMemory()
	reg, _ := NewRegistry(backend, 4, nil)
	ctx := context.Background()

	a, releaseA := reg.Open(ctx, "a")
	defer releaseA()
	a.AddItem(ctx, domain.CartLine{ProductID: "1", Name: "Test", Price: 100, Quantity: 1})

	b, releaseB := reg.Open(ctx, "b")
	defer releaseB()
	if n := len(b.Items()); n != 0 {
		t.Fatalf("expected session b to be empty, got %d lines", n)
	}
	if _, err := backend.Get(ctx, "session:a:cart"); err != nil {
		t.Fatalf("expected namespaced key in backend: %v", err)
	}
}

func TestRegistry_EvictionRehydrates(t *testing.T) {
	reg, _ := NewRegistry(storage.NewMemory(), 1, nil)
	ctx := context.Background()

	first, release := reg.Open(ctx, "a")
	first.AddItem(ctx, domain.CartLine{ProductID: "1", Name: "Test", Price: 100, Quantity: 2})
	release()

	_, releaseB := reg.Open(ctx, "b")
	releaseB()
	if reg.Len() != 1 {
		t.Fatalf("expected one store held, got %d", reg.Len())
	}

	again, releaseAgain := reg.Open(ctx, "a")
	defer releaseAgain()
	if again == first {
		t.Fatalf("expected a new store after eviction")
	}
	if again.TotalItems() != 2 {
		t.Fatalf("expected rehydrated cart, got %d items", again.TotalItems())
	}
}

func TestRegistry_EvictionKeepsLeasedStore(t *testing.T) {
	backend := storage.NewMemory()
	reg, _ := NewRegistry(backend, 1, nil)
	ctx := context.Background()

	held, releaseHeld := reg.Open(ctx, "a")
	_, releaseB := reg.Open(ctx, "b")
	releaseB()
	if reg.Len() != 2 {
		t.Fatalf("expected leased store to stay in memory, got %d stores", reg.Len())
	}

	reopened, releaseReopened := reg.Open(ctx, "a")
	if reopened != held {
		t.Fatalf("expected the leased store to be returned after eviction")
	}

	held.AddItem(ctx, domain.CartLine{ProductID: "1", Name: "One", Price: 1, Quantity: 1})
	reopened.AddItem(ctx, domain.CartLine{ProductID: "2", Name: "Two", Price: 2, Quantity: 1})

	persisted := cart.New(ctx, storage.Namespace(backend, "session:a"))
	if n := len(persisted.Items()); n != 2 {
		t.Fatalf("expected both lines persisted, got %+v", persisted.Items())
	}

	releaseHeld()
	releaseHeld()
	releaseReopened()

	_, releaseB = reg.Open(ctx, "b")
	releaseB()
	if reg.Len() != 1 {
		t.Fatalf("expected released store to be evictable, got %d stores", reg.Len())
	}
	fresh, releaseFresh := reg.Open(ctx, "a")
	defer releaseFresh()
	if fresh == held {
		t.Fatalf("expected a new store once every lease was released")
	}
	if fresh.TotalItems() != 2 {
		t.Fatalf("expected rehydrated cart, got %d items", fresh.TotalItems())
	}
}

func TestRegistry_ForgetRehydrates(t *testing.T) {
	reg, _ := NewRegistry(storage.NewMemory(), 4, nil)
	ctx := context.Background()

	first, release := reg.Open(ctx, "a")
	reg.Forget("a")
	inUse, releaseInUse := reg.Open(ctx, "a")
	if inUse != first {
		t.Fatalf("expected Forget to keep a leased store")
	}
	release()
	releaseInUse()

	reg.Forget("a")
	again, releaseAgain := reg.Open(ctx, "a")
	defer releaseAgain()
	if again == first {
		t.Fatalf("expected a new store after Forget")
	}
}

func TestRegistry_ConcurrentOpen(t *testing.T) {
	reg, _ := NewRegistry(storage.NewMemory(), 4, nil)
	ctx := context.Background()
	first, release := reg.Open(ctx, "a")
	defer release()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, done := reg.Open(ctx, "a")
			defer done()
			s.AddItem(ctx, domain.CartLine{ProductID: "1", Name: "Test", Price: 1, Quantity: 1})
		}()
	}
	wg.Wait()

	if first.TotalItems() != 16 {
		t.Fatalf("expected 16 serialized adds, got %d", first.TotalItems())
	}
}

func TestNewIDAndValidID(t *testing.T) {
	id := NewID()
	if !ValidID(id) {
		t.Fatalf("expected %q to be valid", id)
	}
	for _, bad := range []string{"", "abc", "../../etc/passwd"} {
		if ValidID(bad) {
			t.Fatalf("expected %q to be invalid", bad)
		}
	}
}
