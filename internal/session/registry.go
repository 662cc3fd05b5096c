// Package session maps cart session ids to their hydrated cart stores.
package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
	"storefront/internal/cart"
	"storefront/internal/storage"
)

// Registry keeps at most size idle stores in memory. An evicted store's cart
// survives in the backend and is hydrated again on the next Open. A store with
// an open lease is never dropped, so an id maps to at most one live store.
type Registry struct {
	mu      sync.Mutex
	backend storage.Storage
	stores  *lru.Cache
	pinned  map[string]*entry // evicted while leased
	logger  *zap.Logger
}

type entry struct {
	store *cart.Store
	refs  int
}

func NewRegistry(backend storage.Storage, size int, logger *zap.Logger) (*Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{backend: backend, pinned: make(map[string]*entry), logger: logger}
	cache, err := lru.NewWithEvict(size, r.evicted)
	if err != nil {
		return nil, err
	}
	r.stores = cache
	return r, nil
}

// Open returns the store for id, creating and hydrating it on first use. The
// returned release func ends the lease; calling it more than once is a no-op.
func (r *Registry) Open(ctx context.Context, id string) (*cart.Store, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.lookup(ctx, id)
	e.refs++
	var once sync.Once
	return e.store, func() {
		once.Do(func() { r.release(id, e) })
	}
}

func (r *Registry) lookup(ctx context.Context, id string) *entry {
	if v, ok := r.stores.Get(id); ok {
		return v.(*entry)
	}
	if e, ok := r.pinned[id]; ok {
		delete(r.pinned, id)
		r.stores.Add(id, e)
		return e
	}
	st := storage.Namespace(r.backend, "session:"+id)
	e := &entry{store: cart.New(ctx, st, cart.WithLogger(r.logger.With(zap.String("session", id))))}
	r.stores.Add(id, e)
	return e
}

func (r *Registry) release(id string, e *entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.refs--
	if e.refs == 0 && r.pinned[id] == e {
		delete(r.pinned, id)
	}
}

// evicted runs inside stores.Add and stores.Remove, with r.mu held.
func (r *Registry) evicted(key, value interface{}) {
	id := key.(string)
	e := value.(*entry)
	if e.refs > 0 {
		r.pinned[id] = e
		r.logger.Debug("session registry: evicted store still leased", zap.String("session", id), zap.Int("leases", e.refs))
		return
	}
	r.logger.Debug("session registry: evicted least recently used store", zap.String("session", id))
}

// Forget drops the in-memory store for id once it has no open lease.
func (r *Registry) Forget(id string) {
	r.mu.Lock()
	r.stores.Remove(id)
	r.mu.Unlock()
}

// Len is the number of stores held in memory, leased or cached.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stores.Len() + len(r.pinned)
}

// NewID issues a fresh session id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like an id NewID could have issued.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil && len(id) == 36
}
