// Package cart holds a visitor's shopping cart: an ordered set of lines unique
// by product id, persisted write-through into a key-value storage and observed
// by subscribers.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"storefront/internal/domain"
	"storefront/internal/storage"
)

// StorageKey is the key the serialized lines are kept under.
const StorageKey = "cart"

// Snapshot is a consistent view of the cart at one point in time.
type Snapshot struct {
	Items      []domain.CartLine
	TotalItems int
	TotalPrice decimal.Decimal
}

// Listener receives the post-mutation snapshot.
type Listener func(Snapshot)

// Store is the single source of truth for one cart session.
type Store struct {
	mu      sync.Mutex
	lines   []domain.CartLine
	storage storage.Storage
	logger  *zap.Logger

	listenersMu sync.Mutex
	listeners   []subscription
	nextID      int
}

type subscription struct {
	id int
	fn Listener
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for hydration and persistence diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New builds a store and hydrates it from st. Missing, unreadable or corrupted
// data yields an empty cart; New never fails.
func New(ctx context.Context, st storage.Storage, opts ...Option) *Store {
	s := &Store{
		storage: st,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lines = s.hydrate(ctx)
	return s
}

func (s *Store) hydrate(ctx context.Context) []domain.CartLine {
	raw, err := s.storage.Get(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Error("cart: read persisted cart", zap.String("key", StorageKey), zap.Error(err))
		}
		return []domain.CartLine{}
	}
	var lines []domain.CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		s.logger.Warn("cart: discarding unparseable persisted cart", zap.String("key", StorageKey), zap.Error(err))
		return []domain.CartLine{}
	}
	repaired, dropped, merged := sanitize(lines)
	if dropped > 0 || merged > 0 {
		s.logger.Warn("cart: repaired persisted cart",
			zap.String("key", StorageKey),
			zap.Int("dropped", dropped),
			zap.Int("merged", merged),
		)
	}
	return repaired
}

// sanitize drops lines without a product id or with a non-positive quantity
// and folds duplicate product ids into their first occurrence.
func sanitize(in []domain.CartLine) (out []domain.CartLine, dropped, merged int) {
	out = make([]domain.CartLine, 0, len(in))
	index := make(map[string]int, len(in))
	for _, line := range in {
		if line.ProductID == "" || line.Quantity <= 0 {
			dropped++
			continue
		}
		if i, ok := index[line.ProductID]; ok {
			out[i].Quantity = addQuantity(out[i].Quantity, line.Quantity)
			merged++
			continue
		}
		index[line.ProductID] = len(out)
		out = append(out, line)
	}
	return out, dropped, merged
}

// AddItem merges line into the cart. A zero quantity means one. An existing
// line only accumulates quantity; its display fields are kept. A new line with
// a negative quantity is ignored, and an existing line whose quantity drops to
// zero or below is removed.
func (s *Store) AddItem(ctx context.Context, line domain.CartLine) {
	if line.Quantity == 0 {
		line.Quantity = 1
	}
	s.mutate(ctx, func(lines []domain.CartLine) []domain.CartLine {
		i := indexOf(lines, line.ProductID)
		if i < 0 {
			if line.Quantity < 0 {
				return lines
			}
			return append(lines, line)
		}
		qty := addQuantity(lines[i].Quantity, line.Quantity)
		if qty <= 0 {
			return removeAt(lines, i)
		}
		lines[i].Quantity = qty
		return lines
	})
}

// UpdateQuantity sets the quantity of productID. Zero or below removes the
// line; an unknown product id is ignored.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	s.mutate(ctx, func(lines []domain.CartLine) []domain.CartLine {
		i := indexOf(lines, productID)
		if i < 0 {
			return lines
		}
		if quantity <= 0 {
			return removeAt(lines, i)
		}
		lines[i].Quantity = quantity
		return lines
	})
}

// RemoveItem drops the line for productID if present.
func (s *Store) RemoveItem(ctx context.Context, productID string) {
	s.mutate(ctx, func(lines []domain.CartLine) []domain.CartLine {
		if i := indexOf(lines, productID); i >= 0 {
			return removeAt(lines, i)
		}
		return lines
	})
}

// ClearCart empties the cart.
func (s *Store) ClearCart(ctx context.Context) {
	s.mutate(ctx, func([]domain.CartLine) []domain.CartLine {
		return []domain.CartLine{}
	})
}

// mutate applies fn, writes the result through and notifies subscribers. A
// failed write is logged and the in-memory change stands.
func (s *Store) mutate(ctx context.Context, fn func([]domain.CartLine) []domain.CartLine) {
	s.mu.Lock()
	s.lines = fn(s.lines)
	s.persistLocked(ctx)
	snap := snapshotOf(s.lines)
	s.mu.Unlock()

	s.notify(snap)
}

func (s *Store) persistLocked(ctx context.Context) {
	raw, err := json.Marshal(s.lines)
	if err != nil {
		s.logger.Error("cart: encode cart", zap.Error(err))
		return
	}
	if err := s.storage.Set(ctx, StorageKey, string(raw)); err != nil {
		s.logger.Error("cart: persist cart", zap.String("key", StorageKey), zap.Error(err))
	}
}

// Items returns a copy of the current lines in insertion order.
func (s *Store) Items() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyLines(s.lines)
}

// TotalItems is the sum of all line quantities.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalItems(s.lines)
}

// TotalPrice is the sum of price times quantity over all lines.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalPrice(s.lines)
}

// Snapshot returns items and totals computed under one lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshotOf(s.lines)
}

// Subscribe registers l for every subsequent mutation. The returned func
// removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.listenersMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, subscription{id: id, fn: l})
	s.listenersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenersMu.Lock()
			for i, sub := range s.listeners {
				if sub.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					break
				}
			}
			s.listenersMu.Unlock()
		})
	}
}

func (s *Store) notify(snap Snapshot) {
	s.listenersMu.Lock()
	subs := make([]subscription, len(s.listeners))
	copy(subs, s.listeners)
	s.listenersMu.Unlock()

	for _, sub := range subs {
		sub.fn(Snapshot{Items: copyLines(snap.Items), TotalItems: snap.TotalItems, TotalPrice: snap.TotalPrice})
	}
}

func snapshotOf(lines []domain.CartLine) Snapshot {
	return Snapshot{
		Items:      copyLines(lines),
		TotalItems: totalItems(lines),
		TotalPrice: totalPrice(lines),
	}
}

func totalItems(lines []domain.CartLine) int {
	n := 0
	for _, l := range lines {
		n = addQuantity(n, l.Quantity)
	}
	return n
}

// addQuantity saturates at the int bounds instead of wrapping.
func addQuantity(a, b int) int {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return math.MaxInt
	case b < 0 && a < math.MinInt-b:
		return math.MinInt
	}
	return a + b
}

func totalPrice(lines []domain.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

func indexOf(lines []domain.CartLine, productID string) int {
	for i, l := range lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

func removeAt(lines []domain.CartLine, i int) []domain.CartLine {
	return append(lines[:i:i], lines[i+1:]...)
}

func copyLines(lines []domain.CartLine) []domain.CartLine {
	out := make([]domain.CartLine, len(lines))
	copy(out, lines)
	return out
}
