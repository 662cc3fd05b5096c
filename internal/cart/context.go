package cart

import (
	"context"
	"errors"
)

// ErrNoProvider is returned when cart state is requested from a context that
// no provider has bound a store to.
var ErrNoProvider = errors.New("cart: store must be used within a cart provider")

type storeCtxKeyType struct{}

var storeCtxKey = storeCtxKeyType{}

// WithStore binds s to ctx.
func WithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, storeCtxKey, s)
}

// FromContext returns the store bound to ctx.
func FromContext(ctx context.Context) (*Store, error) {
	s, ok := ctx.Value(storeCtxKey).(*Store)
	if !ok || s == nil {
		return nil, ErrNoProvider
	}
	return s, nil
}

// MustFromContext is FromContext that panics with ErrNoProvider.
func MustFromContext(ctx context.Context) *Store {
	s, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return s
}
