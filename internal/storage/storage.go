// Package storage provides the key-value substrates a cart is persisted into.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("storage: key not found")

// Storage is a string key-value store. Implementations must be safe for
// concurrent use.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Pinger is implemented by backends that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

type namespaced struct {
	inner  Storage
	prefix string
}

// Namespace scopes every key of inner under ns, so callers sharing one backend
// can each use the same fixed key.
func Namespace(inner Storage, ns string) Storage {
	return &namespaced{inner: inner, prefix: ns + ":"}
}

func (n *namespaced) Get(ctx context.Context, key string) (string, error) {
	return n.inner.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key, value string) error {
	return n.inner.Set(ctx, n.prefix+key, value)
}

// Ping forwards to the wrapped backend when it supports it.
func (n *namespaced) Ping(ctx context.Context) error {
	if p, ok := n.inner.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
