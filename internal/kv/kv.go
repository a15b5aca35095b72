// Package kv defines the small key-value contract the leaderboard and
// settings persist through.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get for keys that were never written.
var ErrNotFound = errors.New("key not found")

// Store is a durable string-keyed blob store (browser localStorage, Redis, SQL).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Prefixed namespaces every key of store under prefix.
func Prefixed(store Store, prefix string) Store {
	if prefix == "" {
		return store
	}
	return prefixed{store: store, prefix: prefix}
}

// PlayerPrefix is the namespace used for a player's keys.
func PlayerPrefix(playerID string) string {
	return "player:" + playerID + ":"
}

type prefixed struct {
	store  Store
	prefix string
}

func (p prefixed) Get(ctx context.Context, key string) ([]byte, error) {
	return p.store.Get(ctx, p.prefix+key)
}

func (p prefixed) Set(ctx context.Context, key string, value []byte) error {
	return p.store.Set(ctx, p.prefix+key, value)
}
