package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key has no value.
var ErrNotFound = errors.New("kv: key not found")

// Store is the minimal key-value surface the cart state lives behind. The
// production backend is Redis; tests and dev mode use the in-memory store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
