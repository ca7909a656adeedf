package kv

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is a process-local Store backed by go-cache. It honors per-key TTLs
// the same way the Redis backend does, which keeps dev mode and tests on the
// same semantics.
type Memory struct {
	cache *gocache.Cache
}

func NewMemory() *Memory {
	return &Memory{cache: gocache.New(gocache.NoExpiration, 10*time.Minute)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	raw, ok := m.cache.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	value, ok := raw.([]byte)
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m.cache.Set(key, stored, ttl)
	return nil
}

func (m *Memory) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		m.cache.Delete(key)
	}
	return nil
}
