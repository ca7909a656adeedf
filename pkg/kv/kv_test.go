package kv

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoundTrip(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k1", []byte(`{"a":1}`), 0))

	got, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), got)
}

func TestMemoryMissingKey(t *testing.T) {
	store := NewMemory()

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryDel(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k1", []byte("v1"), 0))
	require.NoError(t, store.Set(ctx, "k2", []byte("v2"), 0))
	require.NoError(t, store.Del(ctx, "k1", "k2", "missing"))

	_, err := store.Get(ctx, "k1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.Get(ctx, "k2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCopiesValues(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	value := []byte("original")
	require.NoError(t, store.Set(ctx, "k1", value, 0))
	value[0] = 'X'

	got, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), got, "stored value must not alias the caller's slice")

	got[0] = 'Y'
	again, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), again, "returned value must not alias the stored slice")
}

func TestMemoryExpiry(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k1", []byte("v1"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, err := store.Get(ctx, "k1")
	assert.ErrorIs(t, err, ErrNotFound)
}
