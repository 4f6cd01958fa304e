package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTL_GetBeforeExpiry(t *testing.T) {
	c := New[string, int]()
	c.Set("a", 42, time.Minute)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestTTL_GetAfterExpiry(t *testing.T) {
	c := New[string, int]()
	c.Set("a", 42, 10*time.Millisecond)

	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("a")
	assert.False(t, ok)

	// Expired entry is purged, not just hidden.
	assert.Equal(t, 0, c.Stats().Entries)
}

func TestTTL_MissOnUnknownKey(t *testing.T) {
	c := New[string, string]()
	_, ok := c.Get("nope")
	assert.False(t, ok)
}

func TestTTL_SetOverwrites(t *testing.T) {
	c := New[string, int]()
	c.Set("a", 1, time.Minute)
	c.Set("a", 2, time.Minute)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestTTL_GetOrSetInvokesSupplierOnMiss(t *testing.T) {
	c := New[string, int]()
	calls := 0

	v, err := c.GetOrSet(context.Background(), "k", time.Minute, func(context.Context) (int, error) {
		calls++
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, 1, calls)

	// Second call is served from cache.
	v, err = c.GetOrSet(context.Background(), "k", time.Minute, func(context.Context) (int, error) {
		calls++
		return 8, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, 1, calls)
}

func TestTTL_GetOrSetDoesNotCacheErrors(t *testing.T) {
	c := New[string, int]()
	boom := errors.New("boom")

	_, err := c.GetOrSet(context.Background(), "k", time.Minute, func(context.Context) (int, error) {
		return 0, boom
	})
	require.ErrorIs(t, err, boom)

	v, err := c.GetOrSet(context.Background(), "k", time.Minute, func(context.Context) (int, error) {
		return 5, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 5, v)
}

func TestTTL_Clear(t *testing.T) {
	c := New[string, int]()
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)

	c.Clear()

	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Stats().Entries)
}

func TestTTL_Stats(t *testing.T) {
	c := New[string, int]()
	c.Set("a", 1, time.Minute)

	c.Get("a")
	c.Get("a")
	c.Get("missing")

	s := c.Stats()
	assert.Equal(t, uint64(2), s.Hits)
	assert.Equal(t, uint64(1), s.Misses)
	assert.Equal(t, 1, s.Entries)
}
