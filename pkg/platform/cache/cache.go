// Package cache provides a minimal in-process TTL cache for hot-path data
// classes (auth tokens, store config, composed results). Each data class gets
// its own instance so TTLs and stats stay per-class. Expiry is lazy: entries
// are purged when a lookup touches them, not by a background sweeper.
package cache

import (
	"context"
	"sync"
	"time"
)

type entry[V any] struct {
	val V
	exp time.Time
}

// Stats reports cache effectiveness for the diagnostics endpoint.
type Stats struct {
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	Entries int    `json:"entries"`
}

// TTL is a key/value store with per-entry expiry. Concurrent readers and
// distinct-key writers do not block each other beyond the map lock; callers
// must never invoke a supplier while holding it, which is why GetOrSet runs
// the supplier outside any lock. Collapsing concurrent suppliers for the same
// key is the dedup layer's job, not the cache's.
type TTL[K comparable, V any] struct {
	mu     sync.RWMutex
	data   map[K]entry[V]
	hits   uint64
	misses uint64
}

func New[K comparable, V any]() *TTL[K, V] {
	return &TTL[K, V]{data: make(map[K]entry[V])}
}

// Get returns the value and true when present and unexpired. An expired entry
// is removed as a side effect and reported as a miss.
func (t *TTL[K, V]) Get(k K) (V, bool) {
	t.mu.RLock()
	e, ok := t.data[k]
	t.mu.RUnlock()

	if ok && time.Now().Before(e.exp) {
		t.mu.Lock()
		t.hits++
		t.mu.Unlock()
		return e.val, true
	}

	t.mu.Lock()
	if ok {
		// Re-check under the write lock; a writer may have refreshed the key.
		if e2, still := t.data[k]; still && e2.exp.Equal(e.exp) {
			delete(t.data, k)
		}
	}
	t.misses++
	t.mu.Unlock()

	var zero V
	return zero, false
}

// Set stores v with an absolute expiry of now+ttl.
func (t *TTL[K, V]) Set(k K, v V, ttl time.Duration) {
	t.mu.Lock()
	t.data[k] = entry[V]{val: v, exp: time.Now().Add(ttl)}
	t.mu.Unlock()
}

// GetOrSet returns the cached value when fresh, otherwise runs supply and
// stores its result. The supplier runs without any cache lock held.
func (t *TTL[K, V]) GetOrSet(ctx context.Context, k K, ttl time.Duration, supply func(context.Context) (V, error)) (V, error) {
	if v, ok := t.Get(k); ok {
		return v, nil
	}
	v, err := supply(ctx)
	if err != nil {
		var zero V
		return zero, err
	}
	t.Set(k, v, ttl)
	return v, nil
}

// Delete removes a single key.
func (t *TTL[K, V]) Delete(k K) {
	t.mu.Lock()
	delete(t.data, k)
	t.mu.Unlock()
}

// Clear removes all entries. Used for test isolation and operational resets;
// hit/miss counters survive so diagnostics keep their history.
func (t *TTL[K, V]) Clear() {
	t.mu.Lock()
	t.data = make(map[K]entry[V])
	t.mu.Unlock()
}

// Stats returns a snapshot of cache effectiveness.
func (t *TTL[K, V]) Stats() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return Stats{Hits: t.hits, Misses: t.misses, Entries: len(t.data)}
}
