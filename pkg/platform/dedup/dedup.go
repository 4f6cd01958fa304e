// Package dedup collapses concurrent identical in-flight calls into one.
// Callers sharing a key observe the same eventual result (value or error);
// once the call settles the key is forgotten so the next caller starts fresh.
//
// Composition order at call sites is cache check, then dedup, then the
// circuit breaker inside the deduplicated block, then cache population.
package dedup

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Group deduplicates calls producing a V. The zero value is not usable; use
// New so the underlying registry is shared, not copied.
type Group[V any] struct {
	sf singleflight.Group
}

func New[V any]() *Group[V] {
	return &Group[V]{}
}

// Do runs fn once per key among concurrent callers. The returned bool reports
// whether the result was shared with at least one other caller.
//
// The first caller's fn runs with the first caller's context; a later caller
// whose own context is cancelled still receives the shared outcome. All
// guarded operations here are read-only lookups, so sharing is safe.
func (g *Group[V]) Do(ctx context.Context, key string, fn func(context.Context) (V, error)) (V, bool, error) {
	res, err, shared := g.sf.Do(key, func() (any, error) {
		return fn(ctx)
	})
	if err != nil {
		var zero V
		return zero, shared, err
	}
	return res.(V), shared, nil
}

// Forget removes an in-flight key so the next Do starts a fresh call. Only
// needed when a caller knows the pending result is already stale.
func (g *Group[V]) Forget(key string) {
	g.sf.Forget(key)
}
