package dedup

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroup_ConcurrentCallersShareOneCall(t *testing.T) {
	g := New[int]()

	var calls atomic.Int32
	release := make(chan struct{})

	const n = 20
	results := make([]int, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, _, err := g.Do(context.Background(), "key", func(context.Context) (int, error) {
				calls.Add(1)
				<-release
				return 99, nil
			})
			results[i] = v
			errs[i] = err
		}(i)
	}

	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, 99, results[i])
	}
}

func TestGroup_SharedErrorReachesAllCallers(t *testing.T) {
	g := New[string]()

	boom := errors.New("upstream down")
	var calls atomic.Int32
	release := make(chan struct{})

	const n = 5
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, err := g.Do(context.Background(), "key", func(context.Context) (string, error) {
				calls.Add(1)
				<-release
				return "", boom
			})
			errs[i] = err
		}(i)
	}

	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for i := 0; i < n; i++ {
		assert.ErrorIs(t, errs[i], boom)
	}
}

func TestGroup_KeyForgottenAfterSettle(t *testing.T) {
	g := New[int]()

	var calls atomic.Int32
	op := func(context.Context) (int, error) {
		calls.Add(1)
		return int(calls.Load()), nil
	}

	v1, _, err := g.Do(context.Background(), "key", op)
	require.NoError(t, err)
	v2, _, err := g.Do(context.Background(), "key", op)
	require.NoError(t, err)

	// Sequential calls are fresh invocations, not replays.
	assert.Equal(t, 1, v1)
	assert.Equal(t, 2, v2)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGroup_DistinctKeysDoNotCollapse(t *testing.T) {
	g := New[int]()

	var calls atomic.Int32
	op := func(context.Context) (int, error) {
		calls.Add(1)
		return 0, nil
	}

	_, _, _ = g.Do(context.Background(), "a", op)
	_, _, _ = g.Do(context.Background(), "b", op)

	assert.Equal(t, int32(2), calls.Load())
}
