// Package circuit guards calls to a failing dependency. After a run of
// consecutive failures the breaker opens and rejects calls without touching
// the dependency; after a cooldown it half-opens, letting one probe through.
package circuit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// State of the breaker.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// ErrOpen is returned on rejected calls so callers can branch to fallback
// logic instead of generic error handling. Match with errors.Is.
var ErrOpen = errors.New("circuit open")

const (
	defaultFailureThreshold = 5
	defaultResetTimeout     = 60 * time.Second
	defaultCallTimeout      = 30 * time.Second
)

// Breaker is safe for concurrent use. One instance guards one dependency;
// all calls to that dependency share its failure accounting.
type Breaker struct {
	mu          sync.Mutex
	name        string
	state       State
	failures    int
	lastFailure time.Time

	failureThreshold int
	resetTimeout     time.Duration
	callTimeout      time.Duration
	onStateChange    func(name string, from, to State)
}

type Option func(*Breaker)

// WithFailureThreshold sets how many consecutive failures open the circuit.
func WithFailureThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.failureThreshold = n
		}
	}
}

// WithResetTimeout sets how long the circuit stays open before a probe call
// is allowed through.
func WithResetTimeout(d time.Duration) Option {
	return func(b *Breaker) {
		if d > 0 {
			b.resetTimeout = d
		}
	}
}

// WithCallTimeout sets the per-call deadline raced against the operation.
func WithCallTimeout(d time.Duration) Option {
	return func(b *Breaker) {
		if d > 0 {
			b.callTimeout = d
		}
	}
}

// WithStateChangeHook registers a callback for state transitions, typically
// a metrics counter. Called outside the breaker lock is not guaranteed; keep
// it cheap and non-blocking.
func WithStateChangeHook(fn func(name string, from, to State)) Option {
	return func(b *Breaker) {
		b.onStateChange = fn
	}
}

func New(name string, opts ...Option) *Breaker {
	b := &Breaker{
		name:             name,
		state:            StateClosed,
		failureThreshold: defaultFailureThreshold,
		resetTimeout:     defaultResetTimeout,
		callTimeout:      defaultCallTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Breaker) Name() string { return b.name }

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Reset manually closes the circuit. For tests and operational recovery.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transition(StateClosed)
	b.failures = 0
}

// allow decides whether a call may proceed. An open circuit past its reset
// timeout half-opens and lets the call through as a probe.
func (b *Breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != StateOpen {
		return nil
	}
	if time.Since(b.lastFailure) > b.resetTimeout {
		b.transition(StateHalfOpen)
		return nil
	}
	return fmt.Errorf("%s: %w", b.name, ErrOpen)
}

func (b *Breaker) recordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
	if b.state != StateClosed {
		b.transition(StateClosed)
	}
}

func (b *Breaker) recordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastFailure = time.Now()
	if b.state == StateHalfOpen {
		b.transition(StateOpen)
		return
	}
	b.failures++
	if b.failures >= b.failureThreshold && b.state == StateClosed {
		b.transition(StateOpen)
	}
}

// transition must be called with b.mu held.
func (b *Breaker) transition(to State) {
	from := b.state
	if from == to {
		return
	}
	b.state = to
	if b.onStateChange != nil {
		hook := b.onStateChange
		go hook(b.name, from, to)
	}
}

type result[V any] struct {
	val V
	err error
}

// Execute runs op through the breaker, racing it against the call timeout.
// A timeout counts as a failure exactly like an error from op. The context
// handed to op carries the deadline, so context-aware operations (all HTTP
// calls here) stop early rather than leaking sockets; operations that ignore
// it are merely abandoned, which is acceptable for the read-only lookups this
// breaker guards.
func Execute[V any](ctx context.Context, b *Breaker, op func(context.Context) (V, error)) (V, error) {
	var zero V

	if err := b.allow(); err != nil {
		return zero, err
	}

	ctx, cancel := context.WithTimeout(ctx, b.callTimeout)
	defer cancel()

	done := make(chan result[V], 1)
	go func() {
		v, err := op(ctx)
		done <- result[V]{val: v, err: err}
	}()

	select {
	case <-ctx.Done():
		b.recordFailure()
		return zero, fmt.Errorf("%s: call timed out after %s: %w", b.name, b.callTimeout, ctx.Err())
	case res := <-done:
		if res.err != nil {
			b.recordFailure()
			return zero, res.err
		}
		b.recordSuccess()
		return res.val, nil
	}
}
