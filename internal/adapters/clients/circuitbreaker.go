package clients

import (
	"sync"
	"time"

	"github.com/jsamuelsen/quote-card-bot/internal/platform/config"
)

// State is the position of a circuit breaker.
type State int

const (
	// StateClosed lets every call through.
	StateClosed State = iota

	// StateOpen rejects calls until the cool-down elapses.
	StateOpen

	// StateHalfOpen lets a bounded number of probe calls through.
	StateHalfOpen
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// StateListener observes circuit transitions. It runs after the breaker's lock is released.
type StateListener func(from, to State)

// BreakerOption customizes a CircuitBreaker.
type BreakerOption func(*CircuitBreaker)

// WithClock replaces the time source.
func WithClock(now func() time.Time) BreakerOption {
	return func(cb *CircuitBreaker) { cb.now = now }
}

// WithStateListener registers fn to be told about every transition.
func WithStateListener(fn StateListener) BreakerOption {
	return func(cb *CircuitBreaker) { cb.listeners = append(cb.listeners, fn) }
}

// CircuitBreaker guards one downstream dependency.
//
// Transitions:
//   - closed to open after MaxFailures consecutive failures
//   - open to half-open once Timeout has passed since the last failure
//   - half-open to closed after HalfOpenLimit consecutive successes
//   - half-open to open on any failure
type CircuitBreaker struct {
	mu          sync.Mutex
	cfg         config.CircuitBreakerConfig
	state       State
	failures    int
	successes   int
	probes      int
	lastFailure time.Time
	now         func() time.Time
	listeners   []StateListener
}

// NewCircuitBreaker creates a closed breaker.
func NewCircuitBreaker(cfg config.CircuitBreakerConfig, opts ...BreakerOption) *CircuitBreaker {
	cb := &CircuitBreaker{
		cfg: cfg,
		now: time.Now,
	}

	for _, opt := range opts {
		opt(cb)
	}

	return cb
}

// Allow reports whether a call may proceed. A true result must be followed by
// exactly one RecordSuccess or RecordFailure.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()

	var (
		allowed bool
		changed []transition
	)

	switch cb.state {
	case StateClosed:
		allowed = true
	case StateOpen:
		if cb.now().Sub(cb.lastFailure) >= cb.cfg.Timeout {
			changed = cb.moveTo(StateHalfOpen)
			cb.probes = 1
			allowed = true
		}
	case StateHalfOpen:
		if cb.probes < cb.cfg.HalfOpenLimit {
			cb.probes++
			allowed = true
		}
	}

	cb.mu.Unlock()
	cb.notify(changed)

	return allowed
}

// RecordSuccess reports a call that reached the dependency and got a usable answer.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()

	var changed []transition

	switch cb.state {
	case StateClosed:
		cb.failures = 0
	case StateHalfOpen:
		cb.probes--
		cb.successes++
		if cb.successes >= cb.cfg.HalfOpenLimit {
			changed = cb.moveTo(StateClosed)
		}
	case StateOpen:
	}

	cb.mu.Unlock()
	cb.notify(changed)
}

// RecordFailure reports a call the dependency could not serve.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()

	var changed []transition

	cb.lastFailure = cb.now()

	switch cb.state {
	case StateClosed:
		cb.failures++
		if cb.failures >= cb.cfg.MaxFailures {
			changed = cb.moveTo(StateOpen)
		}
	case StateHalfOpen:
		cb.probes--
		changed = cb.moveTo(StateOpen)
	case StateOpen:
	}

	cb.mu.Unlock()
	cb.notify(changed)
}

// State returns the current position.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.state
}

type transition struct{ from, to State }

// moveTo must be called with mu held.
func (cb *CircuitBreaker) moveTo(next State) []transition {
	if cb.state == next {
		return nil
	}

	prev := cb.state
	cb.state = next
	cb.failures = 0
	cb.successes = 0

	if next != StateHalfOpen {
		cb.probes = 0
	}

	return []transition{{from: prev, to: next}}
}

func (cb *CircuitBreaker) notify(changed []transition) {
	for _, tr := range changed {
		for _, fn := range cb.listeners {
			fn(tr.from, tr.to)
		}
	}
}
