package invoker

import (
	"sync"
	"time"
)

// CircuitState represents the state of a circuit breaker.
type CircuitState int

const (
	StateClosed   CircuitState = iota // healthy, requests flow
	StateOpen                         // unhealthy, requests blocked
	StateHalfOpen                     // cooling down elapsed, one probe allowed
)

func (s CircuitState) String() string {
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

// Snapshot is a point-in-time view of the breaker, used by health reporting.
type Snapshot struct {
	State             string        `json:"state"`
	Failures          int           `json:"failureCount"`
	LastFailure       time.Time     `json:"lastFailureTime,omitzero"`
	CooldownRemaining time.Duration `json:"-"`
}

// CircuitBreaker guards the upstream model. It is shared by every request in
// the process.
type CircuitBreaker struct {
	mu sync.Mutex

	state         CircuitState
	failures      int
	lastFailure   time.Time
	probeInFlight bool

	failureThreshold int
	cooldown         time.Duration
	onChange         func(CircuitState)
	now              func() time.Time
}

// NewCircuitBreaker creates a breaker that opens after failureThreshold
// consecutive failures and probes again once cooldown has passed since the
// last failure.
func NewCircuitBreaker(failureThreshold int, cooldown time.Duration) *CircuitBreaker {
	if failureThreshold < 1 {
		failureThreshold = 1
	}
	return &CircuitBreaker{
		state:            StateClosed,
		failureThreshold: failureThreshold,
		cooldown:         cooldown,
		now:              time.Now,
	}
}

// OnStateChange registers fn to be called (with the lock held) whenever the
// breaker moves to a new state.
func (cb *CircuitBreaker) OnStateChange(fn func(CircuitState)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.onChange = fn
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentState()
}

// currentState transitions OPEN→HALF_OPEN once the cool-down has elapsed.
// Must be called with mu held.
func (cb *CircuitBreaker) currentState() CircuitState {
	if cb.state == StateOpen && cb.now().Sub(cb.lastFailure) > cb.cooldown {
		cb.setState(StateHalfOpen)
	}
	return cb.state
}

func (cb *CircuitBreaker) setState(s CircuitState) {
	if cb.state == s {
		return
	}
	cb.state = s
	if cb.onChange != nil {
		cb.onChange(s)
	}
}

// Allow reports whether a request may go upstream. In the half-open state
// only the first caller is admitted and trial is true; that caller owns the
// half-open slot until it records an outcome or calls AbandonProbe.
func (cb *CircuitBreaker) Allow() (ok, trial bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.currentState() {
	case StateClosed:
		return true, false
	case StateHalfOpen:
		if cb.probeInFlight {
			return false, false
		}
		cb.probeInFlight = true
		return true, true
	}
	return false, false
}

// RecordSuccess closes the circuit and zeroes the failure count.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures = 0
	cb.probeInFlight = false
	cb.setState(StateClosed)
}

// RecordFailure counts a failed attempt. A failed probe reopens the circuit.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	cb.lastFailure = cb.now()

	switch cb.state {
	case StateClosed:
		if cb.failures >= cb.failureThreshold {
			cb.setState(StateOpen)
		}
	case StateHalfOpen:
		cb.probeInFlight = false
		cb.setState(StateOpen)
	}
}

// AbandonProbe releases a half-open probe without recording an outcome, so
// the next caller may probe instead. Only a caller whose Allow returned
// trial=true may call it.
func (cb *CircuitBreaker) AbandonProbe() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.probeInFlight = false
}

// Reset forces the breaker closed.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures = 0
	cb.probeInFlight = false
	cb.lastFailure = time.Time{}
	cb.setState(StateClosed)
}

// Snapshot returns the breaker's current state and counters.
func (cb *CircuitBreaker) Snapshot() Snapshot {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	s := Snapshot{
		State:       cb.currentState().String(),
		Failures:    cb.failures,
		LastFailure: cb.lastFailure,
	}
	if cb.state == StateOpen {
		s.CooldownRemaining = cb.cooldown - cb.now().Sub(cb.lastFailure)
	}
	return s
}
