package resilience

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrCircuitOpen     = errors.New("circuit breaker is open")
	ErrTooManyRequests = errors.New("too many requests")
)

// State is the breaker state.
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Counts holds request statistics for the current epoch. An epoch ends
// on every state change and on each closed-state interval rollover.
type Counts struct {
	Requests             uint32
	TotalSuccesses       uint32
	TotalFailures        uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

// Settings configures breaker behavior.
type Settings struct {
	// MaxRequests caps concurrent probes while half-open.
	MaxRequests uint32
	// Interval is how often closed-state counts reset.
	Interval time.Duration
	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration
	// ReadyToTrip is consulted after each closed-state failure.
	ReadyToTrip func(counts Counts) bool
	// OnStateChange observes transitions.
	OnStateChange func(name string, from, to State)
}

// Breaker guards calls to an unreliable dependency. While closed it
// counts outcomes; enough consecutive failures open it, after which
// calls fail fast until a cooldown elapses and probe calls may close
// it again.
type Breaker struct {
	name      string
	maxProbes uint32
	interval  time.Duration
	cooldown  time.Duration
	tripFn    func(Counts) bool
	onChange  func(name string, from, to State)

	mu       sync.Mutex
	state    State
	epoch    uint64
	counts   Counts
	deadline time.Time
}

// New creates a breaker. Zero settings get defaults: one half-open
// probe, one-minute interval and cooldown, trip after five consecutive
// failures.
func New(name string, settings Settings) *Breaker {
	b := &Breaker{
		name:      name,
		maxProbes: settings.MaxRequests,
		interval:  settings.Interval,
		cooldown:  settings.Timeout,
		tripFn:    settings.ReadyToTrip,
		onChange:  settings.OnStateChange,
		state:     StateClosed,
	}
	if b.maxProbes == 0 {
		b.maxProbes = 1
	}
	if b.interval == 0 {
		b.interval = time.Minute
	}
	if b.cooldown == 0 {
		b.cooldown = time.Minute
	}
	if b.tripFn == nil {
		b.tripFn = func(counts Counts) bool {
			return counts.ConsecutiveFailures > 5
		}
	}
	b.deadline = time.Now().Add(b.interval)
	return b
}

// Execute runs req if the breaker admits it and records the outcome.
// The outcome is discarded if the epoch changed while req ran.
func (b *Breaker) Execute(req func() (interface{}, error)) (interface{}, error) {
	epoch, err := b.admit()
	if err != nil {
		return nil, err
	}

	defer func() {
		if e := recover(); e != nil {
			b.settle(epoch, false)
			panic(e)
		}
	}()

	result, err := req()
	b.settle(epoch, err == nil)
	return result, err
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refresh(time.Now())
	return b.state
}

// Counts returns a copy of the current epoch's counts.
func (b *Breaker) Counts() Counts {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts
}

func (b *Breaker) admit() (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refresh(time.Now())
	switch {
	case b.state == StateOpen:
		return b.epoch, ErrCircuitOpen
	case b.state == StateHalfOpen && b.counts.Requests >= b.maxProbes:
		return b.epoch, ErrTooManyRequests
	}
	b.counts.Requests++
	return b.epoch, nil
}

func (b *Breaker) settle(epoch uint64, success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.refresh(now)
	if b.epoch != epoch {
		return
	}

	if success {
		b.counts.TotalSuccesses++
		b.counts.ConsecutiveSuccesses++
		b.counts.ConsecutiveFailures = 0
		if b.state == StateHalfOpen && b.counts.ConsecutiveSuccesses >= b.maxProbes {
			b.transition(StateClosed, now)
		}
		return
	}

	switch b.state {
	case StateClosed:
		b.counts.TotalFailures++
		b.counts.ConsecutiveFailures++
		b.counts.ConsecutiveSuccesses = 0
		if b.tripFn(b.counts) {
			b.transition(StateOpen, now)
		}
	case StateHalfOpen:
		b.transition(StateOpen, now)
	}
}

// refresh applies time-driven transitions. Callers hold the lock.
func (b *Breaker) refresh(now time.Time) {
	switch b.state {
	case StateClosed:
		if b.deadline.Before(now) {
			b.epoch++
			b.counts = Counts{}
			b.deadline = now.Add(b.interval)
		}
	case StateOpen:
		if b.deadline.Before(now) {
			b.transition(StateHalfOpen, now)
		}
	}
}

// transition moves to a new state and starts a fresh epoch. Callers
// hold the lock.
func (b *Breaker) transition(to State, now time.Time) {
	if b.state == to {
		return
	}
	from := b.state
	b.state = to
	b.epoch++
	b.counts = Counts{}

	switch to {
	case StateClosed:
		b.deadline = now.Add(b.interval)
	case StateOpen:
		b.deadline = now.Add(b.cooldown)
	case StateHalfOpen:
		b.deadline = time.Time{}
	}

	if b.onChange != nil {
		b.onChange(b.name, from, to)
	}
}
