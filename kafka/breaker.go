package kafka

import (
	"errors"
	"sync"
	"time"

	"github.com/tair/grocery-pos/pkg/logger"
)

// ErrCircuitOpen is returned while the breaker rejects sends
var ErrCircuitOpen = errors.New("kafka circuit breaker is open")

// CircuitState represents the state of a circuit breaker
type CircuitState string

const (
	StateClosed   CircuitState = "closed"
	StateOpen     CircuitState = "open"
	StateHalfOpen CircuitState = "half-open"
)

// Breaker stops calling the brokers after maxFailures consecutive send
// failures. After cooldown a single probe is let through; its result closes
// or reopens the circuit. A nil *Breaker always calls through.
type Breaker struct {
	name        string
	maxFailures int
	cooldown    time.Duration
	now         func() time.Time

	mu       sync.Mutex
	state    CircuitState
	failures int
	openedAt time.Time
	probing  bool
}

// NewBreaker creates a closed breaker
func NewBreaker(name string, maxFailures int, cooldown time.Duration) *Breaker {
	if maxFailures <= 0 {
		maxFailures = 1
	}
	return &Breaker{
		name:        name,
		maxFailures: maxFailures,
		cooldown:    cooldown,
		now:         time.Now,
		state:       StateClosed,
	}
}

// Call runs fn unless the circuit is open
func (b *Breaker) Call(fn func() error) error {
	if b == nil {
		return fn()
	}
	if !b.allow() {
		return ErrCircuitOpen
	}
	err := fn()
	b.record(err)
	return err
}

func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.cooldown {
			return false
		}
		b.state = StateHalfOpen
		b.probing = true
		logger.Logger.Info().Str("circuit", b.name).Msg("Circuit breaker transitioning to half-open")
		return true
	case StateHalfOpen:
		// one probe at a time
		if b.probing {
			return false
		}
		b.probing = true
		return true
	default:
		return true
	}
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		if b.state != StateClosed {
			logger.Logger.Info().Str("circuit", b.name).Msg("Circuit breaker closed after successful probe")
		}
		b.state = StateClosed
		b.failures = 0
		b.probing = false
		return
	}

	b.failures++
	if b.state == StateHalfOpen || b.failures >= b.maxFailures {
		if b.state != StateOpen {
			logger.Logger.Error().
				Str("circuit", b.name).
				Int("failures", b.failures).
				Int("threshold", b.maxFailures).
				Msg("Circuit breaker opened")
		}
		b.state = StateOpen
		b.openedAt = b.now()
		b.probing = false
	}
}

// State returns the current state
func (b *Breaker) State() CircuitState {
	if b == nil {
		return StateClosed
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
