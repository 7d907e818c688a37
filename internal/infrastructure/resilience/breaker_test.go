package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errModelDown = errors.New("model down")

func failing(b *Breaker, n int) {
	for i := 0; i < n; i++ {
		_, _ = b.Execute(func() (interface{}, error) { return nil, errModelDown })
	}
}

func tripAfter(n uint32) func(Counts) bool {
	return func(c Counts) bool { return c.ConsecutiveFailures >= n }
}

func TestBreakerTripsAndFailsFast(t *testing.T) {
	b := New("model", Settings{ReadyToTrip: tripAfter(3)})

	failing(b, 2)
	assert.Equal(t, StateClosed, b.State())

	failing(b, 1)
	require.Equal(t, StateOpen, b.State())

	called := false
	_, err := b.Execute(func() (interface{}, error) {
		called = true
		return "ok", nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called, "open breaker must not run the request")
}

func TestBreakerCountsOutcomes(t *testing.T) {
	b := New("model", Settings{})

	v, err := b.Execute(func() (interface{}, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", v)

	_, err = b.Execute(func() (interface{}, error) { return nil, errModelDown })
	assert.ErrorIs(t, err, errModelDown)

	c := b.Counts()
	assert.Equal(t, uint32(2), c.Requests)
	assert.Equal(t, uint32(1), c.TotalSuccesses)
	assert.Equal(t, uint32(1), c.TotalFailures)
	assert.Equal(t, uint32(1), c.ConsecutiveFailures)
	assert.Equal(t, uint32(0), c.ConsecutiveSuccesses)
}

func TestBreakerRecoversThroughProbes(t *testing.T) {
	b := New("model", Settings{
		MaxRequests: 2,
		Timeout:     20 * time.Millisecond,
		ReadyToTrip: tripAfter(2),
	})

	failing(b, 2)
	require.Equal(t, StateOpen, b.State())

	time.Sleep(30 * time.Millisecond)
	require.Equal(t, StateHalfOpen, b.State())

	for i := 0; i < 2; i++ {
		_, err := b.Execute(func() (interface{}, error) { return "ok", nil })
		require.NoError(t, err)
	}
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerFailedProbeReopens(t *testing.T) {
	b := New("model", Settings{
		Timeout:     20 * time.Millisecond,
		ReadyToTrip: tripAfter(1),
	})

	failing(b, 1)
	require.Equal(t, StateOpen, b.State())

	time.Sleep(30 * time.Millisecond)
	failing(b, 1)
	assert.Equal(t, StateOpen, b.State())
}

func TestBreakerLimitsConcurrentProbes(t *testing.T) {
	b := New("model", Settings{
		MaxRequests: 1,
		Timeout:     20 * time.Millisecond,
		ReadyToTrip: tripAfter(1),
	})

	failing(b, 1)
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, StateHalfOpen, b.State())

	// While the single allowed probe is in flight, a second call is
	// rejected without reaching the dependency.
	_, err := b.Execute(func() (interface{}, error) {
		_, inner := b.Execute(func() (interface{}, error) { return "ok", nil })
		assert.ErrorIs(t, inner, ErrTooManyRequests)
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerIntervalResetsClosedCounts(t *testing.T) {
	b := New("model", Settings{
		Interval:    20 * time.Millisecond,
		ReadyToTrip: tripAfter(5),
	})

	failing(b, 3)
	assert.Equal(t, uint32(3), b.Counts().ConsecutiveFailures)

	time.Sleep(30 * time.Millisecond)
	require.Equal(t, StateClosed, b.State())
	assert.Equal(t, uint32(0), b.Counts().ConsecutiveFailures,
		"interval rollover starts a fresh epoch")
}

func TestBreakerPanicCountsAsFailure(t *testing.T) {
	b := New("model", Settings{ReadyToTrip: tripAfter(1)})

	assert.Panics(t, func() {
		_, _ = b.Execute(func() (interface{}, error) { panic("boom") })
	})
	assert.Equal(t, StateOpen, b.State())
}

func TestBreakerReportsTransitions(t *testing.T) {
	var transitions []string
	b := New("model", Settings{
		Timeout:     20 * time.Millisecond,
		ReadyToTrip: tripAfter(1),
		OnStateChange: func(name string, from, to State) {
			transitions = append(transitions, from.String()+">"+to.String())
		},
	})

	failing(b, 1)
	time.Sleep(30 * time.Millisecond)
	_, err := b.Execute(func() (interface{}, error) { return "ok", nil })
	require.NoError(t, err)

	assert.Equal(t, []string{"closed>open", "open>half-open", "half-open>closed"}, transitions)
}
