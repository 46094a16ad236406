package bench

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepClock advances by a fixed step on every read.
type stepClock struct {
	now  time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func TestMeasure_RecordsElapsedAndResult(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	clock := &stepClock{now: time.Unix(0, 0), step: 1999 * time.Microsecond}

	// --- Act ---
	m, err := Measure(context.Background(), clock, "native_recursive", func(context.Context) (uint64, error) {
		return 55, nil
	})

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "native_recursive", m.Name)
	assert.Equal(t, uint64(55), m.Result)
	assert.Equal(t, 1999*time.Microsecond, m.Elapsed)
}

func TestMeasurement_UnitsTruncate(t *testing.T) {
	t.Parallel()

	m := Measurement{Elapsed: 1999999 * time.Nanosecond}
	assert.Equal(t, int64(1), m.Millis())
	assert.Equal(t, int64(1999), m.Micros())
	assert.Equal(t, int64(1999999), m.Nanos())

	zero := Measurement{Elapsed: 999 * time.Nanosecond}
	assert.Equal(t, int64(0), zero.Millis())
	assert.Equal(t, int64(0), zero.Micros())
}

func TestMeasure_WrapsErrorWithCaseName(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := Measure(context.Background(), nil, "js_recursive", func(context.Context) (uint64, error) {
		return 0, boom
	})

	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "case js_recursive")
}

func TestMeasure_CancelledContextSkipsCall(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	_, err := Measure(ctx, nil, "native_iterative", func(context.Context) (uint64, error) {
		called = true
		return 0, nil
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestMeasure_SystemClock(t *testing.T) {
	t.Parallel()

	m, err := Measure(context.Background(), SystemClock, "sleep", func(context.Context) (uint64, error) {
		time.Sleep(2 * time.Millisecond)
		return 1, nil
	})

	require.NoError(t, err)
	assert.GreaterOrEqual(t, m.Elapsed, 2*time.Millisecond)
}
