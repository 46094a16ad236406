package bench

import (
	"context"
	"fmt"
	"time"
)

// Clock supplies timestamps. SystemClock is used outside of tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads the wall clock, including its monotonic reading.
var SystemClock Clock = systemClock{}

// Func is one timed operation. It returns the fibonacci number it computed.
type Func func(ctx context.Context) (uint64, error)

// Measurement is the outcome of timing one case.
type Measurement struct {
	Name    string
	Title   string
	N       int
	Result  uint64
	Elapsed time.Duration
}

// Millis returns the elapsed time in whole milliseconds, truncated.
func (m Measurement) Millis() int64 { return m.Elapsed.Milliseconds() }

// Micros returns the elapsed time in whole microseconds, truncated.
func (m Measurement) Micros() int64 { return m.Elapsed.Microseconds() }

// Nanos returns the elapsed time in nanoseconds.
func (m Measurement) Nanos() int64 { return m.Elapsed.Nanoseconds() }

// Measure takes a timestamp, runs fn, takes another and records the
// difference. A nil clock means SystemClock.
func Measure(ctx context.Context, clock Clock, name string, fn Func) (Measurement, error) {
	if clock == nil {
		clock = SystemClock
	}
	if err := ctx.Err(); err != nil {
		return Measurement{}, fmt.Errorf("case %s: %w", name, err)
	}

	start := clock.Now()
	result, err := fn(ctx)
	end := clock.Now()

	if err != nil {
		return Measurement{}, fmt.Errorf("case %s: %w", name, err)
	}
	return Measurement{
		Name:    name,
		Result:  result,
		Elapsed: end.Sub(start),
	}, nil
}
