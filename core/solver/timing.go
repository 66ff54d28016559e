package solver

import (
	"context"
	"sync"
	"time"

	"github.com/kilianp07/pdptw/core/model"
	"github.com/kilianp07/pdptw/core/snapshot"
)

// Measurement is the wall clock duration of one solve.
type Measurement struct {
	Input    snapshot.GlobalState
	Duration time.Duration
	Err      error
}

// TimeMeasuring records the duration of every call to its inner solver.
type TimeMeasuring struct {
	inner Solver
	now   func() time.Time

	mu  sync.Mutex
	log []Measurement
}

// NewTimeMeasuring wraps inner.
func NewTimeMeasuring(inner Solver) *TimeMeasuring {
	return &TimeMeasuring{inner: inner, now: time.Now}
}

func (t *TimeMeasuring) Name() string { return Name(t.inner) }

// Solve implements Solver.
func (t *TimeMeasuring) Solve(ctx context.Context, s snapshot.GlobalState) ([]model.Route, error) {
	start := t.now()
	routes, err := t.inner.Solve(ctx, s)
	d := t.now().Sub(start)
	t.mu.Lock()
	t.log = append(t.log, Measurement{Input: s, Duration: d, Err: err})
	t.mu.Unlock()
	return routes, err
}

// Measurements returns a copy of the log in call order.
func (t *TimeMeasuring) Measurements() []Measurement {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Measurement(nil), t.log...)
}

// Last returns the most recent measurement.
func (t *TimeMeasuring) Last() (Measurement, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.log) == 0 {
		return Measurement{}, false
	}
	return t.log[len(t.log)-1], true
}
