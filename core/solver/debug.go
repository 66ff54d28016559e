package solver

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/pdptw/core/logger"
	"github.com/kilianp07/pdptw/core/model"
	"github.com/kilianp07/pdptw/core/snapshot"
	"github.com/kilianp07/pdptw/core/solver/recordlog"
)

// Pair is one input/output pair seen by a Debugging solver.
type Pair struct {
	Input  snapshot.GlobalState
	Output []model.Route
	Err    error
}

// DebugOptions configures a Debugging solver.
type DebugOptions struct {
	// Print logs every pair through Logger.
	Print  bool
	Logger logger.Logger
	// Store persists every pair when set. Persistence errors are logged and
	// never fail the solve.
	Store recordlog.Store
}

// Debugging records every input/output pair of its inner solver.
type Debugging struct {
	inner Solver
	opts  DebugOptions
	now   func() time.Time

	mu    sync.Mutex
	pairs []Pair
}

// NewDebugging wraps inner.
func NewDebugging(inner Solver, opts DebugOptions) *Debugging {
	opts.Logger = logger.OrNop(opts.Logger)
	return &Debugging{inner: inner, opts: opts, now: time.Now}
}

func (d *Debugging) Name() string { return Name(d.inner) }

// Solve implements Solver.
func (d *Debugging) Solve(ctx context.Context, s snapshot.GlobalState) ([]model.Route, error) {
	start := d.now()
	routes, err := d.inner.Solve(ctx, s)
	elapsed := d.now().Sub(start)

	out := make([]model.Route, len(routes))
	for i, r := range routes {
		out[i] = r.Clone()
	}
	d.mu.Lock()
	d.pairs = append(d.pairs, Pair{Input: s, Output: out, Err: err})
	d.mu.Unlock()

	if d.opts.Print {
		d.print(s, routes, err)
	}
	if d.opts.Store != nil {
		d.persist(ctx, start, elapsed, s, routes, err)
	}
	return routes, err
}

func (d *Debugging) print(s snapshot.GlobalState, routes []model.Route, err error) {
	fields := map[string]any{
		"solver":    Name(d.inner),
		"time":      s.Time(),
		"vehicles":  s.NumVehicles(),
		"available": snapshot.IDs(s.AvailableParcels().Items()),
		"routes":    snapshot.RouteIDs(routes),
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	d.opts.Logger.Debugw("solve", fields)
}

func (d *Debugging) persist(ctx context.Context, ts time.Time, elapsed time.Duration, s snapshot.GlobalState, routes []model.Route, err error) {
	e := recordlog.Entry{
		ID:        uuid.New(),
		Timestamp: ts,
		Solver:    Name(d.inner),
		Input:     snapshot.NewRecord(s, routes...),
		Duration:  elapsed,
	}
	if err != nil {
		e.Error = err.Error()
	} else {
		e.Output = snapshot.RouteIDs(routes)
	}
	// a cancelled solve is still worth recording
	if aerr := d.opts.Store.Append(context.WithoutCancel(ctx), e); aerr != nil {
		d.opts.Logger.Errorf("record solve: %v", aerr)
	}
}

// Pairs returns a copy of the recorded pairs in call order.
func (d *Debugging) Pairs() []Pair {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Pair(nil), d.pairs...)
}
