// Package solver defines the contract of routing algorithms and the
// decorators that add validation, timing and debugging around any of them.
//
// A Solver maps a snapshot to exactly one route per vehicle. Decorators hold
// an inner Solver and implement the same interface, so they compose freely:
//
//	s := solver.Validated(solver.NewDebugging(solver.NewTimeMeasuring(base), opts))
package solver

import (
	"context"
	"errors"
	"fmt"

	"github.com/kilianp07/pdptw/core/model"
	"github.com/kilianp07/pdptw/core/snapshot"
)

// ErrInterrupted is returned when a solve is cancelled before it produced
// routes. Errors wrapping it also wrap the context error.
var ErrInterrupted = errors.New("solver: interrupted")

// Solver computes one route per vehicle of a snapshot. Implementations must
// not depend on mutable state outside of the snapshot and must return an
// error matching ErrInterrupted when ctx is cancelled.
type Solver interface {
	Solve(ctx context.Context, s snapshot.GlobalState) ([]model.Route, error)
}

// Func adapts a function to the Solver interface.
type Func func(ctx context.Context, s snapshot.GlobalState) ([]model.Route, error)

func (f Func) Solve(ctx context.Context, s snapshot.GlobalState) ([]model.Route, error) {
	return f(ctx, s)
}

// Named is implemented by solvers that report a name for logs and metrics.
type Named interface {
	Name() string
}

// Name returns the name of s, looking through decorators.
func Name(s Solver) string {
	if n, ok := s.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", s)
}

// Interrupted returns nil while ctx is live, and an error matching both
// ErrInterrupted and the context error once it is done.
func Interrupted(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrInterrupted, err)
	}
	return nil
}
