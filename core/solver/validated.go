package solver

import (
	"context"

	"github.com/kilianp07/pdptw/core/model"
	"github.com/kilianp07/pdptw/core/snapshot"
	"github.com/kilianp07/pdptw/core/validator"
)

type validated struct {
	inner Solver
}

// Validated wraps inner so that every snapshot is checked with
// validator.ValidateInput before solving and every result with
// validator.ValidateOutput after.
func Validated(inner Solver) Solver {
	return validated{inner: inner}
}

func (v validated) Name() string { return Name(v.inner) }

func (v validated) Solve(ctx context.Context, s snapshot.GlobalState) ([]model.Route, error) {
	if err := validator.ValidateInput(s); err != nil {
		return nil, err
	}
	routes, err := v.inner.Solve(ctx, s)
	if err != nil {
		return nil, err
	}
	if err := validator.ValidateOutput(routes, s); err != nil {
		return nil, err
	}
	return routes, nil
}
