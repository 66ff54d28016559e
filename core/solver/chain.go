package solver

import (
	"github.com/kilianp07/pdptw/core/logger"
	"github.com/kilianp07/pdptw/core/solver/recordlog"
)

// ChainOptions selects the decorators applied by NewChain.
type ChainOptions struct {
	Validate    bool
	MeasureTime bool
	Debug       bool
	PrintDebug  bool
	Logger      logger.Logger
	Store       recordlog.Store
}

// Chain is a decorated solver. Timing and Debugging are nil when not
// selected.
type Chain struct {
	Solver
	Timing    *TimeMeasuring
	Debugging *Debugging
}

// NewChain decorates base, innermost first: time measuring, debugging,
// validation. Recording happens inside validation so that rejected inputs
// never reach the log.
func NewChain(base Solver, o ChainOptions) Chain {
	c := Chain{Solver: base}
	if o.MeasureTime {
		c.Timing = NewTimeMeasuring(c.Solver)
		c.Solver = c.Timing
	}
	if o.Debug || o.Store != nil {
		c.Debugging = NewDebugging(c.Solver, DebugOptions{Print: o.PrintDebug, Logger: o.Logger, Store: o.Store})
		c.Solver = c.Debugging
	}
	if o.Validate {
		c.Solver = Validated(c.Solver)
	}
	return c
}

func (c Chain) Name() string { return Name(c.Solver) }
