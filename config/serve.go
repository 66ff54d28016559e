package config

import (
	"fmt"
	"time"
)

// ServeConfig drives the periodic decision loop of the serve command.
type ServeConfig struct {
	// IntervalSeconds is the wall clock time between two decisions.
	IntervalSeconds int `json:"interval_seconds"`
	// TickAdvance is the simulation time added to the clock before each
	// decision, in world time units.
	TickAdvance int64 `json:"tick_advance"`
	// SolveTimeoutSeconds bounds a single solve. Zero means no bound.
	SolveTimeoutSeconds int `json:"solve_timeout_seconds"`
}

// SetDefaults applies sane defaults.
func (c *ServeConfig) SetDefaults() {
	if c.IntervalSeconds == 0 {
		c.IntervalSeconds = 10
	}
}

// Validate checks value ranges.
func (c ServeConfig) Validate() error {
	if c.IntervalSeconds < 0 || c.TickAdvance < 0 || c.SolveTimeoutSeconds < 0 {
		return fmt.Errorf("values must be >= 0")
	}
	return nil
}

// Interval returns the decision interval.
func (c ServeConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// SolveTimeout returns the solve bound, zero when unbounded.
func (c ServeConfig) SolveTimeout() time.Duration {
	return time.Duration(c.SolveTimeoutSeconds) * time.Second
}
