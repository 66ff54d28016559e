package config

import (
	"fmt"
	"maps"

	"github.com/kilianp07/pdptw/core/factory"
)

// SolverConfig selects the solver and its decorators.
type SolverConfig struct {
	// Type is the registry name of the solver.
	Type string `json:"type"`
	Seed int64  `json:"seed"`
	// Conf holds extra settings decoded by the solver factory.
	Conf map[string]any `json:"conf"`
	// ValidateIO checks every input and output. Defaults to true.
	ValidateIO  *bool `json:"validate"`
	MeasureTime bool  `json:"measure_time"`
	Debug       bool  `json:"debug"`
	PrintDebug  bool  `json:"print_debug"`
}

// SetDefaults applies sane defaults.
func (c *SolverConfig) SetDefaults() {
	if c.Type == "" {
		c.Type = "random"
	}
	if c.ValidateIO == nil {
		v := true
		c.ValidateIO = &v
	}
}

// Validate checks mandatory fields.
func (c SolverConfig) Validate() error {
	if c.Type == "" {
		return fmt.Errorf("type is required")
	}
	return nil
}

// ShouldValidate reports whether the validating decorator is enabled.
func (c SolverConfig) ShouldValidate() bool {
	return c.ValidateIO == nil || *c.ValidateIO
}

// Module returns the registry configuration of the solver. The seed is
// passed along with Conf unless Conf sets one.
func (c SolverConfig) Module() factory.ModuleConfig {
	conf := maps.Clone(c.Conf)
	if conf == nil {
		conf = map[string]any{}
	}
	if _, ok := conf["seed"]; !ok && c.Seed != 0 {
		conf["seed"] = c.Seed
	}
	return factory.ModuleConfig{Type: c.Type, Conf: conf}
}
