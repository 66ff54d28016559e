package config

import (
	"fmt"

	"github.com/kilianp07/pdptw/core/stats"
)

// ObjectiveConfig parameterizes the cost of planned routes.
type ObjectiveConfig struct {
	VehicleSpeedKMH float64 `json:"vehicle_speed_kmh"`
	TardinessWeight float64 `json:"tardiness_weight"`
	OvertimeWeight  float64 `json:"overtime_weight"`
}

// SetDefaults applies the Gendreau 2006 reference values to unset fields.
func (c *ObjectiveConfig) SetDefaults() {
	def := stats.NewGendreau06Objective()
	if c.VehicleSpeedKMH == 0 {
		c.VehicleSpeedKMH = def.VehicleSpeedKMH
	}
	if c.TardinessWeight == 0 {
		c.TardinessWeight = def.TardinessWeight
	}
	if c.OvertimeWeight == 0 {
		c.OvertimeWeight = def.OvertimeWeight
	}
}

// Validate checks value ranges.
func (c ObjectiveConfig) Validate() error {
	if c.VehicleSpeedKMH <= 0 {
		return fmt.Errorf("vehicle_speed_kmh must be > 0")
	}
	if c.TardinessWeight < 0 || c.OvertimeWeight < 0 {
		return fmt.Errorf("weights must be >= 0")
	}
	return nil
}

// Objective returns the configured objective function.
func (c ObjectiveConfig) Objective() stats.Gendreau06Objective {
	return stats.Gendreau06Objective{
		VehicleSpeedKMH: c.VehicleSpeedKMH,
		TardinessWeight: c.TardinessWeight,
		OvertimeWeight:  c.OvertimeWeight,
	}
}
