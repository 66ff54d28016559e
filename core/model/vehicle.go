package model

import (
	"fmt"
)

// VehicleDTO holds the static properties of a vehicle.
type VehicleDTO struct {
	StartPosition      Point      `json:"start_position"`
	Speed              float64    `json:"speed"` // in the snapshot speed unit
	Capacity           int        `json:"capacity"`
	AvailabilityWindow TimeWindow `json:"availability_window"`
}

// Validate checks that the vehicle configuration is sound.
// In particular Speed must be positive.
func (v VehicleDTO) Validate() error {
	if v.Speed <= 0 {
		return fmt.Errorf("vehicle speed must be positive, got %v", v.Speed)
	}
	if v.Capacity < 0 {
		return fmt.Errorf("vehicle capacity must be >= 0, got %d", v.Capacity)
	}
	if v.AvailabilityWindow.End < v.AvailabilityWindow.Begin {
		return fmt.Errorf("invalid availability window %s", v.AvailabilityWindow)
	}
	return nil
}

// Connection is the road segment a vehicle is currently driving on.
type Connection struct {
	From   Point   `json:"from"`
	To     Point   `json:"to"`
	Length float64 `json:"length"`
}

// RemainingFraction returns the share of the connection still to drive when
// standing at pos, in [0,1].
func (c Connection) RemainingFraction(pos Point) float64 {
	if c.Length <= 0 {
		return 0
	}
	done := Distance(c.From, pos) / c.Length
	switch {
	case done <= 0:
		return 1
	case done >= 1:
		return 0
	}
	return 1 - done
}
