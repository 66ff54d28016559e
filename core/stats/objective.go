package stats

import (
	"fmt"
	"strings"
	"time"
)

// ObjectiveFunction turns statistics into a scalar cost.
type ObjectiveFunction interface {
	// IsValidResult reports whether the replay describes a feasible plan.
	IsValidResult(Stats) bool
	ComputeCost(Stats) float64
	PrintHumanReadableFormat(Stats) string
}

// Gendreau06Objective is the classic dynamic PDPTW objective: travel time
// at a reference speed plus weighted tardiness and overtime, all in minutes.
type Gendreau06Objective struct {
	VehicleSpeedKMH float64
	TardinessWeight float64
	OvertimeWeight  float64
}

var _ ObjectiveFunction = Gendreau06Objective{}

// NewGendreau06Objective returns the objective with a 30 km/h reference
// speed and unit weights.
func NewGendreau06Objective() Gendreau06Objective {
	return Gendreau06Objective{VehicleSpeedKMH: 30, TardinessWeight: 1, OvertimeWeight: 1}
}

// IsValidResult requires every parcel picked up during the replay to be
// delivered as well.
func (o Gendreau06Objective) IsValidResult(s Stats) bool {
	if s.TotalDistance < 0 || s.PickupTardiness < 0 || s.DeliveryTardiness < 0 || s.OverTime < 0 {
		return false
	}
	return s.TotalDeliveries >= s.TotalPickups
}

// TravelTime returns the minutes needed to drive the total distance.
func (o Gendreau06Objective) TravelTime(s Stats) float64 {
	km := s.TotalDistance * s.DistUnit.Meters() / 1000
	return km / o.VehicleSpeedKMH * 60
}

// Tardiness returns the weighted pickup and delivery tardiness in minutes.
func (o Gendreau06Objective) Tardiness(s Stats) float64 {
	return o.TardinessWeight * minutes(s.PickupTardiness+s.DeliveryTardiness, s)
}

// OverTime returns the weighted overtime in minutes.
func (o Gendreau06Objective) OverTime(s Stats) float64 {
	return o.OvertimeWeight * minutes(s.OverTime, s)
}

func (o Gendreau06Objective) ComputeCost(s Stats) float64 {
	return o.TravelTime(s) + o.Tardiness(s) + o.OverTime(s)
}

func (o Gendreau06Objective) PrintHumanReadableFormat(s Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Travel time: %.2f min, ", o.TravelTime(s))
	fmt.Fprintf(&b, "tardiness: %.2f min, ", o.Tardiness(s))
	fmt.Fprintf(&b, "overtime: %.2f min, ", o.OverTime(s))
	fmt.Fprintf(&b, "total: %.2f", o.ComputeCost(s))
	return b.String()
}

func minutes(ticks int64, s Stats) float64 {
	return float64(ticks) * float64(s.TimeUnit.Duration()) / float64(time.Minute)
}
