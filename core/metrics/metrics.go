package metrics

import "time"

// SolveEvent describes one call to a solver.
type SolveEvent struct {
	Solver string
	// Outcome is one of "ok", "interrupted", "invalid" or "error".
	Outcome  string
	Vehicles int
	Parcels  int
	Duration time.Duration
	Time     time.Time
}

// MetricsSink records solver activity for observability purposes.
type MetricsSink interface {
	RecordSolve(ev SolveEvent) error
}

// VehicleRouteStats holds the statistics of one route. Durations are in
// snapshot time units, distances in snapshot distance units.
type VehicleRouteStats struct {
	Vehicle    int
	Parcels    int
	Distance   float64
	TravelTime int64
	Tardiness  int64
	Overtime   int64
}

// RouteStatsEvent is the result of scoring the routes of one decision.
type RouteStatsEvent struct {
	Solver          string
	SimTime         int64
	Cost            float64
	Valid           bool
	TotalDistance   float64
	TotalTravelTime int64
	Tardiness       int64
	Overtime        int64
	Vehicles        []VehicleRouteStats
	Time            time.Time
}

// RouteStatsRecorder records route statistics.
type RouteStatsRecorder interface {
	RecordRouteStats(ev RouteStatsEvent) error
}

// FleetSizeRecorder records the number of vehicles seen at a decision.
type FleetSizeRecorder interface {
	RecordFleetSize(size int) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordSolve(SolveEvent) error           { return nil }
func (NopSink) RecordRouteStats(RouteStatsEvent) error { return nil }
func (NopSink) RecordFleetSize(int) error              { return nil }
