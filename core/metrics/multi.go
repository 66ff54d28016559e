package metrics

import "errors"

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordSolve forwards the event to all sinks. Every sink is called, errors
// are joined.
func (m *MultiSink) RecordSolve(ev SolveEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		errs = append(errs, s.RecordSolve(ev))
	}
	return errors.Join(errs...)
}

// RecordRouteStats forwards route statistics when supported by the sink.
func (m *MultiSink) RecordRouteStats(ev RouteStatsEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if r, ok := s.(RouteStatsRecorder); ok {
			errs = append(errs, r.RecordRouteStats(ev))
		}
	}
	return errors.Join(errs...)
}

// RecordFleetSize forwards fleet size metrics when supported by the sink.
func (m *MultiSink) RecordFleetSize(size int) error {
	var errs []error
	for _, s := range m.Sinks {
		if r, ok := s.(FleetSizeRecorder); ok {
			errs = append(errs, r.RecordFleetSize(size))
		}
	}
	return errors.Join(errs...)
}
