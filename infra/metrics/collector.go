package metrics

import (
	"context"

	coremetrics "github.com/kilianp07/pdptw/core/metrics"
	"github.com/kilianp07/pdptw/core/solver"
	"github.com/kilianp07/pdptw/infra/logger"
	"github.com/kilianp07/pdptw/internal/eventbus"
)

// SolveEvent converts a solver event to its metrics form.
func SolveEvent(e solver.Event) coremetrics.SolveEvent {
	return coremetrics.SolveEvent{
		Solver:   e.Solver,
		Outcome:  string(e.Outcome()),
		Vehicles: e.Vehicles,
		Parcels:  e.Parcels,
		Duration: e.Duration,
		Time:     e.Time,
	}
}

// StartEventCollector subscribes to the bus and records every solver event
// in sink. It stops when the context is canceled or the bus is closed. The
// returned channel is closed once the collector stopped.
func StartEventCollector(ctx context.Context, bus *eventbus.TypedBus[solver.Event], sink coremetrics.MetricsSink, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if err := sink.RecordSolve(SolveEvent(ev)); err != nil {
					log.Errorf("record solve: %v", err)
				}
				if r, ok := sink.(coremetrics.FleetSizeRecorder); ok {
					if err := r.RecordFleetSize(ev.Vehicles); err != nil {
						log.Errorf("record fleet size: %v", err)
					}
				}
			}
		}
	}()
	return done
}
