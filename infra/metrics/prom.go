package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/pdptw/core/metrics"
)

// PromSink records solver activity in Prometheus metrics.
type PromSink struct {
	solves    *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	cost      *prometheus.GaugeVec
	distance  *prometheus.GaugeVec
	tardiness *prometheus.GaugeVec
	overtime  *prometheus.GaugeVec
	fleet     prometheus.Gauge
}

// NewPromSink registers solver metrics on the default Prometheus registerer.
// The Prometheus server should be started separately with StartPromServer.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pdptw_solves_total",
			Help: "Total number of solver calls",
		}, []string{"solver", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pdptw_solve_duration_seconds",
			Help:    "Wall clock duration of solver calls",
			Buckets: prometheus.DefBuckets,
		}, []string{"solver", "outcome"}),
		cost: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pdptw_route_cost",
			Help: "Objective cost of the latest routes",
		}, []string{"solver"}),
		distance: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pdptw_vehicle_route_distance",
			Help: "Planned distance of the latest route per vehicle",
		}, []string{"vehicle"}),
		tardiness: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pdptw_vehicle_route_tardiness",
			Help: "Planned tardiness of the latest route per vehicle, in time units",
		}, []string{"vehicle"}),
		overtime: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pdptw_vehicle_route_overtime",
			Help: "Planned overtime of the latest route per vehicle, in time units",
		}, []string{"vehicle"}),
		fleet: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pdptw_fleet_vehicles",
			Help: "Number of vehicles at the latest decision",
		}),
	}
	if err := register(reg, &s.solves); err != nil {
		return nil, err
	}
	if err := register(reg, &s.duration); err != nil {
		return nil, err
	}
	for _, g := range []**prometheus.GaugeVec{&s.cost, &s.distance, &s.tardiness, &s.overtime} {
		if err := register(reg, g); err != nil {
			return nil, err
		}
	}
	if err := register(reg, &s.fleet); err != nil {
		return nil, err
	}
	return s, nil
}

// register registers *c, replacing it with the existing collector when an
// equal one is already registered.
func register[C prometheus.Collector](reg prometheus.Registerer, c *C) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				*c = existing
				return nil
			}
		}
		return err
	}
	return nil
}

// RecordSolve counts the call and observes its duration.
func (s *PromSink) RecordSolve(ev coremetrics.SolveEvent) error {
	s.solves.WithLabelValues(ev.Solver, ev.Outcome).Inc()
	s.duration.WithLabelValues(ev.Solver, ev.Outcome).Observe(ev.Duration.Seconds())
	return nil
}

// RecordRouteStats sets the cost gauge and the per vehicle gauges.
func (s *PromSink) RecordRouteStats(ev coremetrics.RouteStatsEvent) error {
	s.cost.WithLabelValues(ev.Solver).Set(ev.Cost)
	for _, v := range ev.Vehicles {
		id := strconv.Itoa(v.Vehicle)
		s.distance.WithLabelValues(id).Set(v.Distance)
		s.tardiness.WithLabelValues(id).Set(float64(v.Tardiness))
		s.overtime.WithLabelValues(id).Set(float64(v.Overtime))
	}
	return nil
}

// RecordFleetSize sets the gauge to the number of vehicles.
func (s *PromSink) RecordFleetSize(size int) error {
	if s.fleet != nil {
		s.fleet.Set(float64(size))
	}
	return nil
}
