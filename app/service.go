// Package app wires a live world to the decision pipeline: conversion,
// solving, scoring and observability.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/pdptw/config"
	"github.com/kilianp07/pdptw/core/converter"
	coremetrics "github.com/kilianp07/pdptw/core/metrics"
	"github.com/kilianp07/pdptw/core/model"
	"github.com/kilianp07/pdptw/core/snapshot"
	"github.com/kilianp07/pdptw/core/solver"
	"github.com/kilianp07/pdptw/core/solver/recordlog"
	"github.com/kilianp07/pdptw/core/stats"
	"github.com/kilianp07/pdptw/infra/logger"
	"github.com/kilianp07/pdptw/infra/metrics"
	"github.com/kilianp07/pdptw/internal/eventbus"
	"github.com/kilianp07/pdptw/simulator"
)

// Decision is the outcome of one decision cycle.
type Decision struct {
	State    snapshot.GlobalState
	Routes   []model.Route
	Stats    stats.Stats
	Cost     float64
	Valid    bool
	Duration time.Duration
}

// Option customizes a Service.
type Option func(*Service)

// WithSink replaces the sinks built from the configuration.
func WithSink(s coremetrics.MetricsSink) Option { return func(svc *Service) { svc.sink = s } }

// WithStore replaces the record store opened from the configuration.
func WithStore(s recordlog.Store) Option { return func(svc *Service) { svc.store = s } }

// WithLogger sets the service logger.
func WithLogger(l logger.Logger) Option { return func(svc *Service) { svc.log = l } }

// Service runs decision cycles on a world.
type Service struct {
	cfg       *config.Config
	world     *simulator.World
	conv      *converter.Converter
	chain     solver.Chain
	objective stats.Gendreau06Objective
	sink      coremetrics.MetricsSink
	store     recordlog.Store
	bus       *eventbus.TypedBus[solver.Event]
	log       logger.Logger

	mu        sync.Mutex
	cancel    context.CancelFunc
	collector <-chan struct{}
	closed    bool
}

// New creates a Service deciding for world.
func New(cfg *config.Config, world *simulator.World, opts ...Option) (*Service, error) {
	if cfg == nil || world == nil {
		return nil, fmt.Errorf("app: config and world are required")
	}
	svc := &Service{cfg: cfg, world: world, objective: cfg.Objective.Objective()}
	for _, o := range opts {
		o(svc)
	}
	if svc.log == nil {
		svc.log = logger.New("service")
	}
	if svc.sink == nil {
		sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
		if err != nil {
			return nil, fmt.Errorf("metrics sink: %w", err)
		}
		svc.sink = sink
	}
	if svc.store == nil {
		store, err := recordlog.Open(cfg.RecordLog)
		if err != nil {
			return nil, fmt.Errorf("record store: %w", err)
		}
		svc.store = store
	}
	conv, err := converter.New(world, world, world, world, cfg.Converter.AllowDiversion, svc.log)
	if err != nil {
		return nil, err
	}
	svc.conv = conv
	base, err := solver.New(cfg.Solver.Module())
	if err != nil {
		return nil, fmt.Errorf("solver: %w", err)
	}
	svc.chain = solver.NewChain(base, solver.ChainOptions{
		Validate:    cfg.Solver.ShouldValidate(),
		MeasureTime: cfg.Solver.MeasureTime,
		Debug:       cfg.Solver.Debug,
		PrintDebug:  cfg.Solver.PrintDebug,
		Logger:      svc.log,
		Store:       svc.store,
	})

	svc.bus = eventbus.NewTyped[solver.Event]()
	ctx, cancel := context.WithCancel(context.Background())
	svc.cancel = cancel
	svc.collector = metrics.StartEventCollector(ctx, svc.bus, svc.sink, svc.log)
	return svc, nil
}

// Events returns the bus solver events are published on.
func (s *Service) Events() *eventbus.TypedBus[solver.Event] { return s.bus }

// Solver returns the decorated solver.
func (s *Service) Solver() solver.Chain { return s.chain }

// World returns the world the service decides for.
func (s *Service) World() *simulator.World { return s.world }

// Decide converts the world, solves the snapshot, scores the routes and
// hands them to the vehicles.
func (s *Service) Decide(ctx context.Context) (Decision, error) {
	state, err := s.conv.Convert(s.cfg.Converter.Options())
	if err != nil {
		return Decision{}, fmt.Errorf("convert: %w", err)
	}
	start := time.Now()
	routes, err := s.chain.Solve(ctx, state)
	d := time.Since(start)
	s.bus.Publish(solver.Event{
		Solver:   s.chain.Name(),
		Time:     start,
		Duration: d,
		Vehicles: state.NumVehicles(),
		Parcels:  state.AvailableParcels().Len(),
		Err:      err,
	})
	if err != nil {
		return Decision{State: state, Duration: d}, fmt.Errorf("solve: %w", err)
	}
	dec, err := s.score(state, routes)
	if err != nil {
		return dec, err
	}
	dec.Duration = d
	if err := s.apply(routes); err != nil {
		return dec, err
	}
	s.log.Infof("decision at %d: %d vehicles, %d parcels, cost %.2f", state.Time(), state.NumVehicles(), dec.Stats.TotalParcels, dec.Cost)
	return dec, nil
}

// Score evaluates the routes the vehicles currently follow without
// solving. Vehicles without a route score as idle.
func (s *Service) Score(ctx context.Context) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Decision{}, err
	}
	state, err := s.conv.Convert(converter.Options{UseCurrentRoutes: true})
	if err != nil {
		return Decision{}, fmt.Errorf("convert: %w", err)
	}
	routes, _ := state.Routes()
	return s.score(state, routes)
}

func (s *Service) score(state snapshot.GlobalState, routes []model.Route) (Decision, error) {
	st, err := stats.Compute(state, routes)
	if err != nil {
		return Decision{State: state, Routes: routes}, err
	}
	dec := Decision{
		State:  state,
		Routes: routes,
		Stats:  st,
		Cost:   s.objective.ComputeCost(st),
		Valid:  s.objective.IsValidResult(st),
	}
	if r, ok := s.sink.(coremetrics.RouteStatsRecorder); ok {
		if err := r.RecordRouteStats(routeStatsEvent(s.chain.Name(), dec)); err != nil {
			s.log.Errorf("record route stats: %v", err)
		}
	}
	return dec, nil
}

func routeStatsEvent(name string, dec Decision) coremetrics.RouteStatsEvent {
	ev := coremetrics.RouteStatsEvent{
		Solver:          name,
		SimTime:         dec.State.Time(),
		Cost:            dec.Cost,
		Valid:           dec.Valid,
		TotalDistance:   dec.Stats.TotalDistance,
		TotalTravelTime: dec.Stats.TotalTravelTime,
		Tardiness:       dec.Stats.PickupTardiness + dec.Stats.DeliveryTardiness,
		Overtime:        dec.Stats.OverTime,
		Time:            time.Now(),
	}
	for i, vs := range dec.Stats.Vehicles {
		ev.Vehicles = append(ev.Vehicles, coremetrics.VehicleRouteStats{
			Vehicle:    i,
			Parcels:    len(dec.Routes[i].Distinct()),
			Distance:   vs.TotalDistance,
			TravelTime: vs.TotalTravelTime,
			Tardiness:  vs.PickupTardiness + vs.DeliveryTardiness,
			Overtime:   vs.OverTime,
		})
	}
	return ev
}

// apply hands routes to the vehicles in fleet order.
func (s *Service) apply(routes []model.Route) error {
	vs := s.world.Vehicles()
	if len(vs) != len(routes) {
		return fmt.Errorf("fleet changed during decision: %d vehicles, %d routes", len(vs), len(routes))
	}
	for i, cv := range vs {
		v, ok := cv.(*simulator.Vehicle)
		if !ok {
			return fmt.Errorf("%w: %T", simulator.ErrUnknownVehicle, cv)
		}
		v.SetRoute(routes[i])
	}
	return nil
}

// Run decides every interval until ctx is cancelled. The world clock is
// advanced by the configured tick before each decision. Failed decisions
// are logged and do not stop the loop. When a Prometheus address is
// configured the metrics server shares the loop's lifetime: if it fails to
// listen, Run returns its error.
func (s *Service) Run(ctx context.Context) error {
	interval := s.cfg.Serve.Interval()
	if interval <= 0 {
		return fmt.Errorf("app: interval must be positive")
	}
	group, ctx := errgroup.WithContext(ctx)
	if addr := s.cfg.Metrics.PrometheusAddr; addr != "" {
		group.Go(func() error {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				return fmt.Errorf("prom server: %w", err)
			}
			return nil
		})
	}
	group.Go(func() error { return s.loop(ctx, interval) })
	return group.Wait()
}

func (s *Service) loop(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		s.cycle(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.world.Advance(s.cfg.Serve.TickAdvance); err != nil {
				return err
			}
		}
	}
}

func (s *Service) cycle(ctx context.Context) {
	if timeout := s.cfg.Serve.SolveTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if _, err := s.Decide(ctx); err != nil {
		s.log.Errorf("decision failed: %v", err)
	}
}

// Close stops the event collector and releases the store and sinks.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	// Closing the bus lets the collector drain pending events.
	s.bus.Close()
	<-s.collector
	s.cancel()
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
