package app

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/pdptw/config"
	coremetrics "github.com/kilianp07/pdptw/core/metrics"
	"github.com/kilianp07/pdptw/core/solver"
	"github.com/kilianp07/pdptw/core/solver/recordlog"
	"github.com/kilianp07/pdptw/infra/logger"
	"github.com/kilianp07/pdptw/qa/scenarios"
)

const worldYAML = `name: app
units: {time: ms, distance: km, speed: km/h}
time: 1000
plane: {min: [0, 0], max: [10, 10]}
vehicles:
  - id: a
    start: [0, 0]
    speed: 40
    capacity: 10
    cargo: [loaded]
  - id: b
    start: [5, 5]
    speed: 40
    capacity: 10
parcels:
  - {id: loaded, pickup: [1, 1], delivery: [2, 2]}
  - {id: p1, pickup: [3, 3], delivery: [4, 4], pickup_duration: 1000, delivery_duration: 1000}
  - {id: p2, pickup: [6, 6], delivery: [1, 8]}
  - {id: later, pickup: [6, 6], delivery: [1, 8], announce: 5000}
`

type captureSink struct {
	mu     sync.Mutex
	solves []coremetrics.SolveEvent
	routes []coremetrics.RouteStatsEvent
}

func (c *captureSink) RecordSolve(ev coremetrics.SolveEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.solves = append(c.solves, ev)
	return nil
}

func (c *captureSink) RecordRouteStats(ev coremetrics.RouteStatsEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.routes = append(c.routes, ev)
	return nil
}

func newService(t *testing.T, mutate func(*config.Config)) (*Service, *captureSink, *scenarios.Loaded) {
	t.Helper()
	sc, err := scenarios.Parse([]byte(worldYAML))
	require.NoError(t, err)
	l, err := sc.Build()
	require.NoError(t, err)
	cfg := &config.Config{}
	cfg.Solver.Seed = 7
	if mutate != nil {
		mutate(cfg)
	}
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())
	sink := &captureSink{}
	svc, err := New(cfg, l.World, WithSink(sink), WithLogger(logger.NopLogger{}))
	require.NoError(t, err)
	return svc, sink, l
}

func TestDecideAssignsRoutes(t *testing.T) {
	svc, sink, l := newService(t, nil)
	dec, err := svc.Decide(context.Background())
	require.NoError(t, err)
	require.NoError(t, svc.Close())

	assert.True(t, dec.Valid)
	assert.Len(t, dec.Routes, 2)
	// loaded once, p1 and p2 twice; later is announced and therefore available
	assert.Equal(t, 4, dec.Stats.TotalParcels)
	assert.Equal(t, 7, len(dec.Routes[0])+len(dec.Routes[1]))
	assert.Greater(t, dec.Cost, 0.0)

	for i, id := range []string{"a", "b"} {
		v, ok := l.World.Vehicle(id)
		require.True(t, ok)
		r, ok := v.Route()
		require.True(t, ok, "vehicle %s has no route", id)
		assert.Equal(t, dec.Routes[i], r)
	}

	require.Len(t, sink.solves, 1)
	assert.Equal(t, string(solver.OutcomeOK), sink.solves[0].Outcome)
	assert.Equal(t, 2, sink.solves[0].Vehicles)
	require.Len(t, sink.routes, 1)
	assert.Equal(t, dec.Cost, sink.routes[0].Cost)
	assert.Len(t, sink.routes[0].Vehicles, 2)
}

func TestScoreMatchesDecision(t *testing.T) {
	svc, _, _ := newService(t, nil)
	defer svc.Close()
	dec, err := svc.Decide(context.Background())
	require.NoError(t, err)
	score, err := svc.Score(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, dec.Cost, score.Cost, 1e-9)
	assert.Equal(t, dec.Stats.TotalDistance, score.Stats.TotalDistance)
}

func TestScoreWithoutRoutes(t *testing.T) {
	svc, _, _ := newService(t, nil)
	defer svc.Close()
	score, err := svc.Score(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, score.Stats.TotalParcels)
}

func TestDecideInterrupted(t *testing.T) {
	svc, sink, l := newService(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Decide(ctx)
	if !errors.Is(err, solver.ErrInterrupted) {
		t.Fatalf("expected interrupted, got %v", err)
	}
	require.NoError(t, svc.Close())
	require.Len(t, sink.solves, 1)
	assert.Equal(t, string(solver.OutcomeInterrupted), sink.solves[0].Outcome)
	v, _ := l.World.Vehicle("a")
	if _, ok := v.Route(); ok {
		t.Fatalf("route applied after interrupted solve")
	}
}

func TestDecideRecordsSolves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solves.jsonl")
	svc, _, _ := newService(t, func(c *config.Config) {
		c.RecordLog.Backend = "jsonl"
		c.RecordLog.Path = path
	})
	_, err := svc.Decide(context.Background())
	require.NoError(t, err)
	require.NoError(t, svc.Close())

	store, err := recordlog.NewJSONLStore(path)
	require.NoError(t, err)
	defer store.Close()
	entries, err := store.Query(context.Background(), recordlog.Query{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "random", entries[0].Solver)
	assert.Len(t, entries[0].Output, 2)
}

func TestNewErrors(t *testing.T) {
	if _, err := New(nil, nil); err == nil {
		t.Fatalf("expected error")
	}
	sc, err := scenarios.Parse([]byte(worldYAML))
	require.NoError(t, err)
	l, err := sc.Build()
	require.NoError(t, err)
	cfg := &config.Config{}
	cfg.SetDefaults()
	cfg.Solver.Type = "unknown"
	if _, err := New(cfg, l.World, WithSink(coremetrics.NopSink{})); err == nil {
		t.Fatalf("expected unknown solver error")
	}
}

func TestCloseIdempotent(t *testing.T) {
	svc, _, _ := newService(t, nil)
	require.NoError(t, svc.Close())
	require.NoError(t, svc.Close())
}

func TestRunStopsOnCancel(t *testing.T) {
	svc, sink, _ := newService(t, nil)
	defer svc.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, svc.Run(ctx))
	require.NoError(t, svc.Close())
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.solves) != 1 {
		t.Fatalf("expected one decision before stopping, got %d", len(sink.solves))
	}
}

func TestRunRejectsZeroInterval(t *testing.T) {
	svc, _, _ := newService(t, nil)
	defer svc.Close()
	svc.cfg.Serve.IntervalSeconds = 0
	if err := svc.Run(context.Background()); err == nil {
		t.Fatalf("expected interval error")
	}
}
