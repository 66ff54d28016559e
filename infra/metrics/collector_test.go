package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	coremetrics "github.com/kilianp07/pdptw/core/metrics"
	"github.com/kilianp07/pdptw/core/solver"
	"github.com/kilianp07/pdptw/internal/eventbus"
)

type captureSink struct {
	solves chan coremetrics.SolveEvent
	fleet  chan int
}

func (c *captureSink) RecordSolve(ev coremetrics.SolveEvent) error {
	c.solves <- ev
	return nil
}

func (c *captureSink) RecordFleetSize(n int) error {
	c.fleet <- n
	return nil
}

func TestStartEventCollector(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	bus := eventbus.NewTyped[solver.Event]()
	sink := &captureSink{solves: make(chan coremetrics.SolveEvent, 1), fleet: make(chan int, 1)}
	done := StartEventCollector(ctx, bus, sink, nil)

	bus.Publish(solver.Event{Solver: "random", Vehicles: 4, Parcels: 9, Duration: time.Second, Err: solver.ErrInterrupted})
	select {
	case ev := <-sink.solves:
		if ev.Outcome != "interrupted" || ev.Vehicles != 4 || ev.Parcels != 9 {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for solve event")
	}
	select {
	case n := <-sink.fleet:
		if n != 4 {
			t.Fatalf("fleet size = %d", n)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for fleet size")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collector did not stop")
	}
}

func TestSolveEventOutcome(t *testing.T) {
	cases := map[string]error{
		"ok":    nil,
		"error": errors.New("boom"),
	}
	for want, err := range cases {
		if got := SolveEvent(solver.Event{Err: err}).Outcome; got != want {
			t.Errorf("got %s want %s", got, want)
		}
	}
}
