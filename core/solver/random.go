package solver

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/kilianp07/pdptw/core/model"
	"github.com/kilianp07/pdptw/core/snapshot"
)

// RandomSolver assigns every free parcel to a vehicle drawn uniformly at
// random and visits the stops in random order. It produces valid but poor
// routes and serves as a baseline.
type RandomSolver struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSolver returns a RandomSolver seeded with seed.
func NewRandomSolver(seed int64) *RandomSolver {
	return &RandomSolver{rng: rand.New(rand.NewSource(seed))}
}

func (r *RandomSolver) Name() string { return "random" }

// Solve implements Solver.
func (r *RandomSolver) Solve(ctx context.Context, s snapshot.GlobalState) ([]model.Route, error) {
	if err := Interrupted(ctx); err != nil {
		return nil, err
	}
	n := s.NumVehicles()
	if n == 0 {
		return []model.Route{}, nil
	}
	destinations := make([]*model.Parcel, 0, n)
	for _, v := range s.Vehicles() {
		if d, ok := v.Destination().Get(); ok {
			destinations = append(destinations, d)
		}
	}
	free := s.AvailableParcels().Minus(model.NewParcelSet(destinations...))

	r.mu.Lock()
	defer r.mu.Unlock()
	routes := make([]model.Route, n)
	for i := range routes {
		routes[i] = model.Route{}
	}
	for _, p := range free.Items() {
		i := r.rng.Intn(n)
		routes[i] = append(routes[i], p, p)
	}
	for i, v := range s.Vehicles() {
		if err := Interrupted(ctx); err != nil {
			return nil, err
		}
		d, hasDest := v.Destination().Get()
		for _, p := range v.Contents().Items() {
			if !hasDest || p != d {
				routes[i] = append(routes[i], p)
			}
		}
		if hasDest && s.AvailableParcels().Contains(d) {
			routes[i] = append(routes[i], d)
		}
		r.rng.Shuffle(len(routes[i]), func(a, b int) {
			routes[i][a], routes[i][b] = routes[i][b], routes[i][a]
		})
		if hasDest {
			routes[i] = append(model.Route{d}, routes[i]...)
		}
	}
	return routes, nil
}

// RandomConfig configures a RandomSolver built by the registry. A zero seed
// draws one from the clock.
type RandomConfig struct {
	Seed int64 `json:"seed"`
}

func newRandomFromConfig(c RandomConfig) *RandomSolver {
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return NewRandomSolver(seed)
}
