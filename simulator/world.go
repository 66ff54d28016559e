// Package simulator holds an in-memory live world: a clock, a road model, a
// fleet and the parcels they serve. It implements the read interfaces of the
// converter and the few mutations needed to set up a decision point. It does
// not execute routes.
package simulator

import (
	"errors"
	"fmt"
	"sync"

	"github.com/kilianp07/pdptw/core/converter"
	"github.com/kilianp07/pdptw/core/model"
	"github.com/kilianp07/pdptw/core/traveltimes"
)

var (
	// ErrUnknownVehicle is returned for vehicles that are not part of the world.
	ErrUnknownVehicle = errors.New("simulator: unknown vehicle")
	// ErrUnknownParcel is returned for parcels that are not part of the world.
	ErrUnknownParcel = errors.New("simulator: unknown parcel")
	// ErrIllegalState is returned when a mutation does not fit the state of
	// the vehicle or parcel.
	ErrIllegalState = errors.New("simulator: illegal state")
)

// Config describes the road model of a world.
type Config struct {
	Units       traveltimes.Units
	TravelTimes traveltimes.TravelTimes
	// Bound restricts vehicle positions when set.
	Bound model.Option[model.Bound]
}

// World is a mutable live world. All methods are safe for concurrent use.
type World struct {
	mu       sync.RWMutex
	now      int64
	cfg      Config
	vehicles []*Vehicle
	byID     map[string]*Vehicle
	parcels  []*model.Parcel
	states   map[*model.Parcel]model.ParcelState
}

var (
	_ converter.Clock     = (*World)(nil)
	_ converter.RoadModel = (*World)(nil)
	_ converter.PDPModel  = (*World)(nil)
	_ converter.Fleet     = (*World)(nil)
	_ converter.Vehicle   = (*Vehicle)(nil)
)

// NewWorld returns an empty world at time 0.
func NewWorld(cfg Config) (*World, error) {
	if cfg.TravelTimes == nil {
		return nil, fmt.Errorf("simulator: travel times required")
	}
	return &World{
		cfg:    cfg,
		byID:   make(map[string]*Vehicle),
		states: make(map[*model.Parcel]model.ParcelState),
	}, nil
}

// Now implements converter.Clock.
func (w *World) Now() int64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.now
}

func (w *World) TimeUnit() model.TimeUnit { return w.cfg.Units.Time }

// SetTime moves the clock. Time never goes backwards.
func (w *World) SetTime(t int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t < w.now {
		return fmt.Errorf("%w: time %d before %d", ErrIllegalState, t, w.now)
	}
	w.now = t
	w.announceLocked()
	return nil
}

// Advance moves the clock forward by d ticks.
func (w *World) Advance(d int64) error {
	if d < 0 {
		return fmt.Errorf("%w: negative advance %d", ErrIllegalState, d)
	}
	w.mu.RLock()
	t := w.now + d
	w.mu.RUnlock()
	return w.SetTime(t)
}

func (w *World) DistanceUnit() model.DistanceUnit { return w.cfg.Units.Distance }

func (w *World) SpeedUnit() model.SpeedUnit { return w.cfg.Units.Speed }

func (w *World) TravelTimes() traveltimes.TravelTimes { return w.cfg.TravelTimes }

// Vehicles implements converter.Fleet in insertion order.
func (w *World) Vehicles() []converter.Vehicle {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]converter.Vehicle, len(w.vehicles))
	for i, v := range w.vehicles {
		out[i] = v
	}
	return out
}

// Vehicle returns the vehicle with the given id.
func (w *World) Vehicle(id string) (*Vehicle, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	v, ok := w.byID[id]
	return v, ok
}

// AddVehicle adds a vehicle standing at its start position.
func (w *World) AddVehicle(id string, dto model.VehicleDTO) (*Vehicle, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.checkBoundLocked(dto.StartPosition); err != nil {
		return nil, err
	}
	if _, ok := w.byID[id]; ok {
		return nil, fmt.Errorf("%w: vehicle %s already exists", ErrIllegalState, id)
	}
	v := &Vehicle{world: w, id: id, dto: dto, position: dto.StartPosition}
	w.vehicles = append(w.vehicles, v)
	w.byID[id] = v
	return v, nil
}

// AddParcel registers p. It becomes available once the clock reaches its
// announce time.
func (w *World) AddParcel(p *model.Parcel) error {
	if p == nil {
		return fmt.Errorf("%w: nil parcel", ErrIllegalState)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.states[p]; ok {
		return fmt.Errorf("%w: %s already added", ErrIllegalState, p)
	}
	w.parcels = append(w.parcels, p)
	w.states[p] = model.ParcelAnnounced
	w.announceLocked()
	return nil
}

func (w *World) announceLocked() {
	for _, p := range w.parcels {
		if w.states[p] == model.ParcelAnnounced && p.Spec().AnnounceTime <= w.now {
			w.states[p] = model.ParcelAvailable
		}
	}
}

// State returns the lifecycle state of p.
func (w *World) State(p *model.Parcel) (model.ParcelState, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	st, ok := w.states[p]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownParcel, p)
	}
	return st, nil
}

// Parcels implements converter.PDPModel. Parcels are returned in insertion
// order.
func (w *World) Parcels(states ...model.ParcelState) []*model.Parcel {
	w.mu.RLock()
	defer w.mu.RUnlock()
	var out []*model.Parcel
	for _, p := range w.parcels {
		st := w.states[p]
		for _, want := range states {
			if st == want {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// Position implements converter.RoadModel.
func (w *World) Position(cv converter.Vehicle) (model.Point, error) {
	v, err := w.own(cv)
	if err != nil {
		return model.Point{}, err
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return v.position, nil
}

// Connection implements converter.RoadModel.
func (w *World) Connection(cv converter.Vehicle) (model.Connection, bool) {
	v, err := w.own(cv)
	if err != nil {
		return model.Connection{}, false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return v.connection.Get()
}

// Contents implements converter.PDPModel.
func (w *World) Contents(cv converter.Vehicle) []*model.Parcel {
	v, err := w.own(cv)
	if err != nil {
		return nil
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]*model.Parcel(nil), v.cargo...)
}

// Activity implements converter.PDPModel.
func (w *World) Activity(cv converter.Vehicle) (converter.Activity, bool) {
	v, err := w.own(cv)
	if err != nil {
		return converter.Activity{}, false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return v.activity.Get()
}

func (w *World) own(cv converter.Vehicle) (*Vehicle, error) {
	v, ok := cv.(*Vehicle)
	if !ok || v.world != w {
		return nil, ErrUnknownVehicle
	}
	return v, nil
}

func (w *World) checkBoundLocked(pts ...model.Point) error {
	if b, ok := w.cfg.Bound.Get(); ok {
		return model.CheckBounds(b, pts...)
	}
	return nil
}
