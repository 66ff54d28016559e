package simulator

import (
	"fmt"

	"github.com/kilianp07/pdptw/core/converter"
	"github.com/kilianp07/pdptw/core/model"
)

// Vehicle is a vehicle of a World.
type Vehicle struct {
	world *World
	id    string
	dto   model.VehicleDTO

	position   model.Point
	connection model.Option[model.Connection]
	cargo      []*model.Parcel
	activity   model.Option[converter.Activity]
	committed  model.Option[*model.Parcel]
	route      model.Option[model.Route]
}

func (v *Vehicle) ID() string { return v.id }

func (v *Vehicle) DTO() model.VehicleDTO { return v.dto }

func (v *Vehicle) String() string { return "Vehicle{" + v.id + "}" }

// Route implements converter.Vehicle.
func (v *Vehicle) Route() (model.Route, bool) {
	v.world.mu.RLock()
	defer v.world.mu.RUnlock()
	r, ok := v.route.Get()
	return r.Clone(), ok
}

// CommittedDestination implements converter.Vehicle.
func (v *Vehicle) CommittedDestination() (*model.Parcel, bool) {
	v.world.mu.RLock()
	defer v.world.mu.RUnlock()
	return v.committed.Get()
}

// SetRoute replaces the route v follows.
func (v *Vehicle) SetRoute(r model.Route) {
	v.world.mu.Lock()
	defer v.world.mu.Unlock()
	v.route = model.Some(r.Clone())
}

// ClearRoute removes the route of v.
func (v *Vehicle) ClearRoute() {
	v.world.mu.Lock()
	defer v.world.mu.Unlock()
	v.route = model.None[model.Route]()
}

// MoveTo places v at p, off any road segment.
func (v *Vehicle) MoveTo(p model.Point) error {
	v.world.mu.Lock()
	defer v.world.mu.Unlock()
	if err := v.world.checkBoundLocked(p); err != nil {
		return err
	}
	if v.activity.IsPresent() {
		return fmt.Errorf("%w: %s is busy", ErrIllegalState, v)
	}
	v.position = p
	v.connection = model.None[model.Connection]()
	return nil
}

// Drive places v at p on the segment c.
func (v *Vehicle) Drive(c model.Connection, p model.Point) error {
	v.world.mu.Lock()
	defer v.world.mu.Unlock()
	if err := v.world.checkBoundLocked(p, c.From, c.To); err != nil {
		return err
	}
	if v.activity.IsPresent() {
		return fmt.Errorf("%w: %s is busy", ErrIllegalState, v)
	}
	v.position = p
	v.connection = model.Some(c)
	return nil
}

// Commit makes p the destination of the idle vehicle v.
func (v *Vehicle) Commit(p *model.Parcel) error {
	w := v.world
	w.mu.Lock()
	defer w.mu.Unlock()
	st, ok := w.states[p]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParcel, p)
	}
	if st != model.ParcelAvailable && !v.carriesLocked(p) {
		return fmt.Errorf("%w: cannot commit to %s in state %s", ErrIllegalState, p, st)
	}
	v.committed = model.Some(p)
	return nil
}

// StartPickup starts picking up p at the current position. The service
// lasts remaining ticks.
func (v *Vehicle) StartPickup(p *model.Parcel, remaining int64) error {
	return v.start(p, converter.PickingUp, remaining)
}

// StartDelivery starts delivering the cargo parcel p.
func (v *Vehicle) StartDelivery(p *model.Parcel, remaining int64) error {
	return v.start(p, converter.Delivering, remaining)
}

func (v *Vehicle) start(p *model.Parcel, kind converter.ActivityKind, remaining int64) error {
	w := v.world
	w.mu.Lock()
	defer w.mu.Unlock()
	st, ok := w.states[p]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParcel, p)
	}
	if remaining < 0 {
		return fmt.Errorf("%w: negative service time %d", ErrIllegalState, remaining)
	}
	if v.activity.IsPresent() {
		return fmt.Errorf("%w: %s is busy", ErrIllegalState, v)
	}
	switch kind {
	case converter.PickingUp:
		if st != model.ParcelAvailable {
			return fmt.Errorf("%w: cannot pick up %s in state %s", ErrIllegalState, p, st)
		}
		w.states[p] = model.ParcelPickingUp
	case converter.Delivering:
		if !v.carriesLocked(p) {
			return fmt.Errorf("%w: %s does not carry %s", ErrIllegalState, v, p)
		}
		w.states[p] = model.ParcelDelivering
	}
	v.activity = model.Some(converter.Activity{Kind: kind, Parcel: p, RemainingTime: remaining})
	v.committed = model.Some(p)
	return nil
}

// FinishService completes the current service of v: a picked up parcel
// enters the cargo, a delivered one leaves it.
func (v *Vehicle) FinishService() error {
	w := v.world
	w.mu.Lock()
	defer w.mu.Unlock()
	act, ok := v.activity.Get()
	if !ok {
		return fmt.Errorf("%w: %s is idle", ErrIllegalState, v)
	}
	switch act.Kind {
	case converter.PickingUp:
		v.cargo = append(v.cargo, act.Parcel)
		w.states[act.Parcel] = model.ParcelInCargo
	case converter.Delivering:
		cargo := v.cargo[:0:0]
		for _, p := range v.cargo {
			if p != act.Parcel {
				cargo = append(cargo, p)
			}
		}
		v.cargo = cargo
		w.states[act.Parcel] = model.ParcelDelivered
	}
	v.activity = model.None[converter.Activity]()
	v.committed = model.None[*model.Parcel]()
	return nil
}

// Load puts the available parcel p directly into the cargo of v.
func (v *Vehicle) Load(p *model.Parcel) error {
	w := v.world
	w.mu.Lock()
	defer w.mu.Unlock()
	st, ok := w.states[p]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParcel, p)
	}
	if st != model.ParcelAvailable && st != model.ParcelAnnounced {
		return fmt.Errorf("%w: cannot load %s in state %s", ErrIllegalState, p, st)
	}
	v.cargo = append(v.cargo, p)
	w.states[p] = model.ParcelInCargo
	return nil
}

func (v *Vehicle) carriesLocked(p *model.Parcel) bool {
	for _, c := range v.cargo {
		if c == p {
			return true
		}
	}
	return false
}
