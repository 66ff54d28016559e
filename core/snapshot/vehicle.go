package snapshot

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/kilianp07/pdptw/core/model"
)

// VehicleSpec holds the fields of a VehicleState.
type VehicleSpec struct {
	DTO        model.VehicleDTO
	Location   model.Point
	Connection model.Option[model.Connection]
	// Contents is the cargo of the vehicle. A parcel being picked up is not
	// part of it, a parcel being delivered is.
	Contents             []*model.Parcel
	RemainingServiceTime int64
	Destination          model.Option[*model.Parcel]
	Route                model.Option[model.Route]
}

// VehicleState is the immutable state of one vehicle in a snapshot. Two
// states are the same only if they stem from the same construction, equal
// fields are not enough.
type VehicleState struct {
	handle      uuid.UUID
	dto         model.VehicleDTO
	location    model.Point
	connection  model.Option[model.Connection]
	contents    model.ParcelSet
	remaining   int64
	destination model.Option[*model.Parcel]
	route       model.Option[model.Route]
}

// NewVehicleState validates the structure of spec. Semantic invariants such
// as cargo ownership are left to the validator.
func NewVehicleState(spec VehicleSpec) (VehicleState, error) {
	if err := spec.DTO.Validate(); err != nil {
		return VehicleState{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	for _, p := range spec.Contents {
		if p == nil {
			return VehicleState{}, fmt.Errorf("%w: nil parcel in contents", ErrInvalid)
		}
	}
	if d, ok := spec.Destination.Get(); ok && d == nil {
		return VehicleState{}, fmt.Errorf("%w: nil destination", ErrInvalid)
	}
	route := spec.Route
	if r, ok := spec.Route.Get(); ok {
		for _, p := range r {
			if p == nil {
				return VehicleState{}, fmt.Errorf("%w: nil parcel in route", ErrInvalid)
			}
		}
		route = model.Some(r.Clone())
	}
	return VehicleState{
		handle:      uuid.New(),
		dto:         spec.DTO,
		location:    spec.Location,
		connection:  spec.Connection,
		contents:    model.NewParcelSet(spec.Contents...),
		remaining:   spec.RemainingServiceTime,
		destination: spec.Destination,
		route:       route,
	}, nil
}

// Handle returns the identity of the state.
func (v VehicleState) Handle() uuid.UUID { return v.handle }

// Same reports whether v and o are the same state.
func (v VehicleState) Same(o VehicleState) bool { return v.handle == o.handle }

func (v VehicleState) DTO() model.VehicleDTO                      { return v.dto }
func (v VehicleState) Location() model.Point                      { return v.location }
func (v VehicleState) Connection() model.Option[model.Connection] { return v.connection }
func (v VehicleState) Contents() model.ParcelSet                  { return v.contents }
func (v VehicleState) RemainingServiceTime() int64                { return v.remaining }
func (v VehicleState) Destination() model.Option[*model.Parcel]   { return v.destination }

// Route returns a copy of the planned route, if any.
func (v VehicleState) Route() model.Option[model.Route] {
	if r, ok := v.route.Get(); ok {
		return model.Some(r.Clone())
	}
	return v.route
}

// Spec returns the fields of v.
func (v VehicleState) Spec() VehicleSpec {
	return VehicleSpec{
		DTO:                  v.dto,
		Location:             v.location,
		Connection:           v.connection,
		Contents:             v.contents.Items(),
		RemainingServiceTime: v.remaining,
		Destination:          v.destination,
		Route:                v.Route(),
	}
}

// WithRoute returns a new state, with a new identity, following route.
func (v VehicleState) WithRoute(route model.Option[model.Route]) (VehicleState, error) {
	spec := v.Spec()
	spec.Route = route
	return NewVehicleState(spec)
}
