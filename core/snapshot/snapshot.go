package snapshot

import (
	"errors"
	"fmt"

	"github.com/kilianp07/pdptw/core/model"
	"github.com/kilianp07/pdptw/core/traveltimes"
)

// ErrInvalid is returned when a snapshot or vehicle state is structurally
// malformed.
var ErrInvalid = errors.New("snapshot: invalid argument")

// Spec holds the fields of a GlobalState.
type Spec struct {
	AvailableParcels []*model.Parcel
	Vehicles         []VehicleState
	Time             int64
	TimeUnit         model.TimeUnit
	SpeedUnit        model.SpeedUnit
	DistUnit         model.DistanceUnit
	TravelTimes      traveltimes.TravelTimes
}

// GlobalState is an immutable picture of the fleet and its parcels at one
// instant. Derived snapshots share the unchanged vehicle states.
type GlobalState struct {
	available   model.ParcelSet
	vehicles    []VehicleState
	time        int64
	timeUnit    model.TimeUnit
	speedUnit   model.SpeedUnit
	distUnit    model.DistanceUnit
	travelTimes traveltimes.TravelTimes
}

// New returns a snapshot built from spec.
func New(spec Spec) (GlobalState, error) {
	if spec.TravelTimes == nil {
		return GlobalState{}, fmt.Errorf("%w: travel times are required", ErrInvalid)
	}
	for _, p := range spec.AvailableParcels {
		if p == nil {
			return GlobalState{}, fmt.Errorf("%w: nil available parcel", ErrInvalid)
		}
	}
	vs := make([]VehicleState, len(spec.Vehicles))
	copy(vs, spec.Vehicles)
	return GlobalState{
		available:   model.NewParcelSet(spec.AvailableParcels...),
		vehicles:    vs,
		time:        spec.Time,
		timeUnit:    spec.TimeUnit,
		speedUnit:   spec.SpeedUnit,
		distUnit:    spec.DistUnit,
		travelTimes: spec.TravelTimes,
	}, nil
}

func (s GlobalState) AvailableParcels() model.ParcelSet    { return s.available }
func (s GlobalState) Time() int64                          { return s.time }
func (s GlobalState) TimeUnit() model.TimeUnit             { return s.timeUnit }
func (s GlobalState) SpeedUnit() model.SpeedUnit           { return s.speedUnit }
func (s GlobalState) DistUnit() model.DistanceUnit         { return s.distUnit }
func (s GlobalState) TravelTimes() traveltimes.TravelTimes { return s.travelTimes }
func (s GlobalState) NumVehicles() int                     { return len(s.vehicles) }
func (s GlobalState) Vehicle(i int) VehicleState           { return s.vehicles[i] }

// Vehicles returns a copy of the vehicle states.
func (s GlobalState) Vehicles() []VehicleState {
	out := make([]VehicleState, len(s.vehicles))
	copy(out, s.vehicles)
	return out
}

// Spec returns the fields of s.
func (s GlobalState) Spec() Spec {
	return Spec{
		AvailableParcels: s.available.Items(),
		Vehicles:         s.Vehicles(),
		Time:             s.time,
		TimeUnit:         s.timeUnit,
		SpeedUnit:        s.speedUnit,
		DistUnit:         s.distUnit,
		TravelTimes:      s.travelTimes,
	}
}

// WithSingleVehicle returns a snapshot holding only vehicle i.
func (s GlobalState) WithSingleVehicle(i int) (GlobalState, error) {
	if i < 0 || i >= len(s.vehicles) {
		return GlobalState{}, fmt.Errorf("%w: vehicle index %d out of range [0,%d)", ErrInvalid, i, len(s.vehicles))
	}
	out := s
	out.vehicles = []VehicleState{s.vehicles[i]}
	return out, nil
}

// WithRoutes returns a snapshot where vehicle i follows routes[i].
func (s GlobalState) WithRoutes(routes []model.Route) (GlobalState, error) {
	if len(routes) != len(s.vehicles) {
		return GlobalState{}, fmt.Errorf("%w: got %d routes for %d vehicles", ErrInvalid, len(routes), len(s.vehicles))
	}
	out := s
	out.vehicles = make([]VehicleState, len(s.vehicles))
	for i, v := range s.vehicles {
		nv, err := v.WithRoute(model.Some(routes[i]))
		if err != nil {
			return GlobalState{}, fmt.Errorf("vehicle %d: %w", i, err)
		}
		out.vehicles[i] = nv
	}
	return out, nil
}

// Routes returns the route of every vehicle and false when at least one
// vehicle has none.
func (s GlobalState) Routes() ([]model.Route, bool) {
	out := make([]model.Route, len(s.vehicles))
	for i, v := range s.vehicles {
		r, ok := v.Route().Get()
		if !ok {
			return nil, false
		}
		out[i] = r
	}
	return out, true
}

// UnassignedParcels returns the available parcels that occur in no route.
func (s GlobalState) UnassignedParcels() model.ParcelSet {
	var routed []*model.Parcel
	for _, v := range s.vehicles {
		if r, ok := v.route.Get(); ok {
			routed = append(routed, r...)
		}
	}
	return s.available.Minus(model.NewParcelSet(routed...))
}

// AllParcels returns the available parcels followed by the cargo of every
// vehicle.
func (s GlobalState) AllParcels() model.ParcelSet {
	all := s.available.Items()
	for _, v := range s.vehicles {
		all = append(all, v.contents.Items()...)
	}
	return model.NewParcelSet(all...)
}
