// Package testutil builds parcels, vehicle states and snapshots for tests.
//
// The default world is a 10x10 km plane, vehicles drive 30 km/h and time is
// counted in milliseconds.
package testutil

import (
	"testing"

	"github.com/kilianp07/pdptw/core/model"
	"github.com/kilianp07/pdptw/core/snapshot"
	"github.com/kilianp07/pdptw/core/traveltimes"
)

// Units is the unit triple of every fixture.
var Units = traveltimes.Units{Time: model.Millisecond, Distance: model.Kilometer, Speed: model.KilometersPerHour}

// Bound is the plane every fixture lives in.
var Bound = model.Bound{Min: model.Pt(0, 0), Max: model.Pt(10, 10)}

// Speed is the speed of every fixture vehicle.
const Speed = 30.0

// Plane returns plane travel times over Bound.
func Plane(t testing.TB) *traveltimes.Plane {
	t.Helper()
	p, err := traveltimes.NewPlane(Bound, Speed, Units)
	if err != nil {
		t.Fatalf("plane: %v", err)
	}
	return p
}

// Parcel returns a parcel with open time windows and no service time.
func Parcel(pickup, delivery model.Point) *model.Parcel {
	return model.MustParcel(model.ParcelSpec{
		PickupLocation:     pickup,
		DeliveryLocation:   delivery,
		PickupTimeWindow:   model.AlwaysAvailable,
		DeliveryTimeWindow: model.AlwaysAvailable,
	})
}

// DTO returns a vehicle starting at start, always available.
func DTO(start model.Point) model.VehicleDTO {
	return model.VehicleDTO{StartPosition: start, Speed: Speed, Capacity: 10, AvailabilityWindow: model.AlwaysAvailable}
}

// Vehicle builds a vehicle state and fails the test on error.
func Vehicle(t testing.TB, spec snapshot.VehicleSpec) snapshot.VehicleState {
	t.Helper()
	if spec.DTO.Speed == 0 {
		spec.DTO = DTO(spec.Location)
	}
	v, err := snapshot.NewVehicleState(spec)
	if err != nil {
		t.Fatalf("vehicle: %v", err)
	}
	return v
}

// Idle returns a vehicle standing at its start position with the given
// cargo and an optional route.
func Idle(t testing.TB, at model.Point, route model.Route, contents ...*model.Parcel) snapshot.VehicleState {
	t.Helper()
	spec := snapshot.VehicleSpec{DTO: DTO(at), Location: at, Contents: contents}
	if route != nil {
		spec.Route = model.Some(route)
	}
	return Vehicle(t, spec)
}

// State builds a snapshot on the default plane.
func State(t testing.TB, now int64, available []*model.Parcel, vehicles ...snapshot.VehicleState) snapshot.GlobalState {
	t.Helper()
	s, err := snapshot.New(snapshot.Spec{
		AvailableParcels: available,
		Vehicles:         vehicles,
		Time:             now,
		TimeUnit:         Units.Time,
		SpeedUnit:        Units.Speed,
		DistUnit:         Units.Distance,
		TravelTimes:      Plane(t),
	})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	return s
}
