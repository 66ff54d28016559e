package converter

import (
	"github.com/kilianp07/pdptw/core/model"
	"github.com/kilianp07/pdptw/core/traveltimes"
)

// Vehicle is a live vehicle.
type Vehicle interface {
	DTO() model.VehicleDTO
	// Route returns the route the vehicle currently follows, if any.
	Route() (model.Route, bool)
	// CommittedDestination returns the parcel the vehicle is driving to, if
	// it committed to one.
	CommittedDestination() (*model.Parcel, bool)
}

// Fleet lists the live vehicles in a stable order.
type Fleet interface {
	Vehicles() []Vehicle
}

// Clock exposes the simulation time.
type Clock interface {
	Now() int64
	TimeUnit() model.TimeUnit
}

// RoadModel exposes positions and travel times.
type RoadModel interface {
	Position(v Vehicle) (model.Point, error)
	// Connection returns the road segment v is driving on, if any.
	Connection(v Vehicle) (model.Connection, bool)
	DistanceUnit() model.DistanceUnit
	SpeedUnit() model.SpeedUnit
	// TravelTimes returns travel times valid for the current road graph.
	TravelTimes() traveltimes.TravelTimes
}

// ActivityKind tells what a busy vehicle is doing.
type ActivityKind int

const (
	PickingUp ActivityKind = iota
	Delivering
)

// Activity is the service a vehicle is busy with.
type Activity struct {
	Kind          ActivityKind
	Parcel        *model.Parcel
	RemainingTime int64
}

// PDPModel exposes cargo and parcel lifecycle.
type PDPModel interface {
	// Contents returns the cargo of v, including a parcel being delivered
	// but excluding one being picked up.
	Contents(v Vehicle) []*model.Parcel
	// Activity returns the service v is busy with, false when v is idle.
	Activity(v Vehicle) (Activity, bool)
	// Parcels returns the parcels in any of the given states.
	Parcels(states ...model.ParcelState) []*model.Parcel
}
