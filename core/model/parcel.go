package model

import (
	"fmt"

	"github.com/google/uuid"
)

// ParcelState is the lifecycle state of a parcel in the live simulation.
type ParcelState int

const (
	ParcelAnnounced ParcelState = iota
	ParcelAvailable
	ParcelPickingUp
	ParcelInCargo
	ParcelDelivering
	ParcelDelivered
)

func (s ParcelState) String() string {
	switch s {
	case ParcelAnnounced:
		return "announced"
	case ParcelAvailable:
		return "available"
	case ParcelPickingUp:
		return "picking_up"
	case ParcelInCargo:
		return "in_cargo"
	case ParcelDelivering:
		return "delivering"
	case ParcelDelivered:
		return "delivered"
	default:
		return "unknown"
	}
}

// ParcelSpec describes a transportation request.
type ParcelSpec struct {
	PickupLocation     Point
	DeliveryLocation   Point
	PickupTimeWindow   TimeWindow
	DeliveryTimeWindow TimeWindow
	PickupDuration     int64
	DeliveryDuration   int64
	NeededCapacity     float64
	AnnounceTime       int64
}

// Parcel is a transportation request. Parcels are compared by identity: two
// parcels built from the same spec are different tasks.
type Parcel struct {
	id   uuid.UUID
	spec ParcelSpec
}

// NewParcel validates spec and returns a parcel with a fresh id.
func NewParcel(spec ParcelSpec) (*Parcel, error) {
	return NewParcelWithID(uuid.New(), spec)
}

// NewParcelWithID is NewParcel with a caller provided id, used when a parcel
// is restored from a record.
func NewParcelWithID(id uuid.UUID, spec ParcelSpec) (*Parcel, error) {
	if spec.PickupDuration < 0 || spec.DeliveryDuration < 0 {
		return nil, fmt.Errorf("service durations must be >= 0")
	}
	if spec.NeededCapacity < 0 {
		return nil, fmt.Errorf("needed capacity must be >= 0")
	}
	for _, tw := range []TimeWindow{spec.PickupTimeWindow, spec.DeliveryTimeWindow} {
		if _, err := NewTimeWindow(tw.Begin, tw.End); err != nil {
			return nil, err
		}
	}
	return &Parcel{id: id, spec: spec}, nil
}

// MustParcel is NewParcel that panics on an invalid spec. Intended for tests
// and fixtures.
func MustParcel(spec ParcelSpec) *Parcel {
	p, err := NewParcel(spec)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Parcel) ID() uuid.UUID                  { return p.id }
func (p *Parcel) Spec() ParcelSpec               { return p.spec }
func (p *Parcel) PickupLocation() Point          { return p.spec.PickupLocation }
func (p *Parcel) DeliveryLocation() Point        { return p.spec.DeliveryLocation }
func (p *Parcel) PickupTimeWindow() TimeWindow   { return p.spec.PickupTimeWindow }
func (p *Parcel) DeliveryTimeWindow() TimeWindow { return p.spec.DeliveryTimeWindow }
func (p *Parcel) PickupDuration() int64          { return p.spec.PickupDuration }
func (p *Parcel) DeliveryDuration() int64        { return p.spec.DeliveryDuration }
func (p *Parcel) NeededCapacity() float64        { return p.spec.NeededCapacity }

func (p *Parcel) String() string {
	if p == nil {
		return "<nil parcel>"
	}
	return fmt.Sprintf("Parcel{%s %s->%s}", p.id.String()[:8], p.spec.PickupLocation, p.spec.DeliveryLocation)
}
