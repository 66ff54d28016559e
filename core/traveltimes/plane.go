package traveltimes

import (
	"fmt"

	"github.com/kilianp07/pdptw/core/model"
)

// Plane computes travel times on an obstacle free rectangle.
type Plane struct {
	bound    model.Bound
	maxSpeed float64
	units    Units
}

var _ TravelTimes = (*Plane)(nil)

// NewPlane returns plane travel times for vehicles driving at most maxSpeed.
func NewPlane(bound model.Bound, maxSpeed float64, units Units) (*Plane, error) {
	if maxSpeed <= 0 {
		return nil, fmt.Errorf("max speed must be positive, got %v", maxSpeed)
	}
	if bound.Min.X > bound.Max.X || bound.Min.Y > bound.Max.Y {
		return nil, fmt.Errorf("invalid bound %s", bound)
	}
	return &Plane{bound: bound, maxSpeed: maxSpeed, units: units}, nil
}

// Bound returns the rectangle every queried point must lie in.
func (p *Plane) Bound() model.Bound { return p.bound }

// MaxSpeed returns the speed of the fastest vehicle.
func (p *Plane) MaxSpeed() float64 { return p.maxSpeed }

// Units returns the unit triple of p.
func (p *Plane) Units() Units { return p.units }

func (p *Plane) TheoreticalDistance(from, to model.Point) (float64, error) {
	if err := model.CheckBounds(p.bound, from, to); err != nil {
		return 0, err
	}
	return model.Distance(from, to), nil
}

// CurrentDistance equals TheoreticalDistance, the plane has no dynamic state.
func (p *Plane) CurrentDistance(from, to model.Point) (float64, error) {
	return p.TheoreticalDistance(from, to)
}

func (p *Plane) TheoreticalShortestTime(from, to model.Point) (int64, error) {
	d, err := p.TheoreticalDistance(from, to)
	if err != nil {
		return 0, err
	}
	return model.CeilTicks(model.TravelTime(d, p.units.Distance, p.maxSpeed, p.units.Speed, p.units.Time)), nil
}

func (p *Plane) CurrentShortestTime(from, to model.Point) (int64, error) {
	return p.TheoreticalShortestTime(from, to)
}

// CurrentConnectionTime drives the connection length at the maximum speed.
func (p *Plane) CurrentConnectionTime(c model.Connection) (float64, error) {
	if err := model.CheckBounds(p.bound, c.From, c.To); err != nil {
		return 0, err
	}
	return model.TravelTime(c.Length, p.units.Distance, p.maxSpeed, p.units.Speed, p.units.Time), nil
}
