package scenarios

import (
	"fmt"

	"github.com/kilianp07/pdptw/core/model"
	"github.com/kilianp07/pdptw/simulator"
)

// Loaded is a scenario turned into a live world.
type Loaded struct {
	Scenario *Scenario
	World    *simulator.World
	Parcels  map[string]*model.Parcel
}

// Parcel returns the parcel with the scenario id name.
func (l *Loaded) Parcel(name string) *model.Parcel { return l.Parcels[name] }

// Name returns the scenario id of p, or its uuid when p is not part of the
// scenario.
func (l *Loaded) Name(p *model.Parcel) string {
	for name, q := range l.Parcels {
		if q == p {
			return name
		}
	}
	return p.ID().String()
}

// Build creates the world described by s: vehicles and parcels are added,
// the clock is set, then cargo, activities, commitments and routes are
// applied vehicle by vehicle.
func (s *Scenario) Build() (*Loaded, error) {
	units, err := s.Units.ToModel()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	tt, bound, err := s.travelTimes(units)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	w, err := simulator.NewWorld(simulator.Config{Units: units, TravelTimes: tt, Bound: bound})
	if err != nil {
		return nil, err
	}
	l := &Loaded{Scenario: s, World: w, Parcels: make(map[string]*model.Parcel, len(s.Parcels))}
	for _, pd := range s.Parcels {
		p, err := pd.ToModel(s.Name)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
		}
		if err := w.AddParcel(p); err != nil {
			return nil, err
		}
		l.Parcels[pd.ID] = p
	}
	vehicles := make([]*simulator.Vehicle, len(s.Vehicles))
	for i, vd := range s.Vehicles {
		dto, err := vd.DTO()
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
		}
		if vehicles[i], err = w.AddVehicle(vd.ID, dto); err != nil {
			return nil, fmt.Errorf("scenario %s: vehicle %s: %w", s.Name, vd.ID, err)
		}
	}
	if err := w.SetTime(s.Time); err != nil {
		return nil, err
	}
	for i, vd := range s.Vehicles {
		if err := l.apply(vehicles[i], vd); err != nil {
			return nil, fmt.Errorf("scenario %s: vehicle %s: %w", s.Name, vd.ID, err)
		}
	}
	return l, nil
}

// LoadWorld reads the scenario at path and builds its world.
func LoadWorld(path string) (*Loaded, error) {
	sc, err := Load(path)
	if err != nil {
		return nil, err
	}
	return sc.Build()
}

func (l *Loaded) parcel(name string) (*model.Parcel, error) {
	p, ok := l.Parcels[name]
	if !ok {
		return nil, fmt.Errorf("unknown parcel %q", name)
	}
	return p, nil
}

func (l *Loaded) apply(v *simulator.Vehicle, vd VehicleDef) error {
	switch {
	case vd.Connection != nil:
		pos := vd.Connection.From
		if vd.Position != nil {
			pos = *vd.Position
		}
		c := model.Connection{From: vd.Connection.From.Point(), To: vd.Connection.To.Point()}
		c.Length = model.Distance(c.From, c.To)
		if err := v.Drive(c, pos.Point()); err != nil {
			return err
		}
	case vd.Position != nil:
		if err := v.MoveTo(vd.Position.Point()); err != nil {
			return err
		}
	}
	for _, name := range vd.Cargo {
		p, err := l.parcel(name)
		if err != nil {
			return err
		}
		if err := v.Load(p); err != nil {
			return err
		}
	}
	if a := vd.Activity; a != nil {
		p, err := l.parcel(a.Parcel)
		if err != nil {
			return err
		}
		switch a.Kind {
		case "pickup":
			err = v.StartPickup(p, a.Remaining)
		case "delivery":
			err = v.StartDelivery(p, a.Remaining)
		default:
			err = fmt.Errorf("unknown activity kind %q", a.Kind)
		}
		if err != nil {
			return err
		}
	}
	if vd.Commit != "" {
		p, err := l.parcel(vd.Commit)
		if err != nil {
			return err
		}
		if err := v.Commit(p); err != nil {
			return err
		}
	}
	if vd.Route != nil {
		r := make(model.Route, 0, len(vd.Route))
		for _, name := range vd.Route {
			p, err := l.parcel(name)
			if err != nil {
				return err
			}
			r = append(r, p)
		}
		v.SetRoute(r)
	}
	return nil
}
