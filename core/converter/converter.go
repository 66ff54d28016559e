package converter

import (
	"fmt"

	"github.com/kilianp07/pdptw/core/logger"
	"github.com/kilianp07/pdptw/core/model"
	"github.com/kilianp07/pdptw/core/snapshot"
)

// Options selects what Convert puts in the snapshot.
type Options struct {
	// Parcels overrides the available parcels. When nil every announced,
	// available or picking up parcel is used.
	Parcels []*model.Parcel
	// UseCurrentRoutes copies the route every vehicle follows. Vehicles
	// without a route get an empty one.
	UseCurrentRoutes bool
	// FixRoutes repairs the copied routes, see FixRoutes. It implies
	// UseCurrentRoutes.
	FixRoutes bool
}

// Config defines converter settings.
type Config struct {
	AllowDiversion   bool `json:"allow_diversion"`
	FixRoutes        bool `json:"fix_routes"`
	UseCurrentRoutes bool `json:"use_current_routes"`
}

// Options returns the conversion options selected by c.
func (c Config) Options() Options {
	return Options{UseCurrentRoutes: c.UseCurrentRoutes, FixRoutes: c.FixRoutes}
}

// Converter builds snapshots from the live simulation.
type Converter struct {
	clock          Clock
	road           RoadModel
	pdp            PDPModel
	fleet          Fleet
	allowDiversion bool
	log            logger.Logger
}

// New returns a converter. When allowDiversion is false, an idle vehicle
// keeps the parcel it committed to as its destination.
func New(clock Clock, road RoadModel, pdp PDPModel, fleet Fleet, allowDiversion bool, log logger.Logger) (*Converter, error) {
	if clock == nil || road == nil || pdp == nil || fleet == nil {
		return nil, fmt.Errorf("converter: nil collaborator provided to New")
	}
	return &Converter{clock: clock, road: road, pdp: pdp, fleet: fleet, allowDiversion: allowDiversion, log: logger.OrNop(log)}, nil
}

// Convert reads the live simulation and returns a snapshot.
//
//gocyclo:ignore
func (c *Converter) Convert(opts Options) (snapshot.GlobalState, error) {
	parcels := opts.Parcels
	if parcels == nil {
		parcels = c.pdp.Parcels(model.ParcelAnnounced, model.ParcelAvailable, model.ParcelPickingUp)
	}
	available := model.NewParcelSet(parcels...).Items()
	known := model.NewParcelSet(available...)

	vehicles := c.fleet.Vehicles()
	states := make([]snapshot.VehicleState, len(vehicles))
	for i, v := range vehicles {
		pos, err := c.road.Position(v)
		if err != nil {
			return snapshot.GlobalState{}, fmt.Errorf("converter: vehicle %d position: %w", i, err)
		}
		contents := c.pdp.Contents(v)
		carried := model.NewParcelSet(contents...)
		// A claimed parcel stays claimable by its vehicle only.
		surface := func(d *model.Parcel) {
			if !carried.Contains(d) && !known.Contains(d) {
				available = append(available, d)
				known = model.NewParcelSet(available...)
			}
		}
		spec := snapshot.VehicleSpec{
			DTO:      v.DTO(),
			Location: pos,
			Contents: contents,
		}
		if conn, ok := c.road.Connection(v); ok {
			spec.Connection = model.Some(conn)
		}
		if act, ok := c.pdp.Activity(v); ok {
			spec.Destination = model.Some(act.Parcel)
			spec.RemainingServiceTime = act.RemainingTime
			if act.Kind == PickingUp {
				surface(act.Parcel)
			}
		} else if !c.allowDiversion {
			if d, ok := v.CommittedDestination(); ok && d != nil {
				spec.Destination = model.Some(d)
				surface(d)
			}
		}
		if opts.UseCurrentRoutes || opts.FixRoutes {
			r, ok := v.Route()
			if !ok {
				r = model.Route{}
			}
			spec.Route = model.Some(r)
		}
		if states[i], err = snapshot.NewVehicleState(spec); err != nil {
			return snapshot.GlobalState{}, fmt.Errorf("converter: vehicle %d: %w", i, err)
		}
	}

	s, err := snapshot.New(snapshot.Spec{
		AvailableParcels: available,
		Vehicles:         states,
		Time:             c.clock.Now(),
		TimeUnit:         c.clock.TimeUnit(),
		SpeedUnit:        c.road.SpeedUnit(),
		DistUnit:         c.road.DistanceUnit(),
		TravelTimes:      c.road.TravelTimes(),
	})
	if err != nil {
		return snapshot.GlobalState{}, fmt.Errorf("converter: %w", err)
	}
	if opts.FixRoutes {
		if s, err = FixRoutes(s); err != nil {
			return snapshot.GlobalState{}, err
		}
	}
	c.log.Debugw("snapshot converted", map[string]any{
		"time":      s.Time(),
		"vehicles":  s.NumVehicles(),
		"available": s.AvailableParcels().Len(),
	})
	return s, nil
}
