// Package stats replays planned routes on a snapshot and reports distance,
// travel time, tardiness and overtime per vehicle and for the whole fleet.
package stats

import (
	"fmt"

	"github.com/kilianp07/pdptw/core/model"
	"github.com/kilianp07/pdptw/core/snapshot"
)

// VehicleStats is the replay outcome of one vehicle.
type VehicleStats struct {
	TotalDistance     float64 `json:"total_distance"`
	TotalTravelTime   int64   `json:"total_travel_time"`
	Pickups           int     `json:"pickups"`
	Deliveries        int     `json:"deliveries"`
	PickupTardiness   int64   `json:"pickup_tardiness"`
	DeliveryTardiness int64   `json:"delivery_tardiness"`
	OverTime          int64   `json:"over_time"`
	Moved             bool    `json:"moved"`
	// ArrivalTimes starts with the snapshot time, holds the service start of
	// every stop and ends with the return time at the depot.
	ArrivalTimes []int64 `json:"arrival_times"`
	ReturnTime   int64   `json:"return_time"`
}

// Stats aggregates the replay of every vehicle.
type Stats struct {
	TotalDistance     float64            `json:"total_distance"`
	TotalTravelTime   int64              `json:"total_travel_time"`
	TotalPickups      int                `json:"total_pickups"`
	TotalDeliveries   int                `json:"total_deliveries"`
	TotalParcels      int                `json:"total_parcels"`
	PickupTardiness   int64              `json:"pickup_tardiness"`
	DeliveryTardiness int64              `json:"delivery_tardiness"`
	OverTime          int64              `json:"over_time"`
	TotalVehicles     int                `json:"total_vehicles"`
	MovedVehicles     int                `json:"moved_vehicles"`
	SimulationTime    int64              `json:"simulation_time"`
	ArrivalTimes      [][]int64          `json:"arrival_times"`
	Vehicles          []VehicleStats     `json:"vehicles"`
	TimeUnit          model.TimeUnit     `json:"time_unit"`
	DistUnit          model.DistanceUnit `json:"dist_unit"`
	SpeedUnit         model.SpeedUnit    `json:"speed_unit"`
}

// Compute replays routes on s. When routes is nil the route of every vehicle
// in s is used and all vehicles must have one.
func Compute(s snapshot.GlobalState, routes []model.Route) (Stats, error) {
	if routes == nil {
		rs, ok := s.Routes()
		if !ok {
			return Stats{}, fmt.Errorf("stats: no routes given and not every vehicle has a route")
		}
		routes = rs
	}
	if len(routes) != s.NumVehicles() {
		return Stats{}, fmt.Errorf("stats: got %d routes for %d vehicles", len(routes), s.NumVehicles())
	}

	st := Stats{
		TotalVehicles: s.NumVehicles(),
		TimeUnit:      s.TimeUnit(),
		DistUnit:      s.DistUnit(),
		SpeedUnit:     s.SpeedUnit(),
	}
	var parcels []*model.Parcel
	maxReturn := s.Time()
	for i, r := range routes {
		vs, err := replay(s, s.Vehicle(i), r)
		if err != nil {
			return Stats{}, fmt.Errorf("stats: vehicle %d: %w", i, err)
		}
		st.add(vs)
		parcels = append(parcels, r...)
		maxReturn = max(maxReturn, vs.ReturnTime)
	}
	st.TotalParcels = model.NewParcelSet(parcels...).Len()
	st.SimulationTime = maxReturn - s.Time()
	return st, nil
}

func (st *Stats) add(vs VehicleStats) {
	st.TotalDistance += vs.TotalDistance
	st.TotalTravelTime += vs.TotalTravelTime
	st.TotalPickups += vs.Pickups
	st.TotalDeliveries += vs.Deliveries
	st.PickupTardiness += vs.PickupTardiness
	st.DeliveryTardiness += vs.DeliveryTardiness
	st.OverTime += vs.OverTime
	if vs.Moved {
		st.MovedVehicles++
	}
	st.ArrivalTimes = append(st.ArrivalTimes, vs.ArrivalTimes)
	st.Vehicles = append(st.Vehicles, vs)
}

// replay drives one vehicle along route starting at the snapshot time.
//
//gocyclo:ignore
func replay(s snapshot.GlobalState, v snapshot.VehicleState, route model.Route) (VehicleStats, error) {
	tt := s.TravelTimes()
	now := s.Time()
	loc := v.Location()
	vs := VehicleStats{ArrivalTimes: []int64{now}}

	drive := func(to model.Point) error {
		d, err := tt.CurrentDistance(loc, to)
		if err != nil {
			return err
		}
		t, err := tt.CurrentShortestTime(loc, to)
		if err != nil {
			return err
		}
		vs.TotalDistance += d
		vs.TotalTravelTime += t
		now += t
		loc = to
		return nil
	}

	if c, ok := v.Connection().Get(); ok {
		frac := c.RemainingFraction(loc)
		edge, err := tt.CurrentConnectionTime(c)
		if err != nil {
			return VehicleStats{}, err
		}
		t := model.CeilTicks(frac * edge)
		vs.TotalDistance += frac * c.Length
		vs.TotalTravelTime += t
		now += t
		loc = c.To
	}

	seen := make(map[*model.Parcel]bool, len(route))
	for j, p := range route {
		delivery := v.Contents().Contains(p) || seen[p]
		seen[p] = true

		target, tw, service := p.PickupLocation(), p.PickupTimeWindow(), p.PickupDuration()
		if delivery {
			target, tw, service = p.DeliveryLocation(), p.DeliveryTimeWindow(), p.DeliveryDuration()
		}

		var tardiness int64
		if j == 0 && v.RemainingServiceTime() > 0 {
			// Service already started at this location.
			vs.ArrivalTimes = append(vs.ArrivalTimes, now)
			now += v.RemainingServiceTime()
		} else {
			if err := drive(target); err != nil {
				return VehicleStats{}, err
			}
			if tw.IsBeforeStart(now) {
				now = tw.Begin
			}
			vs.ArrivalTimes = append(vs.ArrivalTimes, now)
			tardiness = max(0, now-tw.End)
			now += service
		}
		if delivery {
			vs.Deliveries++
			vs.DeliveryTardiness += tardiness
		} else {
			vs.Pickups++
			vs.PickupTardiness += tardiness
		}
	}

	if err := drive(v.DTO().StartPosition); err != nil {
		return VehicleStats{}, err
	}
	if aw := v.DTO().AvailabilityWindow; aw.IsAfterEnd(now) {
		vs.OverTime = now - aw.End
	}
	vs.ArrivalTimes = append(vs.ArrivalTimes, now)
	vs.ReturnTime = now
	vs.Moved = vs.TotalDistance > 0 || vs.TotalTravelTime > 0
	return vs, nil
}
