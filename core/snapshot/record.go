package snapshot

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/kilianp07/pdptw/core/model"
	"github.com/kilianp07/pdptw/core/traveltimes"
)

// ParcelRecord is the serializable form of a parcel.
type ParcelRecord struct {
	ID                 uuid.UUID        `json:"id"`
	PickupLocation     model.Point      `json:"pickup_location"`
	DeliveryLocation   model.Point      `json:"delivery_location"`
	PickupTimeWindow   model.TimeWindow `json:"pickup_time_window"`
	DeliveryTimeWindow model.TimeWindow `json:"delivery_time_window"`
	PickupDuration     int64            `json:"pickup_duration"`
	DeliveryDuration   int64            `json:"delivery_duration"`
	NeededCapacity     float64          `json:"needed_capacity"`
	AnnounceTime       int64            `json:"announce_time"`
}

// VehicleRecord is the serializable form of a vehicle state.
type VehicleRecord struct {
	DTO                  model.VehicleDTO  `json:"dto"`
	Location             model.Point       `json:"location"`
	Connection           *model.Connection `json:"connection,omitempty"`
	Contents             []uuid.UUID       `json:"contents"`
	RemainingServiceTime int64             `json:"remaining_service_time"`
	Destination          *uuid.UUID        `json:"destination,omitempty"`
	Route                []uuid.UUID       `json:"route,omitempty"`
	HasRoute             bool              `json:"has_route"`
}

// Record is the serializable form of a snapshot. Travel times are not part
// of it and must be supplied when restoring.
type Record struct {
	Time      int64              `json:"time"`
	TimeUnit  model.TimeUnit     `json:"time_unit"`
	SpeedUnit model.SpeedUnit    `json:"speed_unit"`
	DistUnit  model.DistanceUnit `json:"dist_unit"`
	Parcels   []ParcelRecord     `json:"parcels"`
	Available []uuid.UUID        `json:"available"`
	Vehicles  []VehicleRecord    `json:"vehicles"`
}

func parcelRecord(p *model.Parcel) ParcelRecord {
	s := p.Spec()
	return ParcelRecord{
		ID:                 p.ID(),
		PickupLocation:     s.PickupLocation,
		DeliveryLocation:   s.DeliveryLocation,
		PickupTimeWindow:   s.PickupTimeWindow,
		DeliveryTimeWindow: s.DeliveryTimeWindow,
		PickupDuration:     s.PickupDuration,
		DeliveryDuration:   s.DeliveryDuration,
		NeededCapacity:     s.NeededCapacity,
		AnnounceTime:       s.AnnounceTime,
	}
}

// IDs maps parcels to their ids.
func IDs(ps []*model.Parcel) []uuid.UUID {
	out := make([]uuid.UUID, len(ps))
	for i, p := range ps {
		out[i] = p.ID()
	}
	return out
}

// RouteIDs maps every route to the ids of its parcels.
func RouteIDs(routes []model.Route) [][]uuid.UUID {
	out := make([][]uuid.UUID, len(routes))
	for i, r := range routes {
		out[i] = IDs(r)
	}
	return out
}

// NewRecord returns the serializable form of s. Parcels only referenced by
// extra routes are recorded too.
func NewRecord(s GlobalState, extra ...model.Route) Record {
	rec := Record{
		Time:      s.time,
		TimeUnit:  s.timeUnit,
		SpeedUnit: s.speedUnit,
		DistUnit:  s.distUnit,
		Available: IDs(s.available.Items()),
	}
	all := s.AllParcels().Items()
	for _, v := range s.vehicles {
		if r, ok := v.route.Get(); ok {
			all = append(all, r...)
		}
		if d, ok := v.destination.Get(); ok {
			all = append(all, d)
		}
	}
	for _, r := range extra {
		all = append(all, r...)
	}
	for _, p := range model.NewParcelSet(all...).Items() {
		rec.Parcels = append(rec.Parcels, parcelRecord(p))
	}
	for _, v := range s.vehicles {
		vr := VehicleRecord{
			DTO:                  v.dto,
			Location:             v.location,
			Contents:             IDs(v.contents.Items()),
			RemainingServiceTime: v.remaining,
		}
		if c, ok := v.connection.Get(); ok {
			vr.Connection = &c
		}
		if d, ok := v.destination.Get(); ok {
			id := d.ID()
			vr.Destination = &id
		}
		if r, ok := v.route.Get(); ok {
			vr.HasRoute = true
			vr.Route = IDs(r)
		}
		rec.Vehicles = append(rec.Vehicles, vr)
	}
	return rec
}

// ParcelIndex restores the parcels of rec, keyed on id.
func (rec Record) ParcelIndex() (map[uuid.UUID]*model.Parcel, error) {
	idx := make(map[uuid.UUID]*model.Parcel, len(rec.Parcels))
	for _, pr := range rec.Parcels {
		p, err := model.NewParcelWithID(pr.ID, model.ParcelSpec{
			PickupLocation:     pr.PickupLocation,
			DeliveryLocation:   pr.DeliveryLocation,
			PickupTimeWindow:   pr.PickupTimeWindow,
			DeliveryTimeWindow: pr.DeliveryTimeWindow,
			PickupDuration:     pr.PickupDuration,
			DeliveryDuration:   pr.DeliveryDuration,
			NeededCapacity:     pr.NeededCapacity,
			AnnounceTime:       pr.AnnounceTime,
		})
		if err != nil {
			return nil, fmt.Errorf("parcel %s: %w", pr.ID, err)
		}
		idx[pr.ID] = p
	}
	return idx, nil
}

// Resolve maps ids back to parcels of idx.
func Resolve(idx map[uuid.UUID]*model.Parcel, ids []uuid.UUID) ([]*model.Parcel, error) {
	out := make([]*model.Parcel, len(ids))
	for i, id := range ids {
		p, ok := idx[id]
		if !ok {
			return nil, fmt.Errorf("%w: unknown parcel %s", ErrInvalid, id)
		}
		out[i] = p
	}
	return out, nil
}

// FromRecord rebuilds a snapshot from rec using tt for travel queries. The
// returned index resolves recorded routes to the restored parcels.
//
//gocyclo:ignore
func FromRecord(rec Record, tt traveltimes.TravelTimes) (GlobalState, map[uuid.UUID]*model.Parcel, error) {
	idx, err := rec.ParcelIndex()
	if err != nil {
		return GlobalState{}, nil, err
	}
	available, err := Resolve(idx, rec.Available)
	if err != nil {
		return GlobalState{}, nil, err
	}
	vehicles := make([]VehicleState, len(rec.Vehicles))
	for i, vr := range rec.Vehicles {
		contents, err := Resolve(idx, vr.Contents)
		if err != nil {
			return GlobalState{}, nil, err
		}
		spec := VehicleSpec{
			DTO:                  vr.DTO,
			Location:             vr.Location,
			Contents:             contents,
			RemainingServiceTime: vr.RemainingServiceTime,
		}
		if vr.Connection != nil {
			spec.Connection = model.Some(*vr.Connection)
		}
		if vr.Destination != nil {
			d, ok := idx[*vr.Destination]
			if !ok {
				return GlobalState{}, nil, fmt.Errorf("%w: unknown destination %s", ErrInvalid, vr.Destination)
			}
			spec.Destination = model.Some(d)
		}
		if vr.HasRoute {
			r, err := Resolve(idx, vr.Route)
			if err != nil {
				return GlobalState{}, nil, err
			}
			spec.Route = model.Some(model.Route(r))
		}
		if vehicles[i], err = NewVehicleState(spec); err != nil {
			return GlobalState{}, nil, fmt.Errorf("vehicle %d: %w", i, err)
		}
	}
	s, err := New(Spec{
		AvailableParcels: available,
		Vehicles:         vehicles,
		Time:             rec.Time,
		TimeUnit:         rec.TimeUnit,
		SpeedUnit:        rec.SpeedUnit,
		DistUnit:         rec.DistUnit,
		TravelTimes:      tt,
	})
	return s, idx, err
}
