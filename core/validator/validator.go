// Package validator checks snapshots handed to a solver and the routes a
// solver returns. Both passes stop at the first violated invariant.
package validator

import (
	"errors"
	"fmt"

	"github.com/kilianp07/pdptw/core/model"
	"github.com/kilianp07/pdptw/core/snapshot"
)

// ErrPrecondition is matched by every validation failure.
var ErrPrecondition = errors.New("precondition violated")

func violation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPrecondition, fmt.Sprintf(format, args...))
}

// ValidateInput checks the invariants of a snapshot before it is solved.
//
//gocyclo:ignore
func ValidateInput(s snapshot.GlobalState) error {
	if s.Time() < 0 {
		return violation("time must be >= 0, found %d", s.Time())
	}

	withRoute := 0
	for i := 0; i < s.NumVehicles(); i++ {
		if s.Vehicle(i).Route().IsPresent() {
			withRoute++
		}
	}
	if withRoute != 0 && withRoute != s.NumVehicles() {
		return violation("either all vehicles or no vehicle must have a route, %d of %d have one", withRoute, s.NumVehicles())
	}

	owner := make(map[*model.Parcel]int)
	for i := 0; i < s.NumVehicles(); i++ {
		r, ok := s.Vehicle(i).Route().Get()
		if !ok {
			continue
		}
		for _, p := range r.Distinct() {
			if j, seen := owner[p]; seen {
				return violation("parcel %s occurs in the routes of vehicle %d and vehicle %d", p, j, i)
			}
			owner[p] = i
		}
	}

	available := s.AvailableParcels()
	cargoOwner := make(map[*model.Parcel]int)
	for i := 0; i < s.NumVehicles(); i++ {
		v := s.Vehicle(i)
		if v.RemainingServiceTime() < 0 {
			return violation("vehicle %d: remaining service time must be >= 0, found %d", i, v.RemainingServiceTime())
		}
		for _, p := range v.Contents().Items() {
			if available.Contains(p) {
				return violation("vehicle %d: parcel %s is both available and in cargo", i, p)
			}
			if j, seen := cargoOwner[p]; seen {
				return violation("parcel %s is in the cargo of vehicle %d and vehicle %d", p, j, i)
			}
			cargoOwner[p] = i
		}
		if d, ok := v.Destination().Get(); ok {
			inCargo := v.Contents().Contains(d)
			if available.Contains(d) == inCargo {
				return violation("vehicle %d: destination %s must be either available or in cargo, not both or neither", i, d)
			}
		}
		if v.Route().IsPresent() {
			if err := CheckRoute(v, i, available); err != nil {
				return err
			}
		}
	}
	return nil
}

// CheckRoute verifies the route of vehicle v (index i): parcels in cargo
// occur once, available parcels twice, no other parcel occurs, and the
// route starts with the destination when there is one.
func CheckRoute(v snapshot.VehicleState, i int, available model.ParcelSet) error {
	r, ok := v.Route().Get()
	if !ok {
		return violation("vehicle %d has no route", i)
	}
	counts := r.Counts()
	for _, p := range v.Contents().Items() {
		if counts[p] == 0 {
			return violation("vehicle %d: route must contain every parcel in cargo, missing %s", i, p)
		}
	}
	for _, p := range r.Distinct() {
		want := 2
		if v.Contents().Contains(p) {
			want = 1
		} else if !available.Contains(p) {
			return violation("vehicle %d: parcel %s in the route is neither available nor in cargo", i, p)
		}
		if counts[p] != want {
			return violation("vehicle %d: parcel %s must occur %d time(s) in the route, found %d", i, p, want, counts[p])
		}
	}
	if d, ok := v.Destination().Get(); ok {
		if len(r) == 0 || r[0] != d {
			return violation("vehicle %d: route must start with destination %s", i, d)
		}
	}
	return nil
}

// ValidateOutput checks that routes is a complete and consistent assignment
// of the parcels of s.
//
//gocyclo:ignore
func ValidateOutput(routes []model.Route, s snapshot.GlobalState) error {
	if len(routes) != s.NumVehicles() {
		return violation("expected %d routes, one per vehicle, found %d", s.NumVehicles(), len(routes))
	}
	available := s.AvailableParcels()
	owner := make(map[*model.Parcel]int)
	var output []*model.Parcel
	for i, r := range routes {
		v := s.Vehicle(i)
		for _, p := range r {
			if p == nil {
				return violation("route %d contains a nil parcel", i)
			}
		}
		counts := r.Counts()
		for _, p := range v.Contents().Items() {
			if counts[p] == 0 {
				return violation("route %d must contain every parcel in the cargo of its vehicle, missing %s", i, p)
			}
		}
		for _, p := range r.Distinct() {
			if j, seen := owner[p]; seen {
				return violation("parcel %s occurs in route %d and route %d", p, j, i)
			}
			owner[p] = i
			if available.Contains(p) {
				if counts[p] != 2 {
					return violation("route %d: available parcel %s must occur 2 times, found %d", i, p, counts[p])
				}
				continue
			}
			if !v.Contents().Contains(p) {
				return violation("route %d: parcel %s is neither available nor in the cargo of vehicle %d", i, p, i)
			}
			if counts[p] != 1 {
				return violation("route %d: parcel %s in cargo must occur 1 time, found %d", i, p, counts[p])
			}
		}
		output = append(output, r...)
		if d, ok := v.Destination().Get(); ok {
			if len(r) == 0 || r[0] != d {
				return violation("route %d must start with destination %s", i, d)
			}
		}
	}
	in := s.AllParcels()
	out := model.NewParcelSet(output...)
	if !in.Equal(out) {
		return violation("routes must contain exactly the input parcels, missing %v, unexpected %v",
			in.Minus(out).Items(), out.Minus(in).Items())
	}
	return nil
}
