package converter

import (
	"fmt"

	"github.com/kilianp07/pdptw/core/model"
	"github.com/kilianp07/pdptw/core/snapshot"
)

// FixRoutes returns a snapshot whose routes satisfy the occurrence rules:
// a parcel in the cargo of a vehicle occurs once in its route and an
// available parcel occurs twice in exactly one route. Parcels that are
// neither are dropped, an available parcel already claimed by an earlier
// route or by the destination of another vehicle is dropped, and a vehicle
// with a destination starts its route with it. Every available parcel that no
// route mentions is appended twice to the route of the first vehicle. Every
// vehicle of s must have a route and every destination must be available or
// in the cargo of its vehicle. s is not modified.
func FixRoutes(s snapshot.GlobalState) (snapshot.GlobalState, error) {
	routes, ok := s.Routes()
	if !ok {
		return snapshot.GlobalState{}, fmt.Errorf("converter: fix routes requires a route for every vehicle")
	}
	available := s.AvailableParcels()

	owner := make(map[*model.Parcel]int)
	for i, v := range s.Vehicles() {
		if d, ok := v.Destination().Get(); ok && available.Contains(d) {
			owner[d] = i
		}
	}
	fixed := make([]model.Route, len(routes))
	for i, r := range routes {
		v := s.Vehicle(i)
		if d, ok := v.Destination().Get(); ok {
			if !available.Contains(d) && !v.Contents().Contains(d) {
				return snapshot.GlobalState{}, fmt.Errorf("converter: %w: vehicle %d: destination %s is neither available nor in cargo", snapshot.ErrInvalid, i, d)
			}
			r = withFirst(r, d)
		}
		fixed[i] = fixRoute(r, v.Contents(), available, func(p *model.Parcel) bool {
			o, ok := owner[p]
			if ok {
				return o == i
			}
			owner[p] = i
			return true
		})
	}

	if len(fixed) > 0 {
		var unassigned []*model.Parcel
		for _, p := range available.Items() {
			if _, ok := owner[p]; !ok {
				unassigned = append(unassigned, p)
			}
		}
		fixed[0] = append(fixed[0], unassigned...)
		fixed[0] = append(fixed[0], unassigned...)
	}
	return s.WithRoutes(fixed)
}

// fixRoute keeps cargo parcels once and claimable available parcels twice,
// appending missing occurrences at the end.
func fixRoute(r model.Route, contents, available model.ParcelSet, claim func(*model.Parcel) bool) model.Route {
	counts := make(map[*model.Parcel]int, len(r))
	out := make(model.Route, 0, len(r)+contents.Len())
	for _, p := range r {
		want := 0
		switch {
		case p == nil:
		case contents.Contains(p):
			want = 1
		case available.Contains(p) && (counts[p] > 0 || claim(p)):
			want = 2
		}
		if counts[p] >= want {
			continue
		}
		counts[p]++
		out = append(out, p)
	}
	for _, p := range out.Distinct() {
		if available.Contains(p) && counts[p] < 2 {
			out = append(out, p)
		}
	}
	for _, p := range contents.Items() {
		if counts[p] == 0 {
			out = append(out, p)
		}
	}
	return out
}

// withFirst moves the first occurrence of p to the front of r, inserting it
// when r does not contain p.
func withFirst(r model.Route, p *model.Parcel) model.Route {
	out := make(model.Route, 0, len(r)+1)
	out = append(out, p)
	removed := false
	for _, q := range r {
		if q == p && !removed {
			removed = true
			continue
		}
		out = append(out, q)
	}
	return out
}
