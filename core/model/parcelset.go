package model

// ParcelSet is an immutable, insertion ordered set of parcels keyed on
// identity.
type ParcelSet struct {
	items []*Parcel
	index map[*Parcel]struct{}
}

// NewParcelSet returns a set holding ps without duplicates, nil entries
// dropped.
func NewParcelSet(ps ...*Parcel) ParcelSet {
	s := ParcelSet{index: make(map[*Parcel]struct{}, len(ps))}
	for _, p := range ps {
		if p == nil {
			continue
		}
		if _, ok := s.index[p]; ok {
			continue
		}
		s.index[p] = struct{}{}
		s.items = append(s.items, p)
	}
	return s
}

// Contains reports whether p is in the set.
func (s ParcelSet) Contains(p *Parcel) bool {
	_, ok := s.index[p]
	return ok
}

// Len returns the number of parcels.
func (s ParcelSet) Len() int { return len(s.items) }

// Items returns a copy of the parcels in insertion order.
func (s ParcelSet) Items() []*Parcel {
	out := make([]*Parcel, len(s.items))
	copy(out, s.items)
	return out
}

// Union returns the parcels of s followed by those of o not in s.
func (s ParcelSet) Union(o ParcelSet) ParcelSet {
	return NewParcelSet(append(s.Items(), o.items...)...)
}

// Minus returns the parcels of s that are not in o.
func (s ParcelSet) Minus(o ParcelSet) ParcelSet {
	var out []*Parcel
	for _, p := range s.items {
		if !o.Contains(p) {
			out = append(out, p)
		}
	}
	return NewParcelSet(out...)
}

// Equal reports whether both sets hold the same parcels.
func (s ParcelSet) Equal(o ParcelSet) bool {
	if s.Len() != o.Len() {
		return false
	}
	for _, p := range s.items {
		if !o.Contains(p) {
			return false
		}
	}
	return true
}

// Route is the ordered list of parcel visits planned for one vehicle. An
// available parcel occurs twice (pickup then delivery), a parcel in cargo
// once.
type Route []*Parcel

// Count returns the number of occurrences of p.
func (r Route) Count(p *Parcel) int {
	n := 0
	for _, q := range r {
		if q == p {
			n++
		}
	}
	return n
}

// Counts returns the occurrence count of every parcel in r.
func (r Route) Counts() map[*Parcel]int {
	m := make(map[*Parcel]int, len(r))
	for _, p := range r {
		m[p]++
	}
	return m
}

// Distinct returns the parcels of r in order of first occurrence.
func (r Route) Distinct() []*Parcel {
	return NewParcelSet(r...).Items()
}

// Clone returns a copy of r.
func (r Route) Clone() Route {
	if r == nil {
		return nil
	}
	out := make(Route, len(r))
	copy(out, r)
	return out
}
