package converter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/pdptw/core/converter"
	"github.com/kilianp07/pdptw/core/model"
	"github.com/kilianp07/pdptw/core/validator"
	tu "github.com/kilianp07/pdptw/internal/testutil"
	"github.com/kilianp07/pdptw/simulator"
)

func newWorld(t *testing.T) *simulator.World {
	t.Helper()
	w, err := simulator.NewWorld(simulator.Config{Units: tu.Units, TravelTimes: tu.Plane(t), Bound: model.Some(tu.Bound)})
	require.NoError(t, err)
	return w
}

func newConverter(t *testing.T, w *simulator.World, allowDiversion bool) *converter.Converter {
	t.Helper()
	c, err := converter.New(w, w, w, w, allowDiversion, nil)
	require.NoError(t, err)
	return c
}

// busyWorld has one vehicle picking up, one delivering and one idle vehicle
// committed to a parcel, plus two free parcels.
func busyWorld(t *testing.T) (*simulator.World, []*simulator.Vehicle, []*model.Parcel) {
	t.Helper()
	w := newWorld(t)
	var vs []*simulator.Vehicle
	for i, id := range []string{"a", "b", "c"} {
		v, err := w.AddVehicle(id, tu.DTO(model.Pt(float64(i), 0)))
		require.NoError(t, err)
		vs = append(vs, v)
	}
	var ps []*model.Parcel
	for i := 0; i < 5; i++ {
		p := tu.Parcel(model.Pt(float64(i), 1), model.Pt(float64(i), 2))
		require.NoError(t, w.AddParcel(p))
		ps = append(ps, p)
	}
	require.NoError(t, w.SetTime(1000))
	require.NoError(t, vs[0].StartPickup(ps[0], 500))
	require.NoError(t, vs[1].Load(ps[1]))
	require.NoError(t, vs[1].StartDelivery(ps[1], 700))
	require.NoError(t, vs[2].Commit(ps[2]))
	return w, vs, ps
}

func TestConvertRoundTripValidates(t *testing.T) {
	w, _, ps := busyWorld(t)
	for _, allow := range []bool{true, false} {
		s, err := newConverter(t, w, allow).Convert(converter.Options{})
		require.NoError(t, err)
		require.NoError(t, validator.ValidateInput(s))

		assert.Equal(t, int64(1000), s.Time())
		assert.Equal(t, 3, s.NumVehicles())
		assert.ElementsMatch(t, []*model.Parcel{ps[0], ps[2], ps[3], ps[4]}, s.AvailableParcels().Items())

		picking := s.Vehicle(0)
		assert.Equal(t, ps[0], picking.Destination().MustGet())
		assert.Equal(t, int64(500), picking.RemainingServiceTime())
		assert.Equal(t, 0, picking.Contents().Len())

		delivering := s.Vehicle(1)
		assert.Equal(t, ps[1], delivering.Destination().MustGet())
		assert.True(t, delivering.Contents().Contains(ps[1]))

		idle := s.Vehicle(2)
		assert.Equal(t, !allow, idle.Destination().IsPresent())
		assert.False(t, idle.Route().IsPresent())
	}
}

func TestConvertExplicitParcels(t *testing.T) {
	w, _, ps := busyWorld(t)
	s, err := newConverter(t, w, false).Convert(converter.Options{Parcels: []*model.Parcel{ps[0], ps[3]}})
	require.NoError(t, err)
	// the committed parcel is surfaced even when not supplied
	assert.ElementsMatch(t, []*model.Parcel{ps[0], ps[3], ps[2]}, s.AvailableParcels().Items())
	require.NoError(t, validator.ValidateInput(s))
}

// Parcels claimed by busy or committed vehicles are surfaced even when the
// explicit set leaves them out, and the delivered parcel stays in cargo.
func TestConvertExplicitParcelsSurfacesClaims(t *testing.T) {
	w, _, ps := busyWorld(t)
	cases := []struct {
		allow bool
		want  []*model.Parcel
	}{
		{allow: true, want: []*model.Parcel{ps[3], ps[4], ps[0]}},
		{allow: false, want: []*model.Parcel{ps[3], ps[4], ps[0], ps[2]}},
	}
	for _, tc := range cases {
		s, err := newConverter(t, w, tc.allow).Convert(converter.Options{Parcels: []*model.Parcel{ps[3], ps[4]}})
		require.NoError(t, err)
		assert.ElementsMatch(t, tc.want, s.AvailableParcels().Items(), "allow diversion %v", tc.allow)
		assert.False(t, s.AvailableParcels().Contains(ps[1]))
		require.NoError(t, validator.ValidateInput(s), "allow diversion %v", tc.allow)
	}
}

func TestConvertCurrentRoutes(t *testing.T) {
	w, vs, ps := busyWorld(t)
	vs[0].SetRoute(model.Route{ps[0], ps[0]})
	s, err := newConverter(t, w, true).Convert(converter.Options{UseCurrentRoutes: true})
	require.NoError(t, err)
	r, ok := s.Vehicle(0).Route().Get()
	require.True(t, ok)
	assert.Equal(t, model.Route{ps[0], ps[0]}, r)
	// vehicles without a route get an empty one
	r, ok = s.Vehicle(2).Route().Get()
	require.True(t, ok)
	assert.Empty(t, r)
}

func TestConvertFixRoutes(t *testing.T) {
	w, vs, ps := busyWorld(t)
	// stale: ps[0] only once and a delivered parcel
	vs[0].SetRoute(model.Route{ps[0], ps[4]})
	vs[1].SetRoute(model.Route{ps[1], ps[1], ps[4], ps[4], ps[4]})

	s, err := newConverter(t, w, false).Convert(converter.Options{FixRoutes: true})
	require.NoError(t, err)
	require.NoError(t, validator.ValidateInput(s))
	routes, ok := s.Routes()
	require.True(t, ok)
	require.NoError(t, validator.ValidateOutput(routes, s))

	assert.Equal(t, model.Route{ps[0], ps[4], ps[0], ps[4], ps[3], ps[3]}, routes[0])
	assert.Equal(t, model.Route{ps[1]}, routes[1])
	assert.Equal(t, model.Route{ps[2], ps[2]}, routes[2])
}

func TestConvertErrors(t *testing.T) {
	w := newWorld(t)
	if _, err := converter.New(nil, w, w, w, false, nil); err == nil {
		t.Fatalf("expected error for nil clock")
	}
	c := newConverter(t, w, false)
	s, err := c.Convert(converter.Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, s.NumVehicles())
}

func TestConfigOptions(t *testing.T) {
	o := converter.Config{FixRoutes: true}.Options()
	assert.True(t, o.FixRoutes)
	assert.False(t, o.UseCurrentRoutes)
	assert.Nil(t, o.Parcels)
}
