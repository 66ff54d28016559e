package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/pdptw/core/model"
	"github.com/kilianp07/pdptw/core/snapshot"
	"github.com/kilianp07/pdptw/core/traveltimes"
	tu "github.com/kilianp07/pdptw/internal/testutil"
)

// A vehicle already servicing a parcel at its own location does not move.
func TestComputeMidServiceAtLocation(t *testing.T) {
	a := model.MustParcel(model.ParcelSpec{
		PickupLocation:     model.Pt(5, 5),
		DeliveryLocation:   model.Pt(5, 5),
		PickupTimeWindow:   model.AlwaysAvailable,
		DeliveryTimeWindow: model.TimeWindow{Begin: 0, End: 60000},
		PickupDuration:     180000,
		DeliveryDuration:   180000,
	})
	v := tu.Vehicle(t, snapshot.VehicleSpec{
		Location:             model.Pt(5, 5),
		RemainingServiceTime: 120000,
		Destination:          model.Some(a),
		Route:                model.Some(model.Route{a, a}),
	})
	s := tu.State(t, 0, []*model.Parcel{a}, v)

	st, err := Compute(s, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, st.TotalDistance)
	assert.Equal(t, int64(0), st.TotalTravelTime)
	assert.Equal(t, 1, st.TotalPickups)
	assert.Equal(t, 1, st.TotalDeliveries)
	assert.Equal(t, int64(0), st.PickupTardiness)
	assert.Equal(t, int64(60000), st.DeliveryTardiness)
	assert.Equal(t, []int64{0, 0, 120000, 300000}, st.ArrivalTimes[0])
	assert.False(t, st.Vehicles[0].Moved)
	assert.Equal(t, int64(300000), st.SimulationTime)

	obj := NewGendreau06Objective()
	assert.Equal(t, 1.0, obj.ComputeCost(st))
	assert.True(t, obj.IsValidResult(st))
}

// The leg to a pickup located at the vehicle position has zero length.
func TestComputeDegenerateLeg(t *testing.T) {
	a := tu.Parcel(model.Pt(0, 0), model.Pt(3, 4))
	s := tu.State(t, 0, []*model.Parcel{a}, tu.Idle(t, model.Pt(0, 0), model.Route{}))

	st, err := Compute(s, []model.Route{{a, a}})
	require.NoError(t, err)
	arr := st.ArrivalTimes[0]
	assert.Equal(t, int64(0), arr[1], "no travel to the pickup")
	assert.Equal(t, int64(600000), arr[2])
	assert.Equal(t, 10.0, st.TotalDistance)
	assert.Equal(t, int64(1200000), st.TotalTravelTime)
	assert.Equal(t, 1, st.MovedVehicles)
}

func TestComputeTimeWindowsTardinessOvertime(t *testing.T) {
	p := model.MustParcel(model.ParcelSpec{
		PickupLocation:     model.Pt(3, 4),
		DeliveryLocation:   model.Pt(0, 0),
		PickupTimeWindow:   model.TimeWindow{Begin: 1000000, End: 2000000},
		DeliveryTimeWindow: model.TimeWindow{Begin: 0, End: 1500000},
		PickupDuration:     1000,
	})
	dto := tu.DTO(model.Pt(0, 0))
	dto.AvailabilityWindow = model.TimeWindow{Begin: 0, End: 1600000}
	v := tu.Vehicle(t, snapshot.VehicleSpec{DTO: dto, Location: model.Pt(0, 0)})
	s := tu.State(t, 0, []*model.Parcel{p}, v)

	st, err := Compute(s, []model.Route{{p, p}})
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 1000000, 1601000, 1601000}, st.ArrivalTimes[0])
	assert.Equal(t, int64(0), st.PickupTardiness)
	assert.Equal(t, int64(101000), st.DeliveryTardiness)
	assert.Equal(t, int64(1000), st.OverTime)
	assert.Equal(t, 10.0, st.TotalDistance)
	assert.Equal(t, int64(1200000), st.TotalTravelTime)

	obj := NewGendreau06Objective()
	assert.InDelta(t, 20.0, obj.TravelTime(st), 1e-9)
	assert.InDelta(t, 20+101000.0/60000+1000.0/60000, obj.ComputeCost(st), 1e-9)
	assert.Contains(t, obj.PrintHumanReadableFormat(st), "Travel time: 20.00 min")
}

func TestComputeFinishesConnectionFirst(t *testing.T) {
	v := tu.Vehicle(t, snapshot.VehicleSpec{
		DTO:        tu.DTO(model.Pt(0, 0)),
		Location:   model.Pt(1, 0),
		Connection: model.Some(model.Connection{From: model.Pt(0, 0), To: model.Pt(4, 0), Length: 4}),
		Route:      model.Some(model.Route{}),
	})
	s := tu.State(t, 0, nil, v)
	st, err := Compute(s, nil)
	require.NoError(t, err)
	// 3km to the end of the edge, then 4km back home.
	assert.Equal(t, 7.0, st.TotalDistance)
	assert.Equal(t, int64(360000+480000), st.TotalTravelTime)
}

// On a graph the rest of the current edge is timed on that edge, even when
// a detour between its endpoints is faster.
func TestComputeFinishesGraphConnectionOnItsEdge(t *testing.T) {
	a, b := model.Pt(0, 0), model.Pt(10, 0)
	g := traveltimes.NewGraph()
	require.NoError(t, g.AddEdge(traveltimes.Edge{From: a, To: b, Attributes: map[string]any{traveltimes.DynamicSpeedAttr: 1.0}}))
	require.NoError(t, g.AddRoad(traveltimes.Edge{From: a, To: model.Pt(5, 1)}))
	require.NoError(t, g.AddRoad(traveltimes.Edge{From: model.Pt(5, 1), To: b}))
	tt, err := traveltimes.NewGraphTravelTimes(g, tu.Speed, tu.Units)
	require.NoError(t, err)

	v := tu.Vehicle(t, snapshot.VehicleSpec{
		DTO:        tu.DTO(b),
		Location:   model.Pt(5, 0),
		Connection: model.Some(model.Connection{From: a, To: b, Length: 10}),
		Route:      model.Some(model.Route{}),
	})
	s, err := snapshot.New(snapshot.Spec{
		Vehicles:    []snapshot.VehicleState{v},
		TimeUnit:    tu.Units.Time,
		SpeedUnit:   tu.Units.Speed,
		DistUnit:    tu.Units.Distance,
		TravelTimes: tt,
	})
	require.NoError(t, err)

	st, err := Compute(s, nil)
	require.NoError(t, err)
	// Half of 10km at 1km/h, then already home.
	assert.Equal(t, 5.0, st.TotalDistance)
	assert.Equal(t, int64(18000000), st.TotalTravelTime)
}

// Statistics of a fleet are the sum of the statistics of its vehicles.
func TestComputeIsAdditivePerVehicle(t *testing.T) {
	a := tu.Parcel(model.Pt(3, 4), model.Pt(6, 8))
	b := tu.Parcel(model.Pt(9, 9), model.Pt(1, 1))
	c := model.MustParcel(model.ParcelSpec{
		PickupLocation:     model.Pt(2, 2),
		DeliveryLocation:   model.Pt(8, 2),
		PickupTimeWindow:   model.AlwaysAvailable,
		DeliveryTimeWindow: model.TimeWindow{Begin: 0, End: 60000},
		DeliveryDuration:   5000,
	})
	v0 := tu.Idle(t, model.Pt(0, 0), model.Route{a, b, a}, b)
	v1 := tu.Idle(t, model.Pt(5, 5), model.Route{c, c})
	v2 := tu.Idle(t, model.Pt(10, 10), model.Route{})
	s := tu.State(t, 1000, []*model.Parcel{a, c}, v0, v1, v2)

	total, err := Compute(s, nil)
	require.NoError(t, err)

	var sum Stats
	var parcels int
	obj := NewGendreau06Objective()
	for i := 0; i < s.NumVehicles(); i++ {
		single, err := s.WithSingleVehicle(i)
		require.NoError(t, err)
		r, _ := single.Vehicle(0).Route().Get()
		st, err := Compute(single, []model.Route{r})
		require.NoError(t, err)
		sum.add(st.Vehicles[0])
		parcels += st.TotalParcels
	}
	assert.Equal(t, total.TotalDistance, sum.TotalDistance)
	assert.Equal(t, total.TotalTravelTime, sum.TotalTravelTime)
	assert.Equal(t, total.TotalPickups, sum.TotalPickups)
	assert.Equal(t, total.TotalDeliveries, sum.TotalDeliveries)
	assert.Equal(t, total.PickupTardiness, sum.PickupTardiness)
	assert.Equal(t, total.DeliveryTardiness, sum.DeliveryTardiness)
	assert.Equal(t, total.OverTime, sum.OverTime)
	assert.Equal(t, total.MovedVehicles, sum.MovedVehicles)
	assert.Equal(t, total.ArrivalTimes, sum.ArrivalTimes)
	assert.Equal(t, total.TotalParcels, parcels)
	sum.DistUnit, sum.TimeUnit = total.DistUnit, total.TimeUnit
	assert.Equal(t, obj.ComputeCost(total), obj.ComputeCost(sum))
}

func TestComputeArgumentErrors(t *testing.T) {
	s := tu.State(t, 0, nil, tu.Idle(t, model.Pt(0, 0), nil))
	_, err := Compute(s, nil)
	assert.Error(t, err)
	_, err = Compute(s, []model.Route{{}, {}})
	assert.Error(t, err)

	far := tu.Parcel(model.Pt(20, 20), model.Pt(1, 1))
	_, err = Compute(s, []model.Route{{far, far}})
	assert.ErrorIs(t, err, model.ErrOutOfBounds)
}
