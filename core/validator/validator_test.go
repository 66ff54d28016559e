package validator

import (
	"errors"
	"strings"
	"testing"

	"github.com/kilianp07/pdptw/core/model"
	"github.com/kilianp07/pdptw/core/snapshot"
	tu "github.com/kilianp07/pdptw/internal/testutil"
)

func expectViolation(t *testing.T, err error, fragments ...string) {
	t.Helper()
	if !errors.Is(err, ErrPrecondition) {
		t.Fatalf("expected precondition violation, got %v", err)
	}
	for _, f := range fragments {
		if !strings.Contains(err.Error(), f) {
			t.Fatalf("expected %q in %q", f, err.Error())
		}
	}
}

func TestValidateInputAcceptsValidSnapshot(t *testing.T) {
	a := tu.Parcel(model.Pt(1, 1), model.Pt(2, 2))
	b := tu.Parcel(model.Pt(3, 3), model.Pt(4, 4))
	c := tu.Parcel(model.Pt(5, 5), model.Pt(6, 6))
	v1 := tu.Vehicle(t, snapshot.VehicleSpec{
		Location:    model.Pt(0, 0),
		Contents:    []*model.Parcel{b},
		Destination: model.Some(b),
		Route:       model.Some(model.Route{b, a, a}),
	})
	v2 := tu.Idle(t, model.Pt(9, 9), model.Route{c, c})
	s := tu.State(t, 10, []*model.Parcel{a, c}, v1, v2)
	if err := ValidateInput(s); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
	routes, _ := s.Routes()
	if err := ValidateOutput(routes, s); err != nil {
		t.Fatalf("output pass disagrees with input pass: %v", err)
	}
}

// A parcel that is neither available nor carried is rejected by both passes.
func TestValidatePassesAgreeOnUnknownParcel(t *testing.T) {
	stale := tu.Parcel(model.Pt(1, 1), model.Pt(2, 2))
	s := tu.State(t, 0, nil, tu.Idle(t, model.Pt(0, 0), model.Route{stale, stale}))
	expectViolation(t, ValidateInput(s), "vehicle 0", stale.String(), "neither available nor in cargo")
	routes, _ := s.Routes()
	expectViolation(t, ValidateOutput(routes, s), "neither available nor in the cargo")
}

func TestValidateInputViolations(t *testing.T) {
	a := tu.Parcel(model.Pt(1, 1), model.Pt(2, 2))
	b := tu.Parcel(model.Pt(3, 3), model.Pt(4, 4))

	cases := []struct {
		name  string
		build func(t *testing.T) snapshot.GlobalState
		want  []string
	}{
		{"negative time", func(t *testing.T) snapshot.GlobalState {
			return tu.State(t, -1, nil, tu.Idle(t, model.Pt(0, 0), nil))
		}, []string{"time must be >= 0"}},
		{"partial routes", func(t *testing.T) snapshot.GlobalState {
			return tu.State(t, 0, []*model.Parcel{a}, tu.Idle(t, model.Pt(0, 0), model.Route{a, a}), tu.Idle(t, model.Pt(0, 0), nil))
		}, []string{"all vehicles or no vehicle"}},
		{"parcel in two routes", func(t *testing.T) snapshot.GlobalState {
			return tu.State(t, 0, []*model.Parcel{a}, tu.Idle(t, model.Pt(0, 0), model.Route{a}), tu.Idle(t, model.Pt(0, 0), model.Route{a}))
		}, []string{a.String(), "vehicle 0 and vehicle 1"}},
		{"negative remaining service time", func(t *testing.T) snapshot.GlobalState {
			return tu.State(t, 0, nil, tu.Vehicle(t, snapshot.VehicleSpec{Location: model.Pt(0, 0), RemainingServiceTime: -5}))
		}, []string{"remaining service time"}},
		{"available and in cargo", func(t *testing.T) snapshot.GlobalState {
			return tu.State(t, 0, []*model.Parcel{a}, tu.Idle(t, model.Pt(0, 0), nil, a))
		}, []string{"both available and in cargo"}},
		{"shared cargo", func(t *testing.T) snapshot.GlobalState {
			return tu.State(t, 0, nil, tu.Idle(t, model.Pt(0, 0), nil, b), tu.Idle(t, model.Pt(1, 0), nil, b))
		}, []string{"cargo of vehicle 0 and vehicle 1"}},
		{"destination neither available nor in cargo", func(t *testing.T) snapshot.GlobalState {
			return tu.State(t, 0, nil, tu.Vehicle(t, snapshot.VehicleSpec{Location: model.Pt(0, 0), Destination: model.Some(a)}))
		}, []string{"destination"}},
		{"available parcel once", func(t *testing.T) snapshot.GlobalState {
			return tu.State(t, 0, []*model.Parcel{a}, tu.Idle(t, model.Pt(0, 0), model.Route{a}))
		}, []string{a.String(), "must occur 2 time(s)", "found 1"}},
		{"cargo parcel twice", func(t *testing.T) snapshot.GlobalState {
			return tu.State(t, 0, nil, tu.Idle(t, model.Pt(0, 0), model.Route{b, b}, b))
		}, []string{"must occur 1 time(s)"}},
		{"cargo missing from route", func(t *testing.T) snapshot.GlobalState {
			return tu.State(t, 0, nil, tu.Idle(t, model.Pt(0, 0), model.Route{}, b))
		}, []string{"missing"}},
		{"route does not start with destination", func(t *testing.T) snapshot.GlobalState {
			return tu.State(t, 0, []*model.Parcel{a}, tu.Vehicle(t, snapshot.VehicleSpec{
				Location: model.Pt(0, 0), Contents: []*model.Parcel{b}, Destination: model.Some(b),
				Route: model.Some(model.Route{a, b, a}),
			}))
		}, []string{"start with destination"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			expectViolation(t, ValidateInput(c.build(t)), c.want...)
		})
	}
}

func TestValidateOutputViolations(t *testing.T) {
	a := tu.Parcel(model.Pt(1, 1), model.Pt(2, 2))
	b := tu.Parcel(model.Pt(3, 3), model.Pt(4, 4))
	c := tu.Parcel(model.Pt(5, 5), model.Pt(6, 6))
	v1 := tu.Vehicle(t, snapshot.VehicleSpec{Location: model.Pt(0, 0), Contents: []*model.Parcel{b}, Destination: model.Some(b)})
	v2 := tu.Idle(t, model.Pt(9, 9), nil)
	s := tu.State(t, 0, []*model.Parcel{a, c}, v1, v2)

	if err := ValidateOutput([]model.Route{{b, a, a}, {c, c}}, s); err != nil {
		t.Fatalf("unexpected: %v", err)
	}

	cases := []struct {
		name   string
		routes []model.Route
		want   []string
	}{
		{"wrong route count", []model.Route{{b, a, a, c, c}}, []string{"expected 2 routes"}},
		{"missing cargo", []model.Route{{a, a}, {c, c}}, []string{"missing"}},
		{"parcel in two routes", []model.Route{{b, a, a}, {a, c, c}}, []string{"route 0 and route 1"}},
		{"available once", []model.Route{{b, a}, {c, c}}, []string{a.String(), "must occur 2 times", "found 1"}},
		{"cargo twice", []model.Route{{b, b, a, a}, {c, c}}, []string{"must occur 1 time"}},
		{"foreign cargo", []model.Route{{a, a}, {b, c, c}}, []string{"missing"}},
		{"not starting with destination", []model.Route{{a, b, a}, {c, c}}, []string{"start with destination"}},
		{"dropped parcel", []model.Route{{b, a, a}, {}}, []string{"exactly the input parcels"}},
		{"nil parcel", []model.Route{{b, a, a}, {c, nil, c}}, []string{"nil parcel"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expectViolation(t, ValidateOutput(tc.routes, s), tc.want...)
		})
	}

	invented := tu.Parcel(model.Pt(7, 7), model.Pt(8, 8))
	expectViolation(t, ValidateOutput([]model.Route{{b, a, a}, {c, c, invented, invented}}, s), "neither available nor in the cargo")
}

// A parcel in two routes is rejected whatever its status.
func TestParcelInTwoRoutesAlwaysRejected(t *testing.T) {
	avail := tu.Parcel(model.Pt(1, 1), model.Pt(2, 2))
	cargo := tu.Parcel(model.Pt(3, 3), model.Pt(4, 4))
	s := tu.State(t, 0, []*model.Parcel{avail},
		tu.Idle(t, model.Pt(0, 0), nil, cargo),
		tu.Idle(t, model.Pt(0, 0), nil))
	expectViolation(t, ValidateOutput([]model.Route{{cargo, avail, avail}, {avail, avail}}, s), "route 0 and route 1")
	expectViolation(t, ValidateOutput([]model.Route{{cargo, avail, avail}, {cargo}}, s), "route 0 and route 1")
}
