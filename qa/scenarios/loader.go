// Package scenarios loads YAML descriptions of a decision point into a
// simulator world.
package scenarios

import (
	"fmt"
	"math"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/pdptw/core/model"
	"github.com/kilianp07/pdptw/core/traveltimes"
)

// Coord is a point written as [x, y].
type Coord [2]float64

func (c Coord) Point() model.Point { return model.Pt(c[0], c[1]) }

// Window is a time window written as [begin, end]. An empty window is
// always open.
type Window []int64

func (w Window) ToModel() (model.TimeWindow, error) {
	switch len(w) {
	case 0:
		return model.AlwaysAvailable, nil
	case 2:
		return model.NewTimeWindow(w[0], w[1])
	}
	return model.TimeWindow{}, fmt.Errorf("time window needs 2 values, got %d", len(w))
}

type UnitsDef struct {
	Time     string `yaml:"time"`
	Distance string `yaml:"distance"`
	Speed    string `yaml:"speed"`
}

func (u UnitsDef) ToModel() (traveltimes.Units, error) {
	def := func(s, d string) string {
		if s == "" {
			return d
		}
		return s
	}
	tu, err := model.ParseTimeUnit(def(u.Time, "ms"))
	if err != nil {
		return traveltimes.Units{}, err
	}
	du, err := model.ParseDistanceUnit(def(u.Distance, "km"))
	if err != nil {
		return traveltimes.Units{}, err
	}
	su, err := model.ParseSpeedUnit(def(u.Speed, "km/h"))
	if err != nil {
		return traveltimes.Units{}, err
	}
	return traveltimes.Units{Time: tu, Distance: du, Speed: su}, nil
}

// PlaneDef is an open rectangle where vehicles drive in straight lines.
type PlaneDef struct {
	Min Coord `yaml:"min"`
	Max Coord `yaml:"max"`
}

type RoadDef struct {
	From     Coord   `yaml:"from"`
	To       Coord   `yaml:"to"`
	Length   float64 `yaml:"length,omitempty"`
	MaxSpeed float64 `yaml:"max_speed,omitempty"`
	// DynamicSpeed is the observed speed limit, any scalar is accepted.
	DynamicSpeed any  `yaml:"dynamic_speed,omitempty"`
	OneWay       bool `yaml:"one_way,omitempty"`
}

type GraphDef struct {
	Roads []RoadDef `yaml:"roads"`
}

type ConnectionDef struct {
	From Coord `yaml:"from"`
	To   Coord `yaml:"to"`
}

type ActivityDef struct {
	// Kind is "pickup" or "delivery".
	Kind      string `yaml:"kind"`
	Parcel    string `yaml:"parcel"`
	Remaining int64  `yaml:"remaining"`
}

type VehicleDef struct {
	ID           string         `yaml:"id"`
	Start        Coord          `yaml:"start"`
	Speed        float64        `yaml:"speed"`
	Capacity     int            `yaml:"capacity"`
	Availability Window         `yaml:"availability,omitempty"`
	Position     *Coord         `yaml:"position,omitempty"`
	Connection   *ConnectionDef `yaml:"connection,omitempty"`
	Cargo        []string       `yaml:"cargo,omitempty"`
	Activity     *ActivityDef   `yaml:"activity,omitempty"`
	Commit       string         `yaml:"commit,omitempty"`
	Route        []string       `yaml:"route,omitempty"`
}

func (v VehicleDef) DTO() (model.VehicleDTO, error) {
	tw, err := v.Availability.ToModel()
	if err != nil {
		return model.VehicleDTO{}, fmt.Errorf("vehicle %s: %w", v.ID, err)
	}
	return model.VehicleDTO{
		StartPosition:      v.Start.Point(),
		Speed:              v.Speed,
		Capacity:           v.Capacity,
		AvailabilityWindow: tw,
	}, nil
}

type ParcelDef struct {
	ID               string  `yaml:"id"`
	Pickup           Coord   `yaml:"pickup"`
	Delivery         Coord   `yaml:"delivery"`
	PickupWindow     Window  `yaml:"pickup_window,omitempty"`
	DeliveryWindow   Window  `yaml:"delivery_window,omitempty"`
	PickupDuration   int64   `yaml:"pickup_duration,omitempty"`
	DeliveryDuration int64   `yaml:"delivery_duration,omitempty"`
	Capacity         float64 `yaml:"capacity,omitempty"`
	Announce         int64   `yaml:"announce,omitempty"`
}

// ToModel builds the parcel. Its id is derived from the scenario name and
// the parcel id so that records of the same scenario can be compared.
func (p ParcelDef) ToModel(scenario string) (*model.Parcel, error) {
	ptw, err := p.PickupWindow.ToModel()
	if err != nil {
		return nil, fmt.Errorf("parcel %s: %w", p.ID, err)
	}
	dtw, err := p.DeliveryWindow.ToModel()
	if err != nil {
		return nil, fmt.Errorf("parcel %s: %w", p.ID, err)
	}
	return model.NewParcelWithID(ParcelID(scenario, p.ID), model.ParcelSpec{
		PickupLocation:     p.Pickup.Point(),
		DeliveryLocation:   p.Delivery.Point(),
		PickupTimeWindow:   ptw,
		DeliveryTimeWindow: dtw,
		PickupDuration:     p.PickupDuration,
		DeliveryDuration:   p.DeliveryDuration,
		NeededCapacity:     p.Capacity,
		AnnounceTime:       p.Announce,
	})
}

// ParcelID returns the stable id of parcel name in scenario.
func ParcelID(scenario, name string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("pdptw:"+scenario+"/"+name))
}

// Expected holds assertions checked by the scenario tests.
type Expected struct {
	Vehicles  int `yaml:"vehicles"`
	Available int `yaml:"available"`
	// Parcels is the number of distinct parcels the solved routes serve.
	Parcels int `yaml:"parcels"`
}

type Scenario struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Units       UnitsDef     `yaml:"units"`
	Time        int64        `yaml:"time"`
	Plane       *PlaneDef    `yaml:"plane,omitempty"`
	Graph       *GraphDef    `yaml:"graph,omitempty"`
	MaxSpeed    float64      `yaml:"max_speed,omitempty"`
	Vehicles    []VehicleDef `yaml:"vehicles"`
	Parcels     []ParcelDef  `yaml:"parcels"`
	Expected    Expected     `yaml:"expected"`
}

// Load reads and checks the scenario file at path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a scenario document.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks the structure of the scenario. Semantic checks happen
// while building the world.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if (s.Plane == nil) == (s.Graph == nil) {
		return fmt.Errorf("scenario %s: exactly one of plane or graph is required", s.Name)
	}
	if s.Graph != nil && len(s.Graph.Roads) == 0 {
		return fmt.Errorf("scenario %s: graph has no roads", s.Name)
	}
	seen := make(map[string]bool)
	for _, v := range s.Vehicles {
		if v.ID == "" || seen["v:"+v.ID] {
			return fmt.Errorf("scenario %s: missing or duplicated vehicle id %q", s.Name, v.ID)
		}
		seen["v:"+v.ID] = true
	}
	for _, p := range s.Parcels {
		if p.ID == "" || seen["p:"+p.ID] {
			return fmt.Errorf("scenario %s: missing or duplicated parcel id %q", s.Name, p.ID)
		}
		seen["p:"+p.ID] = true
	}
	return nil
}

// maxSpeed returns the configured max speed or the speed of the fastest
// vehicle.
func (s *Scenario) maxSpeed() float64 {
	if s.MaxSpeed > 0 {
		return s.MaxSpeed
	}
	m := 0.0
	for _, v := range s.Vehicles {
		m = math.Max(m, v.Speed)
	}
	return m
}

func (s *Scenario) travelTimes(units traveltimes.Units) (traveltimes.TravelTimes, model.Option[model.Bound], error) {
	speed := s.maxSpeed()
	if s.Plane != nil {
		b := model.Bound{Min: s.Plane.Min.Point(), Max: s.Plane.Max.Point()}
		tt, err := traveltimes.NewPlane(b, speed, units)
		return tt, model.Some(b), err
	}
	g := traveltimes.NewGraph()
	for i, r := range s.Graph.Roads {
		e := traveltimes.Edge{From: r.From.Point(), To: r.To.Point(), Length: r.Length, MaxSpeed: r.MaxSpeed}
		if r.DynamicSpeed != nil {
			e.Attributes = map[string]any{traveltimes.DynamicSpeedAttr: r.DynamicSpeed}
		}
		add := g.AddRoad
		if r.OneWay {
			add = g.AddEdge
		}
		if err := add(e); err != nil {
			return nil, model.None[model.Bound](), fmt.Errorf("road %d: %w", i, err)
		}
	}
	tt, err := traveltimes.NewGraphTravelTimes(g, speed, units)
	return tt, model.None[model.Bound](), err
}
