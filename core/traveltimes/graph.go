package traveltimes

import (
	"fmt"
	"strconv"

	"github.com/kilianp07/pdptw/core/model"
)

// DynamicSpeedAttr is the edge attribute holding the currently observed
// speed limit of a road segment.
const DynamicSpeedAttr = "dynamic_speed"

// Edge is a directed road segment.
type Edge struct {
	From   model.Point
	To     model.Point
	Length float64 // in the graph distance unit
	// MaxSpeed is the posted speed limit, zero means unlimited.
	MaxSpeed float64
	// Attributes carries dynamic data such as DynamicSpeedAttr. Values are
	// float64 or numeric strings.
	Attributes map[string]any
}

// Graph is a directed road graph. It must not be modified once handed to
// NewGraphTravelTimes.
type Graph struct {
	ids    map[model.Point]int64
	points []model.Point
	edges  []Edge
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{ids: make(map[model.Point]int64)}
}

func (g *Graph) node(p model.Point) int64 {
	if id, ok := g.ids[p]; ok {
		return id
	}
	id := int64(len(g.points))
	g.ids[p] = id
	g.points = append(g.points, p)
	return id
}

// AddEdge adds a directed edge. A zero Length is replaced by the Euclidean
// distance between the endpoints.
func (g *Graph) AddEdge(e Edge) error {
	if e.From == e.To {
		return fmt.Errorf("self loop on %s", e.From)
	}
	if e.Length < 0 || e.MaxSpeed < 0 {
		return fmt.Errorf("edge %s->%s: negative length or speed", e.From, e.To)
	}
	if e.Length == 0 {
		e.Length = model.Distance(e.From, e.To)
	}
	g.node(e.From)
	g.node(e.To)
	g.edges = append(g.edges, e)
	return nil
}

// AddRoad adds the edge in both directions.
func (g *Graph) AddRoad(e Edge) error {
	if err := g.AddEdge(e); err != nil {
		return err
	}
	rev := e
	rev.From, rev.To = e.To, e.From
	return g.AddEdge(rev)
}

// HasNode reports whether p is a node of g.
func (g *Graph) HasNode(p model.Point) bool {
	_, ok := g.ids[p]
	return ok
}

// Nodes returns the node positions.
func (g *Graph) Nodes() []model.Point {
	out := make([]model.Point, len(g.points))
	copy(out, g.points)
	return out
}

// Edges returns a copy of the edges.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Heuristic selects how edges are weighted during the path search.
type Heuristic int

const (
	// StaticTime weights edges by their free flow travel time.
	StaticTime Heuristic = iota
	// DynamicTime weights edges by their travel time under the observed
	// dynamic speed.
	DynamicTime
)

func (h Heuristic) String() string {
	if h == DynamicTime {
		return "dynamic_time"
	}
	return "static_time"
}

// speed returns the speed a vehicle driving at most vehicleSpeed reaches on e.
// A missing or malformed dynamic speed falls back to the static limit, which
// is the vehicle speed on unlimited edges.
func (h Heuristic) speed(e Edge, vehicleSpeed float64) float64 {
	if h == DynamicTime {
		if s, ok := dynamicSpeed(e); ok {
			return min(vehicleSpeed, s)
		}
	}
	if e.MaxSpeed > 0 {
		return min(vehicleSpeed, e.MaxSpeed)
	}
	return vehicleSpeed
}

func dynamicSpeed(e Edge) (float64, bool) {
	raw, ok := e.Attributes[DynamicSpeedAttr]
	if !ok {
		return 0, false
	}
	var s float64
	switch v := raw.(type) {
	case float64:
		s = v
	case float32:
		s = float64(v)
	case int:
		s = float64(v)
	case int64:
		s = float64(v)
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		s = f
	default:
		return 0, false
	}
	if s <= 0 {
		return 0, false
	}
	return s, true
}
