package traveltimes

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/kilianp07/pdptw/core/model"
)

// GraphTravelTimes computes travel times on a road graph. Shortest paths and
// their travel times are memoized per instance.
type GraphTravelTimes struct {
	graph    *Graph
	maxSpeed float64
	units    Units

	mu       sync.RWMutex
	weighted map[Heuristic]*weightedGraph
	trees    map[treeKey]path.Shortest
	paths    map[pathKey]Path
}

var _ TravelTimes = (*GraphTravelTimes)(nil)

type weightedGraph struct {
	g *simple.WeightedDirectedGraph
	// best holds, per node pair, the index of the fastest parallel edge.
	best map[[2]int64]int
	// times holds the continuous travel time of every edge.
	times []float64
}

type treeKey struct {
	h    Heuristic
	from int64
}

type pathKey struct {
	h        Heuristic
	from, to model.Point
}

// Path is a memoized shortest path.
type Path struct {
	Points   []model.Point
	Distance float64
	// Time is the continuous travel time; queries round it up to ticks.
	Time float64
}

// NewGraphTravelTimes returns travel times on g for vehicles driving at most
// maxSpeed.
func NewGraphTravelTimes(g *Graph, maxSpeed float64, units Units) (*GraphTravelTimes, error) {
	if g == nil {
		return nil, fmt.Errorf("graph is nil")
	}
	if maxSpeed <= 0 {
		return nil, fmt.Errorf("max speed must be positive, got %v", maxSpeed)
	}
	return &GraphTravelTimes{
		graph:    g,
		maxSpeed: maxSpeed,
		units:    units,
		weighted: make(map[Heuristic]*weightedGraph),
		trees:    make(map[treeKey]path.Shortest),
		paths:    make(map[pathKey]Path),
	}, nil
}

// Graph returns the underlying road graph.
func (t *GraphTravelTimes) Graph() *Graph { return t.graph }

func (t *GraphTravelTimes) TheoreticalShortestTime(from, to model.Point) (int64, error) {
	p, err := t.ShortestPath(from, to, StaticTime)
	if err != nil {
		return 0, err
	}
	return model.CeilTicks(p.Time), nil
}

func (t *GraphTravelTimes) CurrentShortestTime(from, to model.Point) (int64, error) {
	p, err := t.ShortestPath(from, to, DynamicTime)
	if err != nil {
		return 0, err
	}
	return model.CeilTicks(p.Time), nil
}

func (t *GraphTravelTimes) TheoreticalDistance(from, to model.Point) (float64, error) {
	p, err := t.ShortestPath(from, to, StaticTime)
	if err != nil {
		return 0, err
	}
	return p.Distance, nil
}

func (t *GraphTravelTimes) CurrentDistance(from, to model.Point) (float64, error) {
	p, err := t.ShortestPath(from, to, DynamicTime)
	if err != nil {
		return 0, err
	}
	return p.Distance, nil
}

// ShortestPath returns the fastest path from -> to under h.
func (t *GraphTravelTimes) ShortestPath(from, to model.Point, h Heuristic) (Path, error) {
	if from == to {
		return Path{Points: []model.Point{from}}, nil
	}
	key := pathKey{h: h, from: from, to: to}
	t.mu.RLock()
	p, ok := t.paths[key]
	t.mu.RUnlock()
	if ok {
		return p, nil
	}

	src, ok := t.graph.ids[from]
	if !ok {
		return Path{}, fmt.Errorf("%w: %s", ErrUnknownNode, from)
	}
	dst, ok := t.graph.ids[to]
	if !ok {
		return Path{}, fmt.Errorf("%w: %s", ErrUnknownNode, to)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if p, ok := t.paths[key]; ok {
		return p, nil
	}
	wg := t.weightedLocked(h)
	tree, ok := t.trees[treeKey{h: h, from: src}]
	if !ok {
		tree = path.DijkstraFrom(simple.Node(src), wg.g)
		t.trees[treeKey{h: h, from: src}] = tree
	}
	nodes, weight := tree.To(dst)
	if len(nodes) == 0 || math.IsInf(weight, 1) {
		return Path{}, fmt.Errorf("%w: %s -> %s", ErrNoPath, from, to)
	}
	p = Path{Points: make([]model.Point, len(nodes))}
	for i, n := range nodes {
		p.Points[i] = t.graph.points[n.ID()]
		if i == 0 {
			continue
		}
		idx := wg.best[[2]int64{nodes[i-1].ID(), n.ID()}]
		p.Distance += t.graph.edges[idx].Length
		p.Time += wg.times[idx]
	}
	t.paths[key] = p
	return p, nil
}

// CurrentConnectionTime is the dynamic time of the fastest edge c.From -> c.To,
// which may be slower than a detour between the same nodes.
func (t *GraphTravelTimes) CurrentConnectionTime(c model.Connection) (float64, error) {
	return t.EdgeTime(c.From, c.To, DynamicTime)
}

// EdgeTime returns the continuous travel time of the fastest edge from -> to
// under h.
func (t *GraphTravelTimes) EdgeTime(from, to model.Point, h Heuristic) (float64, error) {
	src, ok1 := t.graph.ids[from]
	dst, ok2 := t.graph.ids[to]
	if !ok1 || !ok2 {
		return 0, fmt.Errorf("%w: %s -> %s", ErrUnknownNode, from, to)
	}
	t.mu.Lock()
	wg := t.weightedLocked(h)
	t.mu.Unlock()
	idx, ok := wg.best[[2]int64{src, dst}]
	if !ok {
		return 0, fmt.Errorf("%w: no edge %s -> %s", ErrNoPath, from, to)
	}
	return wg.times[idx], nil
}

func (t *GraphTravelTimes) weightedLocked(h Heuristic) *weightedGraph {
	if wg, ok := t.weighted[h]; ok {
		return wg
	}
	wg := &weightedGraph{
		g:     simple.NewWeightedDirectedGraph(0, math.Inf(1)),
		best:  make(map[[2]int64]int),
		times: make([]float64, len(t.graph.edges)),
	}
	for id := range t.graph.points {
		wg.g.AddNode(simple.Node(int64(id)))
	}
	for i, e := range t.graph.edges {
		speed := h.speed(e, t.maxSpeed)
		wg.times[i] = model.TravelTime(e.Length, t.units.Distance, speed, t.units.Speed, t.units.Time)
		pair := [2]int64{t.graph.ids[e.From], t.graph.ids[e.To]}
		if prev, ok := wg.best[pair]; ok && wg.times[prev] <= wg.times[i] {
			continue
		}
		wg.best[pair] = i
		wg.g.SetWeightedEdge(wg.g.NewWeightedEdge(simple.Node(pair[0]), simple.Node(pair[1]), wg.times[i]))
	}
	t.weighted[h] = wg
	return wg
}
