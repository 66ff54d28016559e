package model

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// ErrOutOfBounds is matched by every BoundaryError.
var ErrOutOfBounds = errors.New("point outside boundary")

// Point is a position in the plane or a node of the road graph.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Orb returns the orb representation of p.
func (p Point) Orb() orb.Point { return orb.Point{p.X, p.Y} }

func (p Point) String() string { return fmt.Sprintf("(%g,%g)", p.X, p.Y) }

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 { return planar.Distance(a.Orb(), b.Orb()) }

// Bound is an axis aligned rectangle.
type Bound struct {
	Min Point `json:"min" yaml:"min"`
	Max Point `json:"max" yaml:"max"`
}

// Orb returns the orb representation of b.
func (b Bound) Orb() orb.Bound { return orb.Bound{Min: b.Min.Orb(), Max: b.Max.Orb()} }

// Contains reports whether p lies inside b, edges included.
func (b Bound) Contains(p Point) bool { return b.Orb().Contains(p.Orb()) }

func (b Bound) String() string { return fmt.Sprintf("[%s,%s]", b.Min, b.Max) }

// BoundaryError reports a point outside of the allowed rectangle.
type BoundaryError struct {
	Point Point
	Bound Bound
}

func (e *BoundaryError) Error() string {
	return fmt.Sprintf("point %s is outside boundary %s", e.Point, e.Bound)
}

// Is makes errors.Is(err, ErrOutOfBounds) hold.
func (e *BoundaryError) Is(target error) bool { return target == ErrOutOfBounds }

// CheckBounds returns a *BoundaryError when one of pts is outside b.
func CheckBounds(b Bound, pts ...Point) error {
	for _, p := range pts {
		if !b.Contains(p) {
			return &BoundaryError{Point: p, Bound: b}
		}
	}
	return nil
}
