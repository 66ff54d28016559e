package traveltimes

import (
	"errors"

	"github.com/kilianp07/pdptw/core/model"
)

var (
	// ErrUnknownNode is returned when a queried point is not a graph node.
	ErrUnknownNode = errors.New("traveltimes: point is not a node of the graph")
	// ErrNoPath is returned when no path connects the queried points.
	ErrNoPath = errors.New("traveltimes: no path between points")
)

// TravelTimes computes travel times (in ticks of the snapshot time unit) and
// distances (in the snapshot distance unit). Theoretical queries assume
// free flow conditions, current queries account for the dynamic state of
// the road network when the implementation knows about it.
type TravelTimes interface {
	TheoreticalShortestTime(from, to model.Point) (int64, error)
	CurrentShortestTime(from, to model.Point) (int64, error)
	TheoreticalDistance(from, to model.Point) (float64, error)
	CurrentDistance(from, to model.Point) (float64, error)
	// CurrentConnectionTime is the continuous time needed to drive the
	// whole connection c, without rounding to ticks.
	CurrentConnectionTime(c model.Connection) (float64, error)
}

// Units is the unit triple travel times are expressed in.
type Units struct {
	Time     model.TimeUnit
	Distance model.DistanceUnit
	Speed    model.SpeedUnit
}
