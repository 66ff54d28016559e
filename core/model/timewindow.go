package model

import (
	"fmt"
	"math"
)

// TimeWindow is the closed interval [Begin, End] of time ticks.
type TimeWindow struct {
	Begin int64 `json:"begin" yaml:"begin"`
	End   int64 `json:"end" yaml:"end"`
}

// AlwaysAvailable spans every non negative tick.
var AlwaysAvailable = TimeWindow{Begin: 0, End: math.MaxInt64}

// NewTimeWindow validates and returns [begin, end].
func NewTimeWindow(begin, end int64) (TimeWindow, error) {
	if begin < 0 {
		return TimeWindow{}, fmt.Errorf("time window begin must be >= 0, got %d", begin)
	}
	if end < begin {
		return TimeWindow{}, fmt.Errorf("time window end %d before begin %d", end, begin)
	}
	return TimeWindow{Begin: begin, End: end}, nil
}

// IsIn reports whether t lies in the window.
func (tw TimeWindow) IsIn(t int64) bool { return t >= tw.Begin && t <= tw.End }

// IsBeforeStart reports whether t is strictly before Begin.
func (tw TimeWindow) IsBeforeStart(t int64) bool { return t < tw.Begin }

// IsAfterEnd reports whether t is strictly after End.
func (tw TimeWindow) IsAfterEnd(t int64) bool { return t > tw.End }

// Length returns End - Begin.
func (tw TimeWindow) Length() int64 { return tw.End - tw.Begin }

func (tw TimeWindow) String() string { return fmt.Sprintf("[%d,%d]", tw.Begin, tw.End) }
