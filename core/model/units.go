package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// TimeUnit is the unit of every time value inside a snapshot.
type TimeUnit int

const (
	Millisecond TimeUnit = iota
	Second
	Minute
	Hour
)

// DistanceUnit is the unit of every distance value inside a snapshot.
type DistanceUnit int

const (
	Meter DistanceUnit = iota
	Kilometer
)

// SpeedUnit is the unit of every speed value inside a snapshot.
type SpeedUnit int

const (
	KilometersPerHour SpeedUnit = iota
	MetersPerSecond
)

// tickEpsilon absorbs floating point noise before ceiling a travel time,
// e.g. 1km at 30km/h must be 120000ms and not 120001ms.
const tickEpsilon = 1e-6

// String returns a human-readable representation of the time unit.
func (u TimeUnit) String() string {
	switch u {
	case Millisecond:
		return "ms"
	case Second:
		return "s"
	case Minute:
		return "min"
	case Hour:
		return "h"
	default:
		return "unknown"
	}
}

// Duration returns the length of one tick of u.
func (u TimeUnit) Duration() time.Duration {
	switch u {
	case Second:
		return time.Second
	case Minute:
		return time.Minute
	case Hour:
		return time.Hour
	default:
		return time.Millisecond
	}
}

// MarshalText implements encoding.TextMarshaler.
func (u TimeUnit) MarshalText() ([]byte, error) { return []byte(u.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *TimeUnit) UnmarshalText(b []byte) error {
	v, err := ParseTimeUnit(string(b))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// ParseTimeUnit parses the String form of a TimeUnit.
func ParseTimeUnit(s string) (TimeUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ms", "millisecond", "milliseconds":
		return Millisecond, nil
	case "s", "second", "seconds":
		return Second, nil
	case "min", "minute", "minutes":
		return Minute, nil
	case "h", "hour", "hours":
		return Hour, nil
	}
	return 0, fmt.Errorf("unknown time unit %q", s)
}

func (u DistanceUnit) String() string {
	switch u {
	case Meter:
		return "m"
	case Kilometer:
		return "km"
	default:
		return "unknown"
	}
}

// Meters returns the length of one u in meters.
func (u DistanceUnit) Meters() float64 {
	if u == Kilometer {
		return 1000
	}
	return 1
}

func (u DistanceUnit) MarshalText() ([]byte, error) { return []byte(u.String()), nil }

func (u *DistanceUnit) UnmarshalText(b []byte) error {
	v, err := ParseDistanceUnit(string(b))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// ParseDistanceUnit parses the String form of a DistanceUnit.
func ParseDistanceUnit(s string) (DistanceUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m", "meter", "meters":
		return Meter, nil
	case "km", "kilometer", "kilometers":
		return Kilometer, nil
	}
	return 0, fmt.Errorf("unknown distance unit %q", s)
}

func (u SpeedUnit) String() string {
	switch u {
	case KilometersPerHour:
		return "km/h"
	case MetersPerSecond:
		return "m/s"
	default:
		return "unknown"
	}
}

func (u SpeedUnit) MarshalText() ([]byte, error) { return []byte(u.String()), nil }

func (u *SpeedUnit) UnmarshalText(b []byte) error {
	v, err := ParseSpeedUnit(string(b))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// ParseSpeedUnit parses the String form of a SpeedUnit.
func ParseSpeedUnit(s string) (SpeedUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "km/h", "kmh", "kph":
		return KilometersPerHour, nil
	case "m/s", "mps":
		return MetersPerSecond, nil
	}
	return 0, fmt.Errorf("unknown speed unit %q", s)
}

// base returns the distance and time unit a speed unit is expressed in.
func (u SpeedUnit) base() (DistanceUnit, TimeUnit) {
	if u == MetersPerSecond {
		return Meter, Second
	}
	return Kilometer, Hour
}

// TravelTime returns the continuous time, expressed in tu, needed to cover
// distance (in du) at speed (in su).
func TravelTime(distance float64, du DistanceUnit, speed float64, su SpeedUnit, tu TimeUnit) float64 {
	if distance == 0 {
		return 0
	}
	if speed <= 0 {
		return math.Inf(1)
	}
	sd, st := su.base()
	d := distance
	if du != sd {
		d = distance * du.Meters() / sd.Meters()
	}
	t := d / speed
	if st == tu {
		return t
	}
	return t * float64(st.Duration()) / float64(tu.Duration())
}

// CeilTicks converts a continuous travel time to an integer tick count. It
// rounds up so that a vehicle never arrives earlier than physically possible.
func CeilTicks(t float64) int64 {
	if t <= 0 {
		return 0
	}
	return int64(math.Ceil(t - tickEpsilon))
}
