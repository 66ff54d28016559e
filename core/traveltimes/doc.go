// Package traveltimes answers travel time and distance queries between two
// points for the fastest vehicle of a fleet.
//
// Two variants exist: Plane, a closed form Euclidean model bounded by a
// rectangle, and GraphTravelTimes, which searches shortest paths on a road
// graph and memoizes them for the lifetime of the instance. A new instance
// must be created whenever the road graph changes.
package traveltimes
