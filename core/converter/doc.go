// Package converter turns the live simulation into an immutable snapshot.
//
// The live simulation is only seen through the narrow read interfaces
// declared here: a Clock, a RoadModel, a PDPModel and a Fleet. Convert reads
// them once and never keeps references to mutable state.
package converter
