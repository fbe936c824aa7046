// Package geom provides the typed 2D/3D geometry primitives that flow
// through the slicing pipeline. All planar coordinates are stored as
// scaled integers so that boolean operations (delegated to the clip
// package) are exact; Z coordinates used while probing the mesh stay in
// floating point, matching the mixed-precision layout of the data the
// pipeline was modeled on.
package geom

import "math"

// ScalingFactor is the build-time constant that converts between a
// scaled integer unit and one millimeter. One scaled unit equals
// 1/ScalingFactor mm, i.e. ScalingFactor scaled units per mm (one
// micrometer at the value below).
const ScalingFactor = 1000.0

// Scaled converts a millimeter value to the internal scaled-integer unit.
func Scaled(mm float64) int64 {
	return int64(math.Round(mm * ScalingFactor))
}

// Unscaled converts a scaled-integer unit back to millimeters.
func Unscaled(v int64) float64 {
	return float64(v) / ScalingFactor
}

// ScaledEpsilon is the tolerance used by containment/area comparisons
// throughout the pipeline, expressed in scaled units.
const ScaledEpsilon = int64(1)
