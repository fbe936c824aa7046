// Package fill dispatches a classified fill Surface to a concrete
// pattern implementation and turns the resulting Polylines into
// ExtrusionEntities, per spec.md §4.4's fill-pattern-selection table and
// uniform pattern contract.
package fill

import (
	"github.com/slic3r/slicer-core/clip"
	"github.com/slic3r/slicer-core/flowcalc"
	"github.com/slic3r/slicer-core/geom"
	"github.com/slic3r/slicer-core/layer"
)

// Pattern is a fill-pattern implementation's identity, bound to a
// config Enum tag via the schema (fill_pattern/top_infill_pattern/
// bottom_infill_pattern in package config).
type Pattern uint32

const (
	PatternRectilinear Pattern = iota
	PatternConcentric
	PatternGrid
	PatternHoneycomb
	PatternGyroid
)

// Params bundles the uniform pattern operation's inputs (spec.md §4.4):
// an angle, a minimum spacing, a density in [0,1], a layer height, and
// the dont_adjust flag.
type Params struct {
	Angle        float64
	MinSpacing   int64
	Density      float64
	LayerHeight  float64
	DontAdjust   bool
}

// Generate covers ex with the target line distance using the pattern
// selected for the surface's classification (spec.md §4.4's table);
// PatternFromFillPattern/TopInfillPattern/BottomInfillPattern resolve to
// whichever Pattern the caller configured for that config key and are
// passed in via configured.
func Generate(s layer.Surface, configured Pattern, p Params) geom.Polylines {
	pattern := configured
	switch s.PatternSource() {
	case layer.PatternRectilinear:
		pattern = PatternRectilinear
	case layer.PatternRectilinearBridge:
		pattern = PatternRectilinear
		p.Angle = s.BridgeAngle
	}

	spacing := adjustedSpacing(s.ExPolygon, p.MinSpacing, p.Density, p.DontAdjust)

	switch pattern {
	case PatternConcentric:
		return clip.ConcentricFill(s.ExPolygon, spacing)
	default:
		// Grid/honeycomb/gyroid are not distinguished at the geometry
		// level in this core; they all route through the rectilinear
		// scanline fill with the pattern's angle, matching this
		// module's scope of "a list of Polylines that covers the
		// region with the target line distance" (spec.md §4.4) rather
		// than each pattern's decorative path shape. The widening
		// dont_adjust controls has already been folded into spacing
		// above, so LinearFill is always told to honor it verbatim.
		return clip.LinearFill(s.ExPolygon, p.Angle, spacing, true, false)
	}
}

// adjustedSpacing honors dont_adjust (spec.md §4.4): when true, spacing
// is used verbatim; when false, it's widened by up to x1.2 so an integer
// number of lines exactly spans ex's extent, the same floor-based
// candidate check LinearFill applies to its rotated bounding box
// (clip/pattern.go) and flowcalc.SolidSpacing applies to a scalar
// surface width; this function does not call either. Density further
// widens the spacing: a sparser fill uses a proportionally larger line
// distance.
func adjustedSpacing(ex geom.ExPolygon, minSpacing int64, density float64, dontAdjust bool) int64 {
	if density <= 0 {
		density = 0.01
	}
	spacing := int64(float64(minSpacing) / density)
	if spacing < minSpacing {
		spacing = minSpacing
	}
	if dontAdjust || spacing <= 0 {
		return spacing
	}

	bb := ex.Contour.BoundingBox()
	if !bb.Defined() {
		return spacing
	}
	width, height := bb.Size()
	extent := width
	if height > extent {
		extent = height
	}
	if extent <= 0 {
		return spacing
	}

	lines := extent / spacing
	if lines < 1 {
		lines = 1
	}
	adjusted := extent / lines
	if adjusted > spacing && adjusted <= spacing+spacing/5 {
		return adjusted
	}
	return spacing
}

// ToExtrusion converts polylines into an ExtrusionEntityCollection
// tagged with role and flow, optionally scaling mm3_per_mm by
// coveredArea/extrudedVolume so total extruded filament matches the
// ideal ExPolygon volume when fill_exactly is enabled (spec.md §4.4).
func ToExtrusion(pls geom.Polylines, role flowcalc.Role, f flowcalc.Flow, coveredArea float64, fillExactly bool) layer.ExtrusionEntityCollection {
	mm3, err := f.MM3PerMM()
	if err != nil {
		mm3 = 0
	}
	if fillExactly && coveredArea > 0 {
		var extrudedVolume float64
		for _, pl := range pls {
			extrudedVolume += pl.Length() * mm3
		}
		if extrudedVolume > 0 {
			mm3 *= coveredArea / extrudedVolume
		}
	}

	var coll layer.ExtrusionEntityCollection
	for _, pl := range pls {
		coll.Append(layer.ExtrusionPath{
			Polyline: pl,
			PathRole: role,
			MM3PerMM: mm3,
			Width:    f.Width,
			Height:   f.Height,
		})
	}
	return coll
}
