// Package gcode is the thin G-code text-emission backend spec.md §1
// treats as an external collaborator: the core only needs to hand it
// ordered ExtrusionEntityCollections with role/flow/width/height
// attached (spec.md §6 "Extrusion output"). This package is kept
// intentionally minimal.
package gcode

import (
	"fmt"
	"strings"

	"github.com/slic3r/slicer-core/geom"
	"github.com/slic3r/slicer-core/layer"
)

// Builder accumulates G-code lines, mirroring this module's teacher's
// gcode.Builder (comment/command helpers, extrusion-distance tracking).
type Builder struct {
	lines      []string
	extrudedMM float64
}

func (b *Builder) AddComment(format string, args ...interface{}) {
	b.lines = append(b.lines, "; "+fmt.Sprintf(format, args...))
}

func (b *Builder) AddCommand(format string, args ...interface{}) {
	b.lines = append(b.lines, fmt.Sprintf(format, args...))
}

// AddMove emits a travel move (no extrusion) to pt.
func (b *Builder) AddMove(pt geom.Point, feedrate float64) {
	b.AddCommand("G1 X%.3f Y%.3f F%.0f", geom.Unscaled(pt.X), geom.Unscaled(pt.Y), feedrate)
}

// AddExtrude emits an extruding move to pt, accumulating filament
// distance by length*mm3PerMM/filamentCrossSectionArea (left to the
// caller to scale; here we track raw mm3 instead of E-axis mm, which is
// sufficient for the core/backend boundary).
func (b *Builder) AddExtrude(pt geom.Point, lengthMM, mm3PerMM, feedrate float64) {
	b.extrudedMM += lengthMM * mm3PerMM
	b.AddCommand("G1 X%.3f Y%.3f E%.5f F%.0f", geom.Unscaled(pt.X), geom.Unscaled(pt.Y), b.extrudedMM, feedrate)
}

func (b *Builder) String() string {
	return strings.Join(b.lines, "\n") + "\n"
}

// RenderEntity walks entity (Path/Loop/Collection) and emits its
// polyline as travel-then-extrude moves at the given feedrate.
func RenderEntity(b *Builder, e layer.ExtrusionEntity, feedrate float64) {
	switch v := e.(type) {
	case layer.ExtrusionPath:
		renderPolyline(b, v.Polyline, v.MM3PerMM, feedrate)
	case layer.ExtrusionLoop:
		for _, p := range v.Paths {
			renderPolyline(b, p.Polyline, p.MM3PerMM, feedrate)
		}
	case layer.ExtrusionEntityCollection:
		for _, sub := range v.Entities {
			RenderEntity(b, sub, feedrate)
		}
	}
}

func renderPolyline(b *Builder, pl geom.Polyline, mm3PerMM, feedrate float64) {
	if len(pl) == 0 {
		return
	}
	b.AddMove(pl[0], feedrate)
	for i := 1; i < len(pl); i++ {
		lengthMM := pl[i-1].DistanceTo(pl[i]) / geom.ScalingFactor
		b.AddExtrude(pl[i], lengthMM, mm3PerMM, feedrate)
	}
}
