// This file provides renderers for gcode injected at specific layers,
// adapted from this module's teacher's PreLayer/PostLayer hooks to the
// role/flow-carrying ExtrusionEntityCollection model.
package renderer

import (
	"github.com/slic3r/slicer-core/gcode"
	"github.com/slic3r/slicer-core/layer"
)

// Hook runs before or after a layer's own entities are rendered.
type Hook interface {
	Render(b *gcode.Builder, layerNr, maxLayer int, l *layer.Layer, feedrate float64) error
}

// PreLayer resets extrusion tracking and emits the start sequence on
// layer 0.
type PreLayer struct {
	InitialHotEndTemp, InitialBedTemp, HotEndTemp, BedTemp int
}

func (p PreLayer) Render(b *gcode.Builder, layerNr, maxLayer int, l *layer.Layer, feedrate float64) error {
	b.AddComment("LAYER:%d", layerNr)
	if layerNr == 0 {
		b.AddComment("generated layer 0 start sequence")
		b.AddCommand("M104 S%d ; start heating hot end", p.InitialHotEndTemp)
		b.AddCommand("M190 S%d ; heat and wait for bed", p.InitialBedTemp)
		b.AddCommand("M109 S%d ; wait for hot end temperature", p.InitialHotEndTemp)
		b.AddCommand("G92 E0 ; reset extrusion distance")
	}
	return nil
}

// PostLayer emits the shutdown sequence on the final layer.
type PostLayer struct{}

func (PostLayer) Render(b *gcode.Builder, layerNr, maxLayer int, l *layer.Layer, feedrate float64) error {
	if layerNr == maxLayer {
		b.AddComment("end sequence")
		b.AddCommand("M104 S0 ; hot end off")
		b.AddCommand("M140 S0 ; bed off")
		b.AddCommand("M84 ; steppers off")
	}
	return nil
}
