// Package layer implements the per-Z container model of spec.md §3:
// Layer, LayerRegion, SupportLayer, Surface/SurfaceCollection and the
// ExtrusionEntity sum type.
package layer

import (
	"github.com/slic3r/slicer-core/flowcalc"
	"github.com/slic3r/slicer-core/geom"
)

// Position is one of the four orthogonal position bits of a surface_type
// (spec.md §3).
type Position int

const (
	PositionTop Position = iota
	PositionBottom
	PositionInternal
	PositionPerimeter
)

// Density is one of the three orthogonal density bits.
type Density int

const (
	DensitySolid Density = iota
	DensitySparse
	DensityVoid
)

// Modifier is the exclusive modifier bit.
type Modifier int

const (
	ModifierNone Modifier = iota
	ModifierBridge
	ModifierOverBridge
)

// SurfaceType is the tagged product {position, density, modifier} that
// replaces the legacy bit-encoded surface_type (spec.md §9): any Surface
// has exactly one position bit and exactly one density bit; modifiers
// are exclusive.
type SurfaceType struct {
	Position Position
	Density  Density
	Modifier Modifier
}

// Is reports whether t matches the given position/density regardless of
// modifier (a convenience used by fill-pattern selection, spec.md §4.4).
func (t SurfaceType) Is(pos Position, den Density) bool {
	return t.Position == pos && t.Density == den
}

// Surface is an ExPolygon plus a SurfaceType and the auxiliary fields
// spec.md §3 names: bridge_angle (radians, -1 sentinel for "none"),
// thickness_layers, extra_perimeters.
type Surface struct {
	ExPolygon       geom.ExPolygon
	Type            SurfaceType
	BridgeAngle     float64
	ThicknessLayers int
	ExtraPerimeters int
}

const NoBridgeAngle = -1

// NewSurface builds a Surface with no bridge angle and a single
// thickness layer, the common case when surfaces are first classified.
func NewSurface(ex geom.ExPolygon, t SurfaceType) Surface {
	return Surface{ExPolygon: ex, Type: t, BridgeAngle: NoBridgeAngle, ThicknessLayers: 1}
}

// SurfaceCollection is a multiset of Surface supporting the
// filter/remove/keep/group/simplify operations spec.md §3 requires.
type SurfaceCollection struct {
	Surfaces []Surface
}

// Filter returns the surfaces for which pred is true.
func (c SurfaceCollection) Filter(pred func(Surface) bool) []Surface {
	var out []Surface
	for _, s := range c.Surfaces {
		if pred(s) {
			out = append(out, s)
		}
	}
	return out
}

// FilterByType returns every surface whose position/density match.
func (c SurfaceCollection) FilterByType(pos Position, den Density) []Surface {
	return c.Filter(func(s Surface) bool { return s.Type.Is(pos, den) })
}

// Remove drops every surface for which pred is true, in place.
func (c *SurfaceCollection) Remove(pred func(Surface) bool) {
	kept := c.Surfaces[:0]
	for _, s := range c.Surfaces {
		if !pred(s) {
			kept = append(kept, s)
		}
	}
	c.Surfaces = kept
}

// Keep is the complement of Remove: only surfaces matching pred survive.
func (c *SurfaceCollection) Keep(pred func(Surface) bool) {
	c.Remove(func(s Surface) bool { return !pred(s) })
}

// Append adds surfaces to the collection.
func (c *SurfaceCollection) Append(s ...Surface) {
	c.Surfaces = append(c.Surfaces, s...)
}

// ExPolygons returns the ExPolygon of every surface in the collection.
func (c SurfaceCollection) ExPolygons() geom.ExPolygons {
	out := make(geom.ExPolygons, len(c.Surfaces))
	for i, s := range c.Surfaces {
		out[i] = s.ExPolygon
	}
	return out
}

// canMerge reports whether two surfaces should be considered the same
// group by Group(): identical type, bridge angle and extra perimeters (the legacy
// "could merge" equivalence of spec.md §3).
func canMerge(a, b Surface) bool {
	return a.Type == b.Type && a.BridgeAngle == b.BridgeAngle && a.ExtraPerimeters == b.ExtraPerimeters
}

// Group partitions the collection's surfaces into mergeable groups,
// preserving insertion order within each group.
func (c SurfaceCollection) Group() [][]Surface {
	var groups [][]Surface
	for _, s := range c.Surfaces {
		placed := false
		for i := range groups {
			if canMerge(groups[i][0], s) {
				groups[i] = append(groups[i], s)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, []Surface{s})
		}
	}
	return groups
}

// Simplify simplifies every surface's ExPolygon by tolerance, in place.
func (c *SurfaceCollection) Simplify(tolerance int64) {
	for i, s := range c.Surfaces {
		c.Surfaces[i].ExPolygon = s.ExPolygon.Simplify(tolerance)
	}
}

// FillPatternSource selects which config-driven pattern a surface's
// fill should use (spec.md §4.4's pattern-source table). Internal+Solid
// (non-bridge) always uses rectilinear and is not config-driven, so it
// is reported as PatternRectilinear directly rather than as a config
// key to look up.
type FillPatternSource int

const (
	PatternFromFillPattern FillPatternSource = iota
	PatternFromTopInfillPattern
	PatternFromBottomInfillPattern
	PatternRectilinear
	PatternRectilinearBridge
)

// PatternSource implements spec.md §4.4's fill-pattern-selection table.
func (s Surface) PatternSource() FillPatternSource {
	switch {
	case s.Type.Position == PositionTop && s.Type.Density == DensitySolid:
		return PatternFromTopInfillPattern
	case s.Type.Position == PositionBottom && s.Type.Density == DensitySolid && s.Type.Modifier != ModifierBridge:
		return PatternFromBottomInfillPattern
	case s.Type.Position == PositionInternal && s.Type.Density == DensitySolid && s.Type.Modifier == ModifierBridge:
		return PatternRectilinearBridge
	case s.Type.Position == PositionInternal && s.Type.Density == DensitySolid:
		return PatternRectilinear
	default:
		return PatternFromFillPattern
	}
}

// Role returns the flowcalc.Role an extrusion of this surface's fill
// should carry.
func (s Surface) Role() flowcalc.Role {
	switch {
	case s.Type.Modifier == ModifierBridge || s.Type.Modifier == ModifierOverBridge:
		return flowcalc.RoleBridgeInfill
	case s.Type.Position == PositionTop && s.Type.Density == DensitySolid:
		return flowcalc.RoleTopSolidInfill
	case s.Type.Density == DensitySolid:
		return flowcalc.RoleSolidInfill
	case s.Type.Density == DensitySparse:
		return flowcalc.RoleInternalInfill
	default:
		return flowcalc.RoleInternalInfill
	}
}
