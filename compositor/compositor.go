// Package compositor implements the perimeter and fill compositor of
// spec.md §4.4: groups LayerRegions of compatible configuration,
// generates perimeters, and redistributes fill surfaces back to
// contributing regions.
package compositor

import (
	"github.com/slic3r/slicer-core/clip"
	"github.com/slic3r/slicer-core/config"
	"github.com/slic3r/slicer-core/flowcalc"
	"github.com/slic3r/slicer-core/geom"
	"github.com/slic3r/slicer-core/layer"
)

// RegionInput is one LayerRegion plus the PrintRegionConfig it is
// grouped by.
type RegionInput struct {
	ID     layer.RegionID
	Region *layer.LayerRegion
	Config config.PrintRegionConfig
	Raw    *config.DynamicConfig
}

// GroupRegions partitions regions by equality over the fixed
// perimeter-and-fill-relevant key list (spec.md §4.4): regions in the
// same group share one perimeter generator invocation.
func GroupRegions(inputs []RegionInput) [][]RegionInput {
	keys := config.PerimeterRelevantKeys()
	var groups [][]RegionInput
	for _, in := range inputs {
		placed := false
		for gi, g := range groups {
			if sameGroup(g[0].Raw, in.Raw, keys) {
				groups[gi] = append(groups[gi], in)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, []RegionInput{in})
		}
	}
	return groups
}

func sameGroup(a, b *config.DynamicConfig, keys []string) bool {
	for _, k := range keys {
		av, aok := a.Get(k)
		bv, bok := b.Get(k)
		if aok != bok {
			return false
		}
		if aok && !av.Equal(bv) {
			return false
		}
	}
	return true
}

// hostRegion returns the member of the group with the highest
// fill_density, which hosts the shared perimeter extrusion data
// (spec.md §4.4).
func hostRegion(group []RegionInput) int {
	best := 0
	for i, in := range group {
		if in.Config.FillDensity > group[best].Config.FillDensity {
			best = i
		}
	}
	return best
}

// GeneratePerimeters merges a group's slices, generates inward-offset
// perimeter loops per spec.md §4.4 into the Perimeters collection of the
// highest-fill_density member, and then clips every member's existing
// FillSurfaces to the area inside the innermost loop, keeping each
// surface's type. spacingScaled is the perimeter
// extrusion spacing in the same scaled-integer units as geom.Point.
func GeneratePerimeters(group []RegionInput, spacingScaled int64) {
	if len(group) == 0 {
		return
	}
	host := hostRegion(group)
	cfg := group[host].Config

	var merged geom.ExPolygons
	for _, in := range group {
		merged = append(merged, in.Region.Slices.ExPolygons()...)
	}
	if len(merged) > 1 {
		if u, ok := clip.Union(geom.ExPolygons{merged[0]}, merged[1:]); ok {
			merged = u
		}
	}

	perimeterSpacing := spacingScaled
	loops := generateLoopsForGroup(merged, int(cfg.Perimeters), perimeterSpacing)

	coll := &group[host].Region.Perimeters
	coll.NoSort = false
	for ringIdx, ring := range loops {
		role := flowcalc.RolePerimeter
		if ringIdx == 0 {
			role = flowcalc.RoleExternalPerimeter
		}
		for _, ex := range ring {
			coll.Append(polygonToLoop(ex.Contour, role))
			for _, h := range ex.Holes {
				coll.Append(polygonToLoop(h, role))
			}
		}
	}

	var fillRegion geom.ExPolygons
	if len(loops) > 0 {
		fillRegion = clip.Offset(loops[len(loops)-1], -perimeterSpacing)
	} else {
		fillRegion = merged
	}

	// Clip each member's already-classified FillSurfaces (Top/Bottom/
	// Internal, Solid/Sparse, Bridge — set by the classify step before
	// GeneratePerimeters runs) down to the perimeter-eroded boundary,
	// preserving SurfaceType instead of re-typing everything as flat
	// Internal+Sparse, so the fill-pattern-selection table of spec.md
	// §4.4 still sees the classifier's output.
	for _, in := range group {
		var out layer.SurfaceCollection
		for _, s := range in.Region.FillSurfaces.Surfaces {
			clipped, _ := clip.Intersection(geom.ExPolygons{s.ExPolygon}, fillRegion)
			for _, ex := range clipped {
				ns := s
				ns.ExPolygon = ex
				out.Append(ns)
			}
		}
		in.Region.FillSurfaces = out
	}
}

func generateLoopsForGroup(slices geom.ExPolygons, count int, spacing int64) []geom.ExPolygons {
	if count <= 0 {
		count = 1
	}
	var rings []geom.ExPolygons
	current := slices
	for i := 0; i < count; i++ {
		if len(current) == 0 {
			break
		}
		rings = append(rings, current)
		current = clip.Offset(current, -spacing)
	}
	return rings
}

func polygonToLoop(p geom.Polygon, role flowcalc.Role) layer.ExtrusionLoop {
	closed := append(geom.Polygon{}, p...)
	if len(closed) > 0 {
		closed = append(closed, closed[0])
	}
	return layer.ExtrusionLoop{
		LoopRole: role,
		Paths: []layer.ExtrusionPath{{
			Polyline: geom.Polyline(closed),
			PathRole: role,
		}},
	}
}
