// Package heightplanner implements the layer-height planner of spec.md
// §4.2: static, adaptive-by-facet-normal and raft modes, producing the
// strictly increasing print_z sequence for a PrintObject.
package heightplanner

import (
	"math"

	"github.com/slic3r/slicer-core/mesh"
)

// Plan is the result of planning: parallel slice_z/print_z/height
// sequences ready to feed package slicer.
type Plan struct {
	SliceZs []float64
	PrintZs []float64
	Heights []float64
}

// surfaceConst is the empirically-fit constant relating surface
// waviness to layer height in adaptive mode (spec.md §4.2, ≈0.184).
const surfaceConst = 0.184

// Static builds a fixed-height plan from firstLayerHeight up to
// zMax, honoring the quantize-the-top-layer rule of spec.md §4.2: if
// the final partial layer's remainder is larger than minNozzleDiameter/2
// the top is trimmed to land exactly on zMax, otherwise the last step is
// thickened to reach zMax exactly.
func Static(firstLayerHeight, layerHeight, minNozzleDiameter, zMax float64) Plan {
	h := layerHeight
	if minNozzleDiameter < h {
		h = minNozzleDiameter
	}

	var p Plan
	z := firstLayerHeight
	p.PrintZs = append(p.PrintZs, z)
	p.Heights = append(p.Heights, firstLayerHeight)

	for z+h < zMax-1e-9 {
		z += h
		p.PrintZs = append(p.PrintZs, z)
		p.Heights = append(p.Heights, h)
	}

	remainder := zMax - z
	if remainder > 1e-9 {
		if remainder > minNozzleDiameter/2 {
			// Trim: replace the pending step with exactly the remainder.
			p.PrintZs = append(p.PrintZs, zMax)
			p.Heights = append(p.Heights, remainder)
		} else {
			// Thicken the last layer to absorb the remainder.
			last := len(p.PrintZs) - 1
			p.PrintZs[last] = zMax
			p.Heights[last] += remainder
		}
	}

	p.SliceZs = make([]float64, len(p.PrintZs))
	for i, pz := range p.PrintZs {
		p.SliceZs[i] = pz - p.Heights[i]/2
	}
	return p
}

// facetSpan is a facet's Z extent and normal-Z component, pre-sorted by
// ascending MinZ so adaptive candidate enumeration is a forward scan
// (spec.md §4.2).
type facetSpan struct {
	minZ, maxZ, normalZ float64
}

func facetSpans(m *mesh.TriangleMesh) []facetSpan {
	spans := make([]facetSpan, len(m.Facets))
	for i, f := range m.Facets {
		a, b, c := m.Vertices[f.V[0]].Z, m.Vertices[f.V[1]].Z, m.Vertices[f.V[2]].Z
		minZ, maxZ := a, a
		for _, z := range []float64{b, c} {
			if z < minZ {
				minZ = z
			}
			if z > maxZ {
				maxZ = z
			}
		}
		n := f.Normal.Normalized()
		spans[i] = facetSpan{minZ: minZ, maxZ: maxZ, normalZ: n.Z}
	}
	return spans
}

// Adaptive builds a variable-height plan driven by facet-normal Z
// (spec.md §4.2): at each candidate Z, the next height is the minimum
// over all facets crossing [z, z+hMax] of
// q_scaled/(SURFACE_CONST + |n_z|/2), clipped to [hMin, hMax].
func Adaptive(m *mesh.TriangleMesh, firstLayerHeight, hMin, hMax, quality, zMax float64) Plan {
	spans := facetSpans(m)
	// Sort ascending by MinZ (small N expected per object; insertion sort
	// keeps this dependency-free and avoids importing sort for a
	// one-off).
	for i := 1; i < len(spans); i++ {
		for j := i; j > 0 && spans[j].minZ < spans[j-1].minZ; j-- {
			spans[j], spans[j-1] = spans[j-1], spans[j]
		}
	}

	qScaled := surfaceConst*hMin + quality*((surfaceConst*hMax+hMax/2)-surfaceConst*hMin)

	var p Plan
	z := firstLayerHeight
	p.PrintZs = append(p.PrintZs, z)
	p.Heights = append(p.Heights, firstLayerHeight)

	start := 0
	for z < zMax-1e-9 {
		h := hMax
		for start < len(spans) && spans[start].maxZ < z {
			start++
		}
		for i := start; i < len(spans) && spans[i].minZ <= z+hMax; i++ {
			s := spans[i]
			if s.maxZ < z {
				continue
			}
			candidate := qScaled / (surfaceConst + math.Abs(s.normalZ)/2)
			if candidate < h {
				h = candidate
			}
		}
		if h < hMin {
			h = hMin
		}
		if h > hMax {
			h = hMax
		}
		if z+h > zMax {
			h = zMax - z
		}
		z += h
		p.PrintZs = append(p.PrintZs, z)
		p.Heights = append(p.Heights, h)
	}

	p.SliceZs = make([]float64, len(p.PrintZs))
	for i, pz := range p.PrintZs {
		p.SliceZs[i] = pz - p.Heights[i]/2
	}
	return p
}

// Raft prepends raft layers ahead of plan p: the first raft layer at
// firstLayerHeight, subsequent raft layers at 0.75*minSupportNozzleDiameter
// (spec.md §4.2), then shifts p's own Z values up by the raft top plus
// contactDistance.
func Raft(p Plan, raftLayers int, firstLayerHeight, minSupportNozzleDiameter, contactDistance float64) Plan {
	if raftLayers <= 0 {
		return p
	}
	raftStep := 0.75 * minSupportNozzleDiameter

	var out Plan
	z := firstLayerHeight
	out.PrintZs = append(out.PrintZs, z)
	out.Heights = append(out.Heights, firstLayerHeight)
	for i := 1; i < raftLayers; i++ {
		z += raftStep
		out.PrintZs = append(out.PrintZs, z)
		out.Heights = append(out.Heights, raftStep)
	}

	shift := z + contactDistance
	for i, pz := range p.PrintZs {
		out.PrintZs = append(out.PrintZs, pz+shift)
		out.Heights = append(out.Heights, p.Heights[i])
	}

	out.SliceZs = make([]float64, len(out.PrintZs))
	for i, pz := range out.PrintZs {
		out.SliceZs[i] = pz - out.Heights[i]/2
	}
	return out
}

// MatchHorizontalSurfaces adjusts the final height step of p in place
// so that the candidate boundary lands exactly on a given horizontal
// facet Z, either shrinking (if the shrink remains >= hMin) or widening
// to meet it exactly (spec.md §4.2). A facet hMin or more away, or one
// that would need a shrink below hMin, leaves the step unchanged.
func MatchHorizontalSurfaces(p *Plan, hMin float64, horizontalZ float64) {
	if len(p.PrintZs) == 0 {
		return
	}
	last := len(p.PrintZs) - 1
	diff := horizontalZ - p.PrintZs[last]
	if diff == 0 {
		return
	}
	shrunk := p.Heights[last] + diff
	if math.Abs(diff) < hMin && shrunk >= hMin {
		p.Heights[last] = shrunk
		p.PrintZs[last] = horizontalZ
	}
}
