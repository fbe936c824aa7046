package mesh

import (
	"go.uber.org/zap"

	"github.com/slic3r/slicer-core/clip"
	"github.com/slic3r/slicer-core/geom"
)

// Axis selects which 3D component is "depth" (the direction the plane
// sweeps along) versus the two "plane" components, so the slicing code
// in SlicePlanes is identical for all three instantiations (spec.md
// §4.1 "Axial templating"). Cut uses the same parameter.
type Axis int

const (
	AxisZ Axis = iota
	AxisX
	AxisY
)

func depthOf(p geom.Pointf3, axis Axis) float64 {
	switch axis {
	case AxisX:
		return p.X
	case AxisY:
		return p.Y
	default:
		return p.Z
	}
}

func planeOf(p geom.Pointf3, axis Axis) geom.Pointf {
	switch axis {
	case AxisX:
		return geom.Pointf{X: p.Y, Y: p.Z}
	case AxisY:
		return geom.Pointf{X: p.X, Y: p.Z}
	default:
		return geom.Pointf{X: p.X, Y: p.Y}
	}
}

// edgeKey canonically identifies a mesh edge by its sorted pair of
// shared-vertex indices, so both facets adjoining the edge compute the
// same key (spec.md §4.1 step 4: lines are keyed by edge id).
type edgeKey [2]int

func makeEdgeKey(a, b int) edgeKey {
	if a < b {
		return edgeKey{a, b}
	}
	return edgeKey{b, a}
}

// intersectionLine is one facet's contribution to a plane's cross
// section: a directed segment plus the edge/vertex ids of its endpoints
// used to chain it to its neighbor during loop assembly.
type intersectionLine struct {
	start, end         geom.Point
	startEdge, endEdge edgeKey
	startVertex        int // -1 when this endpoint is edge-based, not vertex-based
	endVertex          int
	facet              int
}

const noVertex = -1

// SlicePlanes intersects the mesh with each of the given depths (sorted
// ascending, in mm) along axis and returns, per plane, the assembled
// ExPolygons (spec.md §4.1). Facets are pre-filtered per plane via
// binary search over [minDepth,maxDepth] so only the planes a facet
// actually spans are visited.
func (m *TriangleMesh) SlicePlanes(axis Axis, depths []float64, log *zap.SugaredLogger) [][]geom.ExPolygon {
	if !m.repaired {
		m.Repair()
	}

	linesPerPlane := make([][]intersectionLine, len(depths))

	for fi, f := range m.Facets {
		a, b, c := m.Vertices[f.V[0]], m.Vertices[f.V[1]], m.Vertices[f.V[2]]
		minD := depthOf(a, axis)
		maxD := minD
		for _, d := range []float64{depthOf(b, axis), depthOf(c, axis)} {
			if d < minD {
				minD = d
			}
			if d > maxD {
				maxD = d
			}
		}

		lo, hi := planeRange(depths, minD, maxD)
		for pi := lo; pi < hi; pi++ {
			z := depths[pi]
			if line, ok := m.intersectFacet(fi, axis, z); ok {
				linesPerPlane[pi] = append(linesPerPlane[pi], line)
			}
		}
	}

	out := make([][]geom.ExPolygon, len(depths))
	for pi := range depths {
		out[pi] = assembleLoops(linesPerPlane[pi], log)
	}
	return out
}

// planeRange returns [lo, hi) indices into a sorted depths slice whose
// values fall within [minD, maxD], via binary search on each bound.
func planeRange(depths []float64, minD, maxD float64) (int, int) {
	lo := lowerBound(depths, minD)
	hi := lowerBound(depths, maxD)
	// include the plane exactly at maxD
	for hi < len(depths) && depths[hi] <= maxD {
		hi++
	}
	return lo, hi
}

func lowerBound(depths []float64, v float64) int {
	l, r := 0, len(depths)
	for l < r {
		mid := (l + r) / 2
		if depths[mid] < v {
			l = mid + 1
		} else {
			r = mid
		}
	}
	return l
}

// intersectFacet computes facet fi's intersection with the plane at
// depth z along axis, handling the three cases of spec.md §4.1 step 3:
// a horizontal facet, a facet with a vertex exactly on the plane (folded
// into the two-edge case via a deterministic epsilon tie-break), and the
// ordinary two-edges-crossed case.
func (m *TriangleMesh) intersectFacet(fi int, axis Axis, z float64) (intersectionLine, bool) {
	f := m.Facets[fi]
	const eps = 1e-7

	var d [3]float64
	var pf [3]geom.Pointf
	for i, vi := range f.V {
		v := m.Vertices[vi]
		d[i] = depthOf(v, axis) - z
		pf[i] = planeOf(v, axis)
	}

	// Horizontal facet: all three vertices lie in the plane. Emit one
	// edge of the triangle (0->1), reversed if the facet faces away from
	// increasing depth, so a top face and a bottom face at the same Z
	// produce opposite-direction lines that cancel per step 4.
	if absf(d[0]) < eps && absf(d[1]) < eps && absf(d[2]) < eps {
		start, end := pf[0], pf[1]
		sv, ev := f.V[0], f.V[1]
		if depthOf(f.Normal, axis) < 0 {
			start, end = end, start
			sv, ev = ev, sv
		}
		return intersectionLine{
			start: start.Scale(), end: end.Scale(),
			startEdge: makeEdgeKey(sv, ev), endEdge: makeEdgeKey(sv, ev),
			startVertex: sv, endVertex: ev,
			facet: fi,
		}, true
	}

	// Tie-break a vertex sitting exactly on the plane deterministically
	// so it participates in the two-edge case below as if it were
	// infinitesimally above the plane.
	for i := range d {
		if absf(d[i]) < eps {
			d[i] = eps
		}
	}

	lo := -1
	for i := 0; i < 3; i++ {
		j, k := (i+1)%3, (i+2)%3
		if sign(d[i]) != sign(d[j]) && sign(d[i]) != sign(d[k]) {
			lo = i
			break
		}
	}
	if lo == -1 {
		return intersectionLine{}, false
	}

	j := (lo + 1) % 3
	k := (lo + 2) % 3

	pA := lerpPointf(pf[lo], pf[j], d[lo], d[j])
	pB := lerpPointf(pf[k], pf[lo], d[k], d[lo])

	start, end := pA, pB
	startEdge, endEdge := makeEdgeKey(f.V[lo], f.V[j]), makeEdgeKey(f.V[k], f.V[lo])
	if d[lo] > 0 {
		start, end = end, start
		startEdge, endEdge = endEdge, startEdge
	}

	return intersectionLine{
		start: start.Scale(), end: end.Scale(),
		startEdge: startEdge, endEdge: endEdge,
		startVertex: noVertex, endVertex: noVertex,
		facet: fi,
	}, true
}

func sign(v float64) int {
	if v < 0 {
		return -1
	}
	return 1
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func lerpPointf(a, b geom.Pointf, da, db float64) geom.Pointf {
	t := da / (da - db)
	return geom.Pointf{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

// assembleLoops walks a plane's intersection lines into closed
// ExPolygons (spec.md §4.1 step 4-5): tangent duplicate lines (identical
// endpoints, opposite direction) are removed first, then repeatedly a
// successor is found whose start key matches the current end key, until
// the walk returns to its own start. Unclosable walks are dropped with a
// warning, not treated as fatal.
func assembleLoops(lines []intersectionLine, log *zap.SugaredLogger) []geom.ExPolygon {
	lines = removeTangentDuplicates(lines)
	if len(lines) == 0 {
		return nil
	}

	used := make([]bool, len(lines))
	byStartEdge := map[edgeKey][]int{}
	byStartVertex := map[int][]int{}
	for i, l := range lines {
		byStartEdge[l.startEdge] = append(byStartEdge[l.startEdge], i)
		if l.startVertex != noVertex {
			byStartVertex[l.startVertex] = append(byStartVertex[l.startVertex], i)
		}
	}

	var loops geom.Polygons
	for i := range lines {
		if used[i] {
			continue
		}
		loop, ok := walkFrom(i, lines, used, byStartEdge, byStartVertex)
		if ok {
			loops = append(loops, loop)
		} else if log != nil {
			log.Warnw("unclosable slice loop dropped", "points", len(loop))
		}
	}

	return geom.NestPolygons(clip.SafetyOffset(loops))
}

func removeTangentDuplicates(lines []intersectionLine) []intersectionLine {
	type key struct {
		a, b geom.Point
	}
	seen := map[key]int{}
	drop := make([]bool, len(lines))
	for i, l := range lines {
		rev := key{l.end, l.start}
		if j, ok := seen[rev]; ok && !drop[j] {
			drop[i] = true
			drop[j] = true
			continue
		}
		seen[key{l.start, l.end}] = i
	}
	var out []intersectionLine
	for i, l := range lines {
		if !drop[i] {
			out = append(out, l)
		}
	}
	return out
}

const snapDistance = int64(30)

func walkFrom(start int, lines []intersectionLine, used []bool, byStartEdge map[edgeKey][]int, byStartVertex map[int][]int) (geom.Polygon, bool) {
	loop := geom.Polygon{lines[start].start}
	current := start
	for {
		used[current] = true
		loop = append(loop, lines[current].end)

		if current != start {
			// closed already?
		}
		endEdge := lines[current].endEdge
		endVertex := lines[current].endVertex

		next := -1
		for _, cand := range byStartEdge[endEdge] {
			if !used[cand] {
				next = cand
				break
			}
			if cand == start {
				return loop[:len(loop)-1], true
			}
		}
		if next == -1 && endVertex != noVertex {
			for _, cand := range byStartVertex[endVertex] {
				if !used[cand] {
					next = cand
					break
				}
				if cand == start {
					return loop[:len(loop)-1], true
				}
			}
		}
		if next == -1 {
			if geom.Polygon(loop).IsAlmostFinished(snapDistance) {
				return loop[:len(loop)-1], true
			}
			return loop, false
		}
		current = next
	}
}
