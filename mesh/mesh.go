// Package mesh owns the repaired triangle mesh and its planar slicing
// engine (spec.md §4.1). A TriangleMesh stores per-facet vertex indices
// into a shared-vertex table plus per-edge neighbor indices, so the
// slicer's loop assembly can walk from one facet's cut to the next
// facet sharing that edge without a spatial search.
package mesh

import (
	"math"

	"github.com/slic3r/slicer-core/geom"
)

// Facet is one triangle: three indices into the mesh's shared vertex
// table, the facet normal, and the index of the facet sharing each of
// its three edges (-1 if the edge is a boundary / non-manifold).
type Facet struct {
	V        [3]int
	Normal   geom.Pointf3
	Neighbor [3]int
}

// Stats exposes repair diagnostics. They do not affect subsequent steps
// (spec.md §4.1).
type Stats struct {
	FacetsReversed   int
	EdgesFixed       int
	DegenerateFacets int
}

// TriangleMesh is the repaired, connectivity-indexed mesh the slicer
// operates on.
type TriangleMesh struct {
	Vertices []geom.Pointf3
	Facets   []Facet
	Stats    Stats
	repaired bool
}

// NewFromTriangleSoup builds a TriangleMesh from unindexed facet
// vertices (the representation an STL reader naturally produces),
// deduplicating coincident vertices within mergeTolerance mm. The
// result is not yet repaired; call Repair before slicing.
func NewFromTriangleSoup(triangles [][3]geom.Pointf3, mergeTolerance float64) *TriangleMesh {
	m := &TriangleMesh{}
	index := newVertexIndex(mergeTolerance)

	for _, tri := range triangles {
		var f Facet
		for i, v := range tri {
			f.V[i] = index.indexFor(v, m)
		}
		if isDegenerate(m.Vertices, f) {
			m.Stats.DegenerateFacets++
			continue
		}
		f.Normal = computeNormal(m.Vertices, f)
		f.Neighbor = [3]int{-1, -1, -1}
		m.Facets = append(m.Facets, f)
	}
	return m
}

func isDegenerate(vertices []geom.Pointf3, f Facet) bool {
	a, b, c := vertices[f.V[0]], vertices[f.V[1]], vertices[f.V[2]]
	n := b.Sub(a).Cross(c.Sub(a))
	return n.Size() < 1e-9
}

func computeNormal(vertices []geom.Pointf3, f Facet) geom.Pointf3 {
	a, b, c := vertices[f.V[0]], vertices[f.V[1]], vertices[f.V[2]]
	return b.Sub(a).Cross(c.Sub(a)).Normalized()
}

// FaceCount returns the number of (non-degenerate) facets.
func (m *TriangleMesh) FaceCount() int { return len(m.Facets) }

// BoundingBox3 returns the 3D extent of the mesh's vertices.
func (m *TriangleMesh) BoundingBox3() (min, max geom.Pointf3) {
	if len(m.Vertices) == 0 {
		return
	}
	min, max = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		if v.X < min.X {
			min.X = v.X
		}
		if v.Y < min.Y {
			min.Y = v.Y
		}
		if v.Z < min.Z {
			min.Z = v.Z
		}
		if v.X > max.X {
			max.X = v.X
		}
		if v.Y > max.Y {
			max.Y = v.Y
		}
		if v.Z > max.Z {
			max.Z = v.Z
		}
	}
	return
}

// Volume returns the signed volume of the mesh, computed as the sum of
// signed tetrahedron volumes spanned by each facet and the origin. A
// well-formed, outward-normal mesh yields a positive volume.
func (m *TriangleMesh) Volume() float64 {
	var vol float64
	for _, f := range m.Facets {
		a, b, c := m.Vertices[f.V[0]], m.Vertices[f.V[1]], m.Vertices[f.V[2]]
		vol += a.Dot(b.Cross(c)) / 6.0
	}
	return vol
}

// IsManifold reports whether every edge has exactly two adjacent
// facets, i.e. every Neighbor slot is resolved.
func (m *TriangleMesh) IsManifold() bool {
	if !m.repaired {
		m.buildConnectivity()
	}
	for _, f := range m.Facets {
		for _, n := range f.Neighbor {
			if n < 0 {
				return false
			}
		}
	}
	return true
}

// Repair rebuilds facet connectivity, fixes normal directions, and
// reverses facets if the signed volume is negative. It does not stitch
// open edges or rebuild the shared-vertex table: vertices are merged
// within a tolerance only by NewFromTriangleSoup. Repair is idempotent: calling
// it again on an already-repaired mesh produces the same structural
// result (spec.md §4.1 / §8 "Idempotence of repair").
func (m *TriangleMesh) Repair() {
	if len(m.Facets) == 0 {
		m.repaired = true
		return
	}

	m.buildConnectivity()
	m.fixNormalOrientation()

	if m.Volume() < 0 {
		m.reverseAllFacets()
	}

	m.repaired = true
}

// buildConnectivity computes, for every facet edge, the neighboring
// facet sharing it. Two facets share an edge iff they reference the same
// ordered pair of shared-vertex indices in opposite directions; a
// second-chance lookup in the same direction tolerates non-oriented
// (inconsistently wound) manifolds, per spec.md §4.1 step 1.
func (m *TriangleMesh) buildConnectivity() {
	type occurrence struct {
		facet, edge int
	}
	opposite := map[[2]int]occurrence{}
	same := map[[2]int]occurrence{}

	for fi := range m.Facets {
		m.Facets[fi].Neighbor = [3]int{-1, -1, -1}
	}

	for fi, f := range m.Facets {
		for e := 0; e < 3; e++ {
			v0, v1 := f.V[e], f.V[(e+1)%3]
			fwdKey := [2]int{v0, v1}
			revKey := [2]int{v1, v0}

			if other, ok := opposite[revKey]; ok {
				m.Facets[fi].Neighbor[e] = other.facet
				m.Facets[other.facet].Neighbor[other.edge] = fi
				delete(opposite, revKey)
				continue
			}
			opposite[fwdKey] = occurrence{fi, e}

			if other, ok := same[fwdKey]; ok && m.Facets[fi].Neighbor[e] < 0 {
				m.Facets[fi].Neighbor[e] = other.facet
				if m.Facets[other.facet].Neighbor[other.edge] < 0 {
					m.Facets[other.facet].Neighbor[other.edge] = fi
				}
				m.Stats.EdgesFixed++
			} else {
				same[fwdKey] = occurrence{fi, e}
			}
		}
	}
}

// fixNormalOrientation propagates a consistent winding outward from an
// arbitrary seed facet via BFS across the neighbor graph, flipping any
// facet whose winding disagrees with its already-visited neighbor.
func (m *TriangleMesh) fixNormalOrientation() {
	visited := make([]bool, len(m.Facets))
	for seed := range m.Facets {
		if visited[seed] {
			continue
		}
		queue := []int{seed}
		visited[seed] = true
		for len(queue) > 0 {
			fi := queue[0]
			queue = queue[1:]
			f := m.Facets[fi]
			for e := 0; e < 3; e++ {
				ni := f.Neighbor[e]
				if ni < 0 || visited[ni] {
					continue
				}
				visited[ni] = true
				if !edgeOpposesConsistently(m.Facets[fi], m.Facets[ni]) {
					m.reverseFacet(ni)
					m.Stats.FacetsReversed++
				}
				queue = append(queue, ni)
			}
		}
	}
}

// edgeOpposesConsistently reports whether the shared edge between a and
// b is traversed in opposite directions (the hallmark of consistent
// outward winding between two adjacent facets).
func edgeOpposesConsistently(a, b Facet) bool {
	for i := 0; i < 3; i++ {
		v0, v1 := a.V[i], a.V[(i+1)%3]
		for j := 0; j < 3; j++ {
			w0, w1 := b.V[j], b.V[(j+1)%3]
			if v0 == w1 && v1 == w0 {
				return true
			}
			if v0 == w0 && v1 == w1 {
				return false
			}
		}
	}
	return true
}

func (m *TriangleMesh) reverseFacet(fi int) {
	f := &m.Facets[fi]
	f.V[1], f.V[2] = f.V[2], f.V[1]
	f.Neighbor[0], f.Neighbor[2] = f.Neighbor[2], f.Neighbor[0]
	f.Normal = geom.Pointf3{X: -f.Normal.X, Y: -f.Normal.Y, Z: -f.Normal.Z}
}

func (m *TriangleMesh) reverseAllFacets() {
	for fi := range m.Facets {
		m.reverseFacet(fi)
	}
}

// vertexIndex deduplicates vertices within a quantized tolerance grid so
// that repeated STL corner coordinates collapse to one shared index.
type vertexIndex struct {
	tolerance float64
	buckets   map[[3]int64][]int
}

func newVertexIndex(tolerance float64) *vertexIndex {
	if tolerance <= 0 {
		tolerance = 1e-4
	}
	return &vertexIndex{tolerance: tolerance, buckets: map[[3]int64][]int{}}
}

func (vi *vertexIndex) key(v geom.Pointf3) [3]int64 {
	return [3]int64{
		int64(math.Round(v.X / vi.tolerance)),
		int64(math.Round(v.Y / vi.tolerance)),
		int64(math.Round(v.Z / vi.tolerance)),
	}
}

func (vi *vertexIndex) indexFor(v geom.Pointf3, m *TriangleMesh) int {
	k := vi.key(v)
	for _, idx := range vi.buckets[k] {
		if dist3(m.Vertices[idx], v) <= vi.tolerance {
			return idx
		}
	}
	idx := len(m.Vertices)
	m.Vertices = append(m.Vertices, v)
	vi.buckets[k] = append(vi.buckets[k], idx)
	return idx
}

func dist3(a, b geom.Pointf3) float64 {
	return a.Sub(b).Size()
}
