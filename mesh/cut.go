package mesh

import "github.com/slic3r/slicer-core/geom"

// Cut partitions the mesh along the plane at depth z (mm) on axis: facets
// wholly on one side are copied as-is to the matching half; facets
// crossing the plane are split into a triangle (the side with the
// isolated vertex) and a quadrilateral (the other side, retriangulated
// into two triangles); the cut cross-section is triangulated as a fan
// from the first boundary point and added to both halves with opposite
// normals so both halves remain closed solids (spec.md §4.1.6).
func (m *TriangleMesh) Cut(axis Axis, z float64) (upper, lower *TriangleMesh) {
	upper = &TriangleMesh{}
	lower = &TriangleMesh{}

	upperIdx := newVertexIndex(1e-6)
	lowerIdx := newVertexIndex(1e-6)

	var cutLoopUpper, cutLoopLower []geom.Pointf3

	for _, f := range m.Facets {
		a, b, c := m.Vertices[f.V[0]], m.Vertices[f.V[1]], m.Vertices[f.V[2]]
		verts := [3]geom.Pointf3{a, b, c}
		d := [3]float64{depthOf(a, axis) - z, depthOf(b, axis) - z, depthOf(c, axis) - z}

		allUpper, allLower := true, true
		for _, v := range d {
			if v < 0 {
				allUpper = false
			}
			if v > 0 {
				allLower = false
			}
		}

		switch {
		case allUpper:
			addFacetCopy(upper, upperIdx, verts, f.Normal)
			continue
		case allLower:
			addFacetCopy(lower, lowerIdx, verts, f.Normal)
			continue
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
			// Degenerate straddle (a vertex exactly on the plane); treat
			// conservatively as belonging to the upper half.
			addFacetCopy(upper, upperIdx, verts, f.Normal)
			continue
		}
		j, k := (lo+1)%3, (lo+2)%3

		pA := lerp3(verts[lo], verts[j], d[lo], d[j])
		pB := lerp3(verts[k], verts[lo], d[k], d[lo])

		isolatedAbove := d[lo] > 0
		// Triangle (lo, pA, pB) sits alone on lo's side; the quad
		// (j, k, pB, pA) sits on the other side, split into two triangles.
		if isolatedAbove {
			addFacetCopy(upper, upperIdx, [3]geom.Pointf3{verts[lo], pA, pB}, f.Normal)
			addFacetCopy(lower, lowerIdx, [3]geom.Pointf3{verts[j], verts[k], pB}, f.Normal)
			addFacetCopy(lower, lowerIdx, [3]geom.Pointf3{verts[j], pB, pA}, f.Normal)
			cutLoopUpper = append(cutLoopUpper, pA, pB)
			cutLoopLower = append(cutLoopLower, pB, pA)
		} else {
			addFacetCopy(lower, lowerIdx, [3]geom.Pointf3{verts[lo], pA, pB}, f.Normal)
			addFacetCopy(upper, upperIdx, [3]geom.Pointf3{verts[j], verts[k], pB}, f.Normal)
			addFacetCopy(upper, upperIdx, [3]geom.Pointf3{verts[j], pB, pA}, f.Normal)
			cutLoopLower = append(cutLoopLower, pA, pB)
			cutLoopUpper = append(cutLoopUpper, pB, pA)
		}
	}

	capCrossSection(upper, upperIdx, cutLoopUpper, axis, false)
	capCrossSection(lower, lowerIdx, cutLoopLower, axis, true)

	upper.Repair()
	lower.Repair()

	return upper, lower
}

func addFacetCopy(m *TriangleMesh, idx *vertexIndex, verts [3]geom.Pointf3, normal geom.Pointf3) {
	var f Facet
	for i, v := range verts {
		f.V[i] = idx.indexFor(v, m)
	}
	f.Normal = normal
	f.Neighbor = [3]int{-1, -1, -1}
	m.Facets = append(m.Facets, f)
}

func lerp3(a, b geom.Pointf3, da, db float64) geom.Pointf3 {
	t := da / (da - db)
	return geom.Pointf3{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
	}
}

// capCrossSection fans-triangulates the ordered boundary loop of a cut
// and adds the cap facets to m so the half-mesh stays a closed solid.
func capCrossSection(m *TriangleMesh, idx *vertexIndex, loop []geom.Pointf3, axis Axis, flip bool) {
	if len(loop) < 3 {
		return
	}
	normal := geom.Pointf3{Z: 1}
	if axis == AxisX {
		normal = geom.Pointf3{X: 1}
	} else if axis == AxisY {
		normal = geom.Pointf3{Y: 1}
	}
	if flip {
		normal = geom.Pointf3{X: -normal.X, Y: -normal.Y, Z: -normal.Z}
	}
	for i := 1; i < len(loop)-1; i++ {
		addFacetCopy(m, idx, [3]geom.Pointf3{loop[0], loop[i], loop[i+1]}, normal)
	}
}
