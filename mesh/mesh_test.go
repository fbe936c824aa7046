package mesh

import (
	"testing"

	"github.com/slic3r/slicer-core/geom"
)

func tetrahedron() [][3]geom.Pointf3 {
	a := geom.Pointf3{X: 0, Y: 0, Z: 0}
	b := geom.Pointf3{X: 1, Y: 0, Z: 0}
	c := geom.Pointf3{X: 0, Y: 1, Z: 0}
	d := geom.Pointf3{X: 0, Y: 0, Z: 1}
	return [][3]geom.Pointf3{
		{a, c, b}, // base, facing down (-Z)
		{a, b, d},
		{b, c, d},
		{c, a, d},
	}
}

func TestNewFromTriangleSoupWeldsCoincidentVertices(t *testing.T) {
	m := NewFromTriangleSoup(tetrahedron(), 1e-4)
	if len(m.Vertices) != 4 {
		t.Errorf("expected 4 shared vertices after welding, got %d", len(m.Vertices))
	}
	if m.FaceCount() != 4 {
		t.Errorf("expected 4 facets, got %d", m.FaceCount())
	}
}

func TestNewFromTriangleSoupDropsDegenerateFacets(t *testing.T) {
	a := geom.Pointf3{X: 0, Y: 0, Z: 0}
	b := geom.Pointf3{X: 1, Y: 0, Z: 0}
	degenerate := [][3]geom.Pointf3{{a, a, b}}
	m := NewFromTriangleSoup(degenerate, 1e-4)
	if m.FaceCount() != 0 {
		t.Errorf("expected the degenerate facet to be dropped, got %d facets", m.FaceCount())
	}
	if m.Stats.DegenerateFacets != 1 {
		t.Errorf("expected DegenerateFacets=1, got %d", m.Stats.DegenerateFacets)
	}
}

func TestBoundingBox3(t *testing.T) {
	m := NewFromTriangleSoup(tetrahedron(), 1e-4)
	min, max := m.BoundingBox3()
	if min.X != 0 || min.Y != 0 || min.Z != 0 {
		t.Errorf("min = %+v, want origin", min)
	}
	if max.X != 1 || max.Y != 1 || max.Z != 1 {
		t.Errorf("max = %+v, want (1,1,1)", max)
	}
}

func TestBoundingBox3EmptyMesh(t *testing.T) {
	m := &TriangleMesh{}
	min, max := m.BoundingBox3()
	if min != (geom.Pointf3{}) || max != (geom.Pointf3{}) {
		t.Errorf("expected zero-value bounds for an empty mesh, got min=%+v max=%+v", min, max)
	}
}

func TestRepairBuildsFullyManifoldConnectivity(t *testing.T) {
	m := NewFromTriangleSoup(tetrahedron(), 1e-4)
	m.Repair()
	if !m.IsManifold() {
		t.Error("expected a closed tetrahedron to be manifold after Repair")
	}
}

func TestRepairReversesNegativeVolumeMesh(t *testing.T) {
	// Flip every facet so the soup starts inside-out (volume -1/6).
	var inverted [][3]geom.Pointf3
	for _, tri := range tetrahedron() {
		inverted = append(inverted, [3]geom.Pointf3{tri[0], tri[2], tri[1]})
	}
	m := NewFromTriangleSoup(inverted, 1e-4)
	if m.Volume() >= 0 {
		t.Fatalf("inverted tetrahedron should start with negative volume, got %v", m.Volume())
	}
	m.Repair()
	if m.Volume() <= 0 {
		t.Errorf("expected Repair to leave a positive-volume mesh, got %v", m.Volume())
	}
}

func TestRepairIsIdempotent(t *testing.T) {
	m := NewFromTriangleSoup(tetrahedron(), 1e-4)
	m.Repair()
	firstVol := m.Volume()
	firstStats := m.Stats

	m.Repair()
	if m.Volume() != firstVol {
		t.Errorf("second Repair() changed the volume: %v -> %v", firstVol, m.Volume())
	}
	if m.Stats.FacetsReversed != firstStats.FacetsReversed {
		t.Errorf("second Repair() changed FacetsReversed: %v -> %v", firstStats.FacetsReversed, m.Stats.FacetsReversed)
	}
}

func TestRepairOnEmptyMeshDoesNotPanic(t *testing.T) {
	m := &TriangleMesh{}
	m.Repair()
	if !m.IsManifold() {
		t.Error("an empty mesh vacuously has no unresolved edges and should report manifold")
	}
}
