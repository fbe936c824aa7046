package slicer

import (
	"math"
	"testing"

	"go.uber.org/zap"

	"github.com/slic3r/slicer-core/geom"
	"github.com/slic3r/slicer-core/mesh"
)

// cubeTriangles builds a closed, consistently-wound unit cube
// (0,0,0)-(1,1,1) as a triangle soup, two triangles per face.
func cubeTriangles() [][3]geom.Pointf3 {
	p := func(x, y, z float64) geom.Pointf3 { return geom.Pointf3{X: x, Y: y, Z: z} }
	v000, v100, v110, v010 := p(0, 0, 0), p(1, 0, 0), p(1, 1, 0), p(0, 1, 0)
	v001, v101, v111, v011 := p(0, 0, 1), p(1, 0, 1), p(1, 1, 1), p(0, 1, 1)

	return [][3]geom.Pointf3{
		// bottom (normal -Z)
		{v000, v010, v110}, {v000, v110, v100},
		// top (normal +Z)
		{v001, v101, v111}, {v001, v111, v011},
		// front (normal -Y)
		{v000, v100, v101}, {v000, v101, v001},
		// back (normal +Y)
		{v010, v011, v111}, {v010, v111, v110},
		// left (normal -X)
		{v000, v001, v011}, {v000, v011, v010},
		// right (normal +X)
		{v100, v110, v111}, {v100, v111, v101},
	}
}

func cubeMesh() *mesh.TriangleMesh {
	m := mesh.NewFromTriangleSoup(cubeTriangles(), 1e-6)
	m.Repair()
	return m
}

func TestSliceObjectMidPlaneProducesOneSquarePerRegion(t *testing.T) {
	log := zap.NewNop().Sugar()
	volumes := []VolumeSlice{{Mesh: cubeMesh(), Region: 0}}

	layers := SliceObject(volumes, []float64{0.5}, []float64{0.5}, []float64{0.2}, log)
	if len(layers) != 1 {
		t.Fatalf("SliceObject() returned %d layers, want 1", len(layers))
	}

	region := layers[0].Region(0)
	if len(region.Slices.Surfaces) != 1 {
		t.Fatalf("mid-plane slice of a unit cube produced %d surfaces, want 1", len(region.Slices.Surfaces))
	}

	area := math.Abs(region.Slices.Surfaces[0].ExPolygon.Area())
	want := float64(geom.Scaled(1)) * float64(geom.Scaled(1))
	if math.Abs(area-want) > want*0.01 {
		t.Errorf("mid-plane cross-section area = %v, want ~%v (1mm^2 in scaled units)", area, want)
	}
}

func TestSliceObjectOutsideBoundsProducesNoSurfaces(t *testing.T) {
	log := zap.NewNop().Sugar()
	volumes := []VolumeSlice{{Mesh: cubeMesh(), Region: 0}}

	layers := SliceObject(volumes, []float64{5.0}, []float64{5.0}, []float64{0.2}, log)
	region := layers[0].Region(0)
	if len(region.Slices.Surfaces) != 0 {
		t.Errorf("slicing above the cube's Z extent produced %d surfaces, want 0", len(region.Slices.Surfaces))
	}
}

func TestSliceObjectLinksLayerNeighbors(t *testing.T) {
	log := zap.NewNop().Sugar()
	volumes := []VolumeSlice{{Mesh: cubeMesh(), Region: 0}}

	layers := SliceObject(volumes, []float64{0.2, 0.5, 0.8}, []float64{0.2, 0.5, 0.8}, []float64{0.2, 0.2, 0.2}, log)
	if layers[0].Lower != -1 || layers[0].Upper != 1 {
		t.Errorf("layer 0 neighbors = (lower=%d, upper=%d), want (-1, 1)", layers[0].Lower, layers[0].Upper)
	}
	if layers[1].Lower != 0 || layers[1].Upper != 2 {
		t.Errorf("layer 1 neighbors = (lower=%d, upper=%d), want (0, 2)", layers[1].Lower, layers[1].Upper)
	}
	if layers[2].Lower != 1 || layers[2].Upper != -1 {
		t.Errorf("layer 2 neighbors = (lower=%d, upper=%d), want (1, -1)", layers[2].Lower, layers[2].Upper)
	}
}
