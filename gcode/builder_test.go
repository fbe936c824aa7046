package gcode

import (
	"strings"
	"testing"

	"github.com/slic3r/slicer-core/flowcalc"
	"github.com/slic3r/slicer-core/geom"
	"github.com/slic3r/slicer-core/layer"
)

func TestAddMoveEmitsUnscaledCoordinates(t *testing.T) {
	var b Builder
	b.AddMove(geom.NewPoint(geom.Scaled(10), geom.Scaled(5)), 3000)
	got := b.String()
	if !strings.Contains(got, "X10.000 Y5.000") {
		t.Errorf("AddMove() = %q, want unscaled X10.000 Y5.000", got)
	}
	if strings.Contains(got, "E") {
		t.Errorf("AddMove() = %q, should not contain an E axis (travel move)", got)
	}
}

func TestAddExtrudeAccumulatesDistance(t *testing.T) {
	var b Builder
	b.AddExtrude(geom.NewPoint(geom.Scaled(10), 0), 10, 0.02, 1200)
	b.AddExtrude(geom.NewPoint(geom.Scaled(20), 0), 10, 0.02, 1200)
	got := b.String()
	if !strings.Contains(got, "E0.20000") {
		t.Errorf("first extrude line missing E0.20000: %q", got)
	}
	if !strings.Contains(got, "E0.40000") {
		t.Errorf("second extrude should accumulate to E0.40000: %q", got)
	}
}

func TestRenderEntityWalksCollectionRecursively(t *testing.T) {
	path := layer.ExtrusionPath{
		Polyline: geom.Polyline{geom.NewPoint(0, 0), geom.NewPoint(geom.Scaled(10), 0)},
		PathRole: flowcalc.RoleExternalPerimeter,
		MM3PerMM: 0.02,
	}
	coll := layer.ExtrusionEntityCollection{}
	coll.Append(path)

	var b Builder
	RenderEntity(&b, coll, 1200)

	got := b.String()
	if !strings.Contains(got, "G1 X0.000 Y0.000") {
		t.Errorf("expected a travel move to the path's first point, got %q", got)
	}
	if !strings.Contains(got, "E") {
		t.Errorf("expected an extruding move for the path's second point, got %q", got)
	}
}

func TestRenderEntityEmptyPathEmitsNothing(t *testing.T) {
	var b Builder
	RenderEntity(&b, layer.ExtrusionPath{Polyline: nil}, 1200)
	if b.String() != "\n" {
		t.Errorf("rendering an empty polyline should emit no lines, got %q", b.String())
	}
}
