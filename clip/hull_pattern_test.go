package clip

import (
	"testing"

	"github.com/slic3r/slicer-core/geom"
)

func TestConvexHullOfSquareKeepsAllFourCorners(t *testing.T) {
	sq := geom.Polygon{
		geom.NewPoint(0, 0), geom.NewPoint(10, 0), geom.NewPoint(10, 10), geom.NewPoint(0, 10),
	}
	hull := ConvexHull(sq)
	if len(hull) != 4 {
		t.Errorf("ConvexHull(square) has %d vertices, want 4", len(hull))
	}
}

func TestConvexHullDropsInteriorPoint(t *testing.T) {
	withInterior := geom.Polygon{
		geom.NewPoint(0, 0), geom.NewPoint(10, 0), geom.NewPoint(10, 10), geom.NewPoint(0, 10), geom.NewPoint(5, 5),
	}
	hull := ConvexHull(withInterior)
	for _, p := range hull {
		if p.X == 5 && p.Y == 5 {
			t.Errorf("ConvexHull kept interior point (5,5): %v", hull)
		}
	}
}

func TestConvexHullShortInputPassesThrough(t *testing.T) {
	two := geom.Polygon{geom.NewPoint(0, 0), geom.NewPoint(1, 1)}
	if got := ConvexHull(two); len(got) != 2 {
		t.Errorf("ConvexHull(<3 points) = %v, want unchanged input", got)
	}
}

func TestLinearFillOfTinyPolygonReturnsNoLines(t *testing.T) {
	line := geom.Polygon{geom.NewPoint(0, 0), geom.NewPoint(10, 0)}
	ex := geom.ExPolygon{Contour: line}
	if got := LinearFill(ex, 0, geom.Scaled(0.4), false, true); got != nil {
		t.Errorf("LinearFill() over a degenerate <3-point contour = %v, want nil", got)
	}
}

func TestLinearFillZeroSpacingReturnsNil(t *testing.T) {
	sq := geom.NewExPolygon(geom.Polygon{
		geom.NewPoint(0, 0), geom.NewPoint(1000, 0), geom.NewPoint(1000, 1000), geom.NewPoint(0, 1000),
	})
	if got := LinearFill(sq, 0, 0, false, true); got != nil {
		t.Errorf("LinearFill(spacing=0) = %v, want nil", got)
	}
}

func TestLinearFillProducesScanlinesAcrossSquare(t *testing.T) {
	side := geom.Scaled(10)
	sq := geom.NewExPolygon(geom.Polygon{
		geom.NewPoint(0, 0), geom.NewPoint(side, 0), geom.NewPoint(side, side), geom.NewPoint(0, side),
	})
	lines := LinearFill(sq, 0, geom.Scaled(1), true, true)
	if len(lines) == 0 {
		t.Error("LinearFill over a 10mm square at 1mm spacing produced no scanlines")
	}
}

func TestConcentricFillTerminatesOnSquare(t *testing.T) {
	side := geom.Scaled(5)
	sq := geom.NewExPolygon(geom.Polygon{
		geom.NewPoint(0, 0), geom.NewPoint(side, 0), geom.NewPoint(side, side), geom.NewPoint(0, side),
	})
	lines := ConcentricFill(sq, geom.Scaled(0.4))
	if len(lines) == 0 {
		t.Error("ConcentricFill over a 5mm square at 0.4mm spacing produced no rings")
	}
}

func TestConcentricFillZeroSpacingReturnsNil(t *testing.T) {
	sq := geom.NewExPolygon(geom.Polygon{
		geom.NewPoint(0, 0), geom.NewPoint(1000, 0), geom.NewPoint(1000, 1000), geom.NewPoint(0, 1000),
	})
	if got := ConcentricFill(sq, 0); got != nil {
		t.Errorf("ConcentricFill(spacing=0) = %v, want nil", got)
	}
}
