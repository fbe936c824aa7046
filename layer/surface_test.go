package layer

import (
	"testing"

	"github.com/slic3r/slicer-core/flowcalc"
	"github.com/slic3r/slicer-core/geom"
)

func testExPolygon() geom.ExPolygon {
	return geom.NewExPolygon(geom.Polygon{
		geom.NewPoint(0, 0), geom.NewPoint(1000, 0), geom.NewPoint(1000, 1000), geom.NewPoint(0, 1000),
	})
}

func TestSurfacePatternSourceTable(t *testing.T) {
	tests := []struct {
		name string
		t    SurfaceType
		want FillPatternSource
	}{
		{"top solid", SurfaceType{Position: PositionTop, Density: DensitySolid}, PatternFromTopInfillPattern},
		{"bottom solid non-bridge", SurfaceType{Position: PositionBottom, Density: DensitySolid}, PatternFromBottomInfillPattern},
		{"bottom solid bridge falls through to the default pattern", SurfaceType{Position: PositionBottom, Density: DensitySolid, Modifier: ModifierBridge}, PatternFromFillPattern},
		{"internal solid bridge", SurfaceType{Position: PositionInternal, Density: DensitySolid, Modifier: ModifierBridge}, PatternRectilinearBridge},
		{"internal solid non-bridge", SurfaceType{Position: PositionInternal, Density: DensitySolid}, PatternRectilinear},
		{"internal sparse", SurfaceType{Position: PositionInternal, Density: DensitySparse}, PatternFromFillPattern},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSurface(testExPolygon(), tt.t)
			if got := s.PatternSource(); got != tt.want {
				t.Errorf("PatternSource() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSurfaceRole(t *testing.T) {
	tests := []struct {
		name string
		t    SurfaceType
		want flowcalc.Role
	}{
		{"bridge modifier always wins", SurfaceType{Position: PositionInternal, Density: DensitySolid, Modifier: ModifierBridge}, flowcalc.RoleBridgeInfill},
		{"top solid", SurfaceType{Position: PositionTop, Density: DensitySolid}, flowcalc.RoleTopSolidInfill},
		{"other solid", SurfaceType{Position: PositionBottom, Density: DensitySolid}, flowcalc.RoleSolidInfill},
		{"sparse", SurfaceType{Position: PositionInternal, Density: DensitySparse}, flowcalc.RoleInternalInfill},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSurface(testExPolygon(), tt.t)
			if got := s.Role(); got != tt.want {
				t.Errorf("Role() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSurfaceCollectionFilterAndRemove(t *testing.T) {
	top := NewSurface(testExPolygon(), SurfaceType{Position: PositionTop, Density: DensitySolid})
	bottom := NewSurface(testExPolygon(), SurfaceType{Position: PositionBottom, Density: DensitySolid})
	c := SurfaceCollection{Surfaces: []Surface{top, bottom}}

	tops := c.FilterByType(PositionTop, DensitySolid)
	if len(tops) != 1 {
		t.Fatalf("FilterByType(Top, Solid) returned %d surfaces, want 1", len(tops))
	}

	c.Remove(func(s Surface) bool { return s.Type.Position == PositionTop })
	if len(c.Surfaces) != 1 || c.Surfaces[0].Type.Position != PositionBottom {
		t.Fatalf("Remove() left %+v, want only the bottom surface", c.Surfaces)
	}
}

func TestSurfaceCollectionGroupMergesByTypeAndBridgeAngle(t *testing.T) {
	typA := SurfaceType{Position: PositionInternal, Density: DensitySparse}
	a1 := NewSurface(testExPolygon(), typA)
	a2 := NewSurface(testExPolygon(), typA)
	b := NewSurface(testExPolygon(), typA)
	b.BridgeAngle = 1.5 // differs from the NoBridgeAngle default, must not merge with a1/a2

	c := SurfaceCollection{Surfaces: []Surface{a1, a2, b}}
	groups := c.Group()
	if len(groups) != 2 {
		t.Fatalf("Group() produced %d groups, want 2 (same bridge angle merges, differing angle doesn't)", len(groups))
	}
}
