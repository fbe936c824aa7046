package compositor

import (
	"testing"

	"github.com/slic3r/slicer-core/config"
	"github.com/slic3r/slicer-core/geom"
	"github.com/slic3r/slicer-core/layer"
)

func square(side int64) geom.ExPolygon {
	return geom.NewExPolygon(geom.Polygon{
		geom.NewPoint(0, 0), geom.NewPoint(side, 0), geom.NewPoint(side, side), geom.NewPoint(0, side),
	})
}

func dynConfigWith(t *testing.T, def *config.ConfigDef, kv map[string]string) *config.DynamicConfig {
	t.Helper()
	c := config.NewDynamicConfig(def)
	for k, v := range kv {
		if err := c.SetDeserialize(k, v); err != nil {
			t.Fatalf("SetDeserialize(%q, %q) error: %v", k, v, err)
		}
	}
	return c
}

func TestGroupRegionsGroupsByPerimeterRelevantKeysOnly(t *testing.T) {
	def := config.NewConfigDef()
	a := dynConfigWith(t, def, map[string]string{"perimeters": "2", "extrusion_width": "0.5"})
	b := dynConfigWith(t, def, map[string]string{"perimeters": "2", "extrusion_width": "0.6"}) // differs only in a non-grouping key
	c := dynConfigWith(t, def, map[string]string{"perimeters": "3", "extrusion_width": "0.5"}) // differs in a grouping key

	inputs := []RegionInput{
		{ID: 0, Region: &layer.LayerRegion{}, Raw: a},
		{ID: 1, Region: &layer.LayerRegion{}, Raw: b},
		{ID: 2, Region: &layer.LayerRegion{}, Raw: c},
	}

	groups := GroupRegions(inputs)
	if len(groups) != 2 {
		t.Fatalf("GroupRegions() produced %d groups, want 2 (a+b share all grouping keys, c differs in perimeters)", len(groups))
	}

	var withTwo int
	for _, g := range groups {
		if len(g) == 2 {
			withTwo++
		}
	}
	if withTwo != 1 {
		t.Errorf("expected exactly one group of size 2 (regions a and b), got groups %v", groups)
	}
}

func TestGeneratePerimetersPreservesClassifiedSurfaceTypes(t *testing.T) {
	ex := square(geom.Scaled(10))
	region := &layer.LayerRegion{}
	region.Slices.Append(layer.NewSurface(ex, layer.SurfaceType{}))
	// Simulate the classify step having already run: the whole slice is
	// a solid bottom bridge shell, not the generic Internal+Sparse seed.
	region.FillSurfaces.Append(layer.NewSurface(ex, layer.SurfaceType{Position: layer.PositionBottom, Density: layer.DensitySolid, Modifier: layer.ModifierBridge}))

	group := []RegionInput{{ID: 0, Region: region, Config: config.PrintRegionConfig{Perimeters: 1}}}
	GeneratePerimeters(group, geom.Scaled(0.4))

	bottoms := region.FillSurfaces.FilterByType(layer.PositionBottom, layer.DensitySolid)
	if len(bottoms) == 0 {
		t.Fatal("GeneratePerimeters() discarded the classified Bottom+Solid surface, want it preserved (clipped) after perimeter generation")
	}
	for _, s := range bottoms {
		if s.Type.Modifier != layer.ModifierBridge {
			t.Error("expected the preserved Bottom surface to keep its Bridge modifier")
		}
	}
	internals := region.FillSurfaces.FilterByType(layer.PositionInternal, layer.DensitySparse)
	if len(internals) != 0 {
		t.Error("GeneratePerimeters() should not re-type a classified Bottom+Solid+Bridge surface as Internal+Sparse")
	}
}

func TestHostRegionPicksHighestFillDensity(t *testing.T) {
	low := RegionInput{Config: config.PrintRegionConfig{FillDensity: 10}}
	high := RegionInput{Config: config.PrintRegionConfig{FillDensity: 80}}
	mid := RegionInput{Config: config.PrintRegionConfig{FillDensity: 40}}

	got := hostRegion([]RegionInput{low, high, mid})
	if got != 1 {
		t.Errorf("hostRegion() = %d, want index 1 (the 80%% fill_density member)", got)
	}
}
