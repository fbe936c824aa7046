package classify

import (
	"testing"

	"github.com/slic3r/slicer-core/geom"
	"github.com/slic3r/slicer-core/layer"
)

func square(side int64) geom.ExPolygon {
	return geom.NewExPolygon(geom.Polygon{
		geom.NewPoint(0, 0), geom.NewPoint(side, 0), geom.NewPoint(side, side), geom.NewPoint(0, side),
	})
}

func newRegion(ex geom.ExPolygon) *layer.LayerRegion {
	r := &layer.LayerRegion{}
	r.Slices.Append(layer.NewSurface(ex, layer.SurfaceType{}))
	return r
}

func TestClassifyLayerTopWhenNoUpperOrLower(t *testing.T) {
	region := newRegion(square(geom.Scaled(10)))
	ClassifyLayer(region, nil, nil, nil, false, false, Options{})

	tops := region.FillSurfaces.FilterByType(layer.PositionTop, layer.DensitySolid)
	if len(tops) == 0 {
		t.Fatal("expected a layer with no neighbors to be classified entirely Top+Solid")
	}
}

func TestClassifyLayerEmptySliceProducesNoFillSurfaces(t *testing.T) {
	region := &layer.LayerRegion{}
	ClassifyLayer(region, nil, nil, nil, true, true, Options{})
	if len(region.FillSurfaces.Surfaces) != 0 {
		t.Errorf("expected an empty-slice region to produce no FillSurfaces, got %d", len(region.FillSurfaces.Surfaces))
	}
}

func TestClassifyLayerFullyInternalWhenFullySupportedBothSides(t *testing.T) {
	ex := square(geom.Scaled(10))
	region := newRegion(ex)
	ClassifyLayer(region, geom.ExPolygons{ex}, geom.ExPolygons{ex}, nil, true, true, Options{})

	internals := region.FillSurfaces.FilterByType(layer.PositionInternal, layer.DensitySparse)
	tops := region.FillSurfaces.FilterByType(layer.PositionTop, layer.DensitySolid)
	if len(tops) != 0 {
		t.Errorf("expected no Top surfaces when the layer above and below both fully cover this slice, got %d", len(tops))
	}
	if len(internals) == 0 {
		t.Error("expected the fully-supported region to classify as Internal+Sparse")
	}
}

func TestClassifyLayerBottomCarvesNonBridgingFractionFromOtherRegionWhenInterfaceShells(t *testing.T) {
	ex := square(geom.Scaled(10))
	region := newRegion(ex)
	otherRegionLower := geom.ExPolygons{square(geom.Scaled(5))}

	ClassifyLayer(region, geom.ExPolygons{ex}, nil, otherRegionLower, true, true, Options{InterfaceShells: true})

	solidBottoms := region.FillSurfaces.FilterByType(layer.PositionBottom, layer.DensitySolid)
	var sawBridge, sawNonBridge bool
	for _, s := range solidBottoms {
		if s.Type.Modifier == layer.ModifierBridge {
			sawBridge = true
		} else {
			sawNonBridge = true
		}
	}
	if !sawNonBridge {
		t.Error("expected the fraction of Bottom over another region's lower slice to be non-bridging")
	}
	if !sawBridge {
		t.Error("expected the remaining fraction of Bottom (over open air) to still be a bridge")
	}
}

func TestClassifyLayerBottomIsFullyBridgeWithoutInterfaceShells(t *testing.T) {
	ex := square(geom.Scaled(10))
	region := newRegion(ex)
	otherRegionLower := geom.ExPolygons{square(geom.Scaled(5))}

	ClassifyLayer(region, geom.ExPolygons{ex}, nil, otherRegionLower, true, true, Options{InterfaceShells: false})

	solidBottoms := region.FillSurfaces.FilterByType(layer.PositionBottom, layer.DensitySolid)
	for _, s := range solidBottoms {
		if s.Type.Modifier != layer.ModifierBridge {
			t.Error("expected every Bottom surface to remain a bridge when interface_shells is off, regardless of lowerOtherRegions")
		}
	}
	if len(solidBottoms) == 0 {
		t.Fatal("expected at least one Bottom surface")
	}
}

func TestPromoteHorizontalShellsConvertsSparseToSolid(t *testing.T) {
	region := &layer.LayerRegion{}
	region.FillSurfaces.Append(layer.NewSurface(square(geom.Scaled(10)), layer.SurfaceType{Position: layer.PositionInternal, Density: layer.DensitySparse}))

	PromoteHorizontalShells([]*layer.LayerRegion{region}, []float64{0.2}, 2, 0, 0)

	if region.FillSurfaces.Surfaces[0].Type.Density != layer.DensitySolid {
		t.Error("expected PromoteHorizontalShells to convert the seeded Internal+Sparse surface to Solid")
	}
}

func TestBridgeDetectionDensityThresholdFormula(t *testing.T) {
	// Sanity-check the threshold formula shape used by DetectBridges:
	// 25% at lowerDensity=0, 50% at lowerDensity=100.
	at0 := 25 + (0.0/100)*(50-25)
	at100 := 25 + (100.0/100)*(50-25)
	if at0 != 25 {
		t.Errorf("threshold at lowerDensity=0 = %v, want 25", at0)
	}
	if at100 != 50 {
		t.Errorf("threshold at lowerDensity=100 = %v, want 50", at100)
	}
}
