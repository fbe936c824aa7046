// Package classify implements the surface classifier of spec.md §4.3:
// labels every slice region by position (top/bottom/internal/perimeter),
// density (solid/sparse/void), and modifier (bridge/over-bridge).
package classify

import (
	"github.com/slic3r/slicer-core/clip"
	"github.com/slic3r/slicer-core/flowcalc"
	"github.com/slic3r/slicer-core/geom"
	"github.com/slic3r/slicer-core/layer"
)

// Options bundles the per-region configuration the classifier needs, in
// lieu of importing package config directly (kept geometry-only so it
// composes without a config dependency).
type Options struct {
	InterfaceShells               bool
	ExternalPerimeterWidthScaled  int64
	SupportMaterial                bool
	SupportMaterialContactZero     bool
	RaftLayers                     int
	ContactDistance                float64
}

// ClassifyLayer runs the per-layer, per-region algorithm of spec.md
// §4.3 against the region's own slices R, the merged-or-same-region
// upper projection U and lower projection L, writing FillSurfaces.
//
// lowerOtherRegions is the union of every *other* region's slices on the
// lower layer; it's only consulted when opt.InterfaceShells is set,
// where it carves the non-bridging fraction of Bottom described by
// spec.md §4.3 ("the part of R ∩ L that falls on a different region's
// lower slice"). When interface_shells is off, L is already every
// region's slices merged, so Bottom ∖ L is bridging by construction and
// lowerOtherRegions is ignored.
func ClassifyLayer(region *layer.LayerRegion, upper, lower, lowerOtherRegions geom.ExPolygons, hasUpper, hasLower bool, opt Options) {
	r := region.Slices.ExPolygons()
	if len(r) == 0 {
		region.FillSurfaces = layer.SurfaceCollection{}
		return
	}

	var top, bottom geom.ExPolygons

	switch {
	case !hasUpper && !hasLower:
		top = r
	case !hasUpper:
		top = r
	case !hasLower:
		bottom = r
	default:
		top = diffExPolygons(r, upper)
		top = erodeDilate(top, opt.ExternalPerimeterWidthScaled/10)
		bottom = diffExPolygons(r, lower)
	}

	if hasUpper && hasLower {
		overlap := intersectExPolygons(top, bottom)
		if len(overlap) > 0 {
			bottom = append(bottom, overlap...)
			top = diffExPolygons(top, overlap)
		}
	}

	bottomIsBridge := hasLower && !(opt.SupportMaterial && opt.SupportMaterialContactZero)
	if !hasLower && opt.RaftLayers > 0 && opt.ContactDistance > 0 {
		bottomIsBridge = true
	}

	var bottomSolid, bottomBridge geom.ExPolygons
	switch {
	case !bottomIsBridge:
		bottomSolid = bottom
	case opt.InterfaceShells && len(lowerOtherRegions) > 0:
		bottomSolid = intersectExPolygons(bottom, lowerOtherRegions)
		bottomBridge = diffExPolygons(bottom, bottomSolid)
	default:
		bottomBridge = bottom
	}

	internal := diffExPolygons(r, append(append(geom.ExPolygons{}, top...), bottom...))

	var out layer.SurfaceCollection
	for _, ex := range top {
		out.Append(layer.NewSurface(ex, layer.SurfaceType{Position: layer.PositionTop, Density: layer.DensitySolid}))
	}
	for _, ex := range bottomSolid {
		out.Append(layer.NewSurface(ex, layer.SurfaceType{Position: layer.PositionBottom, Density: layer.DensitySolid}))
	}
	for _, ex := range bottomBridge {
		out.Append(layer.NewSurface(ex, layer.SurfaceType{Position: layer.PositionBottom, Density: layer.DensitySolid, Modifier: layer.ModifierBridge}))
	}
	for _, ex := range internal {
		out.Append(layer.NewSurface(ex, layer.SurfaceType{Position: layer.PositionInternal, Density: layer.DensitySparse}))
	}

	region.FillSurfaces = intersectFillWithPrevious(out, region.FillSurfaces)
}

func diffExPolygons(a, b geom.ExPolygons) geom.ExPolygons {
	if len(b) == 0 {
		return a
	}
	out, _ := clip.Difference(a, b)
	return out
}

func intersectExPolygons(a, b geom.ExPolygons) geom.ExPolygons {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	out, _ := clip.Intersection(a, b)
	return out
}

func erodeDilate(ex geom.ExPolygons, delta int64) geom.ExPolygons {
	if delta <= 0 || len(ex) == 0 {
		return ex
	}
	eroded := clip.Offset(ex, -delta)
	return clip.Offset(eroded, delta)
}

// intersectFillWithPrevious reconstructs fill_surfaces as the
// intersection of the newly classified surfaces with the previous fill
// boundary, so downstream prepare_infill remains idempotent (spec.md
// §4.3).
func intersectFillWithPrevious(fresh layer.SurfaceCollection, previous layer.SurfaceCollection) layer.SurfaceCollection {
	if len(previous.Surfaces) == 0 {
		return fresh
	}
	prevEx := previous.ExPolygons()
	var out layer.SurfaceCollection
	for _, s := range fresh.Surfaces {
		clipped, ok := clip.Intersection(geom.ExPolygons{s.ExPolygon}, prevEx)
		if !ok {
			// The clipper failed; keep the surface unclipped.
			out.Append(s)
			continue
		}
		for _, ex := range clipped {
			ns := s
			ns.ExPolygon = ex
			out.Append(ns)
		}
	}
	return out
}

// PromoteHorizontalShells propagates a solid shell downward/upward from
// Top/Bottom surfaces through the given region sequence, stopping once
// seedLayers layers are done and their cumulative thickness has reached
// minThickness, turning Internal+Sparse into Internal+Solid (spec.md
// §4.3). Every Internal+Sparse surface of a walked layer is converted
// whole; it is not intersected with the seed's Top/Bottom area. regions
// is ordered from the seed layer outward.
func PromoteHorizontalShells(regions []*layer.LayerRegion, heights []float64, seedLayers int, minThickness float64, solidEveryNLayers int) {
	if len(regions) == 0 {
		return
	}
	var cumulative float64
	for i, r := range regions {
		if i >= seedLayers && (minThickness <= 0 || cumulative >= minThickness) {
			break
		}
		for j, s := range r.FillSurfaces.Surfaces {
			if s.Type.Position == layer.PositionInternal && s.Type.Density == layer.DensitySparse {
				r.FillSurfaces.Surfaces[j].Type.Density = layer.DensitySolid
			}
		}
		if i < len(heights) {
			cumulative += heights[i]
		}
		if solidEveryNLayers > 0 && (i+1)%solidEveryNLayers == 0 {
			for j, s := range r.FillSurfaces.Surfaces {
				if s.Type.Position == layer.PositionInternal {
					r.FillSurfaces.Surfaces[j].Type.Density = layer.DensitySolid
				}
			}
		}
	}
}

// BridgeOptions bundles bridge-detection inputs (spec.md §4.3).
type BridgeOptions struct {
	BridgeFlow    flowcalc.Flow
	BridgeWidthScaled int64
}

// DetectBridges tests each Internal+Solid surface on region against the
// free volume available in the layers below (densities and heights,
// ordered nearest-first), retyping surfaces that pass the three gates of
// spec.md §4.3 to Internal+Solid+Bridge.
func DetectBridges(region *layer.LayerRegion, belowDensityPercent []float64, belowHeights []float64, bridgeHeightLimit float64, opt BridgeOptions) {
	mm3PerMM, err := opt.BridgeFlow.MM3PerMM()
	if err != nil || opt.BridgeFlow.Width <= 0 {
		return
	}
	requiredPerArea := mm3PerMM / opt.BridgeFlow.Width

	var cumulative, cumulativeHeight float64
	var lowerDensity float64
	satisfied := false
	for i := range belowHeights {
		if cumulativeHeight >= bridgeHeightLimit {
			break
		}
		freeVolume := belowHeights[i] * (100 - belowDensityPercent[i]) / 100
		cumulative += freeVolume
		cumulativeHeight += belowHeights[i]
		if i == 0 {
			lowerDensity = belowDensityPercent[i]
		}
		if cumulative >= requiredPerArea {
			satisfied = true
			break
		}
	}
	if !satisfied {
		return
	}

	threshold := 25 + (lowerDensity/100)*(50-25)
	if lowerDensity > threshold {
		return
	}

	for j, s := range region.FillSurfaces.Surfaces {
		if s.Type.Position == layer.PositionInternal && s.Type.Density == layer.DensitySolid && s.Type.Modifier == layer.ModifierNone {
			eroded := erodeDilate(geom.ExPolygons{s.ExPolygon}, 3*opt.BridgeWidthScaled)
			if len(eroded) == 0 {
				continue
			}
			region.FillSurfaces.Surfaces[j].Type.Modifier = layer.ModifierBridge
			region.FillSurfaces.Surfaces[j].BridgeAngle = 0
		}
	}
}
