// Package support implements the support-material generator of spec.md
// §4.5: contact/interface/base/pillars derived from detected overhangs
// and top surfaces, adapted from this module's teacher's two-pass
// detector/generator modifiers (originally over data.PartitionedLayer,
// here over layer.Layer/SupportLayer).
package support

import (
	"math"

	"github.com/slic3r/slicer-core/clip"
	"github.com/slic3r/slicer-core/geom"
	"github.com/slic3r/slicer-core/layer"
)

// supportMaterialMarginSteps is the number of equal incremental steps in
// which the contact area is dilated up to the maximum contact dilation
// of spec.md §4.5 (supportMaterialMarginScaled, ~1.5mm).
const supportMaterialMarginSteps = 4

// Options bundles the per-object support configuration spec.md §4.5
// reads from PrintObjectConfig.
type Options struct {
	ThresholdAngleDeg       float64
	ExternalPerimeterWidth  int64 // scaled
	DontSupportBridges      bool
	BuildPlateOnly          bool
	InterfaceLayers         int
	Pattern                 Pattern
	PillarSize              int64 // scaled
	PillarSpacing           int64 // scaled
}

type Pattern int

const (
	PatternRectilinear Pattern = iota
	PatternPillars
)

// DetectOverhangs computes, for every layer i >= 1, the overhang area
// (this layer's slice minus the lower layer's slice dilated by d) and
// then the contact area (overhang dilated up to the support margin in
// four steps), per spec.md §4.5. heightsScaled[i] is layer height in
// scaled units, matching d's unit.
func DetectOverhangs(layers []geom.ExPolygons, heightsScaled []int64, bridges []geom.ExPolygons, buildPlate geom.ExPolygons, opt Options) []geom.ExPolygons {
	contacts := make([]geom.ExPolygons, len(layers))
	thetaRad := opt.ThresholdAngleDeg * math.Pi / 180
	for i := 1; i < len(layers); i++ {
		var d int64
		if opt.ThresholdAngleDeg > 0 {
			d = int64(float64(heightsScaled[i]) / math.Tan(thetaRad))
		} else {
			d = opt.ExternalPerimeterWidth
		}

		dilatedLower := clip.Offset(layers[i-1], d)
		overhang, _ := clip.Difference(layers[i], dilatedLower)

		if opt.DontSupportBridges && i < len(bridges) && len(bridges[i]) > 0 {
			overhang, _ = clip.Difference(overhang, bridges[i])
		}

		contact := overhang
		step := supportMaterialMarginScaled() / supportMaterialMarginSteps
		for s := 0; s < supportMaterialMarginSteps; s++ {
			contact = clip.Offset(contact, step)
		}

		if opt.BuildPlateOnly && len(buildPlate) > 0 {
			contact, _ = clip.Intersection(contact, buildPlate)
		}

		contacts[i] = contact
	}
	return contacts
}

// supportMaterialMarginScaled returns ~1.5mm in the scaled-integer units
// geom.Point uses.
func supportMaterialMarginScaled() int64 {
	return geom.Scaled(1.5)
}

// ContactDistance returns the Z gap between an object layer and the
// support contact beneath it (spec.md §4.5): 0 for soluble interfaces
// (contactDistance already 0), else nozzleDiameter+configuredGap.
func ContactDistance(layerHeight, nozzleDiameter, configuredGap float64, soluble bool) float64 {
	if soluble {
		return 0
	}
	return nozzleDiameter + configuredGap
}

// PlanSupportZs returns the sorted union of every contact Z, every top Z
// as given (no contact offset is added here), and an even subdivision between layers capped
// at maxLayerHeight, pinning the first layer at firstLayerHeight
// (spec.md §4.5).
func PlanSupportZs(contactZs, topZs []float64, firstLayerHeight, maxLayerHeight float64) []float64 {
	set := map[float64]bool{firstLayerHeight: true}
	for _, z := range contactZs {
		set[z] = true
	}
	for _, z := range topZs {
		set[z] = true
	}

	zs := make([]float64, 0, len(set))
	for z := range set {
		zs = append(zs, z)
	}
	sortFloats(zs)

	var out []float64
	for i, z := range zs {
		if i == 0 {
			out = append(out, z)
			continue
		}
		prev := out[len(out)-1]
		gap := z - prev
		if gap <= maxLayerHeight {
			out = append(out, z)
			continue
		}
		steps := int(math.Ceil(gap / maxLayerHeight))
		step := gap / float64(steps)
		for s := 1; s <= steps; s++ {
			out = append(out, prev+step*float64(s))
		}
	}
	return out
}

func sortFloats(zs []float64) {
	for i := 1; i < len(zs); i++ {
		for j := i; j > 0 && zs[j] < zs[j-1]; j-- {
			zs[j], zs[j-1] = zs[j-1], zs[j]
		}
	}
}

// Classification is the per-support-layer output of spec.md §4.5:
// contact/interface/base areas.
type Classification struct {
	Contact  geom.ExPolygons
	Interface geom.ExPolygons
	Base     geom.ExPolygons
}

// ClassifyLayers runs the top-down propagation of spec.md §4.5 "Layer
// classification": base on a layer is (contact ∪ interface ∪ upper base)
// minus that layer's object top; the lower layer's interface and contact
// are not subtracted. Interface on a layer collects the contacts of up
// to interfaceLayers consecutive layers above it, minus its object top.
func ClassifyLayers(contacts []geom.ExPolygons, objectTops []geom.ExPolygons, opt Options) []Classification {
	n := len(contacts)
	out := make([]Classification, n)
	var upperBase geom.ExPolygons

	for i := n - 1; i >= 0; i-- {
		out[i].Contact = contacts[i]

		var iface geom.ExPolygons
		for k := 1; k <= opt.InterfaceLayers && i+k < n; k++ {
			if len(contacts[i+k]) == 0 {
				break
			}
			shrunk := contacts[i+k]
			if i < len(objectTops) && len(objectTops[i]) > 0 {
				shrunk, _ = clip.Difference(shrunk, objectTops[i])
			}
			iface = append(iface, shrunk...)
		}
		out[i].Interface = iface

		base := append(append(geom.ExPolygons{}, contacts[i]...), iface...)
		base = append(base, upperBase...)
		if i < len(objectTops) {
			base, _ = clip.Difference(base, objectTops[i])
		}
		out[i].Base = base
		upperBase = base
	}

	if opt.Pattern == PatternPillars {
		applyPillars(out, opt)
	}
	return out
}

// applyPillars intersects base/interface polygons with a regular grid
// of pillarSize squares on a pillarSpacing pitch (spec.md §4.5).
func applyPillars(classified []Classification, opt Options) {
	for i := range classified {
		classified[i].Base = intersectWithGrid(classified[i].Base, opt.PillarSize, opt.PillarSpacing)
		classified[i].Interface = intersectWithGrid(classified[i].Interface, opt.PillarSize, opt.PillarSpacing)
	}
}

func intersectWithGrid(ex geom.ExPolygons, size, spacing int64) geom.ExPolygons {
	if len(ex) == 0 || size <= 0 || spacing <= 0 {
		return ex
	}
	bb := geom.BoundingBox{}
	for _, e := range ex {
		bb = bb.Merge(e.BoundingBox())
	}
	var grid geom.Polygons
	for x := bb.Min.X; x < bb.Max.X; x += spacing {
		for y := bb.Min.Y; y < bb.Max.Y; y += spacing {
			grid = append(grid, geom.Polygon{
				{X: x, Y: y}, {X: x + size, Y: y}, {X: x + size, Y: y + size}, {X: x, Y: y + size},
			})
		}
	}
	out, _ := clip.Intersection(ex, clip.Simplify(grid))
	return out
}

// TopSolidBottomInterface promotes the intersection of base with the
// object's top surface to interface, discarding slivers smaller than
// minArea (spec.md §4.5 "Bottom interface").
func TopSolidBottomInterface(c *Classification, objectTop geom.ExPolygons, minArea float64) {
	promoted, _ := clip.Intersection(c.Base, objectTop)
	var kept geom.ExPolygons
	for _, ex := range promoted {
		if math.Abs(ex.Area()) >= minArea {
			kept = append(kept, ex)
		}
	}
	if len(kept) == 0 {
		return
	}
	c.Interface = append(c.Interface, kept...)
	c.Base, _ = clip.Difference(c.Base, kept)
}

// ToSupportLayer packages a Classification into a layer.SupportLayer's
// support_islands (contact, interface and base polygons appended in that
// order; overlapping areas are not merged), leaving
// toolpath generation (contact teeth, interface rectilinear, base
// pattern) to package print which has the Flow/config context.
func ToSupportLayer(sl *layer.SupportLayer, c Classification) {
	var all geom.ExPolygons
	all = append(all, c.Contact...)
	all = append(all, c.Interface...)
	all = append(all, c.Base...)
	sl.SupportIslands = all
}
