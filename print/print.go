// Package print is the root orchestrator of spec.md §3: Print owns
// PrintObjects and PrintRegions and provides the stages
// `plan layers -> slice -> classify surfaces -> generate perimeters`,
// recording them in the step state machine of package step. The prepare
// infill, infill and support stages are not run from this package.
package print

import (
	"go.uber.org/zap"

	"github.com/slic3r/slicer-core/classify"
	"github.com/slic3r/slicer-core/clip"
	"github.com/slic3r/slicer-core/compositor"
	"github.com/slic3r/slicer-core/config"
	"github.com/slic3r/slicer-core/flowcalc"
	"github.com/slic3r/slicer-core/geom"
	"github.com/slic3r/slicer-core/heightplanner"
	"github.com/slic3r/slicer-core/layer"
	"github.com/slic3r/slicer-core/mesh"
	"github.com/slic3r/slicer-core/slicer"
	"github.com/slic3r/slicer-core/step"
)

// bridgeHeightScanLimit bounds how far DetectBridges walks downward
// looking for free volume to absorb a bridge (spec.md §4.3's
// `lower_z < top_z - bridge_height` stop condition). No config key
// exposes this value, so it's a fixed margin in millimeters rather than
// derived from any per-object setting.
const bridgeHeightScanLimit = 2.0

// PrintRegion owns a PrintRegionConfig; identity is its config, so
// AddVolumeConfig below deduplicates by config equality (spec.md §3).
type PrintRegion struct {
	Config     config.PrintRegionConfig
	Raw        *config.DynamicConfig
	VolumeIDs  []int
	tombstoned bool
}

// PrintObject owns a PrintObjectConfig, its region assignments, and its
// ordered Layers/SupportLayers (spec.md §3).
type PrintObject struct {
	Config config.PrintObjectConfig

	Volumes       []slicer.VolumeSlice
	RegionOf      map[int]layer.RegionID // volume index -> region id

	Layers        []*layer.Layer
	SupportLayers []*layer.SupportLayer

	State *step.ObjectState
}

// Print is the root entity (spec.md §3).
type Print struct {
	Def     *config.ConfigDef
	Config  config.PrintConfig
	Objects []*PrintObject
	Regions []*PrintRegion

	DefaultObjectConfig config.PrintObjectConfig
	DefaultRegionConfig config.PrintRegionConfig

	Skirt layer.ExtrusionEntityCollection
	Brim  layer.ExtrusionEntityCollection

	State *step.PrintState

	Log *zap.SugaredLogger
}

// NewPrint builds an empty Print bound to def, with fresh print-level
// step state.
func NewPrint(def *config.ConfigDef, log *zap.SugaredLogger) *Print {
	return &Print{Def: def, State: step.NewPrintState(), Log: log}
}

// AddObject registers a new PrintObject with its own step state.
func (p *Print) AddObject(objCfg config.PrintObjectConfig) *PrintObject {
	obj := &PrintObject{Config: objCfg, RegionOf: map[int]layer.RegionID{}, State: step.NewObjectState()}
	p.Objects = append(p.Objects, obj)
	return obj
}

// AddVolume assigns a mesh volume to obj, deduplicating its region by
// config equality against Print.Regions (spec.md §3 "Regions are
// deduplicated"); region slots are tombstoned, never compacted, when a
// region becomes empty (spec.md §9 "region id reuse").
func (p *Print) AddVolume(obj *PrintObject, m *mesh.TriangleMesh, modifier bool, regionCfg config.PrintRegionConfig, raw *config.DynamicConfig) layer.RegionID {
	rid := p.findOrCreateRegion(regionCfg, raw)
	volIdx := len(obj.Volumes)
	obj.Volumes = append(obj.Volumes, slicer.VolumeSlice{Mesh: m, Modifier: modifier, Region: rid})
	obj.RegionOf[volIdx] = rid
	p.Regions[rid].VolumeIDs = append(p.Regions[rid].VolumeIDs, volIdx)
	return rid
}

func (p *Print) findOrCreateRegion(cfg config.PrintRegionConfig, raw *config.DynamicConfig) layer.RegionID {
	keys := config.PerimeterRelevantKeys()
	for i, r := range p.Regions {
		if r.tombstoned {
			continue
		}
		if regionConfigEqual(r.Raw, raw, keys) {
			return layer.RegionID(i)
		}
	}
	p.Regions = append(p.Regions, &PrintRegion{Config: cfg, Raw: raw})
	return layer.RegionID(len(p.Regions) - 1)
}

func regionConfigEqual(a, b *config.DynamicConfig, keys []string) bool {
	for _, k := range keys {
		av, aok := a.Get(k)
		bv, bok := b.Get(k)
		if aok != bok || (aok && !av.Equal(bv)) {
			return false
		}
	}
	return true
}

// Rearrange invalidates every object step of every object (and, through
// the dependency tables, the print-level skirt and brim steps) for
// spec.md §4.8 "Rearrangement". It does not drop or re-add objects and
// leaves Print.Regions and the volume-to-region assignments as they are.
func (p *Print) Rearrange() {
	for _, obj := range p.Objects {
		for _, s := range []step.ObjectStep{
			step.StepLayers, step.StepSlice, step.StepPerimeters,
			step.StepDetectSurfaces, step.StepPrepareInfill, step.StepInfill, step.StepSupportMaterial,
		} {
			step.InvalidateObject(obj.State, p.State, s)
		}
	}
}

// PlanLayers runs the layer-height planner (step.StepLayers) for obj
// using either the static or adaptive mode per its config, honoring raft
// (spec.md §4.2).
func PlanLayers(obj *PrintObject, m *mesh.TriangleMesh, minNozzleDiameter float64) heightplanner.Plan {
	_, _, zMax := meshZExtent(m)
	first := obj.Config.ResolvedFirstLayerHeight()

	var plan heightplanner.Plan
	if obj.Config.AdaptiveSlicing {
		plan = heightplanner.Adaptive(m, first, obj.Config.MinLayerHeight, obj.Config.MaxLayerHeight, obj.Config.AdaptiveSlicingQuality/100, zMax)
	} else {
		plan = heightplanner.Static(first, obj.Config.LayerHeight, minNozzleDiameter, zMax)
	}

	if obj.Config.RaftLayers > 0 {
		contactDistance := obj.Config.SupportMaterialContactDistance
		plan = heightplanner.Raft(plan, int(obj.Config.RaftLayers), first, minNozzleDiameter, contactDistance)
	}

	obj.State.SetDone(step.StepLayers)
	return plan
}

func meshZExtent(m *mesh.TriangleMesh) (min, max, extent float64) {
	lo, hi := m.BoundingBox3()
	return lo.Z, hi.Z, hi.Z - lo.Z
}

// Slice runs the `slice` step (spec.md §2 data flow) for obj given a
// planned set of Z depths, populating obj.Layers.
func Slice(p *Print, obj *PrintObject, plan heightplanner.Plan) {
	obj.Layers = slicer.SliceObject(obj.Volumes, plan.SliceZs, plan.PrintZs, plan.Heights, p.Log)
	obj.State.SetDone(step.StepSlice)
	step.InvalidateObject(obj.State, p.State, step.StepDetectSurfaces)
}

// DetectSurfaces runs the classify step over every layer/region of obj,
// then promotes horizontal shells and detects bridges (spec.md §4.3).
func DetectSurfaces(p *Print, obj *PrintObject) {
	for _, l := range obj.Layers {
		hasUpper, hasLower := l.Upper != -1, l.Lower != -1
		var upperMerged, lowerMerged geom.ExPolygons
		if hasUpper {
			upperMerged = mergedRegionSlices(obj.Layers[l.Upper], -1)
		}
		if hasLower {
			lowerMerged = mergedRegionSlices(obj.Layers[l.Lower], -1)
		}

		for rid, region := range l.Regions {
			opt := classify.Options{
				InterfaceShells:              p.Regions[rid].Config.InterfaceShells,
				ExternalPerimeterWidthScaled: geom.Scaled(resolvedWidth(p.Regions[rid].Config.ExternalPerimeterExtrusionWidth, obj.Config.LayerHeight)),
				SupportMaterial:              obj.Config.SupportMaterial,
				SupportMaterialContactZero:   obj.Config.SupportMaterialContactDistance == 0,
				RaftLayers:                   int(obj.Config.RaftLayers),
				ContactDistance:              obj.Config.SupportMaterialContactDistance,
			}

			var upper, lower, lowerOthers geom.ExPolygons
			if hasUpper {
				if opt.InterfaceShells {
					upper = regionSlices(obj.Layers[l.Upper], rid)
				} else {
					upper = upperMerged
				}
			}
			if hasLower {
				if opt.InterfaceShells {
					lower = regionSlices(obj.Layers[l.Lower], rid)
					lowerOthers = mergedRegionSlices(obj.Layers[l.Lower], rid)
				} else {
					lower = lowerMerged
				}
			}

			classify.ClassifyLayer(region, upper, lower, lowerOthers, hasUpper, hasLower, opt)
		}
	}
	obj.State.SetDone(step.StepDetectSurfaces)
	step.InvalidateObject(obj.State, p.State, step.StepPrepareInfill)

	promoteHorizontalShells(p, obj)
	detectBridges(p, obj)
}

// regionSlices returns rid's own slices on l, or nil if rid has no
// geometry there.
func regionSlices(l *layer.Layer, rid layer.RegionID) geom.ExPolygons {
	r, ok := l.Regions[rid]
	if !ok {
		return nil
	}
	return r.Slices.ExPolygons()
}

// mergedRegionSlices unions every region's slices on l, excluding
// exclude (pass -1 to include all), implementing the "every region's
// slices merged" half of spec.md §4.3's U/L definition used whenever
// interface_shells is off, and the "different region's lower slice"
// lookup interface_shells needs for the Bottom non-bridging carve.
func mergedRegionSlices(l *layer.Layer, exclude layer.RegionID) geom.ExPolygons {
	var merged geom.ExPolygons
	for rid, r := range l.Regions {
		if rid == exclude {
			continue
		}
		ex := r.Slices.ExPolygons()
		if len(ex) == 0 {
			continue
		}
		if len(merged) == 0 {
			merged = ex
			continue
		}
		merged, _ = clip.Union(merged, ex)
	}
	return merged
}

// regionLayerSequence returns, for region rid, the ordered list of
// (layer index, layer height, LayerRegion) where rid has geometry,
// sorted bottom-to-top; this is the backbone both horizontal-shell
// promotion and bridge detection walk along.
type regionLayerEntry struct {
	index  int
	height float64
	region *layer.LayerRegion
}

func regionLayerSequence(obj *PrintObject, rid layer.RegionID) []regionLayerEntry {
	var seq []regionLayerEntry
	for i, l := range obj.Layers {
		if r, ok := l.Regions[rid]; ok {
			seq = append(seq, regionLayerEntry{index: i, height: l.Height, region: r})
		}
	}
	return seq
}

// promoteHorizontalShells wires classify.PromoteHorizontalShells into
// the pipeline (spec.md §4.3): for every layer classified Top, it
// densifies the top_solid_layers-1 layers below it; for every layer
// classified Bottom, it densifies the bottom_solid_layers-1 layers
// above it.
func promoteHorizontalShells(p *Print, obj *PrintObject) {
	for rid, pr := range p.Regions {
		if pr.tombstoned {
			continue
		}
		region := layer.RegionID(rid)
		cfg := pr.Config
		seq := regionLayerSequence(obj, region)

		for i, entry := range seq {
			if cfg.TopSolidLayers > 1 && len(entry.region.FillSurfaces.FilterByType(layer.PositionTop, layer.DensitySolid)) > 0 {
				below, heights := outward(seq, i, -1, int(cfg.TopSolidLayers)-1)
				classify.PromoteHorizontalShells(below, heights, int(cfg.TopSolidLayers)-1, cfg.TopSolidMinThickness, 0)
			}
			if cfg.BottomSolidLayers > 1 && len(entry.region.FillSurfaces.FilterByType(layer.PositionBottom, layer.DensitySolid)) > 0 {
				above, heights := outward(seq, i, 1, int(cfg.BottomSolidLayers)-1)
				classify.PromoteHorizontalShells(above, heights, int(cfg.BottomSolidLayers)-1, cfg.BottomSolidMinThickness, 0)
			}
		}

		if cfg.SolidInfillEveryLayers > 0 {
			solidifyEveryNLayers(seq, int(cfg.SolidInfillEveryLayers))
		}
	}
}

// outward collects up to n entries of seq starting from seq[i]+dir,
// stepping by dir, in seed-to-outward order (the contract
// classify.PromoteHorizontalShells documents).
func outward(seq []regionLayerEntry, i, dir, n int) ([]*layer.LayerRegion, []float64) {
	var regions []*layer.LayerRegion
	var heights []float64
	for k := 1; k <= n; k++ {
		j := i + dir*k
		if j < 0 || j >= len(seq) {
			break
		}
		regions = append(regions, seq[j].region)
		heights = append(heights, seq[j].height)
	}
	return regions, heights
}

// solidifyEveryNLayers implements solid_infill_every_layers (spec.md
// §4.3): every Nth layer of a region's sequence gets its Internal+Sparse
// fill_surfaces densified to Solid, independent of proximity to a
// Top/Bottom surface.
func solidifyEveryNLayers(seq []regionLayerEntry, n int) {
	for i, entry := range seq {
		if (i+1)%n != 0 {
			continue
		}
		for j, s := range entry.region.FillSurfaces.Surfaces {
			if s.Type.Position == layer.PositionInternal && s.Type.Density == layer.DensitySparse {
				entry.region.FillSurfaces.Surfaces[j].Type.Density = layer.DensitySolid
			}
		}
	}
}

// detectBridges wires classify.DetectBridges into the pipeline (spec.md
// §4.3): for every region/layer pair with at least one layer of the
// same region below it, it walks
// the same region's layers below to estimate free volume and retypes
// qualifying Internal+Solid surfaces to Internal+Solid+Bridge.
func detectBridges(p *Print, obj *PrintObject) {
	for rid, pr := range p.Regions {
		if pr.tombstoned {
			continue
		}
		region := layer.RegionID(rid)
		cfg := pr.Config
		seq := regionLayerSequence(obj, region)

		bridgeFlow, err := flowcalc.NewFromConfigWidth(flowcalc.RoleBridgeInfill, config.Value{}, obj.Config.NozzleDiameter, obj.Config.LayerHeight, obj.Config.ExtrusionSpacingRatio, obj.Config.BridgeFlowRatio)
		if err != nil {
			continue
		}
		bridgeSpacing, err := bridgeFlow.Spacing()
		if err != nil {
			continue
		}

		for i := range seq {
			if i == 0 {
				continue
			}
			below, heights := outward(seq, i, -1, len(seq))
			densities := make([]float64, len(below))
			for j := range below {
				densities[j] = cfg.FillDensity
			}
			classify.DetectBridges(seq[i].region, densities, heights, bridgeHeightScanLimit, classify.BridgeOptions{
				BridgeFlow:        bridgeFlow,
				BridgeWidthScaled: geom.Scaled(bridgeSpacing),
			})
		}
	}
}

func resolvedWidth(v config.Value, layerHeight float64) float64 {
	w, err := v.AsFloatOrPercent("extrusion_width", "layer_height", &layerHeight)
	if err != nil || w <= 0 {
		return layerHeight
	}
	return w
}

// GeneratePerimeters runs the region-grouping + perimeter-generation
// step for every layer of obj (spec.md §4.4).
func GeneratePerimeters(p *Print, obj *PrintObject) {
	nozzle := obj.Config.NozzleDiameter
	for _, l := range obj.Layers {
		var inputs []compositor.RegionInput
		for rid, region := range l.Regions {
			pr := p.Regions[rid]
			inputs = append(inputs, compositor.RegionInput{ID: rid, Region: region, Config: pr.Config, Raw: pr.Raw})
		}
		groups := compositor.GroupRegions(inputs)
		for _, g := range groups {
			if len(g) == 0 {
				continue
			}
			f, err := flowcalc.NewFromConfigWidth(flowcalc.RolePerimeter, g[0].Config.PerimeterExtrusionWidth, nozzle, l.Height, obj.Config.ExtrusionSpacingRatio, 0)
			if err != nil {
				continue
			}
			spacing, err := f.Spacing()
			if err != nil {
				continue
			}
			compositor.GeneratePerimeters(g, geom.Scaled(spacing))
		}
	}
	obj.State.SetDone(step.StepPerimeters)
	step.InvalidateObject(obj.State, p.State, step.StepPrepareInfill)
}
