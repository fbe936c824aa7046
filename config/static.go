package config

// PrintConfig is the print-scope static view of spec.md §3's Print
// entity: skirt/brim and multi-object placement options.
type PrintConfig struct {
	Skirts                  int64
	SkirtDistance           float64
	MinSkirtLength          float64
	BrimWidth               float64
	InteriorBrimWidth       float64
	BrimEars                bool
	BrimEarsMaxAngle        float64
	CompleteObjects         bool
	DuplicateDistance       float64
	ExtruderClearanceRadius float64
	Threads                 int64
}

// MinObjectDistance returns max(duplicate_distance, extruder_clearance_radius)
// when complete_objects is set, else duplicate_distance (spec.md §4.7).
func (c PrintConfig) MinObjectDistance() float64 {
	if c.CompleteObjects {
		if c.ExtruderClearanceRadius > c.DuplicateDistance {
			return c.ExtruderClearanceRadius
		}
	}
	return c.DuplicateDistance
}

// PrintObjectConfig is the per-object static view: layer-height planner
// inputs and support-material policy (spec.md §3).
type PrintObjectConfig struct {
	LayerHeight              float64
	FirstLayerHeight         Value // FloatOrPercent, ratio-over layer_height
	MinLayerHeight           float64
	MaxLayerHeight           float64
	NozzleDiameter           float64
	ZStepsPerMM              float64
	AdaptiveSlicing          bool
	AdaptiveSlicingQuality   float64
	MatchHorizontalSurfaces  bool
	RaftLayers               int64

	SupportMaterial                bool
	SupportMaterialThresholdDeg    float64
	SupportMaterialInterfaceLayers int64
	SupportMaterialContactDistance float64
	SupportMaterialBuildplateOnly  bool
	DontSupportBridges             bool
	SupportMaterialPattern         uint32 // 0=rectilinear, 1=pillars
	SupportMaterialSpacing         float64
	PillarSize                     float64
	PillarSpacing                  float64

	ExtrusionSpacingRatio float64
	BridgeFlowRatio       float64
	Extruder              int64
}

// ResolvedFirstLayerHeight resolves FirstLayerHeight against LayerHeight.
func (c PrintObjectConfig) ResolvedFirstLayerHeight() float64 {
	v, err := c.FirstLayerHeight.AsFloatOrPercent("first_layer_height", "layer_height", &c.LayerHeight)
	if err != nil {
		return c.LayerHeight
	}
	return v
}

// PrintRegionConfig is the per-region static view: perimeter, fill and
// extrusion-width options (spec.md §3). Distinct configs define distinct
// PrintRegion identity.
type PrintRegionConfig struct {
	Perimeters              int64
	TopSolidLayers          int64
	BottomSolidLayers       int64
	TopSolidMinThickness    float64
	BottomSolidMinThickness float64
	SolidInfillEveryLayers  int64
	FillDensity             float64 // percent, 0-100
	FillPattern             uint32
	TopInfillPattern        uint32
	BottomInfillPattern     uint32
	InterfaceShells         bool
	ExtraPerimeters         bool
	FillExactly             bool

	ExtrusionWidth                   Value
	PerimeterExtrusionWidth          Value
	ExternalPerimeterExtrusionWidth  Value
	InfillExtrusionWidth             Value
	SolidInfillExtrusionWidth        Value
	TopInfillExtrusionWidth          Value
	SupportMaterialExtrusionWidth    Value
	FirstLayerExtrusionWidth         Value

	InfillExtruder      int64
	PerimeterExtruder   int64
	SolidInfillExtruder int64

	SpiralVase bool
}

// perimeterRelevantKeys is the fixed, exhaustive list of config keys
// spec.md §4.4 requires LayerRegion grouping to compare by. Reproduced
// verbatim here so region-grouping equality (package compositor) and
// region identity (package print, "Regions are deduplicated") share one
// source of truth.
var perimeterRelevantKeys = []string{
	"perimeters",
	"perimeter_extruder",
	"perimeter_extrusion_width",
	"external_perimeter_extrusion_width",
	"extra_perimeters",
	"top_solid_layers",
	"bottom_solid_layers",
	"top_solid_min_thickness",
	"bottom_solid_min_thickness",
	"solid_infill_every_layers",
	"fill_density",
	"fill_pattern",
	"top_infill_pattern",
	"bottom_infill_pattern",
	"infill_extruder",
	"infill_extrusion_width",
	"solid_infill_extrusion_width",
	"solid_infill_extruder",
	"top_infill_extrusion_width",
	"interface_shells",
	"fill_exactly",
}

// PerimeterRelevantKeys returns the fixed key list used for region
// grouping equality.
func PerimeterRelevantKeys() []string {
	out := make([]string, len(perimeterRelevantKeys))
	copy(out, perimeterRelevantKeys)
	return out
}

// HostConfig is the (mostly out-of-core) print-host upload view; kept
// minimal since network upload is an external collaborator (spec.md §1).
type HostConfig struct {
	Host   string
	APIKey string
}

// NewPrintConfig builds a PrintConfig from a DynamicConfig, defaulting
// any unset key.
func NewPrintConfig(c *DynamicConfig) (PrintConfig, error) {
	var out PrintConfig
	var err error
	if out.Skirts, err = getInt(c, "skirts"); err != nil {
		return out, err
	}
	if out.SkirtDistance, err = getFloat(c, "skirt_distance"); err != nil {
		return out, err
	}
	if out.MinSkirtLength, err = getFloat(c, "min_skirt_length"); err != nil {
		return out, err
	}
	if out.BrimWidth, err = getFloat(c, "brim_width"); err != nil {
		return out, err
	}
	if out.InteriorBrimWidth, err = getFloat(c, "interior_brim_width"); err != nil {
		return out, err
	}
	if out.BrimEars, err = getBool(c, "brim_ears"); err != nil {
		return out, err
	}
	if out.BrimEarsMaxAngle, err = getFloat(c, "brim_ears_max_angle"); err != nil {
		return out, err
	}
	if out.CompleteObjects, err = getBool(c, "complete_objects"); err != nil {
		return out, err
	}
	if out.DuplicateDistance, err = getFloat(c, "duplicate_distance"); err != nil {
		return out, err
	}
	if out.ExtruderClearanceRadius, err = getFloat(c, "extruder_clearance_radius"); err != nil {
		return out, err
	}
	if out.Threads, err = getInt(c, "threads"); err != nil {
		return out, err
	}
	return out, nil
}

// NewPrintObjectConfig builds a PrintObjectConfig from a DynamicConfig.
func NewPrintObjectConfig(c *DynamicConfig) (PrintObjectConfig, error) {
	var out PrintObjectConfig
	var err error
	if out.LayerHeight, err = getFloat(c, "layer_height"); err != nil {
		return out, err
	}
	if out.FirstLayerHeight, err = c.GetOrDefault("first_layer_height"); err != nil {
		return out, err
	}
	if out.MinLayerHeight, err = getFloat(c, "min_layer_height"); err != nil {
		return out, err
	}
	if out.MaxLayerHeight, err = getFloat(c, "max_layer_height"); err != nil {
		return out, err
	}
	if out.NozzleDiameter, err = getFloat(c, "nozzle_diameter"); err != nil {
		return out, err
	}
	if out.ZStepsPerMM, err = getFloat(c, "z_steps_per_mm"); err != nil {
		return out, err
	}
	if out.AdaptiveSlicing, err = getBool(c, "adaptive_slicing"); err != nil {
		return out, err
	}
	if out.AdaptiveSlicingQuality, err = getFloat(c, "adaptive_slicing_quality"); err != nil {
		return out, err
	}
	if out.MatchHorizontalSurfaces, err = getBool(c, "match_horizontal_surfaces"); err != nil {
		return out, err
	}
	if out.RaftLayers, err = getInt(c, "raft_layers"); err != nil {
		return out, err
	}
	if out.SupportMaterial, err = getBool(c, "support_material"); err != nil {
		return out, err
	}
	thresholdDeg, err := getInt(c, "support_material_threshold")
	if err != nil {
		return out, err
	}
	out.SupportMaterialThresholdDeg = float64(thresholdDeg)
	if out.SupportMaterialInterfaceLayers, err = getInt(c, "support_material_interface_layers"); err != nil {
		return out, err
	}
	if out.SupportMaterialContactDistance, err = getFloat(c, "support_material_contact_distance"); err != nil {
		return out, err
	}
	if out.SupportMaterialBuildplateOnly, err = getBool(c, "support_material_buildplate_only"); err != nil {
		return out, err
	}
	if out.DontSupportBridges, err = getBool(c, "dont_support_bridges"); err != nil {
		return out, err
	}
	if out.SupportMaterialPattern, err = getEnum(c, "support_material_pattern"); err != nil {
		return out, err
	}
	if out.SupportMaterialSpacing, err = getFloat(c, "support_material_spacing"); err != nil {
		return out, err
	}
	if out.PillarSize, err = getFloat(c, "pillar_size"); err != nil {
		return out, err
	}
	if out.PillarSpacing, err = getFloat(c, "pillar_spacing"); err != nil {
		return out, err
	}
	if out.ExtrusionSpacingRatio, err = getFloat(c, "extrusion_spacing_ratio"); err != nil {
		return out, err
	}
	if out.BridgeFlowRatio, err = getFloat(c, "bridge_flow_ratio"); err != nil {
		return out, err
	}
	if out.Extruder, err = getInt(c, "extruder"); err != nil {
		return out, err
	}
	return out, nil
}

// NewPrintRegionConfig builds a PrintRegionConfig from a DynamicConfig.
func NewPrintRegionConfig(c *DynamicConfig) (PrintRegionConfig, error) {
	var out PrintRegionConfig
	var err error
	if out.Perimeters, err = getInt(c, "perimeters"); err != nil {
		return out, err
	}
	if out.TopSolidLayers, err = getInt(c, "top_solid_layers"); err != nil {
		return out, err
	}
	if out.BottomSolidLayers, err = getInt(c, "bottom_solid_layers"); err != nil {
		return out, err
	}
	if out.TopSolidMinThickness, err = getFloat(c, "top_solid_min_thickness"); err != nil {
		return out, err
	}
	if out.BottomSolidMinThickness, err = getFloat(c, "bottom_solid_min_thickness"); err != nil {
		return out, err
	}
	if out.SolidInfillEveryLayers, err = getInt(c, "solid_infill_every_layers"); err != nil {
		return out, err
	}
	fd, err := c.GetOrDefault("fill_density")
	if err != nil {
		return out, err
	}
	if out.FillDensity, err = fd.AsFloat("fill_density"); err != nil {
		return out, err
	}
	if out.FillPattern, err = getEnum(c, "fill_pattern"); err != nil {
		return out, err
	}
	if out.TopInfillPattern, err = getEnum(c, "top_infill_pattern"); err != nil {
		return out, err
	}
	if out.BottomInfillPattern, err = getEnum(c, "bottom_infill_pattern"); err != nil {
		return out, err
	}
	if out.InterfaceShells, err = getBool(c, "interface_shells"); err != nil {
		return out, err
	}
	if out.ExtraPerimeters, err = getBool(c, "extra_perimeters"); err != nil {
		return out, err
	}
	if out.FillExactly, err = getBool(c, "fill_exactly"); err != nil {
		return out, err
	}
	if out.ExtrusionWidth, err = c.GetOrDefault("extrusion_width"); err != nil {
		return out, err
	}
	if out.PerimeterExtrusionWidth, err = c.GetOrDefault("perimeter_extrusion_width"); err != nil {
		return out, err
	}
	if out.ExternalPerimeterExtrusionWidth, err = c.GetOrDefault("external_perimeter_extrusion_width"); err != nil {
		return out, err
	}
	if out.InfillExtrusionWidth, err = c.GetOrDefault("infill_extrusion_width"); err != nil {
		return out, err
	}
	if out.SolidInfillExtrusionWidth, err = c.GetOrDefault("solid_infill_extrusion_width"); err != nil {
		return out, err
	}
	if out.TopInfillExtrusionWidth, err = c.GetOrDefault("top_infill_extrusion_width"); err != nil {
		return out, err
	}
	if out.SupportMaterialExtrusionWidth, err = c.GetOrDefault("support_material_extrusion_width"); err != nil {
		return out, err
	}
	if out.FirstLayerExtrusionWidth, err = c.GetOrDefault("first_layer_extrusion_width"); err != nil {
		return out, err
	}
	if out.InfillExtruder, err = getInt(c, "infill_extruder"); err != nil {
		return out, err
	}
	if out.PerimeterExtruder, err = getInt(c, "perimeter_extruder"); err != nil {
		return out, err
	}
	if out.SolidInfillExtruder, err = getInt(c, "solid_infill_extruder"); err != nil {
		return out, err
	}
	if out.SpiralVase, err = getBool(c, "spiral_vase"); err != nil {
		return out, err
	}
	return out, nil
}

func getFloat(c *DynamicConfig, key string) (float64, error) {
	v, err := c.GetOrDefault(key)
	if err != nil {
		return 0, err
	}
	return v.AsFloat(key)
}

func getInt(c *DynamicConfig, key string) (int64, error) {
	v, err := c.GetOrDefault(key)
	if err != nil {
		return 0, err
	}
	return v.AsInt(key)
}

func getBool(c *DynamicConfig, key string) (bool, error) {
	v, err := c.GetOrDefault(key)
	if err != nil {
		return false, err
	}
	return v.AsBool(key)
}

func getEnum(c *DynamicConfig, key string) (uint32, error) {
	v, err := c.GetOrDefault(key)
	if err != nil {
		return 0, err
	}
	return v.AsEnum(key)
}
