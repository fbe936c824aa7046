package config

// OptionDef holds the per-key metadata spec.md §4.7 requires: kind,
// bounds, default, enum table, aliases, a shortcut set (writing several
// other keys), which other key a percent value ratios over, and whether
// the key is exposed on the CLI surface.
type OptionDef struct {
	Key          string
	Kind         ValueKind
	Min, Max     *float64
	Default      Value
	EnumValues   map[string]uint32 // string -> tag
	EnumNames    map[uint32]string // tag -> string, generated from EnumValues
	Aliases      []string
	Shortcut     []string // other keys this key's value is fanned out to
	CLI          bool
	RatioOverKey string
}

// ConfigDef is the process-wide, read-only-after-init option schema.
type ConfigDef struct {
	options map[string]*OptionDef
	aliases map[string]string // legacy/alternate key -> canonical key
}

// NewConfigDef builds the schema used throughout this module. It is not
// an exhaustive reproduction of every historical option (see DESIGN.md);
// it covers every option named by spec.md plus the ones needed to
// exercise the legacy-rewrite and normalization machinery.
func NewConfigDef() *ConfigDef {
	d := &ConfigDef{options: map[string]*OptionDef{}, aliases: map[string]string{}}

	f := func(v float64) *float64 { return &v }

	d.add(&OptionDef{Key: "layer_height", Kind: KindFloat, Min: f(0), Default: Float(0.2), CLI: true})
	d.add(&OptionDef{Key: "first_layer_height", Kind: KindFloatOrPercent, Default: FloatOrPercentValue(0.2, false), RatioOverKey: "layer_height", CLI: true})
	d.add(&OptionDef{Key: "min_layer_height", Kind: KindFloat, Min: f(0), Default: Float(0.07), CLI: true})
	d.add(&OptionDef{Key: "max_layer_height", Kind: KindFloat, Min: f(0), Default: Float(0), CLI: true})
	d.add(&OptionDef{Key: "nozzle_diameter", Kind: KindFloat, Min: f(0), Default: Float(0.4), CLI: true})
	d.add(&OptionDef{Key: "z_steps_per_mm", Kind: KindFloat, Min: f(0), Default: Float(0), CLI: true})
	d.add(&OptionDef{Key: "adaptive_slicing", Kind: KindBool, Default: Bool(false), CLI: true})
	d.add(&OptionDef{Key: "adaptive_slicing_quality", Kind: KindPercent, Default: Percent(75), CLI: true})
	d.add(&OptionDef{Key: "match_horizontal_surfaces", Kind: KindBool, Default: Bool(false), CLI: true})
	d.add(&OptionDef{Key: "raft_layers", Kind: KindInt, Min: f(0), Default: Int(0), CLI: true})

	d.add(&OptionDef{Key: "perimeters", Kind: KindInt, Min: f(0), Default: Int(3), CLI: true})
	d.add(&OptionDef{Key: "top_solid_layers", Kind: KindInt, Min: f(0), Default: Int(3), CLI: true})
	d.add(&OptionDef{Key: "bottom_solid_layers", Kind: KindInt, Min: f(0), Default: Int(3), CLI: true})
	d.add(&OptionDef{Key: "top_solid_min_thickness", Kind: KindFloat, Min: f(0), Default: Float(0), CLI: true})
	d.add(&OptionDef{Key: "bottom_solid_min_thickness", Kind: KindFloat, Min: f(0), Default: Float(0), CLI: true})
	d.add(&OptionDef{Key: "solid_infill_every_layers", Kind: KindInt, Min: f(0), Default: Int(0), CLI: true})
	d.add(&OptionDef{Key: "fill_density", Kind: KindPercent, Min: f(0), Max: f(100), Default: Percent(20), CLI: true})
	d.add(&OptionDef{Key: "interface_shells", Kind: KindBool, Default: Bool(false), CLI: true})
	d.add(&OptionDef{Key: "extra_perimeters", Kind: KindBool, Default: Bool(true), CLI: true})
	d.add(&OptionDef{Key: "fill_exactly", Kind: KindBool, Default: Bool(false), CLI: true})

	fillPattern := map[string]uint32{"rectilinear": 0, "concentric": 1, "grid": 2, "honeycomb": 3, "gyroid": 4}
	d.addEnum(&OptionDef{Key: "fill_pattern", Kind: KindEnum, Default: Enum(0), CLI: true}, fillPattern)
	d.addEnum(&OptionDef{Key: "top_infill_pattern", Kind: KindEnum, Default: Enum(1), CLI: true}, fillPattern)
	d.addEnum(&OptionDef{Key: "bottom_infill_pattern", Kind: KindEnum, Default: Enum(1), CLI: true}, fillPattern)

	d.add(&OptionDef{Key: "extrusion_width", Kind: KindFloatOrPercent, Default: FloatOrPercentValue(0, false), RatioOverKey: "layer_height", CLI: true})
	d.add(&OptionDef{Key: "perimeter_extrusion_width", Kind: KindFloatOrPercent, Default: FloatOrPercentValue(0, false), RatioOverKey: "layer_height", CLI: true})
	d.add(&OptionDef{Key: "external_perimeter_extrusion_width", Kind: KindFloatOrPercent, Default: FloatOrPercentValue(0, false), RatioOverKey: "layer_height", CLI: true})
	d.add(&OptionDef{Key: "infill_extrusion_width", Kind: KindFloatOrPercent, Default: FloatOrPercentValue(0, false), RatioOverKey: "layer_height", CLI: true})
	d.add(&OptionDef{Key: "solid_infill_extrusion_width", Kind: KindFloatOrPercent, Default: FloatOrPercentValue(0, false), RatioOverKey: "layer_height", CLI: true})
	d.add(&OptionDef{Key: "top_infill_extrusion_width", Kind: KindFloatOrPercent, Default: FloatOrPercentValue(0, false), RatioOverKey: "layer_height", CLI: true})
	d.add(&OptionDef{Key: "support_material_extrusion_width", Kind: KindFloatOrPercent, Default: FloatOrPercentValue(0, false), RatioOverKey: "layer_height", CLI: true})
	d.add(&OptionDef{Key: "first_layer_extrusion_width", Kind: KindFloatOrPercent, Default: FloatOrPercentValue(0, false), RatioOverKey: "first_layer_height", CLI: true})
	d.add(&OptionDef{Key: "extrusion_spacing_ratio", Kind: KindFloat, Min: f(0), Default: Float(1.0), CLI: true})
	d.add(&OptionDef{Key: "bridge_flow_ratio", Kind: KindFloat, Min: f(0), Default: Float(1.0), CLI: true})

	d.add(&OptionDef{Key: "support_material", Kind: KindBool, Default: Bool(false), CLI: true})
	d.add(&OptionDef{Key: "support_material_threshold", Kind: KindInt, Min: f(0), Max: f(90), Default: Int(45), CLI: true})
	d.add(&OptionDef{Key: "support_material_interface_layers", Kind: KindInt, Min: f(0), Default: Int(3), CLI: true})
	d.add(&OptionDef{Key: "support_material_contact_distance", Kind: KindFloat, Min: f(0), Default: Float(0.2), CLI: true})
	d.add(&OptionDef{Key: "support_material_buildplate_only", Kind: KindBool, Default: Bool(false), CLI: true})
	d.add(&OptionDef{Key: "dont_support_bridges", Kind: KindBool, Default: Bool(true), CLI: true})
	d.addEnum(&OptionDef{Key: "support_material_pattern", Kind: KindEnum, Default: Enum(0), CLI: true},
		map[string]uint32{"rectilinear": 0, "pillars": 1})
	d.add(&OptionDef{Key: "support_material_spacing", Kind: KindFloat, Min: f(0), Default: Float(2.5), CLI: true})
	d.add(&OptionDef{Key: "pillar_size", Kind: KindFloat, Min: f(0), Default: Float(2.5), CLI: true})
	d.add(&OptionDef{Key: "pillar_spacing", Kind: KindFloat, Min: f(0), Default: Float(10), CLI: true})

	d.add(&OptionDef{Key: "spiral_vase", Kind: KindBool, Default: Bool(false), CLI: true})
	d.add(&OptionDef{Key: "threads", Kind: KindInt, Min: f(1), Default: Int(1), CLI: true})
	d.add(&OptionDef{Key: "extruder", Kind: KindInt, Min: f(0), Default: Int(0), Shortcut: []string{
		"infill_extruder", "perimeter_extruder", "solid_infill_extruder",
		"support_material_extruder", "support_material_interface_extruder",
	}, CLI: true})
	d.add(&OptionDef{Key: "infill_extruder", Kind: KindInt, Min: f(0), Default: Int(0)})
	d.add(&OptionDef{Key: "perimeter_extruder", Kind: KindInt, Min: f(0), Default: Int(0)})
	d.add(&OptionDef{Key: "solid_infill_extruder", Kind: KindInt, Min: f(0), Default: Int(0)})
	d.add(&OptionDef{Key: "support_material_extruder", Kind: KindInt, Min: f(0), Default: Int(0)})
	d.add(&OptionDef{Key: "support_material_interface_extruder", Kind: KindInt, Min: f(0), Default: Int(0)})

	d.add(&OptionDef{Key: "complete_objects", Kind: KindBool, Default: Bool(false), CLI: true})
	d.add(&OptionDef{Key: "duplicate_distance", Kind: KindFloat, Min: f(0), Default: Float(6), CLI: true})
	d.add(&OptionDef{Key: "extruder_clearance_radius", Kind: KindFloat, Min: f(0), Default: Float(20), CLI: true})

	d.add(&OptionDef{Key: "skirts", Kind: KindInt, Min: f(0), Default: Int(1), CLI: true})
	d.add(&OptionDef{Key: "skirt_distance", Kind: KindFloat, Min: f(0), Default: Float(6), CLI: true})
	d.add(&OptionDef{Key: "min_skirt_length", Kind: KindFloat, Min: f(0), Default: Float(0), CLI: true})
	d.add(&OptionDef{Key: "brim_width", Kind: KindFloat, Min: f(0), Default: Float(0), CLI: true})
	d.add(&OptionDef{Key: "interior_brim_width", Kind: KindFloat, Min: f(0), Default: Float(0), CLI: true})
	d.add(&OptionDef{Key: "brim_ears", Kind: KindBool, Default: Bool(false), CLI: true})
	d.add(&OptionDef{Key: "brim_ears_max_angle", Kind: KindFloat, Min: f(0), Max: f(180), Default: Float(125), CLI: true})

	// Legacy / shortcut keys exercised by the rewrite table.
	d.add(&OptionDef{Key: "extrusion_width_ratio", Kind: KindFloat, Default: Float(0)}) // historically renamed, see legacy.go
	d.add(&OptionDef{Key: "solid_layers", Kind: KindInt, Default: Int(0), Shortcut: []string{
		"top_solid_layers", "bottom_solid_layers",
	}})

	return d
}

func (d *ConfigDef) add(o *OptionDef) {
	d.options[o.Key] = o
	for _, a := range o.Aliases {
		d.aliases[a] = o.Key
	}
}

func (d *ConfigDef) addEnum(o *OptionDef, values map[string]uint32) {
	o.EnumValues = values
	o.EnumNames = map[uint32]string{}
	for s, tag := range values {
		o.EnumNames[tag] = s
	}
	d.add(o)
}

// Lookup returns the OptionDef for key, resolving through legacy
// aliases, or (nil, false) if the key is unknown.
func (d *ConfigDef) Lookup(key string) (*OptionDef, bool) {
	if o, ok := d.options[key]; ok {
		return o, true
	}
	if canon, ok := d.aliases[key]; ok {
		return d.options[canon], true
	}
	return nil, false
}

// Canonical resolves a possibly-legacy key to its current schema key.
func (d *ConfigDef) Canonical(key string) (string, bool) {
	if _, ok := d.options[key]; ok {
		return key, true
	}
	if canon, ok := d.aliases[key]; ok {
		return canon, true
	}
	return "", false
}

// Keys returns every canonical key the schema defines.
func (d *ConfigDef) Keys() []string {
	out := make([]string, 0, len(d.options))
	for k := range d.options {
		out = append(out, k)
	}
	return out
}
