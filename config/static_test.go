package config

import "testing"

func TestNewPrintObjectConfigUsesSchemaDefaults(t *testing.T) {
	def := NewConfigDef()
	dyn := NewDynamicConfig(def)

	got, err := NewPrintObjectConfig(dyn)
	if err != nil {
		t.Fatalf("NewPrintObjectConfig() error: %v", err)
	}
	if got.LayerHeight != 0.2 {
		t.Errorf("LayerHeight = %v, want default 0.2", got.LayerHeight)
	}
	if got.NozzleDiameter != 0.4 {
		t.Errorf("NozzleDiameter = %v, want default 0.4", got.NozzleDiameter)
	}
}

func TestNewPrintObjectConfigPicksUpOverrides(t *testing.T) {
	def := NewConfigDef()
	dyn := NewDynamicConfig(def)
	if err := dyn.SetDeserialize("layer_height", "0.3"); err != nil {
		t.Fatalf("SetDeserialize() error: %v", err)
	}

	got, err := NewPrintObjectConfig(dyn)
	if err != nil {
		t.Fatalf("NewPrintObjectConfig() error: %v", err)
	}
	if got.LayerHeight != 0.3 {
		t.Errorf("LayerHeight = %v, want overridden 0.3", got.LayerHeight)
	}
}

func TestResolvedFirstLayerHeightUsesAbsoluteSchemaDefault(t *testing.T) {
	def := NewConfigDef()
	dyn := NewDynamicConfig(def)
	if err := dyn.SetDeserialize("layer_height", "0.25"); err != nil {
		t.Fatalf("SetDeserialize() error: %v", err)
	}
	objCfg, err := NewPrintObjectConfig(dyn)
	if err != nil {
		t.Fatalf("NewPrintObjectConfig() error: %v", err)
	}
	if got := objCfg.ResolvedFirstLayerHeight(); got != 0.2 {
		t.Errorf("ResolvedFirstLayerHeight() = %v, want the schema default 0.2 (absolute, not a ratio of layer_height)", got)
	}
}

func TestNewPrintRegionConfigUsesSchemaDefaults(t *testing.T) {
	def := NewConfigDef()
	dyn := NewDynamicConfig(def)

	got, err := NewPrintRegionConfig(dyn)
	if err != nil {
		t.Fatalf("NewPrintRegionConfig() error: %v", err)
	}
	if got.Perimeters != 3 {
		t.Errorf("Perimeters = %v, want schema default 3", got.Perimeters)
	}
}

func TestNewPrintConfigUsesSchemaDefaults(t *testing.T) {
	def := NewConfigDef()
	dyn := NewDynamicConfig(def)

	got, err := NewPrintConfig(dyn)
	if err != nil {
		t.Fatalf("NewPrintConfig() error: %v", err)
	}
	_ = got
}

func TestMinObjectDistanceUsesDuplicateDistanceByDefault(t *testing.T) {
	c := PrintConfig{DuplicateDistance: 5, ExtruderClearanceRadius: 10, CompleteObjects: false}
	if got := c.MinObjectDistance(); got != 5 {
		t.Errorf("MinObjectDistance() = %v, want duplicate_distance 5 when complete_objects is false", got)
	}
}

func TestMinObjectDistanceUsesClearanceRadiusWhenCompleteObjectsAndLarger(t *testing.T) {
	c := PrintConfig{DuplicateDistance: 5, ExtruderClearanceRadius: 10, CompleteObjects: true}
	if got := c.MinObjectDistance(); got != 10 {
		t.Errorf("MinObjectDistance() = %v, want extruder_clearance_radius 10 when it exceeds duplicate_distance and complete_objects is set", got)
	}
}
