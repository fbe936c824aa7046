package renderer

import (
	"strings"
	"testing"

	"github.com/slic3r/slicer-core/gcode"
)

func TestPreLayerEmitsStartSequenceOnlyOnFirstLayer(t *testing.T) {
	p := PreLayer{InitialHotEndTemp: 200, InitialBedTemp: 60}

	var first gcode.Builder
	if err := p.Render(&first, 0, 3, nil, 1200); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(first.String(), "M104 S200") {
		t.Errorf("layer 0 should emit the start sequence, got %q", first.String())
	}

	var later gcode.Builder
	if err := p.Render(&later, 1, 3, nil, 1200); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if strings.Contains(later.String(), "M104") {
		t.Errorf("non-first layers should not repeat the start sequence, got %q", later.String())
	}
}

func TestPostLayerEmitsShutdownOnlyOnFinalLayer(t *testing.T) {
	var mid gcode.Builder
	if err := (PostLayer{}).Render(&mid, 1, 3, nil, 1200); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if strings.Contains(mid.String(), "M84") {
		t.Errorf("a non-final layer should not emit the shutdown sequence, got %q", mid.String())
	}

	var last gcode.Builder
	if err := (PostLayer{}).Render(&last, 3, 3, nil, 1200); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(last.String(), "M84") {
		t.Errorf("the final layer should emit the shutdown sequence, got %q", last.String())
	}
}
