package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"

	"github.com/slic3r/slicer-core/config"
)

func TestDashedConvertsUnderscoresToDashes(t *testing.T) {
	if got := dashed("layer_height"); got != "layer-height" {
		t.Errorf("dashed(\"layer_height\") = %q, want %q", got, "layer-height")
	}
	if got := dashed("nozzle_diameter"); got != "nozzle-diameter" {
		t.Errorf("dashed(\"nozzle_diameter\") = %q, want %q", got, "nozzle-diameter")
	}
}

func TestBindCLIFlagsOnlyRegistersCLITaggedOptions(t *testing.T) {
	def := config.NewConfigDef()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	out := bindCLIFlags(fs, def)

	if _, ok := out["layer_height"]; !ok {
		t.Error("expected layer_height (CLI:true) to be bound")
	}
	if fs.Lookup("layer-height") == nil {
		t.Error("expected a --layer-height flag to be registered")
	}
}

const cubeSTL = `solid cube
facet normal 0 0 -1
  outer loop
    vertex 0 0 0
    vertex 0 10 0
    vertex 10 10 0
  endloop
endfacet
facet normal 0 0 -1
  outer loop
    vertex 0 0 0
    vertex 10 10 0
    vertex 10 0 0
  endloop
endfacet
facet normal 0 0 1
  outer loop
    vertex 0 0 10
    vertex 10 0 10
    vertex 10 10 10
  endloop
endfacet
facet normal 0 0 1
  outer loop
    vertex 0 0 10
    vertex 10 10 10
    vertex 0 10 10
  endloop
endfacet
facet normal 0 -1 0
  outer loop
    vertex 0 0 0
    vertex 10 0 0
    vertex 10 0 10
  endloop
endfacet
facet normal 0 -1 0
  outer loop
    vertex 0 0 0
    vertex 10 0 10
    vertex 0 0 10
  endloop
endfacet
facet normal 0 1 0
  outer loop
    vertex 0 10 0
    vertex 0 10 10
    vertex 10 10 10
  endloop
endfacet
facet normal 0 1 0
  outer loop
    vertex 0 10 0
    vertex 10 10 10
    vertex 10 10 0
  endloop
endfacet
facet normal -1 0 0
  outer loop
    vertex 0 0 0
    vertex 0 0 10
    vertex 0 10 10
  endloop
endfacet
facet normal -1 0 0
  outer loop
    vertex 0 0 0
    vertex 0 10 10
    vertex 0 10 0
  endloop
endfacet
facet normal 1 0 0
  outer loop
    vertex 10 0 0
    vertex 10 10 0
    vertex 10 10 10
  endloop
endfacet
facet normal 1 0 0
  outer loop
    vertex 10 0 0
    vertex 10 10 10
    vertex 10 0 10
  endloop
endfacet
endsolid cube
`

func TestRunSlicesASmallCubeEndToEnd(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "cube.stl")
	out := filepath.Join(dir, "cube.gcode")
	if err := os.WriteFile(in, []byte(cubeSTL), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	if err := run([]string{"--input", in, "--output", out, "--layer-height", "2"}); err != nil {
		t.Fatalf("run() error: %v", err)
	}

	gcode, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile(output) error: %v", err)
	}
	if len(gcode) == 0 {
		t.Error("run() produced an empty G-code file")
	}
}

func TestRunRequiresInputFlag(t *testing.T) {
	if err := run([]string{"--output", filepath.Join(t.TempDir(), "x.gcode")}); err == nil {
		t.Error("expected an error when --input is missing")
	}
}
