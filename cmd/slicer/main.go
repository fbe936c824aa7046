// Command slicer is the CLI entry point, adapted from this module's
// teacher's GoSlice orchestrator (cmd/goslice) to the config/print
// pipeline: load an STL, run the print stages (PlanLayers, Slice,
// DetectSurfaces, GeneratePerimeters), write G-code.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/slic3r/slicer-core/config"
	"github.com/slic3r/slicer-core/gcode"
	"github.com/slic3r/slicer-core/gcode/renderer"
	"github.com/slic3r/slicer-core/print"
	"github.com/slic3r/slicer-core/reader"
	"github.com/slic3r/slicer-core/writer"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "slicer:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	def := config.NewConfigDef()

	fs := pflag.NewFlagSet("slicer", pflag.ContinueOnError)
	input := fs.StringP("input", "i", "", "input STL file")
	output := fs.StringP("output", "o", "out.gcode", "output G-code file")
	overrides := bindCLIFlags(fs, def)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		return fmt.Errorf("missing required --input")
	}

	dyn := config.NewDynamicConfig(def)
	for _, key := range def.Keys() {
		if o, ok := def.Lookup(key); ok {
			_ = dyn.Set(key, o.Default)
		}
	}
	for key, text := range overrides {
		if fs.Changed(dashed(key)) {
			if err := dyn.SetDeserialize(key, *text); err != nil {
				return fmt.Errorf("--%s: %w", dashed(key), err)
			}
		}
	}
	dyn.Normalize()

	log := zap.NewNop().Sugar()

	m, err := reader.ReadSTLFile(*input)
	if err != nil {
		return err
	}
	m.Repair()

	objCfg, err := config.NewPrintObjectConfig(dyn)
	if err != nil {
		return err
	}
	regionCfg, err := config.NewPrintRegionConfig(dyn)
	if err != nil {
		return err
	}
	printCfg, err := config.NewPrintConfig(dyn)
	if err != nil {
		return err
	}

	p := print.NewPrint(def, log)
	p.Config = printCfg
	obj := p.AddObject(objCfg)
	p.AddVolume(obj, m, false, regionCfg, dyn)

	plan := print.PlanLayers(obj, m, objCfg.NozzleDiameter)
	print.Slice(p, obj, plan)
	print.DetectSurfaces(p, obj)
	print.GeneratePerimeters(p, obj)

	b := &gcode.Builder{}
	pre := renderer.PreLayer{InitialHotEndTemp: 200, InitialBedTemp: 60, HotEndTemp: 200, BedTemp: 60}
	post := renderer.PostLayer{}
	maxLayer := len(obj.Layers) - 1
	for i, l := range obj.Layers {
		if err := pre.Render(b, i, maxLayer, l, 1800); err != nil {
			return err
		}
		for _, region := range l.Regions {
			gcode.RenderEntity(b, region.Perimeters, 1800)
			gcode.RenderEntity(b, region.Fills, 1800)
		}
		if err := post.Render(b, i, maxLayer, l, 1800); err != nil {
			return err
		}
	}

	return writer.Writer().Write(b.String(), *output)
}

// bindCLIFlags registers a string flag for every CLI-exposed schema
// option (spec.md §4.7 "CLI surface") and returns the raw-text
// destinations keyed by option key, deferred to SetDeserialize so every
// option kind (bool/int/float/enum/point/...) shares one parse path.
func bindCLIFlags(fs *pflag.FlagSet, def *config.ConfigDef) map[string]*string {
	out := map[string]*string{}
	for _, key := range def.Keys() {
		o, ok := def.Lookup(key)
		if !ok || !o.CLI {
			continue
		}
		flagName := dashed(key)
		out[key] = fs.String(flagName, "", fmt.Sprintf("override %s", key))
	}
	return out
}

func dashed(key string) string {
	out := make([]byte, len(key))
	for i := 0; i < len(key); i++ {
		if key[i] == '_' {
			out[i] = '-'
		} else {
			out[i] = key[i]
		}
	}
	return string(out)
}
