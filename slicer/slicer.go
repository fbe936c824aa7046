// Package slicer drives mesh.TriangleMesh.SlicePlanes per PrintObject
// volume and merges the resulting per-plane ExPolygons into the owning
// region's slice surfaces, implementing the `slice` arrow of spec.md
// §2's data flow.
package slicer

import (
	"go.uber.org/zap"

	"github.com/slic3r/slicer-core/clip"
	"github.com/slic3r/slicer-core/geom"
	"github.com/slic3r/slicer-core/layer"
	"github.com/slic3r/slicer-core/mesh"
)

// VolumeSlice is one model volume's contribution: its mesh and the
// region it has been assigned to.
type VolumeSlice struct {
	Mesh     *mesh.TriangleMesh
	Modifier bool
	Region   layer.RegionID
}

// SliceObject slices every non-modifier volume of an object at the given
// ascending slice_z depths along axis Z, and returns one Layer per depth with
// per-region slices populated and merged via clip.Union when multiple
// volumes contribute to the same region on the same layer.
func SliceObject(volumes []VolumeSlice, sliceZs, printZs, heights []float64, log *zap.SugaredLogger) []*layer.Layer {
	layers := make([]*layer.Layer, len(sliceZs))
	for i := range sliceZs {
		layers[i] = layer.NewLayer(i, sliceZs[i], printZs[i], heights[i])
		if i > 0 {
			layers[i].Lower = i - 1
			layers[i-1].Upper = i
		}
	}

	perVolume := make([][][]geom.ExPolygon, len(volumes))
	for vi, v := range volumes {
		perVolume[vi] = v.Mesh.SlicePlanes(mesh.AxisZ, sliceZs, log)
	}

	for li := range layers {
		byRegion := map[layer.RegionID]geom.ExPolygons{}
		for vi, v := range volumes {
			if v.Modifier {
				continue
			}
			exs := perVolume[vi][li]
			if len(exs) == 0 {
				continue
			}
			byRegion[v.Region] = append(byRegion[v.Region], exs...)
		}

		var allLSlices geom.ExPolygons
		for rid, exs := range byRegion {
			merged := exs
			if len(exs) > 1 {
				if u, ok := clip.Union(geom.ExPolygons{exs[0]}, exs[1:]); ok {
					merged = u
				}
			}
			region := layers[li].Region(rid)
			for _, ex := range merged {
				region.Slices.Append(layer.NewSurface(ex, layer.SurfaceType{
					Position: layer.PositionInternal,
					Density:  layer.DensitySparse,
				}))
			}
			allLSlices = append(allLSlices, merged...)
		}
		layers[li].LSlices = allLSlices
	}

	return layers
}
