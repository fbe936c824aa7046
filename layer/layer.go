package layer

import "github.com/slic3r/slicer-core/geom"

// RegionID identifies a PrintRegion without importing package print
// (which in turn depends on this package); it is the slot index into
// Print.Regions, tombstoned rather than compacted (spec.md §9 "region id
// reuse").
type RegionID int

// Layer is the per-Z container of spec.md §3. Upper/Lower are weak
// (non-owning) indices into the owning PrintObject's Layers slice; -1
// means "no such neighbor".
type Layer struct {
	ID      int
	PrintZ  float64
	SliceZ  float64
	Height  float64
	LSlices geom.ExPolygons
	Regions map[RegionID]*LayerRegion

	Upper, Lower int
}

// NewLayer builds an empty Layer with no neighbors linked yet.
func NewLayer(id int, sliceZ, printZ, height float64) *Layer {
	return &Layer{
		ID:      id,
		PrintZ:  printZ,
		SliceZ:  sliceZ,
		Height:  height,
		Regions: map[RegionID]*LayerRegion{},
		Upper:   -1,
		Lower:   -1,
	}
}

// Region returns the LayerRegion for id, creating an empty one if
// absent.
func (l *Layer) Region(id RegionID) *LayerRegion {
	if r, ok := l.Regions[id]; ok {
		return r
	}
	r := &LayerRegion{RegionID: id}
	l.Regions[id] = r
	return r
}

// LayerRegion is one per (Layer, PrintRegion) pair with geometry on that
// layer (spec.md §3): it owns slices/fill_surfaces/perimeters/fills plus
// the auxiliary thin_fills/milling/unsupported_bridge_edges
// collections.
type LayerRegion struct {
	RegionID RegionID

	Slices       SurfaceCollection
	FillSurfaces SurfaceCollection

	Perimeters ExtrusionEntityCollection
	Fills      ExtrusionEntityCollection

	ThinFills               ExtrusionEntityCollection
	Milling                 ExtrusionEntityCollection
	UnsupportedBridgeEdges  geom.Polylines
}

// SupportLayer mirrors Layer but owns support_islands/support_fills/
// support_interface_fills instead of per-region data (spec.md §3). It
// does not own PrintRegion-keyed regions.
type SupportLayer struct {
	ID     int
	PrintZ float64
	SliceZ float64
	Height float64

	SupportIslands         geom.ExPolygons
	SupportFills           ExtrusionEntityCollection
	SupportInterfaceFills  ExtrusionEntityCollection

	Upper, Lower int
}

// NewSupportLayer builds an empty SupportLayer with no neighbors linked.
func NewSupportLayer(id int, sliceZ, printZ, height float64) *SupportLayer {
	return &SupportLayer{ID: id, PrintZ: printZ, SliceZ: sliceZ, Height: height, Upper: -1, Lower: -1}
}
