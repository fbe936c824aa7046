package geom

// ExPolygon is one contour plus zero or more pairwise-disjoint holes,
// all contained in the contour. Invariant:
//
//	contour.IsCounterClockwise() && every hole.IsClockwise() && hole ⊂ contour
type ExPolygon struct {
	Contour Polygon
	Holes   []Polygon
}

// NewExPolygon builds an ExPolygon, normalizing winding on both the
// contour and the holes so the invariant always holds regardless of the
// winding the caller supplied.
func NewExPolygon(contour Polygon, holes ...Polygon) ExPolygon {
	ex := ExPolygon{Contour: contour.MakeCounterClockwise()}
	for _, h := range holes {
		ex.Holes = append(ex.Holes, h.MakeClockwise())
	}
	return ex
}

// Area returns the net area of the ExPolygon (contour area minus the
// area of its holes).
func (e ExPolygon) Area() float64 {
	area := e.Contour.Area()
	for _, h := range e.Holes {
		area += h.Area() // holes are CW, so their signed area is already negative
	}
	return area
}

// Contains reports whether pt lies inside the contour and outside every
// hole.
func (e ExPolygon) Contains(pt Point) bool {
	if !e.Contour.Contains(pt) {
		return false
	}
	for _, h := range e.Holes {
		if h.Contains(pt) {
			return false
		}
	}
	return true
}

// BoundingBox returns the bounding box of the outer contour.
func (e ExPolygon) BoundingBox() BoundingBox {
	return e.Contour.BoundingBox()
}

// Simplify simplifies the contour and every hole by tolerance.
func (e ExPolygon) Simplify(tolerance int64) ExPolygon {
	out := ExPolygon{Contour: e.Contour.Simplify(tolerance)}
	for _, h := range e.Holes {
		out.Holes = append(out.Holes, h.Simplify(tolerance))
	}
	return out
}

// AllPolygons returns the contour followed by all holes as a flat
// Polygons slice, e.g. for feeding into the clip package.
func (e ExPolygon) AllPolygons() Polygons {
	out := make(Polygons, 0, 1+len(e.Holes))
	out = append(out, e.Contour)
	out = append(out, e.Holes...)
	return out
}

// ExPolygons is a collection of ExPolygon.
type ExPolygons []ExPolygon

// TotalArea sums the net area of every ExPolygon in the slice.
func (es ExPolygons) TotalArea() float64 {
	var total float64
	for _, e := range es {
		total += e.Area()
	}
	return total
}

// NestPolygons assembles a flat, area-sorted set of closed loops into
// ExPolygons by the algorithm in spec.md §4.1 step 5: loops are visited
// by descending absolute area; a CCW loop opens a new contour, a CW loop
// is assigned as a hole of the contour that contains it (the innermost
// already-open contour enclosing one of its points).
//
// This does not perform boolean union/cleanup of near-touching loops;
// callers that need that safety-offset merge should route the result
// through package clip's Union before calling NestPolygons, or call
// clip.SafetyOffset first.
func NestPolygons(loops Polygons) ExPolygons {
	sorted := append(Polygons{}, loops...)
	sorted.SortByDescendingAbsArea()

	var result ExPolygons
	for _, loop := range sorted {
		if len(loop) < 3 {
			continue
		}
		if loop.IsCounterClockwise() {
			result = append(result, NewExPolygon(loop))
			continue
		}
		// CW: find the most recently opened contour that contains it.
		assigned := false
		for i := len(result) - 1; i >= 0; i-- {
			if len(loop) > 0 && result[i].Contour.Contains(loop[0]) {
				result[i].Holes = append(result[i].Holes, loop.MakeClockwise())
				assigned = true
				break
			}
		}
		if !assigned && len(result) > 0 {
			// Fall back to the largest contour so the hole is not dropped
			// silently; a well-formed input should always have assigned
			// already.
			result[0].Holes = append(result[0].Holes, loop.MakeClockwise())
		}
	}
	return result
}
