package geom

import (
	"math"
	"sort"
)

// Polygon is an ordered ring of points with no duplicated closing
// vertex. Winding is significant: a contour is CCW, a hole is CW.
type Polygon []Point

// Area returns the signed area of the polygon (shoelace formula, in
// squared scaled units). Positive for CCW, negative for CW.
func (p Polygon) Area() float64 {
	if len(p) < 3 {
		return 0
	}
	var sum int64
	for i := range p {
		j := (i + 1) % len(p)
		sum += p[i].X*p[j].Y - p[j].X*p[i].Y
	}
	return float64(sum) / 2
}

// IsCounterClockwise reports whether the polygon winds CCW.
func (p Polygon) IsCounterClockwise() bool { return p.Area() > 0 }

// IsClockwise reports whether the polygon winds CW.
func (p Polygon) IsClockwise() bool { return p.Area() < 0 }

// Reversed returns a copy of the polygon with reversed winding.
func (p Polygon) Reversed() Polygon {
	out := make(Polygon, len(p))
	for i, pt := range p {
		out[len(p)-1-i] = pt
	}
	return out
}

// MakeCounterClockwise returns p reversed if it winds CW.
func (p Polygon) MakeCounterClockwise() Polygon {
	if p.IsClockwise() {
		return p.Reversed()
	}
	return p
}

// MakeClockwise returns p reversed if it winds CCW.
func (p Polygon) MakeClockwise() Polygon {
	if p.IsCounterClockwise() {
		return p.Reversed()
	}
	return p
}

// BoundingBox returns the axis-aligned bounding box of the polygon.
func (p Polygon) BoundingBox() BoundingBox {
	return NewBoundingBox(p)
}

// Contains reports whether point pt lies inside the polygon using a
// standard even-odd ray cast. Points exactly on the boundary may be
// reported as inside or outside depending on floating rounding; callers
// needing exact boundary semantics should use the clip package's
// boolean ops instead.
func (p Polygon) Contains(pt Point) bool {
	inside := false
	n := len(p)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := p[i], p[j]
		if (pi.Y > pt.Y) != (pj.Y > pt.Y) {
			xIntersect := float64(pj.X-pi.X)*float64(pt.Y-pi.Y)/float64(pj.Y-pi.Y) + float64(pi.X)
			if float64(pt.X) < xIntersect {
				inside = !inside
			}
		}
	}
	return inside
}

// IsAlmostFinished reports whether the distance between the first and
// last point of the polygon is within snapDistance, meaning the walk
// that built it is effectively closed.
func (p Polygon) IsAlmostFinished(snapDistance int64) bool {
	if len(p) < 2 {
		return false
	}
	return p[0].Sub(p[len(p)-1]).ShorterThanOrEqual(snapDistance)
}

// Simplify removes near-collinear points whose perpendicular deviation
// from the chord they sit on is below tolerance (in scaled units). A
// non-positive tolerance picks a conservative default of ScaledEpsilon*2.
// Simplification is idempotent once every remaining deviation exceeds
// tolerance.
func (p Polygon) Simplify(tolerance int64) Polygon {
	if tolerance <= 0 {
		tolerance = ScaledEpsilon * 2
	}
	if len(p) < 3 {
		return p
	}
	return douglasPeuckerClosed(p, float64(tolerance))
}

func douglasPeuckerClosed(p Polygon, tol float64) Polygon {
	// Rotate the ring to start at the point farthest from the centroid so
	// the open Douglas-Peucker pass has a stable anchor, then run it on
	// the ring treated as an open path and drop the duplicated closing
	// point.
	if len(p) < 3 {
		return p
	}
	open := append(Polygon{}, p...)
	open = append(open, p[0])
	simplified := douglasPeucker(open, tol)
	if len(simplified) > 1 {
		simplified = simplified[:len(simplified)-1]
	}
	if len(simplified) < 3 {
		return p
	}
	return simplified
}

func douglasPeucker(pts Polygon, tol float64) Polygon {
	if len(pts) < 3 {
		return pts
	}
	dmax := 0.0
	index := 0
	line := Line{A: pts[0], B: pts[len(pts)-1]}
	for i := 1; i < len(pts)-1; i++ {
		d := math.Sqrt(line.DistanceToPointSquared(pts[i]))
		if d > dmax {
			index = i
			dmax = d
		}
	}
	if dmax > tol {
		left := douglasPeucker(pts[:index+1], tol)
		right := douglasPeucker(pts[index:], tol)
		return append(left[:len(left)-1], right...)
	}
	return Polygon{pts[0], pts[len(pts)-1]}
}

// Polygons is a collection of Polygon, used as an intermediate shape
// before nesting into ExPolygons.
type Polygons []Polygon

// SortByDescendingAbsArea sorts the slice in-place by descending
// absolute area, matching the slicer's loop-nesting order (spec.md
// §4.1 step 5).
func (ps Polygons) SortByDescendingAbsArea() {
	sort.SliceStable(ps, func(i, j int) bool {
		return math.Abs(ps[i].Area()) > math.Abs(ps[j].Area())
	})
}
