// Package clip wraps the external 2D geometry library (go.clipper) that
// spec.md §1 assumes is available, exposing it in terms of the typed
// primitives from package geom. Every boolean, offset and pattern
// operation the rest of the pipeline needs is funneled through here so
// no other package imports go.clipper directly.
package clip

import (
	clipper "github.com/aligator/go.clipper"

	"github.com/slic3r/slicer-core/geom"
)

func toClipperPoint(p geom.Point) *clipper.IntPoint {
	return &clipper.IntPoint{X: clipper.CInt(p.X), Y: clipper.CInt(p.Y)}
}

func toClipperPath(p geom.Polygon) clipper.Path {
	path := make(clipper.Path, 0, len(p))
	for _, pt := range p {
		path = append(path, toClipperPoint(pt))
	}
	return path
}

func toClipperPaths(ps geom.Polygons) clipper.Paths {
	out := make(clipper.Paths, 0, len(ps))
	for _, p := range ps {
		out = append(out, toClipperPath(p))
	}
	return out
}

func fromClipperPoint(p *clipper.IntPoint) geom.Point {
	return geom.Point{X: int64(p.X), Y: int64(p.Y)}
}

func fromClipperPath(p clipper.Path) geom.Polygon {
	out := make(geom.Polygon, 0, len(p))
	for _, pt := range p {
		out = append(out, fromClipperPoint(pt))
	}
	return out
}

func fromClipperPaths(ps clipper.Paths) geom.Polygons {
	out := make(geom.Polygons, 0, len(ps))
	for _, p := range ps {
		out = append(out, fromClipperPath(p))
	}
	return out
}

func expolygonsForPaths(subject geom.ExPolygons) clipper.Paths {
	var all clipper.Paths
	for _, ex := range subject {
		all = append(all, toClipperPaths(ex.AllPolygons())...)
	}
	return all
}

// polyTreeToExPolygons walks a clipper.PolyTree, whose children alternate
// between outer contours and holes level by level, and regroups them
// into ExPolygon{Contour, Holes} the way the teacher's
// polyTreeToLayerParts did for its LayerPart type (clip/clipper.go).
func polyTreeToExPolygons(tree *clipper.PolyTree) geom.ExPolygons {
	var result geom.ExPolygons
	var pending []*clipper.PolyNode
	pending = append(pending, tree.Childs()...)

	for len(pending) > 0 {
		thisRound := pending
		pending = nil
		for _, node := range thisRound {
			var holes geom.Polygons
			for _, child := range node.Childs() {
				holes = append(holes, fromClipperPath(child.Contour()))
				pending = append(pending, child.Childs()...)
			}
			result = append(result, geom.NewExPolygon(fromClipperPath(node.Contour()), holes...))
		}
	}
	return result
}

func booleanOp(op clipper.ClipType, subject, clipAgainst geom.ExPolygons) (geom.ExPolygons, bool) {
	c := clipper.NewClipper(clipper.IoNone)
	if len(subject) > 0 {
		c.AddPaths(expolygonsForPaths(subject), clipper.PtSubject, true)
	}
	if len(clipAgainst) > 0 {
		c.AddPaths(expolygonsForPaths(clipAgainst), clipper.PtClip, true)
	}
	if len(subject) == 0 && op != clipper.CtUnion {
		return nil, true
	}
	tree, ok := c.Execute2(op, clipper.PftNonZero, clipper.PftNonZero)
	if !ok {
		return nil, false
	}
	return polyTreeToExPolygons(tree), true
}

// Union returns the union of a and b.
func Union(a, b geom.ExPolygons) (geom.ExPolygons, bool) {
	return booleanOp(clipper.CtUnion, a, b)
}

// Difference returns a minus b.
func Difference(a, b geom.ExPolygons) (geom.ExPolygons, bool) {
	if len(a) == 0 {
		return nil, true
	}
	return booleanOp(clipper.CtDifference, a, b)
}

// Intersection returns the intersection of a and b.
func Intersection(a, b geom.ExPolygons) (geom.ExPolygons, bool) {
	if len(a) == 0 || len(b) == 0 {
		return nil, true
	}
	return booleanOp(clipper.CtIntersection, a, b)
}

// Xor returns the symmetric difference of a and b.
func Xor(a, b geom.ExPolygons) (geom.ExPolygons, bool) {
	return booleanOp(clipper.CtXor, a, b)
}

// Offset grows (positive delta) or shrinks (negative delta) every
// polygon in ex by delta scaled units, using a square join and a miter
// limit of 2 (the teacher's Inset used the same constants, clip/clipper.go).
func Offset(ex geom.ExPolygons, delta int64) geom.ExPolygons {
	if len(ex) == 0 {
		return nil
	}
	o := clipper.NewClipperOffset()
	o.MiterLimit = 2
	o.AddPaths(expolygonsForPaths(ex), clipper.JtSquare, clipper.EtClosedPolygon)
	tree := o.Execute2(float64(delta))
	return polyTreeToExPolygons(tree)
}

// OffsetPolygons offsets a flat set of polygons (no contour/hole
// relationship assumed) by delta and returns the raw closed loops,
// useful for skirt/brim generation which works on unions of first-layer
// contours rather than ExPolygons.
func OffsetPolygons(ps geom.Polygons, delta int64) geom.Polygons {
	if len(ps) == 0 {
		return nil
	}
	o := clipper.NewClipperOffset()
	o.MiterLimit = 2
	o.AddPaths(toClipperPaths(ps), clipper.JtSquare, clipper.EtClosedPolygon)
	return fromClipperPaths(o.Execute(float64(delta)))
}

// SafetyOffset merges numerical near-touches in a flat set of loops by
// offsetting outward then inward by a small epsilon, without reversing
// winding, matching the "small positive-then-negative safety offset"
// step of spec.md §4.1.5.
func SafetyOffset(ps geom.Polygons) geom.Polygons {
	grown := OffsetPolygons(ps, geom.ScaledEpsilon*10)
	return OffsetPolygons(grown, -geom.ScaledEpsilon*10)
}

// Simplify runs clipper's own union-based cleanup (even-odd self-union)
// over a flat polygon set and nests the result into ExPolygons.
func Simplify(ps geom.Polygons) geom.ExPolygons {
	if len(ps) == 0 {
		return nil
	}
	c := clipper.NewClipper(clipper.IoNone)
	c.AddPaths(toClipperPaths(ps), clipper.PtSubject, true)
	tree, ok := c.Execute2(clipper.CtUnion, clipper.PftEvenOdd, clipper.PftEvenOdd)
	if !ok {
		return nil
	}
	return polyTreeToExPolygons(tree)
}
