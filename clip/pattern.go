package clip

import (
	clipper "github.com/aligator/go.clipper"

	"github.com/slic3r/slicer-core/geom"
)

// LinearFill generates parallel scanlines across ex at the given angle
// and clips them to the polygon, the same algorithm the teacher uses in
// clipperClipper.getLinearFill (clip/clipper.go): rotate the polygon so
// the requested angle becomes the X axis, sweep vertical lines across
// its bounding box at `spacing`, alternate direction every other line
// when zigzag is set so consecutive scanlines can be chained without a
// travel move, then clip by intersection against the polygon and its
// holes.
//
// dontAdjust controls spec.md §4.4's dont_adjust knob: when false,
// spacing is grown by up to 1.2x so an integer number of lines exactly
// spans the bounding box; when true spacing is used verbatim.
func LinearFill(ex geom.ExPolygon, angle float64, spacing int64, dontAdjust bool, zigzag bool) geom.Polylines {
	if spacing <= 0 || len(ex.Contour) < 3 {
		return nil
	}

	rot := -angle
	contour := rotatePolygon(ex.Contour, rot)
	var holes geom.Polygons
	for _, h := range ex.Holes {
		holes = append(holes, rotatePolygon(h, rot))
	}
	bb := contour.BoundingBox()
	if !bb.Defined() {
		return nil
	}

	effectiveSpacing := spacing
	if !dontAdjust {
		width, _ := bb.Size()
		if width > 0 && spacing > 0 {
			lines := width / spacing
			if lines < 1 {
				lines = 1
			}
			adjusted := width / lines
			if adjusted > spacing && adjusted <= spacing+spacing/5 {
				effectiveSpacing = adjusted
			}
		}
	}

	lines := clipper.Paths{}
	n := 0
	for x := bb.Min.X; x <= bb.Max.X; x += effectiveSpacing {
		if n%2 == 1 && zigzag {
			lines = append(lines, clipper.Path{
				&clipper.IntPoint{X: clipper.CInt(x), Y: clipper.CInt(bb.Max.Y)},
				&clipper.IntPoint{X: clipper.CInt(x), Y: clipper.CInt(bb.Min.Y)},
			})
		} else {
			lines = append(lines, clipper.Path{
				&clipper.IntPoint{X: clipper.CInt(x), Y: clipper.CInt(bb.Min.Y)},
				&clipper.IntPoint{X: clipper.CInt(x), Y: clipper.CInt(bb.Max.Y)},
			})
		}
		n++
	}

	c := clipper.NewClipper(clipper.IoNone)
	c.AddPaths(clipper.Paths{toClipperPath(contour)}, clipper.PtClip, true)
	c.AddPaths(toClipperPaths(holes), clipper.PtClip, true)
	c.AddPaths(lines, clipper.PtSubject, false)

	tree, ok := c.Execute2(clipper.CtIntersection, clipper.PftEvenOdd, clipper.PftEvenOdd)
	if !ok {
		return nil
	}

	var result geom.Polylines
	for _, child := range tree.Childs() {
		result = append(result, geom.Polyline(rotatePolygon(fromClipperPath(child.Contour()), -rot)))
	}
	return result
}

// ConcentricFill generates a list of inward offsets of ex spaced by
// `spacing`, stopping once an offset produces no geometry, giving the
// "concentric" infill/top-skin pattern.
func ConcentricFill(ex geom.ExPolygon, spacing int64) geom.Polylines {
	if spacing <= 0 {
		return nil
	}
	current := geom.ExPolygons{ex}
	var result geom.Polylines
	for i := 0; i < 10000; i++ {
		current = Offset(current, -spacing)
		if len(current) == 0 {
			break
		}
		for _, c := range current {
			result = append(result, geom.Polyline(append(geom.Polygon{}, c.Contour...)))
			for _, h := range c.Holes {
				result = append(result, geom.Polyline(append(geom.Polygon{}, h...)))
			}
		}
	}
	return result
}

func rotatePolygon(p geom.Polygon, angle float64) geom.Polygon {
	out := make(geom.Polygon, len(p))
	for i, pt := range p {
		out[i] = pt.Rotate(angle)
	}
	return out
}
