package clip

import (
	convexhull "github.com/furstenheim/go-convex-hull-2d"

	"github.com/slic3r/slicer-core/geom"
)

// hullPoint adapts geom.Point to the Point interface go-convex-hull-2d
// expects (GetX/GetY in float64).
type hullPoint struct {
	p geom.Point
}

func (h hullPoint) GetX() float64 { return float64(h.p.X) }
func (h hullPoint) GetY() float64 { return float64(h.p.Y) }

// ConvexHull returns the convex hull of a contour's vertices, in the
// order produced by go-convex-hull-2d. It is used by the brim-ear
// detector (spec.md §4.4: "ear brim at convex corners sharper than
// brim_ears_max_angle") to restrict the corner scan to the vertices that
// can possibly be convex, and by the support pillar module to order
// capital placement around a layer's overhang envelope (spec.md §4.5).
func ConvexHull(contour geom.Polygon) geom.Polygon {
	if len(contour) < 3 {
		return contour
	}
	pts := make([]convexhull.Point, len(contour))
	for i, p := range contour {
		pts[i] = hullPoint{p}
	}
	hull := convexhull.ConvexHull(pts)
	out := make(geom.Polygon, len(hull))
	for i, p := range hull {
		hp, ok := p.(hullPoint)
		if !ok {
			// go-convex-hull-2d returns the same Point values it was given.
			out[i] = geom.NewPoint(int64(p.GetX()), int64(p.GetY()))
			continue
		}
		out[i] = hp.p
	}
	return out
}
