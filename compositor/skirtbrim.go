package compositor

import (
	"math"

	"github.com/slic3r/slicer-core/clip"
	"github.com/slic3r/slicer-core/flowcalc"
	"github.com/slic3r/slicer-core/geom"
	"github.com/slic3r/slicer-core/layer"
)

func perimeterLength(p geom.Polygon) float64 {
	if len(p) < 2 {
		return 0
	}
	var total float64
	for i := range p {
		total += p[i].DistanceTo(p[(i+1)%len(p)])
	}
	return total
}

func acosDeg(cos float64) float64 {
	return math.Acos(cos) * 180 / math.Pi
}

// Skirt computes n concentric offset loops of the convex hull of all
// first-layer contour points at skirtDistance (scaled units), adding
// extra loops as needed so total filament length is >= minSkirtLength
// (spec.md §4.4). The loops follow that single hull, not the outline of
// the contours' union.
func Skirt(firstLayerContours geom.Polygons, n int, skirtDistanceScaled, spacingScaled int64, minSkirtLength float64, f flowcalc.Flow) layer.ExtrusionEntityCollection {
	hull := clip.ConvexHull(unionToSingleContour(firstLayerContours))

	var coll layer.ExtrusionEntityCollection
	var totalLength float64
	offset := skirtDistanceScaled
	loops := n
	if loops < 1 {
		loops = 1
	}
	for i := 0; ; i++ {
		if i >= loops && totalLength >= minSkirtLength {
			break
		}
		if i >= loops && minSkirtLength <= 0 {
			break
		}
		ring := clip.OffsetPolygons(geom.Polygons{hull}, offset)
		if len(ring) == 0 {
			break
		}
		for _, r := range ring {
			coll.Append(polygonToLoop(r, flowcalc.RoleSkirt))
			totalLength += perimeterLength(r)
		}
		offset += spacingScaled
		if i >= 1000 {
			break // guard against minSkirtLength never being satisfiable
		}
	}
	return coll
}

func unionToSingleContour(ps geom.Polygons) geom.Polygon {
	if len(ps) == 0 {
		return nil
	}
	var merged geom.Polygon
	for _, p := range ps {
		merged = append(merged, p...)
	}
	return merged
}

// BrimVariant enumerates the four brim styles spec.md §4.4 names.
type BrimVariant int

const (
	BrimExterior BrimVariant = iota
	BrimInterior
	BrimEar
	BrimConnection
)

// Brim computes the exterior and interior brim loops for a single
// object's first-layer ExPolygon, as concentric offsets of width
// brimWidth/interiorBrimWidth outward from the contour / inward into
// each hole respectively (spec.md §4.4).
func Brim(ex geom.ExPolygon, brimWidthScaled, interiorBrimWidthScaled, spacingScaled int64) layer.ExtrusionEntityCollection {
	var coll layer.ExtrusionEntityCollection

	if brimWidthScaled > 0 {
		for off := spacingScaled; off <= brimWidthScaled; off += spacingScaled {
			ring := clip.OffsetPolygons(geom.Polygons{ex.Contour}, off)
			for _, r := range ring {
				coll.Append(polygonToLoop(r, flowcalc.RoleSkirt))
			}
		}
	}

	if interiorBrimWidthScaled > 0 {
		for _, hole := range ex.Holes {
			for off := spacingScaled; off <= interiorBrimWidthScaled; off += spacingScaled {
				ring := clip.OffsetPolygons(geom.Polygons{hole}, -off)
				for _, r := range ring {
					coll.Append(polygonToLoop(r, flowcalc.RoleSkirt))
				}
			}
		}
	}

	return coll
}

// BrimEars returns the ear-brim seed points: convex-hull vertices of the
// contour whose interior angle is sharper than maxAngleDeg (spec.md
// §4.4). Ears are grown as small brim discs by the caller.
func BrimEars(contour geom.Polygon, maxAngleDeg float64) []geom.Point {
	hull := clip.ConvexHull(contour)
	if len(hull) < 3 {
		return nil
	}
	var ears []geom.Point
	n := len(hull)
	for i := 0; i < n; i++ {
		prev := hull[(i-1+n)%n]
		cur := hull[i]
		next := hull[(i+1)%n]
		if interiorAngleDeg(prev, cur, next) < maxAngleDeg {
			ears = append(ears, cur)
		}
	}
	return ears
}

func interiorAngleDeg(a, b, c geom.Point) float64 {
	v1 := a.Sub(b)
	v2 := c.Sub(b)
	dot := float64(v1.Dot(v2))
	mag := v1.Size() * v2.Size()
	if mag == 0 {
		return 180
	}
	cos := dot / mag
	if cos > 1 {
		cos = 1
	}
	if cos < -1 {
		cos = -1
	}
	return acosDeg(cos)
}
