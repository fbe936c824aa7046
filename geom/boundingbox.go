package geom

// BoundingBox is an axis-aligned bounding box in scaled coordinates.
type BoundingBox struct {
	Min, Max Point
	defined  bool
}

// NewBoundingBox computes the bounding box of a set of points. An empty
// input yields a zero-value, undefined box; use Defined to check.
func NewBoundingBox(pts []Point) BoundingBox {
	if len(pts) == 0 {
		return BoundingBox{}
	}
	bb := BoundingBox{Min: pts[0], Max: pts[0], defined: true}
	for _, p := range pts[1:] {
		bb.merge(p)
	}
	return bb
}

func (b *BoundingBox) merge(p Point) {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
}

// Defined reports whether the box has been built from at least one point.
func (b BoundingBox) Defined() bool { return b.defined }

// Merge returns the union bounding box of b and o.
func (b BoundingBox) Merge(o BoundingBox) BoundingBox {
	if !b.defined {
		return o
	}
	if !o.defined {
		return b
	}
	out := b
	out.merge(o.Min)
	out.merge(o.Max)
	return out
}

// Size returns the (width, height) extent of the box.
func (b BoundingBox) Size() (int64, int64) {
	return b.Max.X - b.Min.X, b.Max.Y - b.Min.Y
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() Point {
	return Point{(b.Min.X + b.Max.X) / 2, (b.Min.Y + b.Max.Y) / 2}
}

// Contains reports whether p lies within the box (inclusive).
func (b BoundingBox) Contains(p Point) bool {
	return b.defined && p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Overlaps reports whether b and o share any area.
func (b BoundingBox) Overlaps(o BoundingBox) bool {
	if !b.defined || !o.defined {
		return false
	}
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X && b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y
}

// Expanded returns a copy of b grown by d scaled units on every side.
func (b BoundingBox) Expanded(d int64) BoundingBox {
	if !b.defined {
		return b
	}
	return BoundingBox{
		Min:     Point{b.Min.X - d, b.Min.Y - d},
		Max:     Point{b.Max.X + d, b.Max.Y + d},
		defined: true,
	}
}
