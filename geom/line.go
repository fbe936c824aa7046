package geom

// Line is a directed segment between two scaled points. It is used both
// as the output of a single facet/plane intersection (see package
// mesh/slicer) and as a general 2D primitive for distance queries.
type Line struct {
	A, B Point
}

// NewLine builds a Line from two points.
func NewLine(a, b Point) Line { return Line{A: a, B: b} }

// Vector returns B - A.
func (l Line) Vector() Point { return l.B.Sub(l.A) }

// Length returns the Euclidean length of the line.
func (l Line) Length() float64 { return l.Vector().Size() }

// Reversed returns the line with endpoints swapped.
func (l Line) Reversed() Line { return Line{A: l.B, B: l.A} }

// DistanceToPointSquared returns the squared distance from p to the
// closest point on the segment (not the infinite line).
func (l Line) DistanceToPointSquared(p Point) float64 {
	v := l.Vector()
	w := p.Sub(l.A)
	vv := v.SizeSquared()
	if vv == 0 {
		return p.Sub(l.A).Size() * p.Sub(l.A).Size()
	}
	t := float64(v.Dot(w)) / float64(vv)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	closest := l.A.Add(v.Mul(t))
	return p.Sub(closest).Size() * p.Sub(closest).Size()
}
