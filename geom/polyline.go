package geom

// Polyline is an open ordered sequence of points, as produced by fill
// patterns and consumed by extrusion path generation. Unlike Polygon it
// is never implicitly closed.
type Polyline []Point

// Length returns the total length of the polyline.
func (pl Polyline) Length() float64 {
	var total float64
	for i := 1; i < len(pl); i++ {
		total += pl[i].Sub(pl[i-1]).Size()
	}
	return total
}

// Reversed returns a copy of the polyline with point order reversed.
func (pl Polyline) Reversed() Polyline {
	out := make(Polyline, len(pl))
	for i, p := range pl {
		out[len(pl)-1-i] = p
	}
	return out
}

// Polylines is a collection of Polyline.
type Polylines []Polyline

// TotalLength sums the length of every polyline in the slice.
func (pls Polylines) TotalLength() float64 {
	var total float64
	for _, pl := range pls {
		total += pl.Length()
	}
	return total
}
