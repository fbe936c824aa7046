package geom

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestScaledUnscaledRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		mm   float64
		want int64
	}{
		{"zero", 0, 0},
		{"one mm", 1, 1000},
		{"fraction rounds to nearest", 0.1234, 123},
		{"negative", -2.5, -2500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Scaled(tt.mm); got != tt.want {
				t.Errorf("Scaled(%v) = %d, want %d", tt.mm, got, tt.want)
			}
		})
	}
}

func TestUnscaledInverseOfScaled(t *testing.T) {
	for _, mm := range []float64{0, 1, 0.4, 12.345, -3.2} {
		got := Unscaled(Scaled(mm))
		if math.Abs(got-mm) > 1e-3 {
			t.Errorf("Unscaled(Scaled(%v)) = %v, want ~%v", mm, got, mm)
		}
	}
}

func TestPointArithmetic(t *testing.T) {
	a := NewPoint(10, 20)
	b := NewPoint(3, 4)

	if diff := cmp.Diff(Point{13, 24}, a.Add(b)); diff != "" {
		t.Errorf("Add() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Point{7, 16}, a.Sub(b)); diff != "" {
		t.Errorf("Sub() mismatch (-want +got):\n%s", diff)
	}
	if got := b.Dot(b); got != 25 {
		t.Errorf("Dot() = %d, want 25", got)
	}
	if got := b.SizeSquared(); got != 25 {
		t.Errorf("SizeSquared() = %d, want 25", got)
	}
	if got := b.Size(); got != 5 {
		t.Errorf("Size() = %v, want 5", got)
	}
}

func TestPointShorterThan(t *testing.T) {
	p := NewPoint(3, 4) // length 5
	if !p.ShorterThan(6) {
		t.Error("expected length 5 to be shorter than 6")
	}
	if p.ShorterThan(5) {
		t.Error("expected length 5 to not be strictly shorter than 5")
	}
	if !p.ShorterThanOrEqual(5) {
		t.Error("expected length 5 to be shorter-or-equal to 5")
	}
}

func TestPointRotate90Degrees(t *testing.T) {
	p := NewPoint(1000, 0)
	got := p.Rotate(math.Pi / 2)
	want := Point{X: 0, Y: 1000}
	if math.Abs(float64(got.X-want.X)) > 1 || math.Abs(float64(got.Y-want.Y)) > 1 {
		t.Errorf("Rotate(pi/2) = %+v, want ~%+v", got, want)
	}
}
