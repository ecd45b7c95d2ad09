package geometry

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

const eps = 1e-9

func TestPointRotate(t *testing.T) {
	tests := []struct {
		name    string
		p       Point2D
		radians float64
		want    Point2D
	}{
		{"quarter turn", Pt(1, 0), math.Pi / 2, Pt(0, 1)},
		{"half turn", Pt(1, 0), math.Pi, Pt(-1, 0)},
		{"full turn", Pt(3, 4), 2 * math.Pi, Pt(3, 4)},
		{"origin fixed", Pt(0, 0), 1.234, Pt(0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.p.Rotate(tt.radians)
			if !scalar.EqualWithinAbs(got.X, tt.want.X, eps) ||
				!scalar.EqualWithinAbs(got.Y, tt.want.Y, eps) {
				t.Errorf("Rotate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPointRotateAround(t *testing.T) {
	got := Pt(2, 1).RotateAround(Pt(1, 1), math.Pi/2)
	if !scalar.EqualWithinAbs(got.X, 1, eps) || !scalar.EqualWithinAbs(got.Y, 2, eps) {
		t.Errorf("RotateAround() = %v, want (1,2)", got)
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 100, 50)
	if !r.Contains(Pt(60, 35)) {
		t.Error("center should be contained")
	}
	if !r.Contains(Pt(10, 10)) {
		t.Error("corner should be contained")
	}
	if r.Contains(Pt(9.99, 35)) {
		t.Error("point left of rect should not be contained")
	}
}

func TestRectNormalized(t *testing.T) {
	r := Rect{X: 50, Y: 60, Width: -30, Height: -40}.Normalized()
	want := Rect{X: 20, Y: 20, Width: 30, Height: 40}
	if r != want {
		t.Errorf("Normalized() = %v, want %v", r, want)
	}
}

func TestBoundingBox(t *testing.T) {
	box := BoundingBox([]Point2D{Pt(3, -1), Pt(-2, 4), Pt(0, 0)})
	want := Rect{X: -2, Y: -1, Width: 5, Height: 5}
	if box != want {
		t.Errorf("BoundingBox() = %v, want %v", box, want)
	}

	if got := BoundingBox(nil); got != (Rect{}) {
		t.Errorf("BoundingBox(nil) = %v, want zero rect", got)
	}
}

func TestAffineRoundTrip(t *testing.T) {
	transforms := []AffineTransform{
		Identity(),
		Translation(12, -7),
		Rotation(0.7),
		Scaling(2.5, 0.5),
		Translation(3, 4).Compose(Rotation(1.1)).Compose(Scaling(2, 2)),
		RotationAround(Pt(50, 25), math.Pi/3),
	}
	points := []Point2D{Pt(0, 0), Pt(1, 0), Pt(-3.5, 8), Pt(100, -42)}

	for _, tr := range transforms {
		inv, ok := tr.Inverse()
		if !ok {
			t.Fatalf("transform %+v not invertible", tr)
		}
		for _, p := range points {
			back := inv.Apply(tr.Apply(p))
			if !scalar.EqualWithinAbs(back.X, p.X, 1e-6) ||
				!scalar.EqualWithinAbs(back.Y, p.Y, 1e-6) {
				t.Errorf("round trip of %v through %+v = %v", p, tr, back)
			}
		}
	}
}

func TestAffineSingularInverse(t *testing.T) {
	if _, ok := Scaling(0, 1).Inverse(); ok {
		t.Error("singular transform should not invert")
	}
}

func TestRotationAroundKeepsCenter(t *testing.T) {
	center := Pt(7, -3)
	got := RotationAround(center, 2.2).Apply(center)
	if !scalar.EqualWithinAbs(got.X, center.X, eps) ||
		!scalar.EqualWithinAbs(got.Y, center.Y, eps) {
		t.Errorf("rotation center moved to %v", got)
	}
}
