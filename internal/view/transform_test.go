package view

import (
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"floor-sketch/pkg/geometry"
)

const eps = 1e-9

func TestRoundTrip(t *testing.T) {
	transforms := []Transform{
		Default(),
		{Scale: 0.1, OffsetX: -300, OffsetY: 150},
		{Scale: 2.5, OffsetX: 42, OffsetY: -17.5},
		{Scale: 5.0, OffsetX: 0.25, OffsetY: 1000},
	}
	points := []geometry.Point2D{
		geometry.Pt(0, 0),
		geometry.Pt(123.5, -88),
		geometry.Pt(-4000, 2.75),
	}

	for _, tr := range transforms {
		for _, p := range points {
			back := tr.ToScreen(tr.ToWorld(p))
			if !scalar.EqualWithinAbs(back.X, p.X, 1e-6) ||
				!scalar.EqualWithinAbs(back.Y, p.Y, 1e-6) {
				t.Errorf("round trip of %v through %+v = %v", p, tr, back)
			}
		}
	}
}

func TestAffineMatchesToScreen(t *testing.T) {
	tr := Transform{Scale: 1.7, OffsetX: 33, OffsetY: -12}
	p := geometry.Pt(10, 20)
	direct := tr.ToScreen(p)
	viaAffine := tr.Affine().Apply(p)
	if !scalar.EqualWithinAbs(direct.X, viaAffine.X, eps) ||
		!scalar.EqualWithinAbs(direct.Y, viaAffine.Y, eps) {
		t.Errorf("affine %v != direct %v", viaAffine, direct)
	}
}

func TestZoomAnchorInvariance(t *testing.T) {
	cursor := geometry.Pt(400, 300)
	for _, scale := range []float64{0.1, 0.5, 1.0, 2.0, 4.9} {
		for _, delta := range []float64{-1, 1} {
			tr := Transform{Scale: scale, OffsetX: 120, OffsetY: -45}
			before := tr.ToWorld(cursor)
			after := tr.ZoomAt(cursor, delta).ToWorld(cursor)
			if !scalar.EqualWithinAbs(before.X, after.X, 1e-6) ||
				!scalar.EqualWithinAbs(before.Y, after.Y, 1e-6) {
				t.Errorf("scale %v delta %v: anchor moved %v -> %v", scale, delta, before, after)
			}
		}
	}
}

func TestZoomClamped(t *testing.T) {
	tr := Transform{Scale: MaxScale}
	if got := tr.ZoomAt(geometry.Pt(0, 0), -1).Scale; got != MaxScale {
		t.Errorf("zoom past max: %v", got)
	}
	tr = Transform{Scale: MinScale}
	if got := tr.ZoomAt(geometry.Pt(0, 0), 1).Scale; got != MinScale {
		t.Errorf("zoom past min: %v", got)
	}
}

func TestZoomDirection(t *testing.T) {
	tr := Default()
	if got := tr.ZoomAt(geometry.Pt(0, 0), -1).Scale; !scalar.EqualWithinAbs(got, 1.1, eps) {
		t.Errorf("negative delta should zoom in: %v", got)
	}
	if got := tr.ZoomAt(geometry.Pt(0, 0), 1).Scale; !scalar.EqualWithinAbs(got, 0.9, eps) {
		t.Errorf("positive delta should zoom out: %v", got)
	}
}

func TestPanIsScaleIndependent(t *testing.T) {
	for _, scale := range []float64{0.1, 1, 5} {
		tr := Transform{Scale: scale}.Pan(10, -20)
		if tr.OffsetX != 10 || tr.OffsetY != -20 {
			t.Errorf("scale %v: pan offset = (%v, %v)", scale, tr.OffsetX, tr.OffsetY)
		}
	}
}
