package snap

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"floor-sketch/internal/element"
	"floor-sketch/pkg/geometry"
)

const eps = 1e-9

func TestSnapToLine(t *testing.T) {
	line := element.NewLine(0, 0, 100, 0, 1)
	els := []element.Element{line}

	got := FindNearestAttachable(els, geometry.Pt(50, 20), 1)
	if !got.Snapped() {
		t.Fatal("expected snap within threshold")
	}
	if got.Point != geometry.Pt(50, 0) {
		t.Errorf("point = %v, want (50,0)", got.Point)
	}
	if !scalar.EqualWithinAbs(got.Rotation, 0, eps) {
		t.Errorf("rotation = %v, want 0", got.Rotation)
	}
	if !scalar.EqualWithinAbs(got.Distance, 20, eps) {
		t.Errorf("distance = %v, want 20", got.Distance)
	}
	if got.Attachment.LineID != line.ID {
		t.Errorf("attachment = %+v", got.Attachment)
	}
}

func TestSnapClampsToSegmentEnd(t *testing.T) {
	els := []element.Element{element.NewLine(0, 0, 100, 0, 1)}
	got := FindNearestAttachable(els, geometry.Pt(110, 10), 1)
	if !got.Snapped() || got.Point != geometry.Pt(100, 0) {
		t.Errorf("point = %v, want clamp to (100,0)", got.Point)
	}
}

func TestSnapThresholdScalesWithZoom(t *testing.T) {
	els := []element.Element{element.NewLine(0, 0, 100, 0, 1)}

	// 20px away: snapped at scale 1 (threshold 30), not at scale 2
	// (threshold 15).
	if got := FindNearestAttachable(els, geometry.Pt(50, 20), 1); !got.Snapped() {
		t.Error("expected snap at scale 1")
	}
	got := FindNearestAttachable(els, geometry.Pt(50, 20), 2)
	if got.Snapped() {
		t.Error("expected no snap at scale 2")
	}
	if got.Point != geometry.Pt(50, 20) || !math.IsInf(got.Distance, 1) {
		t.Errorf("unsnapped result = %+v", got)
	}
}

func TestSnapToRectangleSide(t *testing.T) {
	rect := element.NewRectangle(0, 0, 100, 50, 1)
	els := []element.Element{rect}

	got := FindNearestAttachable(els, geometry.Pt(110, 25), 1)
	if !got.Snapped() {
		t.Fatal("expected snap to right side")
	}
	if got.Point != geometry.Pt(100, 25) {
		t.Errorf("point = %v, want (100,25)", got.Point)
	}
	if got.Attachment.RectID != rect.ID || got.Attachment.Side != element.SideRight {
		t.Errorf("attachment = %+v", got.Attachment)
	}
	// Right side runs downward, so its angle is pi/2.
	if !scalar.EqualWithinAbs(got.Rotation, math.Pi/2, eps) {
		t.Errorf("rotation = %v, want pi/2", got.Rotation)
	}
}

func TestNearestCandidateWins(t *testing.T) {
	far := element.NewLine(0, 20, 100, 20, 1)
	near := element.NewLine(0, 5, 100, 5, 1)
	els := []element.Element{far, near}

	got := FindNearestAttachable(els, geometry.Pt(50, 0), 1)
	if !got.Snapped() || got.Attachment.LineID != near.ID {
		t.Errorf("snapped to %+v, want nearer line", got.Attachment)
	}
}

func TestCirclesAndTextAreNotWalls(t *testing.T) {
	els := []element.Element{
		element.NewCircle(50, 50, 40, 1),
		element.NewText(50, 50, "hall", 16),
	}
	if got := FindNearestAttachable(els, geometry.Pt(50, 10), 1); got.Snapped() {
		t.Errorf("snapped to non-wall element: %+v", got.Attachment)
	}
}

func TestConstrainToAttachment(t *testing.T) {
	line := element.NewLine(0, 0, 100, 0, 1)
	els := []element.Element{line}
	att := &element.Attachment{LineID: line.ID}

	// Far from the wall, the pointer still projects onto it.
	pos, rot, ok := ConstrainToAttachment(els, att, geometry.Pt(60, 200))
	if !ok || pos != geometry.Pt(60, 0) {
		t.Errorf("pos = %v ok = %v, want (60,0)", pos, ok)
	}
	if !scalar.EqualWithinAbs(rot, 0, eps) {
		t.Errorf("rotation = %v", rot)
	}

	// Sliding past the end clamps to the endpoint.
	pos, _, ok = ConstrainToAttachment(els, att, geometry.Pt(150, 3))
	if !ok || pos != geometry.Pt(100, 0) {
		t.Errorf("pos = %v, want clamp to (100,0)", pos)
	}
}

func TestDanglingAttachmentDegrades(t *testing.T) {
	els := []element.Element{element.NewLine(0, 0, 100, 0, 1)}

	cases := []*element.Attachment{
		nil,
		{LineID: "gone"},
		{RectID: "gone", Side: element.SideTop},
		{RectID: els[0].ID, Side: element.SideTop}, // wrong kind
	}
	for _, att := range cases {
		if _, _, ok := ConstrainToAttachment(els, att, geometry.Pt(10, 10)); ok {
			t.Errorf("attachment %+v should not resolve", att)
		}
	}
}

func TestResolveAttachmentRectSide(t *testing.T) {
	rect := element.NewRectangle(10, 10, 80, 40, 1)
	els := []element.Element{rect}

	seg, ok := ResolveAttachment(els, &element.Attachment{RectID: rect.ID, Side: element.SideBottom})
	if !ok {
		t.Fatal("expected resolve")
	}
	if seg.A != geometry.Pt(90, 50) || seg.B != geometry.Pt(10, 50) {
		t.Errorf("bottom side = %+v", seg)
	}
}
