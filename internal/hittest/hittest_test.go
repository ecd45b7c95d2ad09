package hittest

import (
	"math"
	"testing"

	"floor-sketch/internal/element"
	"floor-sketch/pkg/geometry"
)

func TestTopmostWins(t *testing.T) {
	bottom := element.NewRectangle(0, 0, 100, 100, 1)
	top := element.NewRectangle(25, 25, 50, 50, 1)
	els := []element.Element{bottom, top}

	got, ok := FindElementAt(els, geometry.Pt(50, 50), 1)
	if !ok || got.ID != top.ID {
		t.Errorf("hit %v, want topmost rectangle", got.ID)
	}

	// Outside the top one, the bottom one is hit.
	got, ok = FindElementAt(els, geometry.Pt(10, 10), 1)
	if !ok || got.ID != bottom.ID {
		t.Errorf("hit %v, want bottom rectangle", got.ID)
	}
}

func TestLineToleranceScalesWithZoom(t *testing.T) {
	line := element.NewLine(0, 0, 100, 0, 1)
	els := []element.Element{line}

	// 8px off the line: hit at scale 1 (tolerance 10), miss at scale 2
	// (tolerance 5).
	if _, ok := FindElementAt(els, geometry.Pt(50, 8), 1); !ok {
		t.Error("expected hit at scale 1")
	}
	if _, ok := FindElementAt(els, geometry.Pt(50, 8), 2); ok {
		t.Error("expected miss at scale 2")
	}
}

func TestRotationInvariantRectangleHit(t *testing.T) {
	rect := element.NewRectangle(0, 0, 100, 50, 1)

	// Unrotated center is a hit.
	if !Hit(rect, geometry.Pt(50, 25), 10) {
		t.Fatal("center should hit unrotated rectangle")
	}

	// The center stays a hit under any rotation.
	for _, angle := range []float64{0.1, math.Pi / 4, math.Pi / 2, 1.9, math.Pi} {
		rect.Rotation = angle
		if !Hit(rect, geometry.Pt(50, 25), 10) {
			t.Errorf("center miss at rotation %v", angle)
		}
	}

	// A point outside rotates out of the hit region.
	rect.Rotation = math.Pi / 4
	if Hit(rect, geometry.Pt(98, 2), 10) {
		t.Error("unrotated corner area should miss after rotation")
	}
}

func TestCircleHit(t *testing.T) {
	c := element.NewCircle(50, 50, 20, 1)
	if !Hit(c, geometry.Pt(50, 69), 10) {
		t.Error("inside radius should hit")
	}
	if Hit(c, geometry.Pt(50, 71), 10) {
		t.Error("outside radius should miss")
	}
}

func TestDoorHit(t *testing.T) {
	door := element.NewDoor(0, 0, 100, 0, 1, nil)

	// On the wall opening segment.
	if !Hit(door, geometry.Pt(50, 3), 10) {
		t.Error("wall segment should hit")
	}
	// On the swing arc: distance 100 from hinge at 15 degrees above the wall.
	arcPt := geometry.Pt(100*math.Cos(math.Pi/12), -100*math.Sin(math.Pi/12))
	if !Hit(door, arcPt, 10) {
		t.Error("swing arc should hit")
	}
	// Same radius but below the wall line: outside the swept range.
	if Hit(door, geometry.Pt(100*math.Cos(math.Pi/12), 100*math.Sin(math.Pi/12)), 10) {
		t.Error("mirror of arc point should miss")
	}
	// Inside the swing, well away from leaf, arc, and wall.
	if Hit(door, geometry.Pt(55, -18), 5) {
		t.Error("interior of swing should miss")
	}
}

func TestLockedFallback(t *testing.T) {
	locked := element.NewRectangle(0, 0, 100, 100, 1)
	locked.Locked = true
	els := []element.Element{locked}

	got, ok := FindElementAt(els, geometry.Pt(50, 50), 1)
	if !ok || got.ID != locked.ID {
		t.Fatal("locked element should be returned as fallback")
	}

	// An unlocked element below a locked one wins.
	unlocked := element.NewRectangle(0, 0, 100, 100, 1)
	els = []element.Element{unlocked, locked}
	got, ok = FindElementAt(els, geometry.Pt(50, 50), 1)
	if !ok || got.ID != unlocked.ID {
		t.Errorf("hit %v, want unlocked element under locked one", got.ID)
	}
}

func TestMiss(t *testing.T) {
	els := []element.Element{element.NewCircle(0, 0, 5, 1)}
	if _, ok := FindElementAt(els, geometry.Pt(100, 100), 1); ok {
		t.Error("expected no hit")
	}
}
