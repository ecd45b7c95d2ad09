package element

import (
	"encoding/json"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
)

const eps = 1e-9

func TestLineDerivedLength(t *testing.T) {
	el := NewLine(0, 0, 100, 0, 10)
	if !scalar.EqualWithinAbs(el.Line.LengthCm, 10, eps) {
		t.Errorf("LengthCm = %v, want 10", el.Line.LengthCm)
	}

	// Moving an endpoint recomputes, never leaves the cached value stale.
	el.Apply(Patch{X2: F(0), Y2: F(50)}, 10)
	if !scalar.EqualWithinAbs(el.Line.LengthCm, 5, eps) {
		t.Errorf("LengthCm after move = %v, want 5", el.Line.LengthCm)
	}
}

func TestRectDerivedUnits(t *testing.T) {
	el := NewRectangle(0, 0, 120, 80, 4)
	if !scalar.EqualWithinAbs(el.Rect.WidthCm, 30, eps) ||
		!scalar.EqualWithinAbs(el.Rect.HeightCm, 20, eps) {
		t.Errorf("derived = %v x %v, want 30 x 20", el.Rect.WidthCm, el.Rect.HeightCm)
	}

	el.Apply(Patch{Width: F(40)}, 4)
	if !scalar.EqualWithinAbs(el.Rect.WidthCm, 10, eps) {
		t.Errorf("WidthCm after resize = %v, want 10", el.Rect.WidthCm)
	}
}

func TestPatchIgnoresWrongKindFields(t *testing.T) {
	el := NewCircle(10, 10, 25, 5)
	el.Apply(Patch{X2: F(99), Content: S("hi"), Height: F(7)}, 5)
	if el.Circle.Radius != 25 {
		t.Errorf("circle radius changed by foreign fields: %v", el.Circle.Radius)
	}
	el.Apply(Patch{Radius: F(50)}, 5)
	if !scalar.EqualWithinAbs(el.Circle.RadiusCm, 10, eps) {
		t.Errorf("RadiusCm = %v, want 10", el.Circle.RadiusCm)
	}
}

func TestPatchOpacityClamped(t *testing.T) {
	el := NewRectangle(0, 0, 10, 10, 1)
	el.Apply(Patch{Opacity: F(3)}, 1)
	if el.Opacity != 1 {
		t.Errorf("opacity = %v, want clamped to 1", el.Opacity)
	}
	el.Apply(Patch{Opacity: F(-0.5)}, 1)
	if el.Opacity != 0 {
		t.Errorf("opacity = %v, want clamped to 0", el.Opacity)
	}
}

func TestDoorAttachmentPatch(t *testing.T) {
	el := NewDoor(5, 5, 80, 0, 10, nil)
	el.Apply(Patch{Attachment: &Attachment{LineID: "wall-1"}}, 10)
	if el.Door.Attachment == nil || el.Door.Attachment.LineID != "wall-1" {
		t.Fatalf("attachment not set: %+v", el.Door.Attachment)
	}
	el.Apply(Patch{ClearAttachment: true}, 10)
	if el.Door.Attachment != nil {
		t.Error("attachment should be cleared")
	}
}

func TestCloneIsDeep(t *testing.T) {
	el := NewDoor(0, 0, 90, 1.5, 10, &Attachment{RectID: "r1", Side: SideTop})
	cp := el.Clone()
	cp.Door.Width = 999
	cp.Door.Attachment.RectID = "other"
	if el.Door.Width == 999 || el.Door.Attachment.RectID == "other" {
		t.Error("Clone shares payload with original")
	}
}

func TestDuplicateOffsetsAndDropsAttachment(t *testing.T) {
	line := NewLine(0, 0, 10, 0, 1)
	dup := line.Duplicate(10, 10)
	if dup.ID == line.ID {
		t.Error("duplicate kept original id")
	}
	if dup.X != 10 || dup.Line.X2 != 20 {
		t.Errorf("duplicate not offset: x=%v x2=%v", dup.X, dup.Line.X2)
	}

	door := NewDoor(0, 0, 80, 0, 1, &Attachment{LineID: line.ID})
	dupDoor := door.Duplicate(10, 10)
	if dupDoor.Door.Attachment != nil {
		t.Error("duplicate door kept attachment")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	els := []Element{
		NewLine(1, 2, 3, 4, 10),
		NewRectangle(5, 6, 0, 0, 10), // degenerate, still valid
		NewCircle(7, 8, 9, 10),
		NewText(1, 1, "kitchen", 18),
		NewDoor(2, 3, 75, 0.5, 10, &Attachment{RectID: "room", Side: SideLeft}),
	}
	els[0].Label = "north wall"
	els[0].Locked = true
	els[2].Fill = "#ff0000"
	els[2].Opacity = 0.35

	data, err := json.Marshal(els)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back []Element
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(back) != len(els) {
		t.Fatalf("got %d elements, want %d", len(back), len(els))
	}
	for i := range els {
		want, err := json.Marshal(els[i])
		if err != nil {
			t.Fatal(err)
		}
		got, err := json.Marshal(back[i])
		if err != nil {
			t.Fatal(err)
		}
		if string(want) != string(got) {
			t.Errorf("element %d round trip mismatch:\n got %s\nwant %s", i, got, want)
		}
	}

	// Derived fields come back verbatim, not recomputed.
	if !scalar.EqualWithinAbs(back[0].Line.LengthCm, els[0].Line.LengthCm, eps) {
		t.Error("derived length lost in round trip")
	}
	if back[4].Door.Attachment == nil || back[4].Door.Attachment.Side != SideLeft {
		t.Error("door attachment lost in round trip")
	}
}

func TestUnmarshalUnknownKind(t *testing.T) {
	var el Element
	if err := json.Unmarshal([]byte(`{"id":"x","type":"blob","x":0,"y":0}`), &el); err == nil {
		t.Error("expected error for unknown kind")
	}
}
