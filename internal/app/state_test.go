package app

import (
	"path/filepath"
	"testing"

	"floor-sketch/internal/controller"
	"floor-sketch/internal/element"
	"floor-sketch/pkg/geometry"
)

func TestGestureUpdatesCollapseToOneUndoStep(t *testing.T) {
	s := NewState()
	rect := element.NewRectangle(0, 0, 100, 50, s.PixelsPerUnit())
	s.AddElement(rect)

	// A drag emits many intermediate frames, then one checkpoint.
	for _, x := range []float64{5, 10, 15, 20} {
		s.UpdateElement(rect.ID, element.Patch{X: element.F(x)}, true)
	}
	s.SaveHistoryCheckpoint()

	if got := s.Elements()[0].X; got != 20 {
		t.Fatalf("x = %v after drag", got)
	}

	// One undo restores the pre-gesture position, not an intermediate frame.
	if !s.Undo() {
		t.Fatal("undo failed")
	}
	if got := s.Elements()[0].X; got != 0 {
		t.Errorf("x = %v after undo, want 0", got)
	}

	// The next undo removes the element entirely.
	if !s.Undo() {
		t.Fatal("second undo failed")
	}
	if len(s.Elements()) != 0 {
		t.Errorf("got %d elements after second undo", len(s.Elements()))
	}
}

func TestEscapeMidDragKeepsUndoOrder(t *testing.T) {
	s := NewState()
	c := controller.New(s)
	rect := element.NewRectangle(0, 0, 100, 50, s.PixelsPerUnit())
	s.AddElement(rect)

	// A drag interrupted by Escape must still land as one undo step.
	c.PointerDown(geometry.Pt(50, 25), controller.ButtonLeft, controller.Modifiers{})
	c.PointerMove(geometry.Pt(60, 25), controller.Modifiers{})
	c.KeyDown(controller.KeyEscape, controller.Modifiers{}, false)
	if got := s.Elements()[0].X; got != 10 {
		t.Fatalf("x = %v after interrupted drag", got)
	}

	s.AddElement(element.NewCircle(300, 300, 20, s.PixelsPerUnit()))

	c.PointerDown(geometry.Pt(60, 25), controller.ButtonLeft, controller.Modifiers{})
	c.PointerMove(geometry.Pt(65, 25), controller.Modifiers{})
	c.PointerUp(geometry.Pt(65, 25), controller.Modifiers{})

	// Undo walks back in reverse order: second drag, circle, first drag.
	s.Undo()
	if got := s.Elements()[0].X; got != 10 {
		t.Errorf("x = %v after first undo, want 10", got)
	}
	if len(s.Elements()) != 2 {
		t.Errorf("got %d elements after first undo, want 2", len(s.Elements()))
	}
	s.Undo()
	if len(s.Elements()) != 1 {
		t.Errorf("got %d elements after second undo, want 1", len(s.Elements()))
	}
	s.Undo()
	if got := s.Elements()[0].X; got != 0 {
		t.Errorf("x = %v after third undo, want 0", got)
	}
}

func TestCheckpointWithoutGestureIsNoop(t *testing.T) {
	s := NewState()
	s.SaveHistoryCheckpoint()
	if s.CanUndo() {
		t.Error("checkpoint with no pending changes recorded an undo step")
	}
}

func TestUpdateElementsIsOneUndoStep(t *testing.T) {
	s := NewState()
	a := element.NewRectangle(0, 0, 50, 50, s.PixelsPerUnit())
	b := element.NewCircle(100, 100, 10, s.PixelsPerUnit())
	s.AddElement(a)
	s.AddElement(b)

	s.UpdateElements([]string{a.ID, b.ID}, element.Patch{Stroke: element.S("#ff0000")})
	for _, el := range s.Elements() {
		if el.Stroke != "#ff0000" {
			t.Errorf("%s stroke = %q", el.Kind, el.Stroke)
		}
	}

	s.Undo()
	for _, el := range s.Elements() {
		if el.Stroke == "#ff0000" {
			t.Errorf("%s stroke not reverted by a single undo", el.Kind)
		}
	}
}

func TestUndoPrunesSelection(t *testing.T) {
	s := NewState()
	rect := element.NewRectangle(0, 0, 50, 50, s.PixelsPerUnit())
	s.AddElement(rect)
	s.SetSelection([]string{rect.ID})

	s.Undo()
	if len(s.Selection()) != 0 {
		t.Errorf("selection = %v after the element was undone away", s.Selection())
	}
}

func TestRedoRestoresDeletion(t *testing.T) {
	s := NewState()
	circle := element.NewCircle(10, 10, 5, s.PixelsPerUnit())
	s.AddElement(circle)
	s.DeleteElements([]string{circle.ID})

	s.Undo()
	if len(s.Elements()) != 1 {
		t.Fatalf("got %d elements after undo", len(s.Elements()))
	}
	s.Redo()
	if len(s.Elements()) != 0 {
		t.Errorf("got %d elements after redo", len(s.Elements()))
	}
}

func TestSetPixelsPerUnitRecomputesMeasurements(t *testing.T) {
	s := NewState()
	line := element.NewLine(0, 0, 100, 0, s.PixelsPerUnit())
	s.AddElement(line)

	s.SetPixelsPerUnit(20)
	if got := s.Elements()[0].Line.LengthCm; got != 5 {
		t.Errorf("lengthCm = %v, want 5 at 20 px/cm", got)
	}
}

func TestProjectRoundTripThroughState(t *testing.T) {
	s := NewState()
	s.SetPlanName("studio")
	s.AddElement(element.NewRectangle(0, 0, 300, 200, s.PixelsPerUnit()))
	s.SetView(s.View().Pan(15, 25))

	path := filepath.Join(t.TempDir(), "studio.json")
	if err := s.SaveProject(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	if s.Modified {
		t.Error("state still modified after save")
	}

	s2 := NewState()
	if err := s2.LoadProject(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if s2.PlanName() != "studio" {
		t.Errorf("name = %q", s2.PlanName())
	}
	if len(s2.Elements()) != 1 {
		t.Fatalf("got %d elements", len(s2.Elements()))
	}
	if s2.View().OffsetX != 15 || s2.View().OffsetY != 25 {
		t.Errorf("view = %+v", s2.View())
	}
	if s2.CanUndo() {
		t.Error("history must be clear after loading")
	}
}

func TestModifiedEvent(t *testing.T) {
	s := NewState()
	var got []interface{}
	s.On(EventModified, func(data interface{}) { got = append(got, data) })

	s.SetModified(true)
	if len(got) != 1 || got[0] != true {
		t.Errorf("events = %v", got)
	}
}
