// Package controller implements the pointer and keyboard interaction state
// machine: drawing, dragging, rotating, scaling, box selection, panning and
// door placement. It owns no elements itself; it reads the host's state and
// emits mutation requests back through the Host interface.
package controller

import (
	"floor-sketch/internal/element"
	"floor-sketch/internal/snap"
	"floor-sketch/internal/view"
	"floor-sketch/pkg/geometry"
)

// Mode is the current gesture state.
type Mode int

const (
	Idle Mode = iota
	Panning
	Drawing
	Dragging
	Rotating
	Scaling
	PotentialSelect
	BoxSelecting
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Panning:
		return "panning"
	case Drawing:
		return "drawing"
	case Dragging:
		return "dragging"
	case Rotating:
		return "rotating"
	case Scaling:
		return "scaling"
	case PotentialSelect:
		return "potential-select"
	case BoxSelecting:
		return "box-selecting"
	}
	return "unknown"
}

// Tool is the active drawing tool.
type Tool string

const (
	ToolSelect    Tool = "select"
	ToolLine      Tool = "line"
	ToolRectangle Tool = "rectangle"
	ToolCircle    Tool = "circle"
	ToolText      Tool = "text"
	ToolDoor      Tool = "door"
)

// Button identifies a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// Modifiers are the keyboard modifiers held during an input event.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
}

// Defaults for synchronously created elements. DefaultDoorWidth is exported
// so the hover ghost renders at the same width the placed door gets.
const (
	DefaultDoorWidth   = 50.0
	defaultTextContent = "Text"
)

// boxSelectUpgradePx is the screen-space drag distance after which an empty
// click becomes a box selection.
const boxSelectUpgradePx = 5.0

// Host is the application state the controller operates on. All reads return
// current values; all mutations take effect before the call returns. Update
// calls with skipHistory true are intermediate gesture frames; the gesture's
// single undo checkpoint is requested via SaveHistoryCheckpoint on release.
type Host interface {
	Elements() []element.Element
	View() view.Transform
	SetView(view.Transform)
	Selection() []string
	SetSelection(ids []string)
	ActiveTool() Tool
	SetTool(Tool)
	PixelsPerUnit() float64

	AddElement(element.Element)
	AddElements([]element.Element)
	UpdateElement(id string, p element.Patch, skipHistory bool)
	DeleteElements(ids []string)
	SaveHistoryCheckpoint()

	// DismissOverlay closes a transient surface (settings sheet, dialog) if
	// one is open and reports whether it did. Escape consumes itself on a
	// dismissal instead of clearing the selection.
	DismissOverlay() bool
}

// startPos is an element's geometry at gesture start. X2/Y2 are meaningful
// for lines only.
type startPos struct {
	X, Y, X2, Y2 float64
}

// session is the transient state of the gesture in flight. Zero value is an
// idle session.
type session struct {
	mode         Mode
	origin       geometry.Point2D // world-space pointer-down point
	screenOrigin geometry.Point2D
	starts       map[string]startPos

	handle        Handle
	lastAngle     float64
	startBounds   geometry.Rect
	startFontSize float64

	doorID            string
	doorStartRotation float64
	pendingSnap       *snap.Result
}

// Controller runs the gesture state machine against a Host. Not safe for
// concurrent use; the host's event loop serializes calls.
type Controller struct {
	host Host

	sess       session
	lastScreen geometry.Point2D

	preview     *element.Element
	snapPreview *snap.Result
	boxRect     *geometry.Rect // screen space

	clipboard []element.Element
}

// New creates a controller bound to a host.
func New(host Host) *Controller {
	return &Controller{host: host}
}

// Mode returns the current gesture mode, for cursor feedback.
func (c *Controller) Mode() Mode {
	return c.sess.mode
}

// Preview returns the in-progress drawing element, if any.
func (c *Controller) Preview() (element.Element, bool) {
	if c.preview == nil {
		return element.Element{}, false
	}
	return *c.preview, true
}

// SnapPreview returns the door placement ghost while the door tool hovers.
func (c *Controller) SnapPreview() (snap.Result, bool) {
	if c.snapPreview == nil || c.host.ActiveTool() != ToolDoor {
		return snap.Result{}, false
	}
	return *c.snapPreview, true
}

// SelectionBox returns the screen-space box-selection rectangle while one is
// being dragged out.
func (c *Controller) SelectionBox() (geometry.Rect, bool) {
	if c.boxRect == nil {
		return geometry.Rect{}, false
	}
	return *c.boxRect, true
}

// reset drops the in-flight gesture and its overlays.
func (c *Controller) reset() {
	c.sess = session{}
	c.preview = nil
	c.boxRect = nil
}

func (c *Controller) selectedUnlocked() []element.Element {
	els := c.host.Elements()
	var out []element.Element
	for _, id := range c.host.Selection() {
		if el, ok := element.FindByID(els, id); ok && !el.Locked {
			out = append(out, el)
		}
	}
	return out
}

// soleSelected returns the selected element when exactly one is selected.
func (c *Controller) soleSelected() (element.Element, bool) {
	sel := c.host.Selection()
	if len(sel) != 1 {
		return element.Element{}, false
	}
	return element.FindByID(c.host.Elements(), sel[0])
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
