// Package element defines the vector shape model: a tagged variant over the
// shape kinds with kind-specific payloads, derived real-world measurements,
// and the partial-update patch applied by manipulation gestures.
package element

import (
	"math"

	"github.com/google/uuid"

	"floor-sketch/pkg/geometry"
)

// Kind identifies the shape variant of an element.
type Kind string

const (
	KindLine      Kind = "line"
	KindRectangle Kind = "rectangle"
	KindCircle    Kind = "circle"
	KindText      Kind = "text"
	KindDoor      Kind = "door"
)

// Side names a rectangle side a door can attach to.
type Side string

const (
	SideTop    Side = "top"
	SideBottom Side = "bottom"
	SideLeft   Side = "left"
	SideRight  Side = "right"
)

// Attachment is a weak reference from a door to the wall segment it sits on:
// either a line, or one side of a rectangle. The referenced element may be
// deleted at any time; holders must treat a failed lookup as "unattached".
type Attachment struct {
	LineID string `json:"lineId,omitempty"`
	RectID string `json:"rectId,omitempty"`
	Side   Side   `json:"side,omitempty"`
}

// LineData is the Line payload. (X, Y) is the start point, (X2, Y2) the end.
type LineData struct {
	X2       float64
	Y2       float64
	LengthCm float64
}

// RectData is the Rectangle payload. Width/Height are in world pixels,
// WidthCm/HeightCm are derived from the project's pixels-per-unit ratio.
type RectData struct {
	Width    float64
	Height   float64
	WidthCm  float64
	HeightCm float64
}

// CircleData is the Circle payload. (X, Y) is the center.
type CircleData struct {
	Radius   float64
	RadiusCm float64
}

// TextData is the Text payload. (X, Y) anchors the text baseline.
type TextData struct {
	Content    string
	FontSize   float64
	FontFamily string
}

// DoorData is the Door payload. (X, Y) is the hinge point and Width the
// opening size along the wall.
type DoorData struct {
	Width      float64
	WidthCm    float64
	Attachment *Attachment
}

// Default style attributes for newly created elements.
const (
	DefaultStroke      = "#333333"
	DefaultFill        = "none"
	DefaultStrokeWidth = 2.0
	DefaultFontSize    = 16.0
	DefaultFontFamily  = "sans-serif"
)

// Element is one shape on the canvas. Exactly one payload pointer is non-nil,
// matching Kind; all other payloads are nil.
type Element struct {
	ID          string
	Kind        Kind
	X           float64
	Y           float64
	Stroke      string
	Fill        string
	Opacity     float64
	StrokeWidth float64
	Rotation    float64
	Label       string
	Locked      bool

	Line   *LineData
	Rect   *RectData
	Circle *CircleData
	Text   *TextData
	Door   *DoorData
}

// NewLine creates a line element from (x, y) to (x2, y2).
func NewLine(x, y, x2, y2, pixelsPerUnit float64) Element {
	el := Element{
		ID:          uuid.NewString(),
		Kind:        KindLine,
		X:           x,
		Y:           y,
		Stroke:      DefaultStroke,
		Fill:        DefaultFill,
		Opacity:     1,
		StrokeWidth: DefaultStrokeWidth,
		Line:        &LineData{X2: x2, Y2: y2},
	}
	el.RecomputeUnits(pixelsPerUnit)
	return el
}

// NewRectangle creates a rectangle element anchored at its top-left corner.
func NewRectangle(x, y, width, height, pixelsPerUnit float64) Element {
	el := Element{
		ID:          uuid.NewString(),
		Kind:        KindRectangle,
		X:           x,
		Y:           y,
		Stroke:      DefaultStroke,
		Fill:        DefaultFill,
		Opacity:     1,
		StrokeWidth: DefaultStrokeWidth,
		Rect:        &RectData{Width: width, Height: height},
	}
	el.RecomputeUnits(pixelsPerUnit)
	return el
}

// NewCircle creates a circle element centered at (x, y).
func NewCircle(x, y, radius, pixelsPerUnit float64) Element {
	el := Element{
		ID:          uuid.NewString(),
		Kind:        KindCircle,
		X:           x,
		Y:           y,
		Stroke:      DefaultStroke,
		Fill:        DefaultFill,
		Opacity:     1,
		StrokeWidth: DefaultStrokeWidth,
		Circle:      &CircleData{Radius: radius},
	}
	el.RecomputeUnits(pixelsPerUnit)
	return el
}

// NewText creates a text element anchored at (x, y).
func NewText(x, y float64, content string, fontSize float64) Element {
	return Element{
		ID:          uuid.NewString(),
		Kind:        KindText,
		X:           x,
		Y:           y,
		Stroke:      DefaultStroke,
		Fill:        DefaultFill,
		Opacity:     1,
		StrokeWidth: 1,
		Text: &TextData{
			Content:    content,
			FontSize:   fontSize,
			FontFamily: DefaultFontFamily,
		},
	}
}

// NewDoor creates a door element hinged at (x, y) with the given opening
// width and rotation. attachment may be nil for a free-standing door.
func NewDoor(x, y, width, rotation, pixelsPerUnit float64, attachment *Attachment) Element {
	el := Element{
		ID:          uuid.NewString(),
		Kind:        KindDoor,
		X:           x,
		Y:           y,
		Stroke:      DefaultStroke,
		Fill:        DefaultFill,
		Opacity:     1,
		StrokeWidth: DefaultStrokeWidth,
		Rotation:    rotation,
		Door:        &DoorData{Width: width, Attachment: attachment},
	}
	el.RecomputeUnits(pixelsPerUnit)
	return el
}

// RecomputeUnits refreshes the derived centimeter fields from the pixel
// geometry. Derived fields are never authored directly; every geometric
// mutation funnels through here.
func (el *Element) RecomputeUnits(pixelsPerUnit float64) {
	if pixelsPerUnit <= 0 {
		return
	}
	switch el.Kind {
	case KindLine:
		if el.Line != nil {
			length := math.Hypot(el.Line.X2-el.X, el.Line.Y2-el.Y)
			el.Line.LengthCm = length / pixelsPerUnit
		}
	case KindRectangle:
		if el.Rect != nil {
			el.Rect.WidthCm = el.Rect.Width / pixelsPerUnit
			el.Rect.HeightCm = el.Rect.Height / pixelsPerUnit
		}
	case KindCircle:
		if el.Circle != nil {
			el.Circle.RadiusCm = el.Circle.Radius / pixelsPerUnit
		}
	case KindDoor:
		if el.Door != nil {
			el.Door.WidthCm = el.Door.Width / pixelsPerUnit
		}
	case KindText:
		// No real-world measurement.
	}
}

// Position returns the element's anchor point.
func (el Element) Position() geometry.Point2D {
	return geometry.Pt(el.X, el.Y)
}

// EndPoint returns the line end point. Valid only for lines.
func (el Element) EndPoint() geometry.Point2D {
	if el.Line == nil {
		return el.Position()
	}
	return geometry.Pt(el.Line.X2, el.Line.Y2)
}

// Clone returns a deep copy of the element, payload included.
func (el Element) Clone() Element {
	out := el
	switch {
	case el.Line != nil:
		line := *el.Line
		out.Line = &line
	case el.Rect != nil:
		rect := *el.Rect
		out.Rect = &rect
	case el.Circle != nil:
		circle := *el.Circle
		out.Circle = &circle
	case el.Text != nil:
		text := *el.Text
		out.Text = &text
	case el.Door != nil:
		door := *el.Door
		if el.Door.Attachment != nil {
			att := *el.Door.Attachment
			door.Attachment = &att
		}
		out.Door = &door
	}
	return out
}

// CloneAll deep-copies a slice of elements.
func CloneAll(els []Element) []Element {
	out := make([]Element, len(els))
	for i, el := range els {
		out[i] = el.Clone()
	}
	return out
}

// Duplicate returns a deep copy with a fresh identity, offset by (dx, dy).
func (el Element) Duplicate(dx, dy float64) Element {
	out := el.Clone()
	out.ID = uuid.NewString()
	out.X += dx
	out.Y += dy
	if out.Line != nil {
		out.Line.X2 += dx
		out.Line.Y2 += dy
	}
	// A copy does not inherit the original's wall attachment.
	if out.Door != nil {
		out.Door.Attachment = nil
	}
	return out
}

// FindByID returns the element with the given id from a slice.
func FindByID(els []Element, id string) (Element, bool) {
	for _, el := range els {
		if el.ID == id {
			return el, true
		}
	}
	return Element{}, false
}
