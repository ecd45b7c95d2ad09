// Package shape provides pure geometric queries over elements: bounds,
// corner enumeration, and local-frame conversion. Nothing here mutates an
// element; hit-testing, snapping, handle placement, and box selection are
// all built on these queries.
package shape

import (
	"math"

	"floor-sketch/internal/element"
	"floor-sketch/pkg/geometry"
)

// TextGlyphWidthRatio estimates average glyph width as a fraction of the
// font size, for text bounds without font metrics.
const TextGlyphWidthRatio = 0.6

// DoorLeafAngle is the fixed opening angle the door leaf is drawn at.
const DoorLeafAngle = math.Pi / 6 // 30 degrees

// Bounds describes an element's axis-aligned box with its center, in the
// element's unrotated local space (door bounds bake in the door's own
// rotation, see BoundsOf).
type Bounds struct {
	X       float64
	Y       float64
	Width   float64
	Height  float64
	CenterX float64
	CenterY float64
}

// Rect returns the bounds as a geometry.Rect.
func (b Bounds) Rect() geometry.Rect {
	return geometry.NewRect(b.X, b.Y, b.Width, b.Height)
}

// Center returns the bounds center point.
func (b Bounds) Center() geometry.Point2D {
	return geometry.Pt(b.CenterX, b.CenterY)
}

func boundsFromRect(r geometry.Rect) Bounds {
	c := r.Center()
	return Bounds{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height, CenterX: c.X, CenterY: c.Y}
}

// BoundsOf computes the element's bounds. Line bounds are the box of its two
// endpoints; Rectangle bounds are its stored box; Text bounds are estimated
// from content length and anchored at the baseline; Circle bounds are the
// enclosing square; Door bounds are the box of its three rotated corner
// points (hinge, latch end, arc end).
func BoundsOf(el element.Element) Bounds {
	switch el.Kind {
	case element.KindLine:
		return boundsFromRect(geometry.BoundingBox([]geometry.Point2D{
			el.Position(), el.EndPoint(),
		}))
	case element.KindRectangle:
		var w, h float64
		if el.Rect != nil {
			w, h = el.Rect.Width, el.Rect.Height
		}
		return boundsFromRect(geometry.NewRect(el.X, el.Y, w, h))
	case element.KindText:
		return boundsFromRect(textRect(el))
	case element.KindCircle:
		var r float64
		if el.Circle != nil {
			r = el.Circle.Radius
		}
		return boundsFromRect(geometry.NewRect(el.X-r, el.Y-r, 2*r, 2*r))
	case element.KindDoor:
		pts := DoorPointsOf(el)
		return boundsFromRect(geometry.BoundingBox([]geometry.Point2D{
			pts.Hinge, pts.Latch, pts.ArcEnd,
		}))
	}
	return Bounds{X: el.X, Y: el.Y, CenterX: el.X, CenterY: el.Y}
}

// textRect estimates the text box: the anchor is the baseline-left point,
// so the box extends one font-size upward.
func textRect(el element.Element) geometry.Rect {
	fontSize := element.DefaultFontSize
	content := ""
	if el.Text != nil {
		fontSize = el.Text.FontSize
		content = el.Text.Content
	}
	width := float64(len(content)) * TextGlyphWidthRatio * fontSize
	return geometry.NewRect(el.X, el.Y-fontSize, width, fontSize)
}

// DoorPoints are the three characteristic points of a door symbol in world
// space: the hinge, the latch-side end of the opening on the wall line, and
// the free end of the leaf swung open by DoorLeafAngle.
type DoorPoints struct {
	Hinge  geometry.Point2D
	Latch  geometry.Point2D
	ArcEnd geometry.Point2D
}

// DoorPointsOf computes the door's characteristic points, applying the
// door's rotation about its hinge.
func DoorPointsOf(el element.Element) DoorPoints {
	var width float64
	if el.Door != nil {
		width = el.Door.Width
	}
	hinge := el.Position()
	rot := geometry.RotationAround(hinge, el.Rotation)
	latch := geometry.Pt(el.X+width, el.Y)
	arcEnd := geometry.Pt(
		el.X+width*math.Cos(DoorLeafAngle),
		el.Y-width*math.Sin(DoorLeafAngle),
	)
	return DoorPoints{
		Hinge:  hinge,
		Latch:  rot.Apply(latch),
		ArcEnd: rot.Apply(arcEnd),
	}
}

// ToLocal rotates a world point into the element's unrotated local frame,
// by the inverse of the element's rotation about its bounds center. Testing
// against unrotated geometry after this conversion is the single trick
// shared by hit-testing, handle placement, and box-selection.
func ToLocal(el element.Element, p geometry.Point2D) geometry.Point2D {
	if el.Rotation == 0 {
		return p
	}
	return p.RotateAround(BoundsOf(el).Center(), -el.Rotation)
}

// RotatedCorners enumerates the world-space points used for box-selection
// inclusion: Line endpoints, the four rotated corners for Rectangle and
// Text, the hinge and latch points for Door. Circle has no corner set; its
// inclusion is tested by bounding-square intersection.
func RotatedCorners(el element.Element) []geometry.Point2D {
	switch el.Kind {
	case element.KindLine:
		return []geometry.Point2D{el.Position(), el.EndPoint()}
	case element.KindRectangle, element.KindText:
		b := BoundsOf(el)
		center := b.Center()
		corners := b.Rect().Corners()
		out := make([]geometry.Point2D, 4)
		for i, c := range corners {
			out[i] = c.RotateAround(center, el.Rotation)
		}
		return out
	case element.KindDoor:
		pts := DoorPointsOf(el)
		return []geometry.Point2D{pts.Hinge, pts.Latch}
	}
	return nil
}

// WallSegments returns the segments of an element that doors can attach to
// and that segment-proximity hit tests run against: the line itself, or a
// rectangle's four sides (rotated with the rectangle). The side order is
// top, right, bottom, left.
func WallSegments(el element.Element) []geometry.Segment {
	switch el.Kind {
	case element.KindLine:
		return []geometry.Segment{geometry.Seg(el.Position(), el.EndPoint())}
	case element.KindRectangle:
		b := BoundsOf(el)
		center := b.Center()
		c := b.Rect().Corners()
		for i := range c {
			c[i] = c[i].RotateAround(center, el.Rotation)
		}
		return []geometry.Segment{
			geometry.Seg(c[0], c[1]), // top
			geometry.Seg(c[1], c[2]), // right
			geometry.Seg(c[2], c[3]), // bottom
			geometry.Seg(c[3], c[0]), // left
		}
	}
	return nil
}

// RectSideNames gives the attachment side name for each WallSegments index
// of a rectangle.
var RectSideNames = [4]element.Side{
	element.SideTop,
	element.SideRight,
	element.SideBottom,
	element.SideLeft,
}
