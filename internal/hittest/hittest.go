// Package hittest resolves a world-space point to the shape under it.
package hittest

import (
	"math"

	"floor-sketch/internal/element"
	"floor-sketch/internal/shape"
	"floor-sketch/pkg/geometry"
)

// baseTolerance is the pick distance in screen pixels. It is divided by the
// viewport scale so the effective tolerance stays constant on screen.
const baseTolerance = 10.0

// FindElementAt returns the topmost element at the given world point.
// Render order equals slice order, so the scan runs back to front. Locked
// elements never win over unlocked ones; if only locked elements are under
// the point, the topmost locked match is returned so it can still be
// selected (to inspect it or toggle its lock).
func FindElementAt(elements []element.Element, world geometry.Point2D, scale float64) (element.Element, bool) {
	tolerance := baseTolerance / scale

	var lockedHit element.Element
	lockedFound := false

	for i := len(elements) - 1; i >= 0; i-- {
		el := elements[i]
		if !Hit(el, world, tolerance) {
			continue
		}
		if !el.Locked {
			return el, true
		}
		if !lockedFound {
			lockedHit = el
			lockedFound = true
		}
	}

	return lockedHit, lockedFound
}

// Hit reports whether a world point is on the element, within the given
// world-space tolerance for segment-like shapes.
func Hit(el element.Element, p geometry.Point2D, tolerance float64) bool {
	switch el.Kind {
	case element.KindLine:
		seg := geometry.Seg(el.Position(), el.EndPoint())
		return seg.Distance(p) <= tolerance
	case element.KindRectangle, element.KindText:
		// Rotate the point into the unrotated local frame, then test
		// axis-aligned containment.
		return shape.BoundsOf(el).Rect().Contains(shape.ToLocal(el, p))
	case element.KindCircle:
		var r float64
		if el.Circle != nil {
			r = el.Circle.Radius
		}
		return p.Distance(el.Position()) <= r
	case element.KindDoor:
		return hitDoor(el, p, tolerance)
	}
	return false
}

func hitDoor(el element.Element, p geometry.Point2D, tolerance float64) bool {
	pts := shape.DoorPointsOf(el)

	// Leaf and wall-opening segments.
	if geometry.Seg(pts.Hinge, pts.ArcEnd).Distance(p) <= tolerance {
		return true
	}
	if geometry.Seg(pts.Hinge, pts.Latch).Distance(p) <= tolerance {
		return true
	}

	// Swing arc: radius band around the opening width, within the swept
	// angle range. Work in the door's local frame.
	var width float64
	if el.Door != nil {
		width = el.Door.Width
	}
	if width <= 0 {
		return false
	}
	local := p.Sub(pts.Hinge).Rotate(-el.Rotation)
	dist := local.Length()
	if math.Abs(dist-width) > tolerance {
		return false
	}
	swing := math.Atan2(-local.Y, local.X)
	return swing >= 0 && swing <= shape.DoorLeafAngle
}
