package controller

import (
	"floor-sketch/internal/element"
	"floor-sketch/internal/shape"
	"floor-sketch/pkg/geometry"
)

// Handle identifies a manipulation hotspot on a selected element.
type Handle string

const (
	HandleNone Handle = ""

	HandleN  Handle = "n"
	HandleS  Handle = "s"
	HandleE  Handle = "e"
	HandleW  Handle = "w"
	HandleNE Handle = "ne"
	HandleNW Handle = "nw"
	HandleSE Handle = "se"
	HandleSW Handle = "sw"

	HandleRotate Handle = "rotate"
)

// Screen-space handle metrics; divided by the viewport scale for world-space
// tests so handles feel the same size at any zoom.
const (
	handleHitRadiusPx      = 8.0
	rotationHandleOffsetPx = 20.0
)

// ScaleHandles lists the scale handles a kind exposes. Lines are reshaped by
// their endpoints and doors by their width property, so neither gets scale
// handles; circles use the corner handles to set the radius.
func ScaleHandles(kind element.Kind) []Handle {
	switch kind {
	case element.KindRectangle:
		return []Handle{HandleN, HandleS, HandleE, HandleW, HandleNE, HandleNW, HandleSE, HandleSW}
	case element.KindText:
		return []Handle{HandleE, HandleNE, HandleSE}
	case element.KindCircle:
		return []Handle{HandleNE, HandleNW, HandleSE, HandleSW}
	}
	return nil
}

// Rotatable reports whether a kind exposes a rotation handle. Line
// orientation is implied by its endpoints and circle rotation is invisible.
func Rotatable(kind element.Kind) bool {
	switch kind {
	case element.KindRectangle, element.KindText, element.KindDoor:
		return true
	}
	return false
}

// handleLocalPos places a scale handle on the unrotated bounds.
func handleLocalPos(b shape.Bounds, h Handle) geometry.Point2D {
	switch h {
	case HandleN:
		return geometry.Pt(b.CenterX, b.Y)
	case HandleS:
		return geometry.Pt(b.CenterX, b.Y+b.Height)
	case HandleE:
		return geometry.Pt(b.X+b.Width, b.CenterY)
	case HandleW:
		return geometry.Pt(b.X, b.CenterY)
	case HandleNW:
		return geometry.Pt(b.X, b.Y)
	case HandleNE:
		return geometry.Pt(b.X+b.Width, b.Y)
	case HandleSE:
		return geometry.Pt(b.X+b.Width, b.Y+b.Height)
	case HandleSW:
		return geometry.Pt(b.X, b.Y+b.Height)
	}
	return b.Center()
}

// rotationHandleLocalPos hovers the rotation handle above the top edge.
func rotationHandleLocalPos(b shape.Bounds, scale float64) geometry.Point2D {
	return geometry.Pt(b.CenterX, b.Y-rotationHandleOffsetPx/scale)
}

// localFrame maps a world point into the frame the element's handles are
// laid out in. Door bounds already live in world space (they box the rotated
// door points), so doors skip the inverse rotation.
func localFrame(el element.Element, p geometry.Point2D) geometry.Point2D {
	if el.Kind == element.KindDoor {
		return p
	}
	return shape.ToLocal(el, p)
}

// HandleAt returns the handle under a world point, rotation handle first.
func HandleAt(el element.Element, world geometry.Point2D, scale float64) Handle {
	b := shape.BoundsOf(el)
	local := localFrame(el, world)
	tol := handleHitRadiusPx / scale

	if Rotatable(el.Kind) && local.Distance(rotationHandleLocalPos(b, scale)) <= tol {
		return HandleRotate
	}
	for _, h := range ScaleHandles(el.Kind) {
		if local.Distance(handleLocalPos(b, h)) <= tol {
			return h
		}
	}
	return HandleNone
}

// HandlePoint is a handle with its world-space position, for rendering.
type HandlePoint struct {
	Handle Handle
	Point  geometry.Point2D
}

// HandlePoints enumerates an element's handles in world space.
func HandlePoints(el element.Element, scale float64) []HandlePoint {
	b := shape.BoundsOf(el)
	center := b.Center()

	toWorld := func(local geometry.Point2D) geometry.Point2D {
		if el.Kind == element.KindDoor || el.Rotation == 0 {
			return local
		}
		return local.RotateAround(center, el.Rotation)
	}

	var out []HandlePoint
	for _, h := range ScaleHandles(el.Kind) {
		out = append(out, HandlePoint{h, toWorld(handleLocalPos(b, h))})
	}
	if Rotatable(el.Kind) {
		out = append(out, HandlePoint{HandleRotate, toWorld(rotationHandleLocalPos(b, scale))})
	}
	return out
}
