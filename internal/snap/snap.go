// Package snap finds the wall segment nearest to a point and computes the
// pose a door takes when attached to it. Walls are lines and rectangle
// sides; the nearest candidate within a zoom-scaled threshold wins.
package snap

import (
	"math"

	"floor-sketch/internal/element"
	"floor-sketch/internal/shape"
	"floor-sketch/pkg/geometry"
)

// baseThreshold is the snap distance in screen pixels; divided by the
// viewport scale so the feel is constant at any zoom.
const baseThreshold = 30.0

// Result is an attachment pose. When no candidate is within threshold,
// Point is the unsnapped input, Rotation is 0, Distance is +Inf and
// Attachment is nil.
type Result struct {
	Point      geometry.Point2D
	Rotation   float64
	Distance   float64
	Attachment *element.Attachment
}

// Snapped reports whether the result actually attached to a wall.
func (r Result) Snapped() bool {
	return r.Attachment != nil
}

// FindNearestAttachable scans every line and every rectangle side for the
// segment closest to p. Distance ties break in favor of the earliest
// candidate in element order.
func FindNearestAttachable(elements []element.Element, p geometry.Point2D, scale float64) Result {
	threshold := baseThreshold / scale

	best := Result{Point: p, Distance: math.Inf(1)}

	for _, el := range elements {
		segs := shape.WallSegments(el)
		for i, seg := range segs {
			closest := seg.ClosestPoint(p)
			dist := p.Distance(closest)
			if dist > threshold || dist >= best.Distance {
				continue
			}

			att := &element.Attachment{}
			if el.Kind == element.KindLine {
				att.LineID = el.ID
			} else {
				att.RectID = el.ID
				att.Side = shape.RectSideNames[i]
			}
			best = Result{
				Point:      closest,
				Rotation:   seg.Angle(),
				Distance:   dist,
				Attachment: att,
			}
		}
	}

	return best
}

// ResolveAttachment looks up the wall segment an attachment refers to.
// A dangling reference (deleted target, target of the wrong kind, unknown
// side) resolves to false: the attachment degrades to "unattached".
func ResolveAttachment(elements []element.Element, att *element.Attachment) (geometry.Segment, bool) {
	if att == nil {
		return geometry.Segment{}, false
	}

	if att.LineID != "" {
		el, ok := element.FindByID(elements, att.LineID)
		if !ok || el.Kind != element.KindLine {
			return geometry.Segment{}, false
		}
		return geometry.Seg(el.Position(), el.EndPoint()), true
	}

	if att.RectID != "" {
		el, ok := element.FindByID(elements, att.RectID)
		if !ok || el.Kind != element.KindRectangle {
			return geometry.Segment{}, false
		}
		segs := shape.WallSegments(el)
		for i, side := range shape.RectSideNames {
			if side == att.Side {
				return segs[i], true
			}
		}
	}

	return geometry.Segment{}, false
}

// ConstrainToAttachment slides an attached door along its wall: the pointer
// is projected onto the attached segment's carrier line and clamped to the
// segment's extent. Returns false when the attachment is absent or
// dangling, in which case the caller falls back to free positioning.
func ConstrainToAttachment(elements []element.Element, att *element.Attachment, p geometry.Point2D) (geometry.Point2D, float64, bool) {
	seg, ok := ResolveAttachment(elements, att)
	if !ok {
		return p, 0, false
	}
	return seg.ClosestPoint(p), seg.Angle(), true
}
