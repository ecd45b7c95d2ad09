// Package view provides the screen-to-world viewport transform: a uniform
// scale plus a pixel offset. The viewport never rotates.
package view

import (
	"floor-sketch/pkg/geometry"
)

// Scale limits for the viewport.
const (
	MinScale = 0.1
	MaxScale = 5.0
)

// Wheel zoom step factors.
const (
	zoomOutFactor = 0.9
	zoomInFactor  = 1.1
)

// Transform maps between screen pixels and world coordinates:
// screen = world*Scale + Offset. Values are small and copied freely; all
// mutating operations return a new Transform.
type Transform struct {
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

// Default returns the identity viewport.
func Default() Transform {
	return Transform{Scale: 1}
}

// ToWorld converts a screen point to world coordinates.
func (t Transform) ToWorld(screen geometry.Point2D) geometry.Point2D {
	return geometry.Pt(
		(screen.X-t.OffsetX)/t.Scale,
		(screen.Y-t.OffsetY)/t.Scale,
	)
}

// ToScreen converts a world point to screen coordinates.
func (t Transform) ToScreen(world geometry.Point2D) geometry.Point2D {
	return geometry.Pt(
		world.X*t.Scale+t.OffsetX,
		world.Y*t.Scale+t.OffsetY,
	)
}

// Affine returns the world-to-screen mapping as an affine transform, for
// renderers that batch-transform shape corners.
func (t Transform) Affine() geometry.AffineTransform {
	return geometry.Translation(t.OffsetX, t.OffsetY).
		Compose(geometry.Scaling(t.Scale, t.Scale))
}

// Pan shifts the viewport by a raw screen-space delta. The shift is
// scale-independent: dragging 10px pans 10px at any zoom.
func (t Transform) Pan(dx, dy float64) Transform {
	t.OffsetX += dx
	t.OffsetY += dy
	return t
}

// ZoomAt applies a wheel-zoom step anchored at the given screen position:
// the world point under the cursor stays under the cursor after rescaling.
// A positive wheel delta zooms out, negative zooms in.
func (t Transform) ZoomAt(cursor geometry.Point2D, wheelDelta float64) Transform {
	factor := zoomInFactor
	if wheelDelta > 0 {
		factor = zoomOutFactor
	}
	newScale := ClampScale(t.Scale * factor)
	ratio := newScale / t.Scale

	return Transform{
		Scale:   newScale,
		OffsetX: cursor.X - (cursor.X-t.OffsetX)*ratio,
		OffsetY: cursor.Y - (cursor.Y-t.OffsetY)*ratio,
	}
}

// WithScale returns the transform with the scale replaced and clamped,
// keeping the current offset.
func (t Transform) WithScale(scale float64) Transform {
	t.Scale = ClampScale(scale)
	return t
}

// ClampScale clamps a scale factor to the viewport limits.
func ClampScale(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}
