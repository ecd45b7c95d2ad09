package element

// Patch is a partial update to an element. Nil fields are left untouched;
// fields that do not apply to the element's kind are ignored. Geometry
// changes recompute the derived centimeter fields.
type Patch struct {
	X        *float64
	Y        *float64
	Rotation *float64

	Stroke      *string
	Fill        *string
	Opacity     *float64
	StrokeWidth *float64
	Label       *string
	Locked      *bool

	// Line
	X2 *float64
	Y2 *float64

	// Rectangle / Door
	Width *float64
	// Rectangle
	Height *float64

	// Circle
	Radius *float64

	// Text
	Content    *string
	FontSize   *float64
	FontFamily *string

	// Door
	Attachment      *Attachment
	ClearAttachment bool
}

// F returns a pointer to a float value, for building patches.
func F(v float64) *float64 { return &v }

// S returns a pointer to a string value, for building patches.
func S(v string) *string { return &v }

// B returns a pointer to a bool value, for building patches.
func B(v bool) *bool { return &v }

// Apply applies the patch to the element in place. The element's derived
// unit fields are recomputed when its pixel geometry changed.
func (el *Element) Apply(p Patch, pixelsPerUnit float64) {
	geomChanged := false

	if p.X != nil {
		el.X = *p.X
		geomChanged = true
	}
	if p.Y != nil {
		el.Y = *p.Y
		geomChanged = true
	}
	if p.Rotation != nil {
		el.Rotation = *p.Rotation
	}
	if p.Stroke != nil {
		el.Stroke = *p.Stroke
	}
	if p.Fill != nil {
		el.Fill = *p.Fill
	}
	if p.Opacity != nil {
		el.Opacity = clamp01(*p.Opacity)
	}
	if p.StrokeWidth != nil && *p.StrokeWidth > 0 {
		el.StrokeWidth = *p.StrokeWidth
	}
	if p.Label != nil {
		el.Label = *p.Label
	}
	if p.Locked != nil {
		el.Locked = *p.Locked
	}

	switch el.Kind {
	case KindLine:
		if el.Line != nil {
			if p.X2 != nil {
				el.Line.X2 = *p.X2
				geomChanged = true
			}
			if p.Y2 != nil {
				el.Line.Y2 = *p.Y2
				geomChanged = true
			}
		}
	case KindRectangle:
		if el.Rect != nil {
			if p.Width != nil {
				el.Rect.Width = *p.Width
				geomChanged = true
			}
			if p.Height != nil {
				el.Rect.Height = *p.Height
				geomChanged = true
			}
		}
	case KindCircle:
		if el.Circle != nil && p.Radius != nil {
			el.Circle.Radius = *p.Radius
			geomChanged = true
		}
	case KindText:
		if el.Text != nil {
			if p.Content != nil {
				el.Text.Content = *p.Content
			}
			if p.FontSize != nil && *p.FontSize > 0 {
				el.Text.FontSize = *p.FontSize
			}
			if p.FontFamily != nil {
				el.Text.FontFamily = *p.FontFamily
			}
		}
	case KindDoor:
		if el.Door != nil {
			if p.Width != nil {
				el.Door.Width = *p.Width
				geomChanged = true
			}
			if p.ClearAttachment {
				el.Door.Attachment = nil
			} else if p.Attachment != nil {
				att := *p.Attachment
				el.Door.Attachment = &att
			}
		}
	}

	if geomChanged {
		el.RecomputeUnits(pixelsPerUnit)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
