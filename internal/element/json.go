package element

import (
	"encoding/json"
	"fmt"
)

// elementJSON is the flat wire schema shared with the storage collaborator.
// Kind-specific fields are pointers so that zero values (a degenerate
// rectangle, a zero-length line) survive a round trip while fields of other
// kinds stay absent. Derived centimeter fields are persisted as-is: the
// exported format is read back without recomputation.
type elementJSON struct {
	ID          string  `json:"id"`
	Type        Kind    `json:"type"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Stroke      string  `json:"stroke"`
	Fill        string  `json:"fill"`
	Opacity     float64 `json:"opacity"`
	StrokeWidth float64 `json:"strokeWidth"`
	Rotation    float64 `json:"rotation,omitempty"`
	Label       string  `json:"label,omitempty"`
	Locked      bool    `json:"locked,omitempty"`

	X2       *float64 `json:"x2,omitempty"`
	Y2       *float64 `json:"y2,omitempty"`
	LengthCm *float64 `json:"lengthCm,omitempty"`

	Width    *float64 `json:"width,omitempty"`
	Height   *float64 `json:"height,omitempty"`
	WidthCm  *float64 `json:"widthCm,omitempty"`
	HeightCm *float64 `json:"heightCm,omitempty"`

	Radius   *float64 `json:"radius,omitempty"`
	RadiusCm *float64 `json:"radiusCm,omitempty"`

	Content    *string  `json:"content,omitempty"`
	FontSize   *float64 `json:"fontSize,omitempty"`
	FontFamily *string  `json:"fontFamily,omitempty"`

	Attachment *Attachment `json:"attachment,omitempty"`
}

// MarshalJSON implements json.Marshaler using the flat wire schema.
func (el Element) MarshalJSON() ([]byte, error) {
	w := elementJSON{
		ID:          el.ID,
		Type:        el.Kind,
		X:           el.X,
		Y:           el.Y,
		Stroke:      el.Stroke,
		Fill:        el.Fill,
		Opacity:     el.Opacity,
		StrokeWidth: el.StrokeWidth,
		Rotation:    el.Rotation,
		Label:       el.Label,
		Locked:      el.Locked,
	}

	switch el.Kind {
	case KindLine:
		if el.Line == nil {
			return nil, fmt.Errorf("line element %s has no line payload", el.ID)
		}
		w.X2 = &el.Line.X2
		w.Y2 = &el.Line.Y2
		w.LengthCm = &el.Line.LengthCm
	case KindRectangle:
		if el.Rect == nil {
			return nil, fmt.Errorf("rectangle element %s has no rect payload", el.ID)
		}
		w.Width = &el.Rect.Width
		w.Height = &el.Rect.Height
		w.WidthCm = &el.Rect.WidthCm
		w.HeightCm = &el.Rect.HeightCm
	case KindCircle:
		if el.Circle == nil {
			return nil, fmt.Errorf("circle element %s has no circle payload", el.ID)
		}
		w.Radius = &el.Circle.Radius
		w.RadiusCm = &el.Circle.RadiusCm
	case KindText:
		if el.Text == nil {
			return nil, fmt.Errorf("text element %s has no text payload", el.ID)
		}
		w.Content = &el.Text.Content
		w.FontSize = &el.Text.FontSize
		w.FontFamily = &el.Text.FontFamily
	case KindDoor:
		if el.Door == nil {
			return nil, fmt.Errorf("door element %s has no door payload", el.ID)
		}
		w.Width = &el.Door.Width
		w.WidthCm = &el.Door.WidthCm
		w.Attachment = el.Door.Attachment
	default:
		return nil, fmt.Errorf("unknown element kind %q", el.Kind)
	}

	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler for the flat wire schema.
func (el *Element) UnmarshalJSON(data []byte) error {
	var w elementJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*el = Element{
		ID:          w.ID,
		Kind:        w.Type,
		X:           w.X,
		Y:           w.Y,
		Stroke:      w.Stroke,
		Fill:        w.Fill,
		Opacity:     w.Opacity,
		StrokeWidth: w.StrokeWidth,
		Rotation:    w.Rotation,
		Label:       w.Label,
		Locked:      w.Locked,
	}

	switch w.Type {
	case KindLine:
		el.Line = &LineData{
			X2:       deref(w.X2),
			Y2:       deref(w.Y2),
			LengthCm: deref(w.LengthCm),
		}
	case KindRectangle:
		el.Rect = &RectData{
			Width:    deref(w.Width),
			Height:   deref(w.Height),
			WidthCm:  deref(w.WidthCm),
			HeightCm: deref(w.HeightCm),
		}
	case KindCircle:
		el.Circle = &CircleData{
			Radius:   deref(w.Radius),
			RadiusCm: deref(w.RadiusCm),
		}
	case KindText:
		text := &TextData{FontSize: DefaultFontSize, FontFamily: DefaultFontFamily}
		if w.Content != nil {
			text.Content = *w.Content
		}
		if w.FontSize != nil {
			text.FontSize = *w.FontSize
		}
		if w.FontFamily != nil {
			text.FontFamily = *w.FontFamily
		}
		el.Text = text
	case KindDoor:
		el.Door = &DoorData{
			Width:      deref(w.Width),
			WidthCm:    deref(w.WidthCm),
			Attachment: w.Attachment,
		}
	default:
		return fmt.Errorf("unknown element kind %q", w.Type)
	}

	return nil
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
