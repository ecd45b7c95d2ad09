// Package panels provides the side panels of the main window.
package panels

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"floor-sketch/internal/app"
	"floor-sketch/internal/element"
)

// PropertySheet displays and edits the properties of the selected element.
// Invalid numeric input is rejected: the entry reverts to the element's
// current value instead of propagating an error.
type PropertySheet struct {
	state *app.State
	box   *fyne.Container

	current string // selected element id, "" when not exactly one
}

// NewPropertySheet creates the property panel.
func NewPropertySheet(state *app.State) *PropertySheet {
	ps := &PropertySheet{
		state: state,
		box:   container.NewVBox(),
	}
	ps.refresh()

	state.On(app.EventSelectionChanged, func(_ interface{}) { ps.refresh() })
	state.On(app.EventElementsChanged, func(_ interface{}) { ps.refresh() })
	state.On(app.EventProjectLoaded, func(_ interface{}) { ps.refresh() })

	return ps
}

// Widget returns the panel widget for embedding.
func (ps *PropertySheet) Widget() fyne.CanvasObject {
	return container.NewVScroll(ps.box)
}

func (ps *PropertySheet) refresh() {
	sel := ps.state.Selection()
	switch {
	case len(sel) == 0:
		ps.current = ""
		ps.box.Objects = []fyne.CanvasObject{widget.NewLabel("No selection")}
	case len(sel) == 1:
		el, ok := element.FindByID(ps.state.Elements(), sel[0])
		if !ok {
			return
		}
		ps.current = el.ID
		ps.box.Objects = ps.buildFor(el)
	default:
		ps.current = ""
		ps.box.Objects = ps.buildShared(sel)
	}
	ps.box.Refresh()
}

// buildShared edits the style fields every kind carries, applied across the
// whole selection as one undo step.
func (ps *PropertySheet) buildShared(ids []string) []fyne.CanvasObject {
	stroke := widget.NewEntry()
	stroke.SetPlaceHolder(element.DefaultStroke)
	stroke.OnSubmitted = func(s string) {
		ps.state.UpdateElements(ids, element.Patch{Stroke: element.S(s)})
	}
	fill := widget.NewEntry()
	fill.SetPlaceHolder("none")
	fill.OnSubmitted = func(s string) {
		ps.state.UpdateElements(ids, element.Patch{Fill: element.S(s)})
	}
	opacity := widget.NewEntry()
	opacity.OnSubmitted = func(s string) {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			opacity.SetText("")
			return
		}
		ps.state.UpdateElements(ids, element.Patch{Opacity: element.F(v)})
	}
	locked := widget.NewCheck("Locked", func(v bool) {
		ps.state.UpdateElements(ids, element.Patch{Locked: element.B(v)})
	})

	return []fyne.CanvasObject{
		widget.NewLabel(fmt.Sprintf("%d elements selected", len(ids))),
		widget.NewForm(
			widget.NewFormItem("Stroke", stroke),
			widget.NewFormItem("Fill", fill),
			widget.NewFormItem("Opacity", opacity),
			widget.NewFormItem("", locked),
		),
	}
}

func (ps *PropertySheet) buildFor(el element.Element) []fyne.CanvasObject {
	items := []*widget.FormItem{
		widget.NewFormItem("Kind", widget.NewLabel(string(el.Kind))),
		widget.NewFormItem("X", ps.numberEntry(el.X, func(v float64) element.Patch {
			return element.Patch{X: element.F(v)}
		})),
		widget.NewFormItem("Y", ps.numberEntry(el.Y, func(v float64) element.Patch {
			return element.Patch{Y: element.F(v)}
		})),
	}

	switch el.Kind {
	case element.KindLine:
		items = append(items,
			widget.NewFormItem("X2", ps.numberEntry(el.Line.X2, func(v float64) element.Patch {
				return element.Patch{X2: element.F(v)}
			})),
			widget.NewFormItem("Y2", ps.numberEntry(el.Line.Y2, func(v float64) element.Patch {
				return element.Patch{Y2: element.F(v)}
			})),
			widget.NewFormItem("Length", widget.NewLabel(fmt.Sprintf("%.1f cm", el.Line.LengthCm))),
		)
	case element.KindRectangle:
		items = append(items,
			widget.NewFormItem("Width", ps.numberEntry(el.Rect.Width, func(v float64) element.Patch {
				return element.Patch{Width: element.F(v)}
			})),
			widget.NewFormItem("Height", ps.numberEntry(el.Rect.Height, func(v float64) element.Patch {
				return element.Patch{Height: element.F(v)}
			})),
			widget.NewFormItem("Size", widget.NewLabel(
				fmt.Sprintf("%.1f x %.1f cm", el.Rect.WidthCm, el.Rect.HeightCm))),
		)
	case element.KindCircle:
		items = append(items,
			widget.NewFormItem("Radius", ps.numberEntry(el.Circle.Radius, func(v float64) element.Patch {
				return element.Patch{Radius: element.F(v)}
			})),
			widget.NewFormItem("Radius", widget.NewLabel(fmt.Sprintf("%.1f cm", el.Circle.RadiusCm))),
		)
	case element.KindText:
		content := widget.NewEntry()
		content.SetText(el.Text.Content)
		content.OnSubmitted = func(s string) {
			ps.state.UpdateElement(ps.current, element.Patch{Content: element.S(s)}, false)
		}
		items = append(items,
			widget.NewFormItem("Text", content),
			widget.NewFormItem("Font size", ps.numberEntry(el.Text.FontSize, func(v float64) element.Patch {
				return element.Patch{FontSize: element.F(v)}
			})),
		)
	case element.KindDoor:
		items = append(items,
			widget.NewFormItem("Width", ps.numberEntry(el.Door.Width, func(v float64) element.Patch {
				return element.Patch{Width: element.F(v)}
			})),
			widget.NewFormItem("Opening", widget.NewLabel(fmt.Sprintf("%.1f cm", el.Door.WidthCm))),
		)
		if el.Door.Attachment != nil {
			detach := widget.NewButton("Detach from wall", func() {
				ps.state.UpdateElement(ps.current, element.Patch{ClearAttachment: true}, false)
			})
			items = append(items, widget.NewFormItem("Wall", detach))
		}
	}

	if el.Kind != element.KindCircle {
		items = append(items, widget.NewFormItem("Rotation",
			ps.numberEntry(el.Rotation, func(v float64) element.Patch {
				return element.Patch{Rotation: element.F(v)}
			})))
	}

	stroke := widget.NewEntry()
	stroke.SetText(el.Stroke)
	stroke.OnSubmitted = func(s string) {
		ps.state.UpdateElement(ps.current, element.Patch{Stroke: element.S(s)}, false)
	}
	fill := widget.NewEntry()
	fill.SetText(el.Fill)
	fill.OnSubmitted = func(s string) {
		ps.state.UpdateElement(ps.current, element.Patch{Fill: element.S(s)}, false)
	}
	label := widget.NewEntry()
	label.SetText(el.Label)
	label.OnSubmitted = func(s string) {
		ps.state.UpdateElement(ps.current, element.Patch{Label: element.S(s)}, false)
	}
	locked := widget.NewCheck("Locked", func(v bool) {
		ps.state.UpdateElement(ps.current, element.Patch{Locked: element.B(v)}, false)
	})
	locked.SetChecked(el.Locked)

	items = append(items,
		widget.NewFormItem("Stroke", stroke),
		widget.NewFormItem("Fill", fill),
		widget.NewFormItem("Stroke width", ps.numberEntry(el.StrokeWidth, func(v float64) element.Patch {
			return element.Patch{StrokeWidth: element.F(v)}
		})),
		widget.NewFormItem("Opacity", ps.numberEntry(el.Opacity, func(v float64) element.Patch {
			return element.Patch{Opacity: element.F(v)}
		})),
		widget.NewFormItem("Label", label),
		widget.NewFormItem("", locked),
	)

	return []fyne.CanvasObject{widget.NewForm(items...)}
}

// numberEntry builds an entry that commits a patch on submit and reverts to
// the last valid value when the text does not parse.
func (ps *PropertySheet) numberEntry(value float64, patch func(float64) element.Patch) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(formatNumber(value))
	e.OnSubmitted = func(s string) {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			e.SetText(formatNumber(value))
			return
		}
		ps.state.UpdateElement(ps.current, patch(v), false)
	}
	return e
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
