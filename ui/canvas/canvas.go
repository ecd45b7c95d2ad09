// Package canvas provides the drawing surface: a software-rendered raster
// of the plan plus the pointer wiring into the interaction controller.
package canvas

import (
	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"floor-sketch/internal/app"
	"floor-sketch/internal/controller"
	"floor-sketch/pkg/geometry"
)

// PlanCanvas renders the open plan and feeds pointer input to the
// controller.
type PlanCanvas struct {
	widget.BaseWidget

	state  *app.State
	ctrl   *controller.Controller
	raster *fynecanvas.Raster
}

var _ desktop.Mouseable = (*PlanCanvas)(nil)
var _ desktop.Hoverable = (*PlanCanvas)(nil)
var _ fyne.Scrollable = (*PlanCanvas)(nil)

// New creates the plan canvas bound to the application state.
func New(state *app.State, ctrl *controller.Controller) *PlanCanvas {
	pc := &PlanCanvas{state: state, ctrl: ctrl}
	pc.raster = fynecanvas.NewRaster(pc.render)
	pc.ExtendBaseWidget(pc)

	redraw := func(interface{}) { pc.Refresh() }
	state.On(app.EventElementsChanged, redraw)
	state.On(app.EventSelectionChanged, redraw)
	state.On(app.EventViewChanged, redraw)
	state.On(app.EventToolChanged, redraw)

	return pc
}

// CreateRenderer implements fyne.Widget.
func (pc *PlanCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(pc.raster)
}

// Refresh redraws the raster.
func (pc *PlanCanvas) Refresh() {
	pc.raster.Refresh()
	pc.BaseWidget.Refresh()
}

// Controller exposes the interaction controller for keyboard dispatch from
// the window.
func (pc *PlanCanvas) Controller() *controller.Controller {
	return pc.ctrl
}

// MouseDown implements desktop.Mouseable.
func (pc *PlanCanvas) MouseDown(ev *desktop.MouseEvent) {
	pc.ctrl.PointerDown(toPoint(ev.Position), toButton(ev.Button), toModifiers(ev.Modifier))
	pc.Refresh()
}

// MouseUp implements desktop.Mouseable.
func (pc *PlanCanvas) MouseUp(ev *desktop.MouseEvent) {
	pc.ctrl.PointerUp(toPoint(ev.Position), toModifiers(ev.Modifier))
	pc.Refresh()
}

// MouseIn implements desktop.Hoverable.
func (pc *PlanCanvas) MouseIn(ev *desktop.MouseEvent) {}

// MouseMoved implements desktop.Hoverable.
func (pc *PlanCanvas) MouseMoved(ev *desktop.MouseEvent) {
	pc.ctrl.PointerMove(toPoint(ev.Position), toModifiers(ev.Modifier))
	pc.Refresh()
}

// MouseOut implements desktop.Hoverable. Leaving the surface mid-gesture
// commits like a release.
func (pc *PlanCanvas) MouseOut() {
	pc.ctrl.PointerLeave()
	pc.Refresh()
}

// Scrolled implements fyne.Scrollable: the wheel zooms about the cursor.
func (pc *PlanCanvas) Scrolled(ev *fyne.ScrollEvent) {
	// Fyne reports wheel-up as positive DY; the transform treats positive
	// deltas as zoom out.
	pc.ctrl.Scroll(toPoint(ev.Position), float64(-ev.Scrolled.DY))
	pc.Refresh()
}

func toPoint(pos fyne.Position) geometry.Point2D {
	return geometry.Pt(float64(pos.X), float64(pos.Y))
}

func toButton(b desktop.MouseButton) controller.Button {
	switch b {
	case desktop.MouseButtonSecondary:
		return controller.ButtonRight
	case desktop.MouseButtonTertiary:
		return controller.ButtonMiddle
	default:
		return controller.ButtonLeft
	}
}

func toModifiers(m fyne.KeyModifier) controller.Modifiers {
	return controller.Modifiers{
		Shift: m&fyne.KeyModifierShift != 0,
		Ctrl:  m&fyne.KeyModifierControl != 0,
		Alt:   m&fyne.KeyModifierAlt != 0,
	}
}
