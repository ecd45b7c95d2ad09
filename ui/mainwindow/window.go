// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"floor-sketch/internal/app"
	"floor-sketch/internal/controller"
	"floor-sketch/internal/project"
	"floor-sketch/internal/version"
	"floor-sketch/pkg/geometry"
	"floor-sketch/ui/canvas"
	"floor-sketch/ui/panels"
	"floor-sketch/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const (
	prefKeyLastDir = "lastDirectory"
	planExtension  = ".floorplan"
	planIndexFile  = "plans.db"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	canvas    *canvas.PlanCanvas
	sheet     *panels.PropertySheet
	prefs     *prefs.Prefs
	store     *project.Store
	statusBar *widget.Label

	toolButtons map[controller.Tool]*widget.Button
	recentMenu  *fyne.Menu
	mainMenu    *fyne.MainMenu

	shiftHeld bool
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, ctrl *controller.Controller, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Floor Sketch")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
		prefs:  p,
	}

	store, err := project.OpenStore(filepath.Join(p.Dir(), planIndexFile))
	if err != nil {
		log.Printf("plan index unavailable: %v", err)
	} else {
		mw.store = store
	}

	mw.canvas = canvas.New(state, ctrl)
	mw.sheet = panels.NewPropertySheet(state)

	mw.setupUI()
	mw.setupMenus()
	mw.setupKeyboard()
	mw.setupEventHandlers()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.statusBar = widget.NewLabel("Ready")

	toolbar := mw.createToolbar()

	canvasArea := container.NewBorder(
		toolbar, // top
		nil, nil, nil,
		mw.canvas, // center
	)

	split := container.NewHSplit(mw.sheet.Widget(), canvasArea)
	split.SetOffset(0.22)

	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar), // bottom
		nil, nil,
		split,
	)

	mw.SetContent(content)
	mw.Resize(fyne.NewSize(1200, 800))
}

// createToolbar builds the tool palette and zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	tools := []struct {
		label string
		tool  controller.Tool
	}{
		{"Select", controller.ToolSelect},
		{"Line", controller.ToolLine},
		{"Rectangle", controller.ToolRectangle},
		{"Circle", controller.ToolCircle},
		{"Text", controller.ToolText},
		{"Door", controller.ToolDoor},
	}

	mw.toolButtons = make(map[controller.Tool]*widget.Button)
	box := container.NewHBox()
	for _, t := range tools {
		tool := t.tool
		btn := widget.NewButton(t.label, func() {
			mw.state.SetTool(tool)
		})
		mw.toolButtons[tool] = btn
		box.Add(btn)
	}
	mw.highlightTool(mw.state.ActiveTool())

	box.Add(widget.NewSeparator())
	box.Add(widget.NewButton("-", mw.onZoomOut))
	box.Add(widget.NewButton("+", mw.onZoomIn))
	box.Add(widget.NewButton("1:1", mw.onResetZoom))

	return box
}

func (mw *MainWindow) highlightTool(active controller.Tool) {
	for tool, btn := range mw.toolButtons {
		if tool == active {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.MediumImportance
		}
		btn.Refresh()
	}
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	mw.recentMenu = fyne.NewMenu("Open Recent")
	recentItem := fyne.NewMenuItem("Open Recent", nil)
	recentItem.ChildMenu = mw.recentMenu
	mw.rebuildRecents()

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Plan", mw.onNewPlan),
		fyne.NewMenuItem("Open...", mw.onOpenPlan),
		recentItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save", mw.onSavePlan),
		fyne.NewMenuItem("Save As...", mw.onSavePlanAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Plan Settings...", mw.onPlanSettings),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", mw.onUndo),
		fyne.NewMenuItem("Redo", mw.onRedo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Select All", func() { mw.key(controller.KeyA, true) }),
		fyne.NewMenuItem("Copy", func() { mw.key(controller.KeyC, true) }),
		fyne.NewMenuItem("Paste", func() { mw.key(controller.KeyV, true) }),
		fyne.NewMenuItem("Duplicate", func() { mw.key(controller.KeyD, true) }),
		fyne.NewMenuItem("Delete", func() { mw.key(controller.KeyDelete, false) }),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", mw.onZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.onZoomOut),
		fyne.NewMenuItem("Actual Size", mw.onResetZoom),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.mainMenu = fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu)
	mw.SetMainMenu(mw.mainMenu)
}

// setupKeyboard wires the window's key events into the controller. Plain keys
// arrive through TypedKey; Ctrl combinations are registered as canvas
// shortcuts so fyne routes them past focused widgets consistently.
func (mw *MainWindow) setupKeyboard() {
	mw.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		key, ok := mapKey(ev.Name)
		if !ok {
			return
		}
		mw.canvas.Controller().KeyDown(key,
			controller.Modifiers{Shift: mw.shiftHeld}, mw.inputFocused())
		mw.canvas.Refresh()
	})

	// TypedKey carries no modifier state, so shift is tracked from raw key
	// transitions for the coarse arrow nudge.
	if dc, ok := mw.Canvas().(desktop.Canvas); ok {
		dc.SetOnKeyDown(func(ev *fyne.KeyEvent) {
			if ev.Name == desktop.KeyShiftLeft || ev.Name == desktop.KeyShiftRight {
				mw.shiftHeld = true
			}
		})
		dc.SetOnKeyUp(func(ev *fyne.KeyEvent) {
			if ev.Name == desktop.KeyShiftLeft || ev.Name == desktop.KeyShiftRight {
				mw.shiftHeld = false
			}
		})
	}

	shortcuts := []struct {
		name fyne.KeyName
		fn   func()
	}{
		{fyne.KeyA, func() { mw.key(controller.KeyA, true) }},
		{fyne.KeyC, func() { mw.key(controller.KeyC, true) }},
		{fyne.KeyV, func() { mw.key(controller.KeyV, true) }},
		{fyne.KeyD, func() { mw.key(controller.KeyD, true) }},
		{fyne.KeyS, mw.onSavePlan},
		{fyne.KeyZ, mw.onUndo},
		{fyne.KeyY, mw.onRedo},
	}
	for _, sc := range shortcuts {
		fn := sc.fn
		mw.Canvas().AddShortcut(&desktop.CustomShortcut{
			KeyName:  sc.name,
			Modifier: fyne.KeyModifierControl,
		}, func(fyne.Shortcut) {
			if mw.inputFocused() {
				return
			}
			fn()
			mw.canvas.Refresh()
		})
	}
}

// key forwards a shortcut to the controller as if typed on the canvas.
func (mw *MainWindow) key(k controller.Key, ctrl bool) {
	mw.canvas.Controller().KeyDown(k, controller.Modifiers{Ctrl: ctrl}, mw.inputFocused())
	mw.canvas.Refresh()
}

// inputFocused reports whether a text entry currently owns the keyboard, in
// which case editing shortcuts must not fire.
func (mw *MainWindow) inputFocused() bool {
	_, ok := mw.Canvas().Focused().(*widget.Entry)
	return ok
}

func mapKey(name fyne.KeyName) (controller.Key, bool) {
	switch name {
	case fyne.KeyEscape:
		return controller.KeyEscape, true
	case fyne.KeyDelete:
		return controller.KeyDelete, true
	case fyne.KeyBackspace:
		return controller.KeyBackspace, true
	case fyne.KeyUp:
		return controller.KeyUp, true
	case fyne.KeyDown:
		return controller.KeyDown, true
	case fyne.KeyLeft:
		return controller.KeyLeft, true
	case fyne.KeyRight:
		return controller.KeyRight, true
	}
	return "", false
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventProjectLoaded, func(data interface{}) {
		mw.refreshTitle()
		if path, ok := data.(string); ok && path != "" {
			mw.updateStatus("Opened " + filepath.Base(path))
		}
	})

	mw.state.On(app.EventProjectSaved, func(data interface{}) {
		mw.refreshTitle()
		if path, ok := data.(string); ok {
			mw.updateStatus("Saved " + filepath.Base(path))
			mw.indexPlan(path)
		}
	})

	mw.state.On(app.EventModified, func(interface{}) {
		mw.refreshTitle()
	})

	mw.state.On(app.EventToolChanged, func(data interface{}) {
		tool, _ := data.(controller.Tool)
		mw.highlightTool(tool)
		mw.updateStatus("Tool: " + string(tool))
	})

	mw.state.On(app.EventViewChanged, func(interface{}) {
		mw.updateStatus(fmt.Sprintf("Zoom: %.0f%%", mw.state.View().Scale*100))
	})
}

func (mw *MainWindow) refreshTitle() {
	title := "Floor Sketch - " + mw.state.PlanName()
	if mw.state.Modified {
		title += " *"
	}
	mw.SetTitle(title)
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// indexPlan records a saved plan in the recents index.
func (mw *MainWindow) indexPlan(path string) {
	if mw.store == nil {
		return
	}
	f := &project.File{
		ID:       mw.state.PlanID(),
		Name:     mw.state.PlanName(),
		Created:  mw.state.PlanCreated(),
		Modified: time.Now().UTC(),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := mw.store.Add(ctx, f, path); err != nil {
		log.Printf("index plan: %v", err)
		return
	}
	mw.rebuildRecents()
}

// rebuildRecents repopulates the Open Recent submenu from the plan index.
func (mw *MainWindow) rebuildRecents() {
	if mw.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	entries, err := mw.store.List(ctx)
	if err != nil {
		log.Printf("list plans: %v", err)
		return
	}

	items := make([]*fyne.MenuItem, 0, len(entries))
	for _, e := range entries {
		path := e.Path
		items = append(items, fyne.NewMenuItem(e.Name, func() {
			mw.openPath(path)
		}))
	}
	if len(items) == 0 {
		empty := fyne.NewMenuItem("(no recent plans)", nil)
		empty.Disabled = true
		items = append(items, empty)
	}
	mw.recentMenu.Items = items
	if mw.mainMenu != nil {
		mw.mainMenu.Refresh()
	}
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefKeyLastDir, filepath.Dir(filePath))
	if err := mw.prefs.Save(); err != nil {
		log.Printf("save preferences: %v", err)
	}
}

// Menu action handlers

func (mw *MainWindow) onNewPlan() {
	mw.state.NewPlan()
	mw.refreshTitle()
	mw.updateStatus("New plan")
}

func (mw *MainWindow) onOpenPlan() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		mw.openPath(reader.URI().Path())
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{planExtension}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) openPath(path string) {
	mw.saveLastDir(path)
	if err := mw.state.LoadProject(path); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.canvas.Refresh()
}

func (mw *MainWindow) onSavePlan() {
	if mw.state.ProjectPath == "" {
		mw.onSavePlanAs()
		return
	}
	if err := mw.state.SaveProject(mw.state.ProjectPath); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSavePlanAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != planExtension {
			path += planExtension
		}
		mw.saveLastDir(path)
		if err := mw.state.SaveProject(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName(mw.state.PlanName() + planExtension)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// onPlanSettings edits the plan name and the pixel-to-centimeter scale.
func (mw *MainWindow) onPlanSettings() {
	name := widget.NewEntry()
	name.SetText(mw.state.PlanName())
	ppu := widget.NewEntry()
	ppu.SetText(fmt.Sprintf("%g", mw.state.PixelsPerUnit()))

	items := []*widget.FormItem{
		widget.NewFormItem("Name", name),
		widget.NewFormItem("Pixels per cm", ppu),
	}
	d := dialog.NewForm("Plan Settings", "Apply", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		if name.Text != "" && name.Text != mw.state.PlanName() {
			mw.state.SetPlanName(name.Text)
			mw.refreshTitle()
		}
		var v float64
		if _, err := fmt.Sscanf(ppu.Text, "%g", &v); err == nil && v > 0 {
			mw.state.SetPixelsPerUnit(v)
		}
	}, mw.Window)

	// Escape dismisses the dialog before it reaches the canvas.
	mw.state.SetOverlayDismisser(func() bool {
		d.Hide()
		return true
	})
	d.SetOnClosed(func() {
		mw.state.SetOverlayDismisser(nil)
	})
	d.Show()
}

func (mw *MainWindow) onUndo() {
	if !mw.state.Undo() {
		mw.updateStatus("Nothing to undo")
	}
}

func (mw *MainWindow) onRedo() {
	if !mw.state.Redo() {
		mw.updateStatus("Nothing to redo")
	}
}

// canvasCenter is the zoom anchor for the menu and toolbar zoom actions.
func (mw *MainWindow) canvasCenter() geometry.Point2D {
	size := mw.canvas.Size()
	return geometry.Pt(float64(size.Width)/2, float64(size.Height)/2)
}

func (mw *MainWindow) onZoomIn() {
	mw.state.SetView(mw.state.View().ZoomAt(mw.canvasCenter(), -1))
}

func (mw *MainWindow) onZoomOut() {
	mw.state.SetView(mw.state.View().ZoomAt(mw.canvasCenter(), 1))
}

func (mw *MainWindow) onResetZoom() {
	mw.state.SetView(mw.state.View().WithScale(1.0))
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Floor Sketch",
		fmt.Sprintf("Floor Sketch v%s\n\n"+
			"A 2D floor plan drawing tool.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
