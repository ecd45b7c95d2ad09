// Package app provides application lifecycle management, shared state, and
// events.
package app

import (
	"sync"
	"time"

	"floor-sketch/internal/controller"
	"floor-sketch/internal/element"
	"floor-sketch/internal/history"
	"floor-sketch/internal/project"
	"floor-sketch/internal/view"
)

// State holds the application state: the open plan, its elements, viewport,
// selection, and undo history. It is the controller's Host.
type State struct {
	mu sync.RWMutex

	// Project identity
	ProjectPath string
	Modified    bool
	planID      string
	planName    string
	created     time.Time

	// Plan content
	elements      []element.Element
	vt            view.Transform
	pixelsPerUnit float64
	labelFontSize float64

	// Interaction
	selection []string
	tool      controller.Tool

	// Undo. pending holds the pre-gesture snapshot captured lazily on the
	// first skip-history update; SaveHistoryCheckpoint pushes it.
	hist    *history.Stack
	pending []element.Element

	overlayDismisser func() bool

	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventProjectLoaded EventType = iota
	EventProjectSaved
	EventElementsChanged
	EventSelectionChanged
	EventViewChanged
	EventToolChanged
	EventHistoryChanged
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

var _ controller.Host = (*State)(nil)

// NewState creates an application state holding an empty untitled plan.
func NewState() *State {
	return &State{
		planName:      "Untitled",
		created:       time.Now().UTC(),
		vt:            view.Default(),
		pixelsPerUnit: project.DefaultPixelsPerUnit,
		labelFontSize: project.DefaultLabelFontSize,
		tool:          controller.ToolSelect,
		hist:          history.New(history.DefaultLimit),
		listeners:     make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the plan as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// Elements returns the current element list in render order.
func (s *State) Elements() []element.Element {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.elements
}

// View returns the active viewport transform.
func (s *State) View() view.Transform {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vt
}

// SetView replaces the viewport transform.
func (s *State) SetView(vt view.Transform) {
	s.mu.Lock()
	s.vt = vt
	s.Modified = true
	s.mu.Unlock()
	s.Emit(EventViewChanged, vt)
}

// Selection returns the selected element ids.
func (s *State) Selection() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection
}

// SetSelection replaces the selection.
func (s *State) SetSelection(ids []string) {
	s.mu.Lock()
	s.selection = ids
	s.mu.Unlock()
	s.Emit(EventSelectionChanged, ids)
}

// ActiveTool returns the active drawing tool.
func (s *State) ActiveTool() controller.Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tool
}

// SetTool switches the active drawing tool.
func (s *State) SetTool(t controller.Tool) {
	s.mu.Lock()
	changed := s.tool != t
	s.tool = t
	s.mu.Unlock()
	if changed {
		s.Emit(EventToolChanged, t)
	}
}

// PixelsPerUnit returns the plan's world-pixel to centimeter ratio.
func (s *State) PixelsPerUnit() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pixelsPerUnit
}

// LabelFontSize returns the measurement label font size.
func (s *State) LabelFontSize() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.labelFontSize
}

// SetPixelsPerUnit changes the scale ratio and recomputes every element's
// derived measurements.
func (s *State) SetPixelsPerUnit(ppu float64) {
	if ppu <= 0 {
		return
	}
	s.mu.Lock()
	s.pixelsPerUnit = ppu
	for i := range s.elements {
		s.elements[i].RecomputeUnits(ppu)
	}
	s.Modified = true
	s.mu.Unlock()
	s.Emit(EventElementsChanged, nil)
}

// AddElement appends an element, recording an undo step.
func (s *State) AddElement(el element.Element) {
	s.AddElements([]element.Element{el})
}

// AddElements appends elements, recording a single undo step.
func (s *State) AddElements(els []element.Element) {
	if len(els) == 0 {
		return
	}
	s.mu.Lock()
	s.hist.Push(s.elements)
	s.elements = append(s.elements, els...)
	s.Modified = true
	s.mu.Unlock()
	s.Emit(EventElementsChanged, nil)
	s.Emit(EventHistoryChanged, nil)
}

// UpdateElement applies a partial update to one element. With skipHistory
// the update is an intermediate gesture frame: the pre-gesture state is
// snapshotted once and held until SaveHistoryCheckpoint.
func (s *State) UpdateElement(id string, p element.Patch, skipHistory bool) {
	s.mu.Lock()
	if skipHistory {
		if s.pending == nil {
			s.pending = element.CloneAll(s.elements)
		}
	} else {
		s.hist.Push(s.elements)
	}
	for i := range s.elements {
		if s.elements[i].ID == id {
			s.elements[i].Apply(p, s.pixelsPerUnit)
			break
		}
	}
	s.Modified = true
	s.mu.Unlock()
	s.Emit(EventElementsChanged, nil)
	if !skipHistory {
		s.Emit(EventHistoryChanged, nil)
	}
}

// UpdateElements applies the same patch to several elements as one undo
// step.
func (s *State) UpdateElements(ids []string, p element.Patch) {
	if len(ids) == 0 {
		return
	}
	s.mu.Lock()
	s.hist.Push(s.elements)
	for i := range s.elements {
		for _, id := range ids {
			if s.elements[i].ID == id {
				s.elements[i].Apply(p, s.pixelsPerUnit)
				break
			}
		}
	}
	s.Modified = true
	s.mu.Unlock()
	s.Emit(EventElementsChanged, nil)
	s.Emit(EventHistoryChanged, nil)
}

// DeleteElements removes elements by id as one undo step.
func (s *State) DeleteElements(ids []string) {
	if len(ids) == 0 {
		return
	}
	s.mu.Lock()
	s.hist.Push(s.elements)
	kept := s.elements[:0]
	for _, el := range s.elements {
		drop := false
		for _, id := range ids {
			if el.ID == id {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, el)
		}
	}
	s.elements = kept
	s.Modified = true
	s.mu.Unlock()
	s.Emit(EventElementsChanged, nil)
	s.Emit(EventHistoryChanged, nil)
}

// SaveHistoryCheckpoint commits the pending pre-gesture snapshot as one undo
// step. A no-op when no skip-history update happened since the last call.
func (s *State) SaveHistoryCheckpoint() {
	s.mu.Lock()
	if s.pending == nil {
		s.mu.Unlock()
		return
	}
	s.hist.Push(s.pending)
	s.pending = nil
	s.mu.Unlock()
	s.Emit(EventHistoryChanged, nil)
}

// Undo reverts the last recorded change.
func (s *State) Undo() bool {
	s.mu.Lock()
	els, ok := s.hist.Undo(s.elements)
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.elements = els
	s.pending = nil
	s.selection = pruneSelection(s.selection, els)
	s.Modified = true
	s.mu.Unlock()
	s.Emit(EventElementsChanged, nil)
	s.Emit(EventSelectionChanged, s.Selection())
	s.Emit(EventHistoryChanged, nil)
	return true
}

// Redo reapplies the last undone change.
func (s *State) Redo() bool {
	s.mu.Lock()
	els, ok := s.hist.Redo(s.elements)
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.elements = els
	s.pending = nil
	s.selection = pruneSelection(s.selection, els)
	s.Modified = true
	s.mu.Unlock()
	s.Emit(EventElementsChanged, nil)
	s.Emit(EventSelectionChanged, s.Selection())
	s.Emit(EventHistoryChanged, nil)
	return true
}

// CanUndo reports whether an undo step is available.
func (s *State) CanUndo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hist.CanUndo()
}

// CanRedo reports whether a redo step is available.
func (s *State) CanRedo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hist.CanRedo()
}

// pruneSelection drops ids that no longer resolve to an element.
func pruneSelection(ids []string, els []element.Element) []string {
	var out []string
	for _, id := range ids {
		if _, ok := element.FindByID(els, id); ok {
			out = append(out, id)
		}
	}
	return out
}

// SetOverlayDismisser installs the hook Escape uses to close a transient
// surface before it falls through to clearing the selection.
func (s *State) SetOverlayDismisser(fn func() bool) {
	s.mu.Lock()
	s.overlayDismisser = fn
	s.mu.Unlock()
}

// DismissOverlay closes an open transient surface, reporting whether one
// was open.
func (s *State) DismissOverlay() bool {
	s.mu.RLock()
	fn := s.overlayDismisser
	s.mu.RUnlock()
	if fn == nil {
		return false
	}
	return fn()
}

// PlanID returns the open plan's identity, or "" before the first save.
func (s *State) PlanID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.planID
}

// PlanCreated returns the plan's creation time.
func (s *State) PlanCreated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.created
}

// NewPlan discards the open plan and starts an empty untitled one.
func (s *State) NewPlan() {
	s.mu.Lock()
	s.ProjectPath = ""
	s.planID = ""
	s.planName = "Untitled"
	s.created = time.Now().UTC()
	s.elements = nil
	s.vt = view.Default()
	s.pixelsPerUnit = project.DefaultPixelsPerUnit
	s.labelFontSize = project.DefaultLabelFontSize
	s.selection = nil
	s.tool = controller.ToolSelect
	s.pending = nil
	s.hist.Clear()
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventProjectLoaded, "")
	s.Emit(EventElementsChanged, nil)
	s.Emit(EventViewChanged, s.View())
}

// PlanName returns the open plan's display name.
func (s *State) PlanName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.planName
}

// SetPlanName renames the open plan.
func (s *State) SetPlanName(name string) {
	s.mu.Lock()
	s.planName = name
	s.Modified = true
	s.mu.Unlock()
	s.Emit(EventModified, true)
}

// LoadProject loads a plan document from the specified path.
func (s *State) LoadProject(path string) error {
	f, err := project.Load(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.ProjectPath = path
	s.planID = f.ID
	s.planName = f.Name
	s.created = f.Created
	s.elements = f.Elements
	s.vt = f.View
	s.pixelsPerUnit = f.PixelsPerUnit
	s.labelFontSize = f.LabelFontSize
	s.selection = nil
	s.tool = controller.ToolSelect
	s.pending = nil
	s.hist.Clear()
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventProjectLoaded, path)
	s.Emit(EventElementsChanged, nil)
	s.Emit(EventViewChanged, f.View)
	return nil
}

// SaveProject saves the plan to the specified path.
func (s *State) SaveProject(path string) error {
	s.mu.RLock()
	f := &project.File{
		Version:       project.FileVersion,
		ID:            s.planID,
		Name:          s.planName,
		Created:       s.created,
		PixelsPerUnit: s.pixelsPerUnit,
		LabelFontSize: s.labelFontSize,
		View:          s.vt,
		Elements:      element.CloneAll(s.elements),
	}
	s.mu.RUnlock()

	if f.ID == "" {
		fresh := project.New(f.Name)
		f.ID = fresh.ID
		f.Created = fresh.Created
	}

	if err := f.Save(path); err != nil {
		return err
	}

	s.mu.Lock()
	s.ProjectPath = path
	s.planID = f.ID
	s.created = f.Created
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventProjectSaved, path)
	return nil
}
