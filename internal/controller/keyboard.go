package controller

import (
	"floor-sketch/internal/element"
)

// Key is a normalized keyboard key name as delivered by the host.
type Key string

const (
	KeyEscape    Key = "escape"
	KeyDelete    Key = "delete"
	KeyBackspace Key = "backspace"
	KeyUp        Key = "up"
	KeyDown      Key = "down"
	KeyLeft      Key = "left"
	KeyRight     Key = "right"
	KeyA         Key = "a"
	KeyC         Key = "c"
	KeyD         Key = "d"
	KeyV         Key = "v"
)

// Nudge distances in world pixels.
const (
	nudgeStep      = 1.0
	nudgeStepLarge = 10.0
)

// pasteOffset displaces pasted and duplicated elements so the copy is
// visibly distinct from the original.
const pasteOffset = 10.0

// KeyDown dispatches a keyboard shortcut. inputFocused suppresses everything
// except Escape so shortcuts never fight a text field. Escape dismisses an
// open overlay first; only when none is open does it clear the selection and
// reset the tool.
func (c *Controller) KeyDown(key Key, mods Modifiers, inputFocused bool) {
	if key == KeyEscape {
		if c.host.DismissOverlay() {
			return
		}
		// A mutation gesture interrupted mid-flight still owns the host's
		// pending history snapshot; commit it now or the next gesture's
		// checkpoint would push it out of order.
		switch c.sess.mode {
		case Dragging, Rotating, Scaling:
			c.host.SaveHistoryCheckpoint()
		}
		c.host.SetSelection(nil)
		c.host.SetTool(ToolSelect)
		c.reset()
		return
	}
	if inputFocused {
		return
	}

	switch {
	case mods.Ctrl && key == KeyA:
		var ids []string
		for _, el := range c.host.Elements() {
			ids = append(ids, el.ID)
		}
		c.host.SetSelection(ids)
	case mods.Ctrl && key == KeyC:
		c.copySelection()
	case mods.Ctrl && key == KeyV:
		c.paste()
	case mods.Ctrl && key == KeyD:
		c.duplicateSelection()
	case key == KeyDelete || key == KeyBackspace:
		c.deleteSelection()
	case key == KeyUp:
		c.nudge(0, -1, mods)
	case key == KeyDown:
		c.nudge(0, 1, mods)
	case key == KeyLeft:
		c.nudge(-1, 0, mods)
	case key == KeyRight:
		c.nudge(1, 0, mods)
	}
}

func (c *Controller) copySelection() {
	els := c.host.Elements()
	c.clipboard = c.clipboard[:0]
	for _, id := range c.host.Selection() {
		if el, ok := element.FindByID(els, id); ok {
			c.clipboard = append(c.clipboard, el.Clone())
		}
	}
}

func (c *Controller) paste() {
	if len(c.clipboard) == 0 {
		return
	}
	pasted := make([]element.Element, len(c.clipboard))
	ids := make([]string, len(c.clipboard))
	for i, el := range c.clipboard {
		pasted[i] = el.Duplicate(pasteOffset, pasteOffset)
		ids[i] = pasted[i].ID
	}
	c.host.AddElements(pasted)
	c.host.SetSelection(ids)
}

func (c *Controller) duplicateSelection() {
	els := c.host.Elements()
	var dups []element.Element
	var ids []string
	for _, id := range c.host.Selection() {
		if el, ok := element.FindByID(els, id); ok {
			d := el.Duplicate(pasteOffset, pasteOffset)
			dups = append(dups, d)
			ids = append(ids, d.ID)
		}
	}
	if len(dups) == 0 {
		return
	}
	c.host.AddElements(dups)
	c.host.SetSelection(ids)
}

// deleteSelection removes the selected elements, leaving locked ones in
// place.
func (c *Controller) deleteSelection() {
	var ids []string
	for _, el := range c.selectedUnlocked() {
		ids = append(ids, el.ID)
	}
	if len(ids) == 0 {
		return
	}
	c.host.DeleteElements(ids)
	c.host.SetSelection(nil)
}

// nudge moves the selected unlocked elements by an arrow-key step, shift for
// the coarse step. Each element gets an absolute position patch so repeated
// key events stay idempotent per frame.
func (c *Controller) nudge(dx, dy float64, mods Modifiers) {
	step := nudgeStep
	if mods.Shift {
		step = nudgeStepLarge
	}
	dx *= step
	dy *= step

	moved := c.selectedUnlocked()
	if len(moved) == 0 {
		return
	}
	for _, el := range moved {
		p := element.Patch{X: element.F(el.X + dx), Y: element.F(el.Y + dy)}
		if el.Line != nil {
			p.X2 = element.F(el.Line.X2 + dx)
			p.Y2 = element.F(el.Line.Y2 + dy)
		}
		c.host.UpdateElement(el.ID, p, false)
	}
}
