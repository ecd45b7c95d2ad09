package controller

import (
	"math"
	"strings"

	"floor-sketch/internal/element"
	"floor-sketch/internal/hittest"
	"floor-sketch/internal/shape"
	"floor-sketch/internal/snap"
	"floor-sketch/pkg/geometry"
)

// Scale floors: rectangle edges reject updates below 10px to prevent
// inversion, text never shrinks below a legible size.
const (
	minRectSizePx = 10.0
	minFontSize   = 6.0
)

// PointerDown starts a gesture. Entry guards run in priority order: panning
// buttons, rotation/scale handles on the sole selection, element hit,
// empty-canvas click, then the active drawing tool.
func (c *Controller) PointerDown(screen geometry.Point2D, btn Button, mods Modifiers) {
	c.lastScreen = screen
	vt := c.host.View()
	world := vt.ToWorld(screen)

	if btn == ButtonMiddle || btn == ButtonRight || (btn == ButtonLeft && mods.Alt) {
		c.sess = session{mode: Panning, origin: world, screenOrigin: screen}
		return
	}
	if btn != ButtonLeft {
		return
	}

	switch tool := c.host.ActiveTool(); tool {
	case ToolSelect:
		c.downSelect(world, screen, vt.Scale, mods)
	case ToolLine, ToolRectangle, ToolCircle:
		c.sess = session{mode: Drawing, origin: world, screenOrigin: screen}
		c.updatePreview(world)
	case ToolText:
		el := element.NewText(world.X, world.Y, defaultTextContent, element.DefaultFontSize)
		c.host.AddElement(el)
		c.host.SetSelection([]string{el.ID})
		c.host.SetTool(ToolSelect)
	case ToolDoor:
		res := snap.FindNearestAttachable(c.host.Elements(), world, vt.Scale)
		el := element.NewDoor(res.Point.X, res.Point.Y, DefaultDoorWidth, res.Rotation,
			c.host.PixelsPerUnit(), res.Attachment)
		c.host.AddElement(el)
		c.host.SetSelection([]string{el.ID})
		c.host.SetTool(ToolSelect)
		c.snapPreview = nil
	}
}

func (c *Controller) downSelect(world, screen geometry.Point2D, scale float64, mods Modifiers) {
	// Handles win over the element body, but only on a sole unlocked
	// selection.
	if el, ok := c.soleSelected(); ok && !el.Locked {
		switch h := HandleAt(el, world, scale); {
		case h == HandleRotate:
			center := shape.BoundsOf(el).Center()
			c.sess = session{
				mode:         Rotating,
				origin:       world,
				screenOrigin: screen,
				lastAngle:    math.Atan2(world.Y-center.Y, world.X-center.X),
			}
			return
		case h != HandleNone:
			b := shape.BoundsOf(el)
			fontSize := element.DefaultFontSize
			if el.Text != nil {
				fontSize = el.Text.FontSize
			}
			c.sess = session{
				mode:          Scaling,
				origin:        world,
				screenOrigin:  screen,
				handle:        h,
				startBounds:   b.Rect(),
				startFontSize: fontSize,
			}
			return
		}
	}

	if hit, ok := hittest.FindElementAt(c.host.Elements(), world, scale); ok {
		sel := c.host.Selection()
		switch {
		case mods.Shift && contains(sel, hit.ID):
			c.host.SetSelection(remove(sel, hit.ID))
			return
		case mods.Shift:
			c.host.SetSelection(append(sel, hit.ID))
		case !contains(sel, hit.ID):
			// A click inside an existing multi-selection keeps it so the
			// group can be dragged together.
			c.host.SetSelection([]string{hit.ID})
		}
		if hit.Locked {
			return
		}
		c.beginDragging(world, screen)
		return
	}

	if !mods.Shift {
		c.host.SetSelection(nil)
	}
	c.sess = session{mode: PotentialSelect, origin: world, screenOrigin: screen}
}

func (c *Controller) beginDragging(world, screen geometry.Point2D) {
	moved := c.selectedUnlocked()
	if len(moved) == 0 {
		return
	}

	starts := make(map[string]startPos, len(moved))
	for _, el := range moved {
		sp := startPos{X: el.X, Y: el.Y}
		if el.Line != nil {
			sp.X2 = el.Line.X2
			sp.Y2 = el.Line.Y2
		}
		starts[el.ID] = sp
	}

	c.sess = session{
		mode:         Dragging,
		origin:       world,
		screenOrigin: screen,
		starts:       starts,
	}

	// A door dragged on its own slides along its wall; in a group it moves
	// by raw delta like everything else.
	if len(moved) == 1 && moved[0].Kind == element.KindDoor {
		c.sess.doorID = moved[0].ID
		c.sess.doorStartRotation = moved[0].Rotation
	}
}

// PointerMove advances the gesture in flight, or refreshes the door ghost
// while the door tool hovers.
func (c *Controller) PointerMove(screen geometry.Point2D, mods Modifiers) {
	vt := c.host.View()
	world := vt.ToWorld(screen)

	switch c.sess.mode {
	case Idle:
		if c.host.ActiveTool() == ToolDoor {
			res := snap.FindNearestAttachable(c.host.Elements(), world, vt.Scale)
			c.snapPreview = &res
		}
	case Panning:
		c.host.SetView(vt.Pan(screen.X-c.lastScreen.X, screen.Y-c.lastScreen.Y))
	case Drawing:
		c.updatePreview(world)
	case Dragging:
		c.moveDrag(world, vt.Scale)
	case Rotating:
		c.moveRotate(world)
	case Scaling:
		c.moveScale(world)
	case PotentialSelect:
		if screen.Distance(c.sess.screenOrigin) > boxSelectUpgradePx {
			c.sess.mode = BoxSelecting
			c.updateBox(screen)
		}
	case BoxSelecting:
		c.updateBox(screen)
	}

	c.lastScreen = screen
}

// PointerUp commits the gesture: a drawn preview becomes a real element,
// modal gestures record their single undo checkpoint, a selection box
// resolves to a selection. Gestures are committed, never rolled back.
func (c *Controller) PointerUp(screen geometry.Point2D, mods Modifiers) {
	switch c.sess.mode {
	case Drawing:
		if c.preview != nil {
			c.host.AddElement(*c.preview)
			c.host.SetSelection([]string{c.preview.ID})
			c.host.SetTool(ToolSelect)
		}
	case Dragging:
		c.finishDoorDrag()
		c.host.SaveHistoryCheckpoint()
	case Rotating, Scaling:
		c.host.SaveHistoryCheckpoint()
	case BoxSelecting:
		c.commitBoxSelect()
	}
	c.reset()
}

// PointerLeave is treated exactly like a release at the last known position.
func (c *Controller) PointerLeave() {
	if c.sess.mode != Idle {
		c.PointerUp(c.lastScreen, Modifiers{})
	}
	c.snapPreview = nil
}

// Scroll applies a wheel-zoom step anchored at the cursor.
func (c *Controller) Scroll(screen geometry.Point2D, wheelDelta float64) {
	c.host.SetView(c.host.View().ZoomAt(screen, wheelDelta))
}

func (c *Controller) updatePreview(world geometry.Point2D) {
	o := c.sess.origin
	ppu := c.host.PixelsPerUnit()

	var el element.Element
	switch c.host.ActiveTool() {
	case ToolLine:
		el = element.NewLine(o.X, o.Y, world.X, world.Y, ppu)
	case ToolRectangle:
		r := geometry.NewRect(o.X, o.Y, world.X-o.X, world.Y-o.Y).Normalized()
		el = element.NewRectangle(r.X, r.Y, r.Width, r.Height, ppu)
	case ToolCircle:
		el = element.NewCircle(o.X, o.Y, world.Distance(o), ppu)
	default:
		return
	}
	if c.preview != nil {
		el.ID = c.preview.ID
	}
	c.preview = &el
}

func (c *Controller) moveDrag(world geometry.Point2D, scale float64) {
	delta := world.Sub(c.sess.origin)
	els := c.host.Elements()

	for id, sp := range c.sess.starts {
		target := geometry.Pt(sp.X+delta.X, sp.Y+delta.Y)

		if id == c.sess.doorID {
			c.moveDoor(els, id, target, scale)
			continue
		}

		p := element.Patch{X: element.F(target.X), Y: element.F(target.Y)}
		if el, ok := element.FindByID(els, id); ok && el.Kind == element.KindLine {
			p.X2 = element.F(sp.X2 + delta.X)
			p.Y2 = element.F(sp.Y2 + delta.Y)
		}
		c.host.UpdateElement(id, p, true)
	}
}

// moveDoor repositions a solo-dragged door. An attached door slides along
// its wall; an unattached one re-snaps every frame, reverting to its
// pre-drag rotation whenever it leaves the threshold. The attachment itself
// is only committed on release.
func (c *Controller) moveDoor(els []element.Element, id string, target geometry.Point2D, scale float64) {
	door, ok := element.FindByID(els, id)
	if !ok {
		return
	}

	if door.Door != nil && door.Door.Attachment != nil {
		if pos, rot, ok := snap.ConstrainToAttachment(els, door.Door.Attachment, target); ok {
			c.host.UpdateElement(id, element.Patch{
				X: element.F(pos.X), Y: element.F(pos.Y), Rotation: element.F(rot),
			}, true)
			return
		}
		// Dangling attachment: drop it and fall through to free movement.
		c.host.UpdateElement(id, element.Patch{ClearAttachment: true}, true)
	}

	res := snap.FindNearestAttachable(els, target, scale)
	c.sess.pendingSnap = &res

	p := element.Patch{X: element.F(res.Point.X), Y: element.F(res.Point.Y)}
	if res.Snapped() {
		p.Rotation = element.F(res.Rotation)
	} else {
		p.Rotation = element.F(c.sess.doorStartRotation)
	}
	c.host.UpdateElement(id, p, true)
}

func (c *Controller) finishDoorDrag() {
	if c.sess.doorID == "" || c.sess.pendingSnap == nil {
		return
	}
	if c.sess.pendingSnap.Snapped() {
		c.host.UpdateElement(c.sess.doorID, element.Patch{
			Attachment: c.sess.pendingSnap.Attachment,
		}, true)
	}
}

func (c *Controller) moveRotate(world geometry.Point2D) {
	el, ok := c.soleSelected()
	if !ok || el.Locked {
		return
	}
	center := shape.BoundsOf(el).Center()
	angle := math.Atan2(world.Y-center.Y, world.X-center.X)
	// Accumulate the per-move delta instead of recomputing from the gesture
	// start, so crossing the atan2 branch cut stays continuous.
	c.host.UpdateElement(el.ID, element.Patch{
		Rotation: element.F(el.Rotation + angle - c.sess.lastAngle),
	}, true)
	c.sess.lastAngle = angle
}

func (c *Controller) moveScale(world geometry.Point2D) {
	el, ok := c.soleSelected()
	if !ok || el.Locked {
		return
	}

	switch el.Kind {
	case element.KindRectangle:
		c.scaleRect(el, world)
	case element.KindText:
		c.scaleText(el, world)
	case element.KindCircle:
		r := world.Distance(el.Position())
		c.host.UpdateElement(el.ID, element.Patch{Radius: element.F(r)}, true)
	}
}

func (c *Controller) scaleRect(el element.Element, world geometry.Point2D) {
	sb := c.sess.startBounds
	local := world
	if el.Rotation != 0 {
		local = world.RotateAround(sb.Center(), -el.Rotation)
	}

	letters := string(c.sess.handle)
	x, y := sb.X, sb.Y
	w, h := sb.Width, sb.Height
	right, bottom := x+w, y+h

	if strings.Contains(letters, "e") {
		w = local.X - x
	}
	if strings.Contains(letters, "w") {
		x = local.X
		w = right - local.X
	}
	if strings.Contains(letters, "s") {
		h = local.Y - y
	}
	if strings.Contains(letters, "n") {
		y = local.Y
		h = bottom - local.Y
	}

	// Each axis is accepted or rejected independently; a rejected axis
	// keeps its previous value rather than inverting through the floor.
	var p element.Patch
	if w != sb.Width && w >= minRectSizePx {
		p.X = element.F(x)
		p.Width = element.F(w)
	}
	if h != sb.Height && h >= minRectSizePx {
		p.Y = element.F(y)
		p.Height = element.F(h)
	}
	if p.Width == nil && p.Height == nil {
		return
	}
	c.host.UpdateElement(el.ID, p, true)
}

func (c *Controller) scaleText(el element.Element, world geometry.Point2D) {
	d := world.Sub(c.sess.origin)
	var growth float64
	switch c.sess.handle {
	case HandleE:
		growth = d.X
	case HandleSE:
		growth = (d.X + d.Y) / 2
	case HandleNE:
		growth = (d.X - d.Y) / 2
	default:
		return
	}
	size := c.sess.startFontSize + growth
	if size < minFontSize {
		size = minFontSize
	}
	c.host.UpdateElement(el.ID, element.Patch{FontSize: element.F(size)}, true)
}

func (c *Controller) updateBox(screen geometry.Point2D) {
	o := c.sess.screenOrigin
	r := geometry.NewRect(o.X, o.Y, screen.X-o.X, screen.Y-o.Y).Normalized()
	c.boxRect = &r
}

func (c *Controller) commitBoxSelect() {
	if c.boxRect == nil {
		return
	}
	vt := c.host.View()
	tl := vt.ToWorld(geometry.Pt(c.boxRect.X, c.boxRect.Y))
	br := vt.ToWorld(geometry.Pt(c.boxRect.X+c.boxRect.Width, c.boxRect.Y+c.boxRect.Height))
	box := geometry.NewRect(tl.X, tl.Y, br.X-tl.X, br.Y-tl.Y).Normalized()

	var ids []string
	for _, el := range c.host.Elements() {
		if boxIncludes(el, box) {
			ids = append(ids, el.ID)
		}
	}
	c.host.SetSelection(ids)
}

// boxIncludes applies the per-kind inclusion rule: circles by bounding-square
// intersection, everything else by a characteristic corner point landing
// inside the box.
func boxIncludes(el element.Element, box geometry.Rect) bool {
	if el.Kind == element.KindCircle {
		return shape.BoundsOf(el).Rect().Intersects(box)
	}
	for _, p := range shape.RotatedCorners(el) {
		if box.Contains(p) {
			return true
		}
	}
	return false
}
