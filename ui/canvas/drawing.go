// Software rendering of plan elements into the raster image.
package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"floor-sketch/internal/controller"
	"floor-sketch/internal/element"
	"floor-sketch/internal/shape"
	"floor-sketch/internal/view"
	"floor-sketch/pkg/colorutil"
	"floor-sketch/pkg/geometry"
)

const (
	gridStepWorld = 50.0 // world pixels between grid lines
	doorArcSteps  = 16
	handleSizePx  = 7
)

var (
	backgroundColor = color.RGBA{R: 250, G: 250, B: 248, A: 255}
	gridColor       = color.RGBA{R: 228, G: 230, B: 235, A: 255}
	labelColor      = color.RGBA{R: 90, G: 90, B: 90, A: 255}
)

func (pc *PlanCanvas) render(w, h int) image.Image {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), &image.Uniform{backgroundColor}, image.Point{}, draw.Src)

	vt := pc.state.View()
	drawGrid(out, vt)

	for _, el := range pc.state.Elements() {
		drawElement(out, el, vt)
		drawMeasurement(out, el, vt)
	}

	if ghost, ok := pc.ctrl.SnapPreview(); ok {
		drawDoorGhost(out, ghost.Point, ghost.Rotation, vt)
	}
	if preview, ok := pc.ctrl.Preview(); ok {
		drawElement(out, preview, vt)
	}

	els := pc.state.Elements()
	for _, id := range pc.state.Selection() {
		if el, ok := element.FindByID(els, id); ok {
			drawSelection(out, el, vt)
		}
	}

	if box, ok := pc.ctrl.SelectionBox(); ok {
		drawDashedRect(out, box, colorutil.BoxSelect)
	}

	return out
}

func drawGrid(out *image.RGBA, vt view.Transform) {
	b := out.Bounds()
	topLeft := vt.ToWorld(geometry.Pt(0, 0))
	bottomRight := vt.ToWorld(geometry.Pt(float64(b.Dx()), float64(b.Dy())))

	startX := math.Floor(topLeft.X/gridStepWorld) * gridStepWorld
	for x := startX; x <= bottomRight.X; x += gridStepWorld {
		sx := int(vt.ToScreen(geometry.Pt(x, 0)).X)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			if sx >= b.Min.X && sx < b.Max.X {
				out.Set(sx, y, gridColor)
			}
		}
	}
	startY := math.Floor(topLeft.Y/gridStepWorld) * gridStepWorld
	for y := startY; y <= bottomRight.Y; y += gridStepWorld {
		sy := int(vt.ToScreen(geometry.Pt(0, y)).Y)
		for x := b.Min.X; x < b.Max.X; x++ {
			if sy >= b.Min.Y && sy < b.Max.Y {
				out.Set(x, sy, gridColor)
			}
		}
	}
}

func drawElement(out *image.RGBA, el element.Element, vt view.Transform) {
	stroke := colorutil.WithOpacity(colorutil.ParseHex(el.Stroke), el.Opacity)
	thickness := int(math.Max(1, el.StrokeWidth*vt.Scale))

	switch el.Kind {
	case element.KindLine:
		a := vt.ToScreen(el.Position())
		b := vt.ToScreen(el.EndPoint())
		drawLinePx(out, a, b, stroke, thickness)

	case element.KindRectangle, element.KindText:
		if el.Kind == element.KindText {
			drawText(out, el, vt, stroke)
			return
		}
		corners := toScreen(shape.RotatedCorners(el), vt)
		if !colorutil.IsNone(el.Fill) {
			fill := colorutil.WithOpacity(colorutil.ParseHex(el.Fill), el.Opacity)
			fillPolygon(out, corners, fill)
		}
		drawPolygonOutline(out, corners, stroke, thickness)

	case element.KindCircle:
		var r float64
		if el.Circle != nil {
			r = el.Circle.Radius
		}
		center := vt.ToScreen(el.Position())
		var fill color.RGBA
		hasFill := !colorutil.IsNone(el.Fill)
		if hasFill {
			fill = colorutil.WithOpacity(colorutil.ParseHex(el.Fill), el.Opacity)
		}
		drawCirclePx(out, center, r*vt.Scale, stroke, fill, hasFill, thickness)

	case element.KindDoor:
		drawDoor(out, el, vt, stroke, thickness)
	}
}

func drawDoor(out *image.RGBA, el element.Element, vt view.Transform, stroke color.RGBA, thickness int) {
	pts := shape.DoorPointsOf(el)
	hinge := vt.ToScreen(pts.Hinge)

	// Wall opening and open leaf.
	drawLinePx(out, hinge, vt.ToScreen(pts.Latch), stroke, thickness)
	drawLinePx(out, hinge, vt.ToScreen(pts.ArcEnd), stroke, thickness)

	var width float64
	if el.Door != nil {
		width = el.Door.Width
	}
	drawDoorArc(out, pts.Hinge, width, el.Rotation, vt, stroke)
}

// drawDoorArc draws the swing arc from the latch to the open leaf end as a
// sampled polyline.
func drawDoorArc(out *image.RGBA, hinge geometry.Point2D, width, rotation float64, vt view.Transform, col color.RGBA) {
	prev := geometry.Point2D{}
	for i := 0; i <= doorArcSteps; i++ {
		t := shape.DoorLeafAngle * float64(i) / doorArcSteps
		local := geometry.Pt(width*math.Cos(t), -width*math.Sin(t))
		world := local.Rotate(rotation).Add(hinge)
		cur := vt.ToScreen(world)
		if i > 0 {
			drawLinePx(out, prev, cur, col, 1)
		}
		prev = cur
	}
}

func drawDoorGhost(out *image.RGBA, hinge geometry.Point2D, rotation float64, vt view.Transform) {
	ghost := element.NewDoor(hinge.X, hinge.Y, controller.DefaultDoorWidth, rotation, 1, nil)
	ghost.ID = "" // transient, never hits the element list
	pts := shape.DoorPointsOf(ghost)
	h := vt.ToScreen(pts.Hinge)
	drawLinePx(out, h, vt.ToScreen(pts.Latch), colorutil.Ghost, 2)
	drawLinePx(out, h, vt.ToScreen(pts.ArcEnd), colorutil.Ghost, 2)
	drawDoorArc(out, hinge, controller.DefaultDoorWidth, rotation, vt, colorutil.Ghost)
}

func drawText(out *image.RGBA, el element.Element, vt view.Transform, col color.RGBA) {
	content := ""
	if el.Text != nil {
		content = el.Text.Content
	}
	anchor := vt.ToScreen(el.Position())
	drawString(out, content, anchor, col)

	if el.Rotation != 0 {
		// The raster font cannot rotate; mark the rotated footprint so the
		// shape is still visible where hit-testing expects it.
		corners := toScreen(shape.RotatedCorners(el), vt)
		drawPolygonOutline(out, corners, colorutil.WithOpacity(col, 0.3), 1)
	}
}

// drawMeasurement annotates an element with its real-world size.
func drawMeasurement(out *image.RGBA, el element.Element, vt view.Transform) {
	var label string
	var at geometry.Point2D

	switch el.Kind {
	case element.KindLine:
		if el.Line == nil {
			return
		}
		label = fmt.Sprintf("%.1f cm", el.Line.LengthCm)
		at = el.Position().Add(el.EndPoint()).Scale(0.5)
	case element.KindRectangle:
		if el.Rect == nil {
			return
		}
		label = fmt.Sprintf("%.1f x %.1f cm", el.Rect.WidthCm, el.Rect.HeightCm)
		at = shape.BoundsOf(el).Center()
	case element.KindCircle:
		if el.Circle == nil {
			return
		}
		label = fmt.Sprintf("r %.1f cm", el.Circle.RadiusCm)
		at = el.Position()
	case element.KindDoor:
		if el.Door == nil {
			return
		}
		label = fmt.Sprintf("%.1f cm", el.Door.WidthCm)
		at = shape.BoundsOf(el).Center()
	default:
		return
	}

	if el.Label != "" {
		label = el.Label + "  " + label
	}
	screen := vt.ToScreen(at)
	drawString(out, label, geometry.Pt(screen.X, screen.Y-6), labelColor)
}

func drawSelection(out *image.RGBA, el element.Element, vt view.Transform) {
	switch el.Kind {
	case element.KindLine:
		drawHandleSquare(out, vt.ToScreen(el.Position()))
		drawHandleSquare(out, vt.ToScreen(el.EndPoint()))
	case element.KindCircle:
		b := shape.BoundsOf(el).Rect()
		drawDashedRect(out, screenRect(b, vt), colorutil.Selection)
	default:
		corners := toScreen(shape.RotatedCorners(el), vt)
		drawDashedPolygon(out, corners, colorutil.Selection)
	}

	for _, hp := range controller.HandlePoints(el, vt.Scale) {
		drawHandleSquare(out, vt.ToScreen(hp.Point))
	}
}

// ---- raster primitives ----

func toScreen(pts []geometry.Point2D, vt view.Transform) []geometry.Point2D {
	out := make([]geometry.Point2D, len(pts))
	for i, p := range pts {
		out[i] = vt.ToScreen(p)
	}
	return out
}

func screenRect(r geometry.Rect, vt view.Transform) geometry.Rect {
	tl := vt.ToScreen(geometry.Pt(r.X, r.Y))
	return geometry.NewRect(tl.X, tl.Y, r.Width*vt.Scale, r.Height*vt.Scale)
}

// drawLinePx draws a line between two points using Bresenham's algorithm.
func drawLinePx(out *image.RGBA, a, b geometry.Point2D, col color.RGBA, thickness int) {
	bounds := out.Bounds()
	x1, y1 := int(a.X), int(a.Y)
	x2, y2 := int(b.X), int(b.Y)

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		for t := -thickness / 2; t <= thickness/2; t++ {
			for s := -thickness / 2; s <= thickness/2; s++ {
				px, py := x1+s, y1+t
				if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
					blendSet(out, px, py, col)
				}
			}
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func drawPolygonOutline(out *image.RGBA, pts []geometry.Point2D, col color.RGBA, thickness int) {
	n := len(pts)
	for i := 0; i < n; i++ {
		drawLinePx(out, pts[i], pts[(i+1)%n], col, thickness)
	}
}

// fillPolygon fills a polygon using a scanline algorithm.
func fillPolygon(out *image.RGBA, pts []geometry.Point2D, col color.RGBA) {
	if len(pts) < 3 {
		return
	}
	bounds := out.Bounds()

	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	for y := int(minY); y <= int(maxY); y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}

		var xs []float64
		n := len(pts)
		for i := 0; i < n; i++ {
			p1 := pts[i]
			p2 := pts[(i+1)%n]
			if (p1.Y <= float64(y) && p2.Y > float64(y)) ||
				(p2.Y <= float64(y) && p1.Y > float64(y)) {
				t := (float64(y) - p1.Y) / (p2.Y - p1.Y)
				xs = append(xs, p1.X+t*(p2.X-p1.X))
			}
		}

		for i := 0; i < len(xs)-1; i++ {
			for j := i + 1; j < len(xs); j++ {
				if xs[j] < xs[i] {
					xs[i], xs[j] = xs[j], xs[i]
				}
			}
		}

		for i := 0; i+1 < len(xs); i += 2 {
			for x := int(xs[i]); x <= int(xs[i+1]); x++ {
				if x >= bounds.Min.X && x < bounds.Max.X {
					blendSet(out, x, y, col)
				}
			}
		}
	}
}

// drawCirclePx draws a circle as a ring, optionally filled.
func drawCirclePx(out *image.RGBA, center geometry.Point2D, r float64, stroke, fill color.RGBA, hasFill bool, thickness int) {
	bounds := out.Bounds()
	r2 := r * r
	inner := r - float64(thickness)
	if inner < 0 {
		inner = 0
	}
	innerR2 := inner * inner

	for y := int(center.Y - r - 1); y <= int(center.Y+r+1); y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := int(center.X - r - 1); x <= int(center.X+r+1); x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx := float64(x) - center.X
			dy := float64(y) - center.Y
			dist2 := dx*dx + dy*dy

			switch {
			case dist2 <= r2 && dist2 >= innerR2:
				blendSet(out, x, y, stroke)
			case hasFill && dist2 < innerR2:
				blendSet(out, x, y, fill)
			}
		}
	}
}

const dashLength = 4

func drawDashedRect(out *image.RGBA, r geometry.Rect, col color.RGBA) {
	r = r.Normalized()
	c := r.Corners()
	drawDashedPolygon(out, c[:], col)
}

func drawDashedPolygon(out *image.RGBA, pts []geometry.Point2D, col color.RGBA) {
	n := len(pts)
	for i := 0; i < n; i++ {
		drawDashedLine(out, pts[i], pts[(i+1)%n], col)
	}
}

func drawDashedLine(out *image.RGBA, a, b geometry.Point2D, col color.RGBA) {
	length := a.Distance(b)
	if length == 0 {
		return
	}
	steps := int(length)
	for i := 0; i < steps; i++ {
		if (i/dashLength)%2 == 1 {
			continue
		}
		t := float64(i) / length
		p := geometry.Pt(a.X+(b.X-a.X)*t, a.Y+(b.Y-a.Y)*t)
		x, y := int(p.X), int(p.Y)
		if x >= out.Bounds().Min.X && x < out.Bounds().Max.X &&
			y >= out.Bounds().Min.Y && y < out.Bounds().Max.Y {
			out.Set(x, y, col)
		}
	}
}

func drawHandleSquare(out *image.RGBA, p geometry.Point2D) {
	bounds := out.Bounds()
	half := handleSizePx / 2
	cx, cy := int(p.X), int(p.Y)
	for y := cy - half; y <= cy+half; y++ {
		for x := cx - half; x <= cx+half; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
				continue
			}
			if x == cx-half || x == cx+half || y == cy-half || y == cy+half {
				out.Set(x, y, colorutil.Selection)
			} else {
				out.Set(x, y, colorutil.White)
			}
		}
	}
}

// drawString renders text with the fixed raster font, anchored at the
// baseline-left point.
func drawString(out *image.RGBA, s string, at geometry.Point2D, col color.RGBA) {
	if s == "" {
		return
	}
	d := font.Drawer{
		Dst:  out,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(int(at.X), int(at.Y)),
	}
	d.DrawString(s)
}

func blendSet(out *image.RGBA, x, y int, col color.RGBA) {
	if col.A == 255 {
		out.Set(x, y, col)
		return
	}
	dst := out.RGBAAt(x, y)
	out.Set(x, y, colorutil.Blend(dst, col))
}
