package editor

import (
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"github.com/bloodmagesoftware/brushwork/geom"
	"github.com/bloodmagesoftware/brushwork/level"
)

var (
	roomColor      = color.NRGBA{R: 70, G: 90, B: 110, A: 255}
	wallColor      = color.NRGBA{R: 230, G: 230, B: 230, A: 255}
	partitionColor = color.NRGBA{R: 230, G: 160, B: 60, A: 255}
	pendingColor   = color.NRGBA{R: 100, G: 200, B: 255, A: 200}
	axisColor      = color.NRGBA{R: 80, G: 80, B: 80, A: 255}
)

// toScreen converts a world position to canvas pixels. World y points up.
func (e *Editor) toScreen(size image.Point, p geom.Vector) f32.Point {
	scale := e.gridCellSize * e.zoom
	centerX := float32(size.X) / 2.0
	centerY := float32(size.Y) / 2.0
	return f32.Point{
		X: centerX + e.viewOffsetX + float32(p.X)*scale,
		Y: centerY + e.viewOffsetY - float32(p.Y)*scale,
	}
}

// toWorld converts canvas pixels to a world position
func (e *Editor) toWorld(size image.Point, x, y float32) geom.Vector {
	scale := e.gridCellSize * e.zoom
	centerX := float32(size.X) / 2.0
	centerY := float32(size.Y) / 2.0
	return geom.Vector{
		X: float64((x - centerX - e.viewOffsetX) / scale),
		Y: float64(-(y - centerY - e.viewOffsetY) / scale),
	}
}

// layoutCanvas renders the main canvas area where level editing happens
func (e *Editor) layoutCanvas(gtx layout.Context) layout.Dimensions {
	return layout.Background{}.Layout(gtx,
		func(gtx layout.Context) layout.Dimensions {
			defer clip.Rect{Max: gtx.Constraints.Max}.Push(gtx.Ops).Pop()
			paint.ColorOp{Color: color.NRGBA{R: 30, G: 30, B: 30, A: 255}}.Add(gtx.Ops)
			paint.PaintOp{}.Add(gtx.Ops)
			return layout.Dimensions{Size: gtx.Constraints.Max}
		},
		func(gtx layout.Context) layout.Dimensions {
			// Handle pointer input for panning, zooming and placing points
			e.handleCanvasInput(gtx)

			// Clip all drawing operations to the canvas bounds
			defer clip.Rect{Max: gtx.Constraints.Max}.Push(gtx.Ops).Pop()

			e.drawAxes(gtx)
			e.drawGeometry(gtx, e.geometry())
			e.drawPending(gtx)
			return layout.Dimensions{Size: gtx.Constraints.Max}
		},
	)
}

// handleCanvasInput processes mouse/pointer events for panning and zooming
func (e *Editor) handleCanvasInput(gtx layout.Context) {
	// Register for pointer input events
	area := clip.Rect{Max: gtx.Constraints.Max}.Push(gtx.Ops)
	event.Op(gtx.Ops, e)
	area.Pop()

	size := gtx.Constraints.Max

	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  e,
			Kinds:   pointer.Press | pointer.Release | pointer.Drag | pointer.Scroll,
			ScrollY: pointer.ScrollRange{Min: -100, Max: 100},
		})
		if !ok {
			break
		}

		pe, ok := ev.(pointer.Event)
		if !ok {
			continue
		}

		// Ignore events outside canvas bounds
		if pe.Position.X < 0 || pe.Position.X > float32(size.X) || pe.Position.Y < 0 || pe.Position.Y > float32(size.Y) {
			continue
		}

		switch pe.Kind {
		case pointer.Press:
			// Start panning on right mouse button press
			if pe.Buttons == pointer.ButtonSecondary {
				e.isPanning = true
				e.lastMouseX = pe.Position.X
				e.lastMouseY = pe.Position.Y
			}
			// Add a brush point on left mouse button press
			if pe.Buttons == pointer.ButtonPrimary {
				e.AddPoint(e.toWorld(size, pe.Position.X, pe.Position.Y))
			}

		case pointer.Release:
			if pe.Buttons&pointer.ButtonSecondary == 0 {
				e.isPanning = false
			}

		case pointer.Drag:
			if e.isPanning {
				e.pan(pe.Position.X-e.lastMouseX, pe.Position.Y-e.lastMouseY)
				e.lastMouseX = pe.Position.X
				e.lastMouseY = pe.Position.Y
			}

		case pointer.Scroll:
			// Scroll.Y is positive when scrolling up (zoom in), negative when scrolling down (zoom out)
			e.zoomAt(size, pe.Position, float32(1.0+pe.Scroll.Y*0.1))
		}
	}
}

// pan moves the camera by a screen space delta
func (e *Editor) pan(dx, dy float32) {
	e.viewOffsetX += dx
	e.viewOffsetY += dy
}

// zoomAt scales the view by factor while keeping the world point under the mouse fixed
func (e *Editor) zoomAt(size image.Point, mouse f32.Point, factor float32) {
	const minZoom = 0.1
	const maxZoom = 10.0
	newZoom := min(max(e.zoom*factor, minZoom), maxZoom)

	// Mouse position relative to center
	mouseRelX := mouse.X - float32(size.X)/2.0
	mouseRelY := mouse.Y - float32(size.Y)/2.0

	zoomRatio := newZoom / e.zoom
	e.viewOffsetX = (e.viewOffsetX-mouseRelX)*zoomRatio + mouseRelX
	e.viewOffsetY = (e.viewOffsetY-mouseRelY)*zoomRatio + mouseRelY
	e.zoom = newZoom
}

// drawAxes draws the world axes through the origin
func (e *Editor) drawAxes(gtx layout.Context) {
	size := gtx.Constraints.Max
	origin := e.toScreen(size, geom.Vector{})
	e.drawLine(gtx, 0, origin.Y, float32(size.X), origin.Y, 1.0, axisColor)
	e.drawLine(gtx, origin.X, 0, origin.X, float32(size.Y), 1.0, axisColor)
}

// drawGeometry draws rooms filled and walls on top
func (e *Editor) drawGeometry(gtx layout.Context, baked *level.Baked) {
	size := gtx.Constraints.Max

	for _, room := range baked.Rooms {
		if len(room.Outline) < 3 {
			continue
		}
		var path clip.Path
		path.Begin(gtx.Ops)
		for i, p := range room.Outline.Vectors() {
			if i == 0 {
				path.MoveTo(e.toScreen(size, p))
			} else {
				path.LineTo(e.toScreen(size, p))
			}
		}
		path.Close()

		spec := path.End()
		stack := clip.Outline{Path: spec}.Op().Push(gtx.Ops)
		paint.ColorOp{Color: roomColor}.Add(gtx.Ops)
		paint.PaintOp{}.Add(gtx.Ops)
		stack.Pop() // Pop immediately so subsequent drawing isn't clipped
	}

	for _, wall := range baked.Walls {
		from := e.toScreen(size, geom.Vector{X: wall.From.X, Y: wall.From.Y})
		to := e.toScreen(size, geom.Vector{X: wall.To.X, Y: wall.To.Y})
		col := wallColor
		if wall.DoubleSided {
			col = partitionColor
		}
		e.drawLine(gtx, from.X, from.Y, to.X, to.Y, 2.0, col)
	}
}

// drawPending draws the outline of the brush being drawn
func (e *Editor) drawPending(gtx layout.Context) {
	size := gtx.Constraints.Max

	for i := 0; i+1 < len(e.pending); i++ {
		p1 := e.toScreen(size, e.pending[i])
		p2 := e.toScreen(size, e.pending[i+1])
		e.drawLine(gtx, p1.X, p1.Y, p2.X, p2.Y, 2.0, pendingColor)
	}
	// Closing edge
	if len(e.pending) > 2 {
		first := e.toScreen(size, e.pending[0])
		last := e.toScreen(size, e.pending[len(e.pending)-1])
		e.drawLine(gtx, last.X, last.Y, first.X, first.Y, 1.0, pendingColor)
	}

	for _, p := range e.pending {
		s := e.toScreen(size, p)
		e.drawCircle(gtx, s.X, s.Y, 5.0, pendingColor)
	}
}

// drawCircle draws a filled circle at the given position
func (e *Editor) drawCircle(gtx layout.Context, x, y, radius float32, col color.NRGBA) {
	const segments = 32
	var path clip.Path
	path.Begin(gtx.Ops)

	path.MoveTo(f32.Point{X: x + radius, Y: y})
	for i := 1; i <= segments; i++ {
		angle := float32(i) * 2.0 * math.Pi / segments
		px := x + radius*float32(math.Cos(float64(angle)))
		py := y + radius*float32(math.Sin(float64(angle)))
		path.LineTo(f32.Point{X: px, Y: py})
	}
	path.Close()

	spec := path.End()
	defer clip.Outline{Path: spec}.Op().Push(gtx.Ops).Pop()
	paint.ColorOp{Color: col}.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)
}

// drawLine draws a line between two points with the given width
func (e *Editor) drawLine(gtx layout.Context, x1, y1, x2, y2, width float32, col color.NRGBA) {
	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(f32.Point{X: x1, Y: y1})
	path.LineTo(f32.Point{X: x2, Y: y2})

	spec := path.End()
	stroke := clip.Stroke{
		Path:  spec,
		Width: width,
	}.Op()

	defer stroke.Push(gtx.Ops).Pop()
	paint.ColorOp{Color: col}.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)
}
