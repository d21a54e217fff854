package editor

import (
	"fmt"
	"image/color"
	"log"
	"path/filepath"

	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"github.com/bloodmagesoftware/brushwork/csg"
)

// operationKeys maps keyboard shortcuts to the operation they apply
var operationKeys = []struct {
	name key.Name
	op   csg.Operation
}{
	{name: "U", op: csg.Union},
	{name: "E", op: csg.EdgeUnion},
	{name: "I", op: csg.Intersection},
	{name: "C", op: csg.Complement},
}

// Layout renders the entire editor UI
func (e *Editor) Layout(gtx layout.Context) layout.Dimensions {
	// Register for global keyboard events
	event.Op(gtx.Ops, e)

	for _, binding := range operationKeys {
		for {
			ev, ok := gtx.Event(key.Filter{Name: binding.name})
			if !ok {
				break
			}
			if ev, ok := ev.(key.Event); ok && ev.State == key.Press {
				_ = e.Apply(binding.op)
			}
		}
	}

	// Z undoes the last brush
	for {
		ev, ok := gtx.Event(key.Filter{Name: "Z"})
		if !ok {
			break
		}
		if ev, ok := ev.(key.Event); ok && ev.State == key.Press {
			e.Undo()
		}
	}

	// Escape discards the pending brush
	for {
		ev, ok := gtx.Event(key.Filter{Name: key.NameEscape})
		if !ok {
			break
		}
		if ev, ok := ev.(key.Event); ok && ev.State == key.Press {
			e.ClearPending()
		}
	}

	return layout.Flex{
		Axis: layout.Vertical,
	}.Layout(gtx,
		// Top bar
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return e.layoutTopBar(gtx)
		}),
		// Canvas
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return e.layoutCanvas(gtx)
		}),
	)
}

// title returns the top bar caption
func (e *Editor) title() string {
	name := e.level.Name
	if name == "" {
		name = filepath.Base(e.config.LevelFilePath)
	}
	title := "Level: " + name
	if e.dirty {
		title += " *" // Add asterisk for unsaved changes
	}
	return title
}

// status returns the message shown next to the buttons
func (e *Editor) status() string {
	if e.lastError != "" {
		return e.lastError
	}
	if len(e.rejected) > 0 {
		return fmt.Sprintf("%d brushes skipped", len(e.rejected))
	}
	return fmt.Sprintf("%d points  |  U union  E edge union  I intersection  C complement  Z undo  Esc clear", len(e.pending))
}

// layoutTopBar renders the top toolbar with level name, status and buttons
func (e *Editor) layoutTopBar(gtx layout.Context) layout.Dimensions {
	// Background
	gtx.Constraints.Min = gtx.Constraints.Max
	gtx.Constraints.Min.Y = gtx.Dp(unit.Dp(40))
	gtx.Constraints.Max.Y = gtx.Constraints.Min.Y

	return layout.Background{}.Layout(gtx,
		func(gtx layout.Context) layout.Dimensions {
			defer clip.Rect{Max: gtx.Constraints.Min}.Push(gtx.Ops).Pop()
			paint.ColorOp{Color: color.NRGBA{R: 40, G: 40, B: 40, A: 255}}.Add(gtx.Ops)
			paint.PaintOp{}.Add(gtx.Ops)
			return layout.Dimensions{Size: gtx.Constraints.Min}
		},
		func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{
				Axis:      layout.Horizontal,
				Alignment: layout.Middle,
			}.Layout(gtx,
				// Level name
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					return layout.UniformInset(unit.Dp(8)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
						label := material.Body1(e.theme, e.title())
						label.Color = color.NRGBA{R: 220, G: 220, B: 220, A: 255}
						return label.Layout(gtx)
					})
				}),
				layout.Rigid(layout.Spacer{Width: unit.Dp(16)}.Layout),
				// Save button
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					if e.saveButton.Clicked(gtx) {
						if err := e.Save(); err != nil {
							log.Printf("Failed to save level: %v", err)
							e.lastError = err.Error()
						} else {
							log.Printf("Level saved to %s", e.config.LevelFilePath)
						}
					}

					// Orange when dirty, blue when clean
					background := color.NRGBA{R: 60, G: 120, B: 200, A: 255}
					if e.dirty {
						background = color.NRGBA{R: 200, G: 120, B: 60, A: 255}
					}
					return e.iconButton(gtx, &e.saveButton, e.saveIcon, "Save level", background)
				}),
				layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
				// Snapshot button
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					if e.snapshotButton.Clicked(gtx) {
						if err := e.SaveSnapshot(); err != nil {
							log.Printf("Failed to save snapshot: %v", err)
							e.lastError = err.Error()
						} else {
							log.Printf("Snapshot saved to %s", e.config.SnapshotPath)
						}
					}
					return e.iconButton(gtx, &e.snapshotButton, e.snapshotIcon, "Save snapshot", color.NRGBA{R: 60, G: 120, B: 200, A: 255})
				}),
				layout.Rigid(layout.Spacer{Width: unit.Dp(16)}.Layout),
				// Status or last error
				layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
					return layout.UniformInset(unit.Dp(8)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
						label := material.Body2(e.theme, e.status())
						label.MaxLines = 1
						label.Color = color.NRGBA{R: 160, G: 160, B: 160, A: 255}
						if e.lastError != "" {
							label.Color = color.NRGBA{R: 240, G: 90, B: 80, A: 255}
						}
						return label.Layout(gtx)
					})
				}),
			)
		},
	)
}

// iconButton lays out a small icon button; nothing is drawn if the icon failed to load
func (e *Editor) iconButton(gtx layout.Context, clickable *widget.Clickable, icon *widget.Icon, description string, background color.NRGBA) layout.Dimensions {
	if icon == nil {
		return layout.Dimensions{}
	}
	btn := material.IconButton(e.theme, clickable, icon, description)
	btn.Background = background
	btn.Color = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	btn.Size = unit.Dp(20)
	return btn.Layout(gtx)
}
