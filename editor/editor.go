package editor

import (
	"fmt"
	"log"
	"math"

	"gioui.org/widget"
	"gioui.org/widget/material"
	"github.com/bloodmagesoftware/brushwork/csg"
	"github.com/bloodmagesoftware/brushwork/geom"
	"github.com/bloodmagesoftware/brushwork/level"
	"github.com/bloodmagesoftware/brushwork/snapshot"
	"golang.org/x/exp/shiny/materialdesign/icons"
)

// Config holds the paths and geometry settings of an editing session
type Config struct {
	LevelFilePath string
	SnapshotPath  string
	Snapshot      snapshot.Options
	CsgOptions    []csg.Option
}

// Editor is the main level editor component that manages the UI state and interactions
type Editor struct {
	theme  *material.Theme
	config Config
	level  *level.Level
	csg    *csg.Csg
	cancel func()

	// Geometry state
	pending         []geom.Vector // points of the brush being drawn
	baked           *level.Baked  // walls and rooms of the current root, for drawing
	geometryChanged bool          // set by the csg subscription
	rejected        []level.Rejection
	lastError       string
	dirty           bool // true when there are unsaved changes

	// UI state
	saveButton     widget.Clickable
	saveIcon       *widget.Icon
	snapshotButton widget.Clickable
	snapshotIcon   *widget.Icon
	invalidate     func()

	// Canvas state
	gridCellSize float32 // pixels per world unit at zoom 1
	snapStep     float64 // world units points snap to, 0 disables snapping
	viewOffsetX  float32 // camera pan offset X
	viewOffsetY  float32 // camera pan offset Y
	zoom         float32 // zoom level (1.0 = 100%)

	// Mouse/pointer state for canvas interaction
	isPanning  bool    // true when right mouse button is held down
	lastMouseX float32 // last mouse X position for drag calculation
	lastMouseY float32 // last mouse Y position for drag calculation
}

// NewEditor creates a new level editor instance and replays the level's brushes
func NewEditor(theme *material.Theme, config Config, lvl *level.Level) *Editor {
	saveIcon, err := widget.NewIcon(icons.ContentSave)
	if err != nil {
		log.Printf("Failed to load save icon: %v", err)
	}
	snapshotIcon, err := widget.NewIcon(icons.ImagePhotoCamera)
	if err != nil {
		log.Printf("Failed to load snapshot icon: %v", err)
	}

	e := &Editor{
		theme:        theme,
		config:       config,
		level:        lvl,
		saveIcon:     saveIcon,
		snapshotIcon: snapshotIcon,
		// Canvas defaults
		gridCellSize: 32.0,
		snapStep:     0.25,
		zoom:         1.0,
	}
	e.rebuild()
	return e
}

// rebuild replaces the geometry with a fresh replay of the level
func (e *Editor) rebuild() {
	if e.cancel != nil {
		e.cancel()
	}

	e.csg = csg.New(e.config.CsgOptions...)
	e.rejected = e.level.Replay(e.csg)
	for _, r := range e.rejected {
		log.Printf("skipping %v", r)
	}

	e.cancel = e.csg.Subscribe(e.onGeometryChanged)
	e.onGeometryChanged()
}

// onGeometryChanged marks the cached drawing data stale and requests a frame
func (e *Editor) onGeometryChanged() {
	e.geometryChanged = true
	if e.invalidate != nil {
		e.invalidate()
	}
}

// geometry returns the baked walls and rooms, rebaking after a change
func (e *Editor) geometry() *level.Baked {
	if e.geometryChanged || e.baked == nil {
		e.baked = level.Bake(e.level.Name, e.csg.Root())
		e.geometryChanged = false
	}
	return e.baked
}

// SetInvalidate sets the function used to request a redraw, usually app.Window.Invalidate
func (e *Editor) SetInvalidate(fn func()) {
	e.invalidate = fn
}

// Close releases the geometry subscription
func (e *Editor) Close() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

// HasUnsavedChanges returns true if there are unsaved changes to the level
func (e *Editor) HasUnsavedChanges() bool {
	return e.dirty
}

// Rejected returns the brushes skipped during the last replay
func (e *Editor) Rejected() []level.Rejection {
	return e.rejected
}

// AddPoint appends a world position to the pending brush, snapped to the grid
func (e *Editor) AddPoint(p geom.Vector) {
	if e.snapStep > 0 {
		p.X = math.Round(p.X/e.snapStep) * e.snapStep
		p.Y = math.Round(p.Y/e.snapStep) * e.snapStep
	}
	if n := len(e.pending); n > 0 && e.pending[n-1].Near(p, geom.Epsilon) {
		return
	}
	e.pending = append(e.pending, p)
}

// ClearPending discards the brush being drawn
func (e *Editor) ClearPending() {
	e.pending = nil
}

// Apply combines the pending brush with the level. The brush is only added
// to the level if the combination succeeds; otherwise the geometry stays at
// its previous state and the pending points are kept for correction.
func (e *Editor) Apply(op csg.Operation) error {
	brush := level.Brush{
		Operation: op,
		Points:    level.OutlineOf(e.pending),
	}
	if err := brush.Validate(); err != nil {
		return e.fail(fmt.Errorf("applying %s: %w", op, err))
	}
	if err := e.csg.Combine(op, brush.ToCSG()); err != nil {
		return e.fail(err)
	}

	e.level.Add(brush)
	e.pending = nil
	e.dirty = true
	e.lastError = ""
	log.Printf("Applied %s brush with %d points", op, len(brush.Points))
	return nil
}

// Undo removes the last brush and rebuilds the geometry from the rest
func (e *Editor) Undo() {
	if len(e.level.Brushes) == 0 {
		return
	}
	e.level.Brushes = e.level.Brushes[:len(e.level.Brushes)-1]
	e.dirty = true
	e.lastError = ""
	e.rebuild()
}

func (e *Editor) fail(err error) error {
	log.Printf("Failed to apply brush: %v", err)
	e.lastError = err.Error()
	return err
}

// Save saves the level to disk and clears the dirty flag
func (e *Editor) Save() error {
	if err := e.level.Save(e.config.LevelFilePath); err != nil {
		return err
	}
	e.dirty = false
	return nil
}

// SaveSnapshot renders the current geometry to the snapshot path
func (e *Editor) SaveSnapshot() error {
	return snapshot.WriteFile(e.config.SnapshotPath, e.csg.Root(), e.config.Snapshot)
}
