package csg

import (
	"fmt"
	"io"
	"log"

	"github.com/bloodmagesoftware/brushwork/geom"
)

// Options configures a Csg
type Options struct {
	// Tolerance is the classification band around every plane
	Tolerance float64
	// WallHeight is the height of the extruded wall quads
	WallHeight float64
	Logger     *log.Logger
}

// Option modifies Options
type Option func(*Options)

// WithTolerance sets the classification tolerance
func WithTolerance(tolerance float64) Option {
	return func(o *Options) {
		o.Tolerance = tolerance
	}
}

// WithWallHeight sets the height of the extruded walls
func WithWallHeight(height float64) Option {
	return func(o *Options) {
		o.WallHeight = height
	}
}

// WithLogger sets the logger used to report combinations
func WithLogger(logger *log.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// Csg owns the level geometry and applies brushes to it.
// It is not safe for concurrent use; edits must be serialized by the caller.
type Csg struct {
	root        *Tree
	opts        Options
	subscribers map[int]func()
	nextID      int
}

// New creates an empty Csg
func New(opts ...Option) *Csg {
	options := Options{
		Tolerance:  Tolerance,
		WallHeight: 3,
		Logger:     log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &Csg{
		opts:        options,
		subscribers: make(map[int]func()),
	}
}

// Root returns the current tree. It stays valid and unchanged after later
// combinations; they replace the root instead of editing it.
func (c *Csg) Root() *Tree {
	return c.root
}

// Subscribe registers fn to be called after every successful Combine.
// The returned function removes the subscription.
func (c *Csg) Subscribe(fn func()) (cancel func()) {
	id := c.nextID
	c.nextID++
	c.subscribers[id] = fn
	return func() {
		delete(c.subscribers, id)
	}
}

// Combine applies op between the current geometry and brush. On error the
// current root is left untouched and no notification is sent.
func (c *Csg) Combine(op Operation, brush Brush) error {
	tolerance := c.opts.Tolerance

	brushTree := build(brush.Edges(), tolerance)
	next := combine(op, c.root, brushTree, tolerance)

	if next != nil {
		fixDoubleSided(next)
		if err := buildRegions(next, tolerance); err != nil {
			return fmt.Errorf("combining %s brush: %w", op, err)
		}
		buildQuads(next, c.opts.WallHeight)
	}

	c.root = next
	c.opts.Logger.Printf("combined %s brush: %d nodes, %d rooms", op, next.Len(), len(next.Leaves()))

	for _, fn := range c.subscribers {
		fn()
	}
	return nil
}

// fixDoubleSided gives every double-sided edge without a Behind subtree a
// reversed temporary copy as its Behind child, so its back face bounds a room.
func fixDoubleSided(t *Tree) {
	// Post-order over the nodes that exist before any copy is added
	var order []NodeID
	stack := []NodeID{t.Root()}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, id)

		n := t.Node(id)
		if n.Behind != NoNode {
			stack = append(stack, n.Behind)
		}
		if n.InFront != NoNode {
			stack = append(stack, n.InFront)
		}
	}

	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		n := t.Node(id)
		if !n.Edge.DoubleSided || n.Edge.Temporary || n.Behind != NoNode {
			continue
		}
		back := n.Edge.Reversed()
		back.Temporary = true
		t.add(back, id, geom.Behind)
	}
}

// buildQuads extrudes every edge into a wall quad
func buildQuads(t *Tree, height float64) {
	for i := range t.nodes {
		e := t.nodes[i].Edge
		t.nodes[i].Quad = &Quad{
			{X: e.P0.X, Y: e.P0.Y, Z: 0},
			{X: e.P1.X, Y: e.P1.Y, Z: 0},
			{X: e.P1.X, Y: e.P1.Y, Z: height},
			{X: e.P0.X, Y: e.P0.Y, Z: height},
		}
	}
}
