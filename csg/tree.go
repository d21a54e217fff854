package csg

import (
	"github.com/bloodmagesoftware/brushwork/geom"
)

// NodeID indexes a node in a Tree's flat node array
type NodeID int32

// NoNode marks an absent child or parent
const NoNode NodeID = -1

// Quad is the wall extruded from an edge: bottom P0, bottom P1, top P1, top P0
type Quad [4]geom.Vector3

// Node holds one splitting edge and the ids of its subtrees
type Node struct {
	Edge    Edge
	Parent  NodeID
	Behind  NodeID
	InFront NodeID
	// ConvexRegion is the room polygon of a leaf, counter-clockwise.
	// It is nil for nodes that have an InFront child.
	ConvexRegion []geom.Vector
	Quad         *Quad
}

// IsLeaf reports whether nothing subdivides the space in front of the node
func (n *Node) IsLeaf() bool {
	return n.InFront == NoNode
}

// Tree is a BSP tree stored as a flat array of nodes. The root is node 0.
// A nil Tree is the empty tree.
type Tree struct {
	nodes []Node
}

// Root returns the id of the root node, or NoNode for an empty tree
func (t *Tree) Root() NodeID {
	if t.Empty() {
		return NoNode
	}
	return 0
}

// Empty reports whether the tree has no nodes
func (t *Tree) Empty() bool {
	return t == nil || len(t.nodes) == 0
}

// Len returns the number of nodes
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.nodes)
}

// Node returns the node with the given id
func (t *Tree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

// add creates a new node and attaches it to its parent on the given side
func (t *Tree) add(e Edge, parent NodeID, side geom.Side) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, Node{
		Edge:    e,
		Parent:  parent,
		Behind:  NoNode,
		InFront: NoNode,
	})
	if parent != NoNode {
		if side == geom.Behind {
			t.nodes[parent].Behind = id
		} else {
			t.nodes[parent].InFront = id
		}
	}
	return id
}

// Clone returns a deep copy of the tree
func (t *Tree) Clone() *Tree {
	if t.Empty() {
		return nil
	}
	out := &Tree{nodes: make([]Node, len(t.nodes))}
	copy(out.nodes, t.nodes)
	for i := range out.nodes {
		n := &out.nodes[i]
		if n.ConvexRegion != nil {
			n.ConvexRegion = append([]geom.Vector(nil), n.ConvexRegion...)
		}
		if n.Quad != nil {
			q := *n.Quad
			n.Quad = &q
		}
	}
	return out
}

// Flatten returns every real edge of the tree in pre-order.
// Temporary back faces are left out.
func (t *Tree) Flatten() []Edge {
	if t.Empty() {
		return nil
	}

	edges := make([]Edge, 0, len(t.nodes))
	stack := []NodeID{t.Root()}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := &t.nodes[id]
		if !n.Edge.Temporary {
			edges = append(edges, n.Edge)
		}
		if n.InFront != NoNode {
			stack = append(stack, n.InFront)
		}
		if n.Behind != NoNode {
			stack = append(stack, n.Behind)
		}
	}
	return edges
}

// Leaves returns the ids of all leaf nodes
func (t *Tree) Leaves() []NodeID {
	var leaves []NodeID
	for i := range t.Len() {
		if t.nodes[i].IsLeaf() {
			leaves = append(leaves, NodeID(i))
		}
	}
	return leaves
}

// Rooms returns the convex region of every leaf
func (t *Tree) Rooms() [][]geom.Vector {
	var rooms [][]geom.Vector
	for _, id := range t.Leaves() {
		if region := t.nodes[id].ConvexRegion; len(region) > 0 {
			rooms = append(rooms, region)
		}
	}
	return rooms
}

// Contains tests if a point lies inside a room.
// Points on a wall count as inside.
func (t *Tree) Contains(p geom.Vector) bool {
	id := t.Root()
	for id != NoNode {
		n := &t.nodes[id]
		if n.Edge.Plane.SignedDistance(p) >= 0 {
			if n.InFront == NoNode {
				return true
			}
			id = n.InFront
		} else {
			if n.Behind == NoNode {
				return false
			}
			id = n.Behind
		}
	}
	return false
}

// traceTask is one piece of a line trace: a parametric range [t0, t1] that
// still has to be tested against node, or a known solid entry at t0 when
// node is NoNode.
type traceTask struct {
	node   NodeID
	t0, t1 float64
}

// Trace follows the segment from -> to through the rooms and returns the
// first point where it enters solid space.
func (t *Tree) Trace(from, to geom.Vector) (geom.Vector, bool) {
	if t.Empty() {
		return from, true
	}

	stack := []traceTask{{node: t.Root(), t0: 0, t1: 1}}

	// push queues a child range; a missing Behind child is solid
	push := func(child NodeID, side geom.Side, t0, t1 float64) {
		if child != NoNode {
			stack = append(stack, traceTask{node: child, t0: t0, t1: t1})
		} else if side == geom.Behind {
			stack = append(stack, traceTask{node: NoNode, t0: t0, t1: t1})
		}
	}

	for len(stack) > 0 {
		task := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if task.node == NoNode {
			return from.Lerp(to, task.t0), true
		}

		n := &t.nodes[task.node]
		p0 := from.Lerp(to, task.t0)
		p1 := from.Lerp(to, task.t1)
		d0 := n.Edge.Plane.SignedDistance(p0)
		d1 := n.Edge.Plane.SignedDistance(p1)

		switch {
		case d0 >= 0 && d1 >= 0:
			push(n.InFront, geom.InFront, task.t0, task.t1)
		case d0 < 0 && d1 < 0:
			push(n.Behind, geom.Behind, task.t0, task.t1)
		default:
			// Segment spans the plane, test the near side first
			tMid := task.t0 + d0/(d0-d1)*(task.t1-task.t0)

			nearChild, nearSide := n.InFront, geom.InFront
			farChild, farSide := n.Behind, geom.Behind
			if d0 < 0 {
				nearChild, nearSide, farChild, farSide = farChild, farSide, nearChild, nearSide
			}

			push(farChild, farSide, tMid, task.t1)
			push(nearChild, nearSide, task.t0, tMid)
		}
	}

	return geom.Vector{}, false
}
