package csg

import (
	"fmt"
	"strings"

	"github.com/bloodmagesoftware/brushwork/geom"
)

// Operation is a Boolean set operation between the level and a brush
type Operation int

const (
	Union Operation = iota
	// EdgeUnion keeps the level as is and carves the brush outline into it
	// as double-sided partitions.
	EdgeUnion
	Intersection
	// Complement removes the brush from the level.
	Complement
)

var operationNames = map[Operation]string{
	Union:        "union",
	EdgeUnion:    "edge_union",
	Intersection: "intersection",
	Complement:   "complement",
}

func (op Operation) String() string {
	if name, ok := operationNames[op]; ok {
		return name
	}
	return fmt.Sprintf("operation(%d)", int(op))
}

// ParseOperation parses the name of an operation, ignoring case and accepting '-' for '_'
func ParseOperation(name string) (Operation, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for op, n := range operationNames {
		if n == normalized {
			return op, nil
		}
	}
	return 0, fmt.Errorf("unknown operation %q", name)
}

// MarshalText implements encoding.TextMarshaler
func (op Operation) MarshalText() ([]byte, error) {
	if _, ok := operationNames[op]; !ok {
		return nil, fmt.Errorf("unknown operation %d", int(op))
	}
	return []byte(op.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (op *Operation) UnmarshalText(text []byte) error {
	parsed, err := ParseOperation(string(text))
	if err != nil {
		return err
	}
	*op = parsed
	return nil
}

// Clip pushes edges down through tree. Fragments that arrive at a missing
// Behind child are kept if keepBehind is set, fragments that arrive at a
// missing InFront child are kept if keepInFront is set.
func Clip(keepBehind, keepInFront bool, tree *Tree, edges []Edge, classifier Classifier) []Edge {
	if tree.Empty() {
		// No rooms at all: everything is behind
		if keepBehind {
			return append([]Edge(nil), edges...)
		}
		return nil
	}

	type clipTask struct {
		node  NodeID
		edges []Edge
	}

	var out []Edge
	stack := []clipTask{{node: tree.Root(), edges: edges}}

	forward := func(child NodeID, edges []Edge, keep bool) {
		if len(edges) == 0 {
			return
		}
		if child != NoNode {
			stack = append(stack, clipTask{node: child, edges: edges})
		} else if keep {
			out = append(out, edges...)
		}
	}

	for len(stack) > 0 {
		task := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		n := tree.Node(task.node)
		splitter := classifier.at(n.Edge)
		behind, inFront := Collect(), Collect()
		for _, e := range task.edges {
			splitter.ClassifyEdge(n.Edge.Plane, e, behind, inFront)
		}

		forward(n.InFront, inFront.Edges(), keepInFront)
		forward(n.Behind, behind.Edges(), keepBehind)
	}

	return out
}

// Combine applies op between the level tree a and the brush tree b and
// returns a newly built tree. Neither input is modified.
func Combine(op Operation, a, b *Tree) *Tree {
	return combine(op, a, b, Tolerance)
}

func combine(op Operation, a, b *Tree, tolerance float64) *Tree {
	if a.Empty() {
		switch op {
		case Union, EdgeUnion:
			return b
		default:
			return nil
		}
	}
	if b.Empty() {
		if op == Intersection {
			return nil
		}
		return a.Clone()
	}

	edges := combineEdges(op, a, b, tolerance)
	return build(mergeEdges(edges, tolerance), tolerance)
}

// classifier returns a classifier using the given coplanar routing
func classifier(tolerance float64, same, opposite geom.Side) Classifier {
	return Classifier{
		Tolerance: tolerance,
		Coplanar:  Coplanar{Same: same, Opposite: opposite},
	}
}

// combineEdges clips each tree's edges through the other tree.
//
// Coplanar routing decides what happens where both boundaries overlap: the
// side an edge is sent to is the side whose membership decides if the edge
// survives. One of the two passes sends coincident same-facing edges the
// other way so that exactly one copy remains.
func combineEdges(op Operation, a, b *Tree, tolerance float64) []Edge {
	edgesA := a.Flatten()
	edgesB := b.Flatten()

	behind, inFront := geom.Behind, geom.InFront

	switch op {
	case Union:
		// Brush walls outside the level, level walls outside the brush
		outside := Clip(true, false, a, edgesB, classifier(tolerance, behind, inFront))
		kept := Clip(true, false, b, edgesA, classifier(tolerance, inFront, inFront))
		return append(kept, outside...)

	case EdgeUnion:
		inside := Clip(false, true, a, edgesB, classifier(tolerance, behind, behind))
		for i := range inside {
			inside[i].DoubleSided = true
		}
		return append(edgesA, inside...)

	case Intersection:
		inside := Clip(false, true, a, edgesB, classifier(tolerance, inFront, behind))
		kept := Clip(false, true, b, edgesA, classifier(tolerance, behind, behind))
		return append(kept, inside...)

	case Complement:
		kept := Clip(true, false, b, edgesA, classifier(tolerance, inFront, behind))
		demoteBorderPartitions(kept, b, tolerance)

		// A brush side lying on a partition that faces into the brush reaches
		// the partition's back face and becomes the new wall
		cutClassifier := classifier(tolerance, behind, behind)
		cutClassifier.BackFace = &Coplanar{Same: behind, Opposite: inFront}
		cut := Clip(false, true, a, edgesB, cutClassifier)
		for _, e := range cut {
			kept = append(kept, e.Reversed())
		}
		return kept
	}

	return nil
}

// demoteBorderPartitions clears DoubleSided on partitions whose back face now
// looks into the removed brush: they have become outer walls.
func demoteBorderPartitions(edges []Edge, brush *Tree, tolerance float64) {
	for i := range edges {
		e := &edges[i]
		if !e.DoubleSided {
			continue
		}
		probe := e.Midpoint().Sub(e.Plane.Normal.Scale(2 * tolerance))
		if brush.Contains(probe) {
			e.DoubleSided = false
		}
	}
}
