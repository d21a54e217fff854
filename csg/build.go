package csg

import (
	"github.com/bloodmagesoftware/brushwork/geom"
)

// buildTask is a list of edges waiting to become the subtree on one side of parent
type buildTask struct {
	edges  []Edge
	parent NodeID
	side   geom.Side
}

// Build constructs a BSP tree from a flat edge list. The first edge of every
// list becomes the splitter; there is no balancing. Empty input returns nil.
func Build(edges []Edge) *Tree {
	return build(edges, Tolerance)
}

func build(edges []Edge, tolerance float64) *Tree {
	tree := &Tree{}
	classifier := buildClassifier(tolerance)

	stack := []buildTask{{edges: edges, parent: NoNode}}
	for len(stack) > 0 {
		task := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		remaining := dropDegenerate(task.edges, tolerance)
		if len(remaining) == 0 {
			continue
		}

		splitter := remaining[0]
		id := tree.add(splitter, task.parent, task.side)

		behind, inFront := Collect(), Collect()
		for _, e := range remaining[1:] {
			classifier.ClassifyEdge(splitter.Plane, e, behind, inFront)
		}

		stack = append(stack,
			buildTask{edges: inFront.Edges(), parent: id, side: geom.InFront},
			buildTask{edges: behind.Edges(), parent: id, side: geom.Behind},
		)
	}

	if tree.Empty() {
		return nil
	}
	return tree
}

// dropDegenerate filters out edges too short to split anything
func dropDegenerate(edges []Edge, tolerance float64) []Edge {
	for i, e := range edges {
		if e.Degenerate(tolerance) {
			// Copy on first hit so the caller's slice stays untouched
			out := append([]Edge(nil), edges[:i]...)
			for _, e := range edges[i+1:] {
				if !e.Degenerate(tolerance) {
					out = append(out, e)
				}
			}
			return out
		}
	}
	return edges
}
