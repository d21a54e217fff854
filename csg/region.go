package csg

import (
	"errors"
	"fmt"
	"math"

	"github.com/bloodmagesoftware/brushwork/geom"
)

// ErrDegenerateRegion is returned when a leaf's bounding planes do not close
// around a convex polygon. The tree it came from must not be used.
var ErrDegenerateRegion = errors.New("degenerate convex region")

// regionEpsilon separates distinct vertices along one bounding line
const regionEpsilon = 1e-7

// buildRegions fills ConvexRegion for every leaf and clears it elsewhere
func buildRegions(t *Tree, tolerance float64) error {
	for i := range t.nodes {
		n := &t.nodes[i]
		if !n.IsLeaf() {
			n.ConvexRegion = nil
			continue
		}

		region, err := walkRegion(boundingPlanes(t, NodeID(i)), tolerance)
		if err != nil {
			return fmt.Errorf("leaf %d: %w", i, err)
		}
		n.ConvexRegion = region
	}
	return nil
}

// boundingPlanes returns the planes on the path from the root to id, each
// facing the leaf's side. The leaf's own plane comes last.
func boundingPlanes(t *Tree, id NodeID) []geom.Plane {
	var reversed []geom.Plane
	reversed = append(reversed, t.nodes[id].Edge.Plane)

	child := id
	for parent := t.nodes[id].Parent; parent != NoNode; parent = t.nodes[parent].Parent {
		plane := t.nodes[parent].Edge.Plane
		if t.nodes[parent].Behind == child {
			plane = plane.Flip()
		}
		reversed = append(reversed, plane)
		child = parent
	}

	planes := make([]geom.Plane, len(reversed))
	for i, p := range reversed {
		planes[len(reversed)-1-i] = p
	}
	return planes
}

// uniquePlanes drops degenerate planes and repeats of a plane already seen,
// scanning from the end so the leaf plane survives as the last entry.
func uniquePlanes(planes []geom.Plane, tolerance float64) []geom.Plane {
	var unique []geom.Plane
	for i := len(planes) - 1; i >= 0; i-- {
		p := planes[i]
		if p.Degenerate() {
			continue
		}
		seen := false
		for _, u := range unique {
			if u.Coincident(p, tolerance) {
				seen = true
				break
			}
		}
		if !seen {
			unique = append(unique, p)
		}
	}

	for i, j := 0, len(unique)-1; i < j; i, j = i+1, j-1 {
		unique[i], unique[j] = unique[j], unique[i]
	}
	return unique
}

// walkRegion traces the convex polygon in front of all planes, counter-clockwise,
// starting on the last plane. Each step moves along the current line and
// stops at the nearest plane it would cross.
func walkRegion(planes []geom.Plane, tolerance float64) ([]geom.Vector, error) {
	planes = uniquePlanes(planes, tolerance)
	if len(planes) < 3 {
		return nil, fmt.Errorf("%w: %d bounding planes", ErrDegenerateRegion, len(planes))
	}

	start := len(planes) - 1
	current := start
	var points []geom.Vector

	for step := 0; step < len(planes); step++ {
		line := planes[current]
		dir := line.Direction()

		next := -1
		var nextPoint geom.Vector
		var nextT float64
		for k, candidate := range planes {
			if k == current {
				continue
			}
			// Only planes the walk would cross from front to back end the side
			if candidate.Normal.Dot(dir) >= -geom.Epsilon {
				continue
			}
			p, ok := line.IntersectPlane(candidate)
			if !ok {
				continue
			}
			t := p.Dot(dir)

			switch {
			case next < 0 || t < nextT-regionEpsilon:
				next, nextPoint, nextT = k, p, t
			case math.Abs(t-nextT) <= regionEpsilon && planes[next].Normal.Cross(candidate.Normal) > 0:
				// Several planes meet at the vertex; follow the one that stays
				// in front of the others
				next, nextPoint, nextT = k, p, t
			}
		}

		if next < 0 {
			return nil, fmt.Errorf("%w: no bounding plane after vertex %d", ErrDegenerateRegion, len(points))
		}

		points = append(points, nextPoint)
		current = next
		if current == start {
			if len(points) < 3 {
				return nil, fmt.Errorf("%w: closed after %d vertices", ErrDegenerateRegion, len(points))
			}
			return points, nil
		}
	}

	return nil, fmt.Errorf("%w: walk did not return to the leaf plane", ErrDegenerateRegion)
}
