package csg

import (
	"math"

	"github.com/bloodmagesoftware/brushwork/geom"
)

// Thresholds for coalescing colinear edges
const (
	mergeMinNormalDot   = 0.9
	mergeMaxPlaneOffset = 0.1
	mergeMaxEndpointGap = 0.1
)

// MergeEdges coalesces colinear edges that continue one another.
// The result never has more edges than the input. A merged edge keeps the
// payload of the edge that came first in the list.
func MergeEdges(edges []Edge) []Edge {
	return mergeEdges(edges, Tolerance)
}

func mergeEdges(edges []Edge, tolerance float64) []Edge {
	work := append([]Edge(nil), edges...)
	result := make([]Edge, 0, len(edges))

	for len(work) > 0 {
		e := work[0]
		work = work[1:]

		merged := false
		for i, other := range work {
			joined, ok := spliceEdges(e, other, tolerance)
			if !ok {
				continue
			}
			work = append(work[:i:i], work[i+1:]...)
			// Rescan with the longer edge
			work = append([]Edge{joined}, work...)
			merged = true
			break
		}

		if !merged {
			result = append(result, e)
		}
	}

	return result
}

// spliceEdges joins a and b into one edge if they lie on the same line,
// face the same way and meet end to start.
func spliceEdges(a, b Edge, tolerance float64) (Edge, bool) {
	if a.DoubleSided != b.DoubleSided || a.Temporary != b.Temporary {
		return Edge{}, false
	}
	if a.Degenerate(tolerance) || b.Degenerate(tolerance) {
		return Edge{}, false
	}
	if a.Plane.Normal.Dot(b.Plane.Normal) < mergeMinNormalDot {
		return Edge{}, false
	}
	if math.Abs(a.Plane.Distance-b.Plane.Distance) >= mergeMaxPlaneOffset {
		return Edge{}, false
	}
	// Parallel walls a step apart pass the checks above; every endpoint
	// must also lie on the other edge's line.
	if !onLine(a.Plane, b, tolerance) || !onLine(b.Plane, a, tolerance) {
		return Edge{}, false
	}

	var joined Edge
	switch {
	case a.P1.Near(b.P0, mergeMaxEndpointGap):
		joined = a.withPoints(a.P0, b.P1)
	case b.P1.Near(a.P0, mergeMaxEndpointGap):
		joined = a.withPoints(b.P0, a.P1)
	default:
		return Edge{}, false
	}

	if joined.Degenerate(tolerance) {
		return Edge{}, false
	}
	return joined, true
}

// onLine reports whether both endpoints of e lie within tolerance of plane
func onLine(plane geom.Plane, e Edge, tolerance float64) bool {
	return math.Abs(plane.SignedDistance(e.P0)) <= tolerance &&
		math.Abs(plane.SignedDistance(e.P1)) <= tolerance
}
