package csg

import (
	"github.com/bloodmagesoftware/brushwork/geom"
)

// Edge is a directed wall segment. The room it bounds lies in front of its plane.
type Edge struct {
	P0, P1 geom.Vector
	// Plane is derived from P0 and P1 by NewEdge. Changing the endpoints
	// means building a new Edge.
	Plane       geom.Plane
	DoubleSided bool
	// Temporary marks a synthetic back face. It is never flattened
	// and so never takes part in another combination.
	Temporary bool
	// Payload is owned by the caller and copied by reference, never inspected.
	Payload any
}

// NewEdge creates an edge from p0 to p1 with its support plane
func NewEdge(p0, p1 geom.Vector, payload any) Edge {
	return Edge{
		P0:      p0,
		P1:      p1,
		Plane:   geom.PlaneFromPoints(p0, p1),
		Payload: payload,
	}
}

// withPoints returns a copy of the edge moved to new endpoints, keeping flags and payload
func (e Edge) withPoints(p0, p1 geom.Vector) Edge {
	out := NewEdge(p0, p1, e.Payload)
	out.DoubleSided = e.DoubleSided
	out.Temporary = e.Temporary
	return out
}

// Reversed returns the edge running the other way, facing the other side
func (e Edge) Reversed() Edge {
	return e.withPoints(e.P1, e.P0)
}

// Length returns the length of the segment
func (e Edge) Length() float64 {
	return e.P0.Distance(e.P1)
}

// Degenerate reports whether the edge is too short to carry a plane
func (e Edge) Degenerate(tolerance float64) bool {
	return e.Length() < tolerance || e.Plane.Degenerate()
}

// Midpoint returns the point halfway along the edge
func (e Edge) Midpoint() geom.Vector {
	return e.P0.Lerp(e.P1, 0.5)
}

// Brush is a closed polygon authored by the user. The closing edge runs from
// the last point back to the first.
type Brush struct {
	Points []geom.Vector
	// Payload is attached to every edge unless Payloads has a non-nil entry
	// for that edge. Payloads[i] belongs to the edge starting at Points[i].
	Payload  any
	Payloads []any
}

// Edges returns exactly one edge per point, wound counter-clockwise so that
// the brush interior lies in front of every edge.
func (b Brush) Edges() []Edge {
	n := len(b.Points)
	if n == 0 {
		return nil
	}

	reversed := geom.SignedArea(b.Points) < 0
	points := geom.EnsureCCW(b.Points)

	edges := make([]Edge, n)
	for k := 0; k < n; k++ {
		// Edge k of a reversed outline is the reverse of original edge n-2-k
		original := k
		if reversed {
			original = (2*n - 2 - k) % n
		}
		edges[k] = NewEdge(points[k], points[(k+1)%n], b.payloadFor(original))
	}
	return edges
}

func (b Brush) payloadFor(i int) any {
	if i < len(b.Payloads) && b.Payloads[i] != nil {
		return b.Payloads[i]
	}
	return b.Payload
}
