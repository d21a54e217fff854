package csg

import (
	"math"
	"testing"

	"github.com/bloodmagesoftware/brushwork/geom"
)

// square returns an axis aligned CCW brush
func square(x0, y0, x1, y1 float64) Brush {
	return Brush{
		Points: []geom.Vector{
			{X: x0, Y: y0},
			{X: x1, Y: y0},
			{X: x1, Y: y1},
			{X: x0, Y: y1},
		},
	}
}

func totalLength(edges []Edge) float64 {
	var sum float64
	for _, e := range edges {
		sum += e.Length()
	}
	return sum
}

func nearly(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

// hasEdge reports whether edges contains a segment from p0 to p1
func hasEdge(edges []Edge, p0, p1 geom.Vector) bool {
	for _, e := range edges {
		if e.P0.Near(p0, 1e-6) && e.P1.Near(p1, 1e-6) {
			return true
		}
	}
	return false
}

// combined applies the operations in order to a fresh Csg
func combined(t *testing.T, steps ...step) *Csg {
	t.Helper()
	c := New()
	for i, s := range steps {
		if err := c.Combine(s.op, s.brush); err != nil {
			t.Fatalf("step %d (%s): %v", i, s.op, err)
		}
	}
	return c
}

type step struct {
	op    Operation
	brush Brush
}

func roomArea(rooms [][]geom.Vector) float64 {
	var sum float64
	for _, r := range rooms {
		sum += geom.SignedArea(r)
	}
	return sum
}
