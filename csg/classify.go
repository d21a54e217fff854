package csg

import (
	"github.com/bloodmagesoftware/brushwork/geom"
)

// Tolerance is the distance from a plane within which a point counts as On it
const Tolerance = 0.01

// Collector receives the edges routed to one side of a splitter.
// A discarding collector drops everything it is given.
type Collector struct {
	keep  bool
	edges []Edge
}

// Collect returns a collector that keeps the edges it receives
func Collect() *Collector {
	return &Collector{keep: true}
}

// Discard returns a collector that drops the edges it receives
func Discard() *Collector {
	return &Collector{}
}

// Add routes an edge into the collector
func (c *Collector) Add(e Edge) {
	if c.keep {
		c.edges = append(c.edges, e)
	}
}

// Edges returns the collected edges
func (c *Collector) Edges() []Edge {
	return c.edges
}

// Coplanar chooses the side for edges lying on the splitter itself,
// depending on whether they face the same way as the splitter.
type Coplanar struct {
	Same     geom.Side
	Opposite geom.Side
}

// Classifier sorts edges against splitting planes
type Classifier struct {
	Tolerance float64
	Coplanar  Coplanar
	// BackFace, if set, replaces Coplanar at the temporary back face of a
	// double-sided partition.
	BackFace *Coplanar
}

// at returns the classifier to use with the node's edge as splitter
func (c Classifier) at(splitter Edge) Classifier {
	if splitter.Temporary && c.BackFace != nil {
		c.Coplanar = *c.BackFace
	}
	return c
}

// buildClassifier stacks coincident edges in front and puts opposed ones behind
func buildClassifier(tolerance float64) Classifier {
	return Classifier{
		Tolerance: tolerance,
		Coplanar:  Coplanar{Same: geom.InFront, Opposite: geom.Behind},
	}
}

// ClassifyEdge routes an edge to the behind or in-front collector of the
// splitter, splitting it in two when its endpoints lie on strictly opposite sides.
func (c Classifier) ClassifyEdge(splitter geom.Plane, e Edge, behind, inFront *Collector) {
	c0 := splitter.ClassifyPoint(e.P0, c.Tolerance)
	c1 := splitter.ClassifyPoint(e.P1, c.Tolerance)

	route := func(side geom.Side, e Edge) {
		if side == geom.Behind {
			behind.Add(e)
		} else {
			inFront.Add(e)
		}
	}

	switch {
	case c0 == geom.On && c1 == geom.On:
		if e.Plane.Normal.Dot(splitter.Normal) > 0 {
			route(c.Coplanar.Same, e)
		} else {
			route(c.Coplanar.Opposite, e)
		}
	case c0 == c1 || c1 == geom.On:
		route(c0, e)
	case c0 == geom.On:
		route(c1, e)
	default:
		// Endpoints on strictly opposite sides
		hit, ok := splitter.IntersectSegment(e.P0, e.P1)
		if !ok {
			route(c0, e)
			return
		}
		route(c0, e.withPoints(e.P0, hit))
		route(c1, e.withPoints(hit, e.P1))
	}
}
