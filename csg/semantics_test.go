package csg

import (
	"math/rand/v2"
	"testing"

	"github.com/bloodmagesoftware/brushwork/geom"
)

// rect is an axis aligned brush with its own point test, used as the
// reference for what a sequence of operations should contain
type rect struct {
	x0, y0, x1, y1 float64
}

func (r rect) brush() Brush {
	return square(r.x0, r.y0, r.x1, r.y1)
}

func (r rect) contains(p geom.Vector) bool {
	return p.X > r.x0 && p.X < r.x1 && p.Y > r.y0 && p.Y < r.y1
}

// nearBoundary reports whether p is within d of the rectangle's outline
func (r rect) nearBoundary(p geom.Vector, d float64) bool {
	grown := rect{r.x0 - d, r.y0 - d, r.x1 + d, r.y1 + d}
	shrunk := rect{r.x0 + d, r.y0 + d, r.x1 - d, r.y1 - d}
	return grown.contains(p) && !shrunk.contains(p)
}

// expected folds the operations over p as plain set logic
func expected(steps []step, rects []rect, p geom.Vector) bool {
	inside := false
	for i, s := range steps {
		in := rects[i].contains(p)
		switch s.op {
		case Union:
			inside = inside || in
		case Intersection:
			inside = inside && in
		case Complement:
			inside = inside && !in
		}
	}
	return inside
}

func randomRect(rng *rand.Rand) rect {
	x0 := rng.Float64() * 6
	y0 := rng.Float64() * 6
	return rect{x0, y0, x0 + 0.5 + rng.Float64()*3, y0 + 0.5 + rng.Float64()*3}
}

func TestCombineMatchesSetSemantics(t *testing.T) {
	ops := []Operation{Union, Union, Complement, Complement, Intersection, EdgeUnion}
	const margin = 2 * Tolerance

	for seed := uint64(1); seed <= 12; seed++ {
		rng := rand.New(rand.NewPCG(seed, 7))
		c := New()
		var steps []step
		var rects []rect

		for i := 0; i < 6; i++ {
			op := Union
			if i > 0 {
				op = ops[rng.IntN(len(ops))]
			}
			r := randomRect(rng)
			// Edge union onto nothing adopts the brush
			setOp := op
			if op == EdgeUnion && c.Root().Empty() {
				setOp = Union
			}
			steps = append(steps, step{setOp, r.brush()})
			rects = append(rects, r)

			if err := c.Combine(op, r.brush()); err != nil {
				t.Fatalf("seed %d step %d (%s %v): %v", seed, i, op, r, err)
			}
			tree := c.Root()

			mismatches := 0
			for x := 0.05; x < 10; x += 0.1 {
				for y := 0.05; y < 10; y += 0.1 {
					p := v(x, y)
					skip := false
					for _, r := range rects {
						if r.nearBoundary(p, margin) {
							skip = true
							break
						}
					}
					if skip {
						continue
					}
					if tree.Contains(p) != expected(steps, rects, p) {
						mismatches++
					}
				}
			}
			if mismatches > 0 {
				t.Fatalf("seed %d step %d (%s %v): %d lattice points disagree with the set result", seed, i, op, r, mismatches)
			}

			for _, room := range tree.Rooms() {
				center := geom.Centroid(room)
				if !expected(steps, rects, center) {
					skip := false
					for _, r := range rects {
						skip = skip || r.nearBoundary(center, margin)
					}
					if !skip {
						t.Fatalf("seed %d step %d: room centered at %v lies outside the set result", seed, i, center)
					}
				}
			}
		}
	}
}
