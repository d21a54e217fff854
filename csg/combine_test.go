package csg

import (
	"math"
	"testing"

	"github.com/bloodmagesoftware/brushwork/geom"
)

func v(x, y float64) geom.Vector {
	return geom.Vector{X: x, Y: y}
}

func TestCombineScenarios(t *testing.T) {
	tests := []struct {
		name      string
		steps     []step
		wantEdges int
		wantArea  float64
		// Segments that must be present in the flattened result
		wantSegments [][2]geom.Vector
	}{
		{
			name: "disjoint union keeps both squares",
			steps: []step{
				{Union, square(0, 0, 1, 1)},
				{Union, square(3, 0, 4, 1)},
			},
			wantEdges: 8,
			wantArea:  2,
		},
		{
			name: "overlapping union",
			steps: []step{
				{Union, square(0, 0, 2, 2)},
				{Union, square(1, 1, 3, 3)},
			},
			// 8 walls; the top one is split again by the x = 2 splitter
			wantEdges: 9,
			wantArea:  7,
			wantSegments: [][2]geom.Vector{
				{v(2, 0), v(2, 1)},
				{v(2, 1), v(3, 1)},
				{v(1, 2), v(0, 2)},
				{v(1, 3), v(1, 2)},
				{v(3, 3), v(2, 3)},
				{v(2, 3), v(1, 3)},
			},
		},
		{
			name: "intersection keeps the overlap",
			steps: []step{
				{Union, square(0, 0, 2, 2)},
				{Intersection, square(1, 1, 3, 3)},
			},
			wantEdges: 4,
			wantArea:  1,
			wantSegments: [][2]geom.Vector{
				{v(1, 1), v(2, 1)},
				{v(2, 1), v(2, 2)},
				{v(2, 2), v(1, 2)},
				{v(1, 2), v(1, 1)},
			},
		},
		{
			name: "complement removes the overlap",
			steps: []step{
				{Union, square(0, 0, 2, 2)},
				{Complement, square(1, 1, 3, 3)},
			},
			wantEdges: 6,
			wantArea:  3,
			wantSegments: [][2]geom.Vector{
				{v(0, 0), v(2, 0)},
				{v(2, 0), v(2, 1)},
				{v(2, 1), v(1, 1)},
				{v(1, 1), v(1, 2)},
				{v(1, 2), v(0, 2)},
				{v(0, 2), v(0, 0)},
			},
		},
		{
			name: "adjacent union merges the shared side away",
			steps: []step{
				{Union, square(0, 0, 1, 1)},
				{Union, square(1, 0, 2, 1)},
			},
			wantEdges: 4,
			wantArea:  2,
			wantSegments: [][2]geom.Vector{
				{v(0, 0), v(2, 0)},
				{v(2, 1), v(0, 1)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := combined(t, tt.steps...)
			edges := c.Root().Flatten()

			if len(edges) != tt.wantEdges {
				t.Errorf("expected %d edges, got %d: %v", tt.wantEdges, len(edges), edges)
			}
			if area := roomArea(c.Root().Rooms()); !nearly(area, tt.wantArea) {
				t.Errorf("expected room area %v, got %v", tt.wantArea, area)
			}
			for _, seg := range tt.wantSegments {
				if !hasEdge(edges, seg[0], seg[1]) {
					t.Errorf("missing edge %v -> %v", seg[0], seg[1])
				}
			}
		})
	}
}

func TestOverlappingUnionWalls(t *testing.T) {
	a := Build(square(0, 0, 2, 2).Edges())
	b := Build(square(1, 1, 3, 3).Edges())

	walls := MergeEdges(combineEdges(Union, a, b, Tolerance))
	if len(walls) != 8 {
		t.Errorf("expected 8 walls before rebuilding, got %d: %v", len(walls), walls)
	}

	tree := Combine(Union, a, b)
	if got := totalLength(tree.Flatten()); !nearly(got, totalLength(walls)) {
		t.Errorf("rebuilt boundary length %v, want %v", got, totalLength(walls))
	}
}

func TestUnionWithOffsetStep(t *testing.T) {
	// The floors of both squares are parallel and nearly touch at x = 2
	tests := []struct {
		name     string
		offset   float64
		wantArea float64
	}{
		{name: "small step", offset: 0.05, wantArea: 7.9},
		{name: "large step", offset: 0.2, wantArea: 7.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := combined(t,
				step{Union, square(0, 0, 2, 2)},
				step{Union, square(2, tt.offset, 4, 2)},
			)
			tree := c.Root()

			if area := roomArea(tree.Rooms()); math.Abs(area-tt.wantArea) > 1e-6 {
				t.Errorf("expected room area %v, got %v", tt.wantArea, area)
			}
			if !hasEdge(tree.Flatten(), v(2, 0), v(2, tt.offset)) {
				t.Errorf("missing step wall (2,0) -> (2,%v)", tt.offset)
			}

			inside := []geom.Vector{v(1, tt.offset/2), v(1, 1), v(3, 1), v(2, 1)}
			outside := []geom.Vector{v(3, tt.offset/2), v(5, 1), v(1, -0.1)}
			for _, p := range inside {
				if !tree.Contains(p) {
					t.Errorf("%v should be inside", p)
				}
			}
			for _, p := range outside {
				if tree.Contains(p) {
					t.Errorf("%v should be outside", p)
				}
			}
		})
	}
}

func TestUnionOntoEmptyAdoptsBrush(t *testing.T) {
	c := combined(t, step{Union, square(0, 0, 1, 1)})

	root := c.Root()
	if root.Len() != 4 {
		t.Fatalf("expected 4 nodes, got %d", root.Len())
	}
	if !hasEdge(root.Flatten(), v(0, 0), v(1, 0)) {
		t.Error("brush edges should be the tree edges")
	}
	rooms := root.Rooms()
	if len(rooms) != 1 || !nearly(geom.SignedArea(rooms[0]), 1) {
		t.Errorf("expected one unit room, got %v", rooms)
	}
}

func TestCombineOntoEmpty(t *testing.T) {
	for _, op := range []Operation{Intersection, Complement} {
		t.Run(op.String(), func(t *testing.T) {
			c := combined(t, step{op, square(0, 0, 1, 1)})
			if !c.Root().Empty() {
				t.Errorf("%s onto nothing should stay empty, got %d nodes", op, c.Root().Len())
			}
		})
	}
}

func TestSelfUnionKeepsBoundary(t *testing.T) {
	brush := square(0, 0, 2, 2)
	c := combined(t, step{Union, brush}, step{Union, brush})

	edges := c.Root().Flatten()
	if got := totalLength(edges); !nearly(got, 8) {
		t.Errorf("expected boundary length 8, got %v", got)
	}
	if len(edges) != 4 {
		t.Errorf("expected 4 edges, got %d", len(edges))
	}
}

func TestSelfComplementIsEmpty(t *testing.T) {
	brush := square(0, 0, 2, 2)
	c := combined(t, step{Union, brush}, step{Complement, brush})

	if !c.Root().Empty() {
		t.Errorf("expected empty tree, got %d edges", len(c.Root().Flatten()))
	}
}

func TestIntersectionLiesInsideBoth(t *testing.T) {
	a := combined(t, step{Union, square(0, 0, 2, 2)}).Root()
	b := combined(t, step{Union, square(1, 1, 3, 3)}).Root()
	result := combined(t,
		step{Union, square(0, 0, 2, 2)},
		step{Intersection, square(1, 1, 3, 3)},
	).Root()

	for _, room := range result.Rooms() {
		center := geom.Centroid(room)
		if !a.Contains(center) || !b.Contains(center) {
			t.Errorf("room centered at %v is not inside both operands", center)
		}
	}
	if result.Contains(v(0.5, 0.5)) {
		t.Error("point only inside the first operand must be outside")
	}
}

func TestEdgeUnionAddsPartition(t *testing.T) {
	c := combined(t,
		step{Union, square(0, 0, 1, 1)},
		step{Union, square(1, 0, 2, 1)},
	)
	outline := c.Root().Flatten()

	if err := c.Combine(EdgeUnion, square(1, 0, 2, 1)); err != nil {
		t.Fatalf("edge union: %v", err)
	}
	edges := c.Root().Flatten()

	var partitions []Edge
	for _, e := range edges {
		if e.DoubleSided {
			partitions = append(partitions, e)
		}
	}
	if len(partitions) != 1 {
		t.Fatalf("expected one double-sided partition, got %d", len(partitions))
	}
	if !hasEdge(partitions, v(1, 1), v(1, 0)) {
		t.Errorf("partition should run (1,1) -> (1,0), got %v -> %v", partitions[0].P0, partitions[0].P1)
	}

	for _, e := range outline {
		if !hasEdge(edges, e.P0, e.P1) {
			t.Errorf("outline edge %v -> %v changed", e.P0, e.P1)
		}
	}
	if len(edges) != len(outline)+1 {
		t.Errorf("expected %d edges, got %d", len(outline)+1, len(edges))
	}

	rooms := c.Root().Rooms()
	if len(rooms) != 2 {
		t.Fatalf("partition should split the rectangle into 2 rooms, got %d", len(rooms))
	}
	for _, r := range rooms {
		if !nearly(geom.SignedArea(r), 1) {
			t.Errorf("expected unit room, got area %v", geom.SignedArea(r))
		}
	}
}

func TestEdgeUnionOutsideAddsNothing(t *testing.T) {
	// The brush only touches the level along x = 1. Its shared side faces
	// away from the existing room, so nothing is carved.
	c := combined(t,
		step{Union, square(0, 0, 1, 1)},
		step{EdgeUnion, square(1, 0, 2, 1)},
	)
	edges := c.Root().Flatten()

	if len(edges) != 4 {
		t.Errorf("expected the 4 walls of the square, got %d: %v", len(edges), edges)
	}
	for _, e := range edges {
		if e.DoubleSided {
			t.Errorf("edge %v -> %v should not be double-sided", e.P0, e.P1)
		}
	}
	if area := roomArea(c.Root().Rooms()); !nearly(area, 1) {
		t.Errorf("expected room area 1, got %v", area)
	}
}

func TestTemporaryEdgesAreNotFlattened(t *testing.T) {
	c := combined(t,
		step{Union, square(0, 0, 2, 1)},
		step{EdgeUnion, square(1, 0, 2, 1)},
	)

	temporary := 0
	for i := range c.Root().Len() {
		if c.Root().Node(NodeID(i)).Edge.Temporary {
			temporary++
		}
	}
	if temporary == 0 {
		t.Fatal("expected a temporary back face behind the partition")
	}
	for _, e := range c.Root().Flatten() {
		if e.Temporary {
			t.Error("flatten returned a temporary edge")
		}
	}
}

func TestComplementAlongPartition(t *testing.T) {
	// A rectangle split at x = 1, then the right half cut away. The partition
	// faces right when carved by the right square and left when carved by the left one.
	tests := []struct {
		name      string
		partition Brush
	}{
		{name: "partition facing the removed half", partition: square(1, 0, 2, 1)},
		{name: "partition facing the kept half", partition: square(0, 0, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := combined(t,
				step{Union, square(0, 0, 2, 1)},
				step{EdgeUnion, tt.partition},
				step{Complement, square(1, 0, 3, 1)},
			)
			edges := c.Root().Flatten()

			if len(edges) != 4 {
				t.Errorf("expected 4 walls, got %d: %v", len(edges), edges)
			}
			for _, e := range edges {
				if e.DoubleSided {
					t.Errorf("edge %v -> %v should be an outer wall now", e.P0, e.P1)
				}
			}
			if !hasEdge(edges, v(1, 0), v(1, 1)) {
				t.Error("missing new wall (1,0) -> (1,1)")
			}
			if area := roomArea(c.Root().Rooms()); !nearly(area, 1) {
				t.Errorf("expected room area 1, got %v", area)
			}
		})
	}
}

func TestRebuildFromFlattenKeepsBoundary(t *testing.T) {
	tree := combined(t,
		step{Union, square(0, 0, 2, 2)},
		step{Complement, square(1, 1, 3, 3)},
	).Root()

	edges := tree.Flatten()
	rebuilt := Build(edges)

	if got, want := totalLength(rebuilt.Flatten()), totalLength(edges); !nearly(got, want) {
		t.Errorf("rebuilt boundary length %v, want %v", got, want)
	}
	for _, p := range []geom.Vector{v(0.5, 0.5), v(1.5, 0.5), v(0.5, 1.5), v(1.5, 1.5), v(2.5, 0.5)} {
		if tree.Contains(p) != rebuilt.Contains(p) {
			t.Errorf("containment of %v differs after rebuild", p)
		}
	}
}

func TestCombineDoesNotModifyInputs(t *testing.T) {
	a := Build(square(0, 0, 2, 2).Edges())
	b := Build(square(1, 1, 3, 3).Edges())
	before := a.Flatten()

	for _, op := range []Operation{Union, EdgeUnion, Intersection, Complement} {
		Combine(op, a, b)
	}

	after := a.Flatten()
	if len(before) != len(after) {
		t.Fatalf("input tree changed size: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i].P0 != after[i].P0 || before[i].P1 != after[i].P1 {
			t.Errorf("input edge %d changed", i)
		}
	}
}

func TestParseOperation(t *testing.T) {
	tests := []struct {
		input   string
		want    Operation
		wantErr bool
	}{
		{input: "union", want: Union},
		{input: "Edge-Union", want: EdgeUnion},
		{input: "edge_union", want: EdgeUnion},
		{input: " INTERSECTION ", want: Intersection},
		{input: "complement", want: Complement},
		{input: "difference", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOperation(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
