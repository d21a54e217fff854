package level

import (
	"github.com/bloodmagesoftware/brushwork/csg"
)

type (
	// Baked is the compiled geometry of a level, ready for the game runtime.
	Baked struct {
		Name  string `yaml:"name"`
		Walls []Wall `yaml:"walls"`
		Rooms []Room `yaml:"rooms"`
	}

	Wall struct {
		From   Vec2    `yaml:"from"`
		To     Vec2    `yaml:"to"`
		Height float64 `yaml:"height"`
		// DoubleSided walls separate two rooms and are rendered from both sides.
		DoubleSided bool   `yaml:"double_sided,omitempty"`
		Material    string `yaml:"material,omitempty"`
	}

	// Room is a convex floor area, counter-clockwise.
	Room struct {
		Outline Outline `yaml:"outline"`
	}
)

// Bake collects the walls and rooms of tree. Temporary back faces are not walls.
func Bake(name string, tree *csg.Tree) *Baked {
	baked := &Baked{
		Name:  name,
		Walls: make([]Wall, 0, tree.Len()),
		Rooms: make([]Room, 0),
	}

	for i := range tree.Len() {
		n := tree.Node(csg.NodeID(i))
		if n.Edge.Temporary {
			continue
		}

		wall := Wall{
			From:        Vec2{X: n.Edge.P0.X, Y: n.Edge.P0.Y},
			To:          Vec2{X: n.Edge.P1.X, Y: n.Edge.P1.Y},
			DoubleSided: n.Edge.DoubleSided,
		}
		if n.Quad != nil {
			wall.Height = n.Quad[2].Z
		}
		if material, ok := n.Edge.Payload.(string); ok {
			wall.Material = material
		}
		baked.Walls = append(baked.Walls, wall)
	}

	for _, room := range tree.Rooms() {
		baked.Rooms = append(baked.Rooms, Room{Outline: OutlineOf(room)})
	}

	return baked
}

func (b *Baked) Save(path string) error {
	return writeYAML(path, b)
}
