package level

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/bloodmagesoftware/brushwork/csg"
	"github.com/bloodmagesoftware/brushwork/geom"
	"gopkg.in/yaml.v3"
)

// ErrInvalidBrush is returned for brushes that cannot enclose an area
var ErrInvalidBrush = errors.New("invalid brush")

type (
	Level struct {
		Name string `yaml:"name"`
		// Brushes are applied in order, starting from solid space.
		Brushes []Brush `yaml:"brushes"`
	}

	Brush struct {
		Operation csg.Operation `yaml:"operation"`
		// Material is the default material of every wall the brush creates.
		Material string `yaml:"material,omitempty"`
		// EdgeMaterials overrides Material per edge. Entry i belongs to the
		// edge starting at Points[i]; empty entries fall back to Material.
		EdgeMaterials []string `yaml:"edge_materials,omitempty"`
		// Points is the closed outline of the brush in world units.
		Points Outline `yaml:"points"`
	}

	Outline []Vec2

	Vec2 struct {
		X float64 `yaml:"x"`
		Y float64 `yaml:"y"`
	}
)

func New() *Level {
	return &Level{
		Brushes: make([]Brush, 0),
	}
}

func (l *Level) Save(path string) error {
	return writeYAML(path, l)
}

func (l *Level) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(l); err != nil {
		return fmt.Errorf("parsing level %s: %w", path, err)
	}
	return nil
}

// Add appends a brush to the level
func (l *Level) Add(b Brush) {
	l.Brushes = append(l.Brushes, b)
}

// Rejection records a brush that was skipped during replay
type Rejection struct {
	Index int
	Err   error
}

func (r Rejection) Error() string {
	return fmt.Sprintf("brush %d: %v", r.Index, r.Err)
}

func (r Rejection) Unwrap() error {
	return r.Err
}

// Replay applies every brush of the level to c in order. Brushes that are
// invalid or fail to combine are skipped and reported; the geometry stays at
// the last brush that succeeded.
func (l *Level) Replay(c *csg.Csg) []Rejection {
	var rejected []Rejection
	for i, b := range l.Brushes {
		if err := b.Validate(); err != nil {
			rejected = append(rejected, Rejection{Index: i, Err: err})
			continue
		}
		if err := c.Combine(b.Operation, b.ToCSG()); err != nil {
			rejected = append(rejected, Rejection{Index: i, Err: err})
		}
	}
	return rejected
}

// Validate checks that the brush outline encloses an area
func (b Brush) Validate() error {
	if len(b.Points) < 3 {
		return fmt.Errorf("%w: %d points, need at least 3", ErrInvalidBrush, len(b.Points))
	}
	for _, p := range b.Points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return fmt.Errorf("%w: point %v is not finite", ErrInvalidBrush, p)
		}
	}
	if math.Abs(geom.SignedArea(b.Points.Vectors())) < geom.Epsilon {
		return fmt.Errorf("%w: outline has no area", ErrInvalidBrush)
	}
	if len(b.EdgeMaterials) > len(b.Points) {
		return fmt.Errorf("%w: %d edge materials for %d edges", ErrInvalidBrush, len(b.EdgeMaterials), len(b.Points))
	}
	if _, err := b.Operation.MarshalText(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBrush, err)
	}
	return nil
}

// ToCSG converts the brush into the geometry engine's representation.
// Materials become edge payloads.
func (b Brush) ToCSG() csg.Brush {
	brush := csg.Brush{Points: b.Points.Vectors()}
	if b.Material != "" {
		brush.Payload = b.Material
	}
	if len(b.EdgeMaterials) > 0 {
		brush.Payloads = make([]any, len(b.EdgeMaterials))
		for i, m := range b.EdgeMaterials {
			if m != "" {
				brush.Payloads[i] = m
			}
		}
	}
	return brush
}

// Vectors converts the outline to geometry vectors
func (o Outline) Vectors() []geom.Vector {
	points := make([]geom.Vector, len(o))
	for i, p := range o {
		points[i] = geom.Vector{X: p.X, Y: p.Y}
	}
	return points
}

// OutlineOf converts geometry vectors to an outline
func OutlineOf(points []geom.Vector) Outline {
	outline := make(Outline, len(points))
	for i, p := range points {
		outline[i] = Vec2{X: p.X, Y: p.Y}
	}
	return outline
}

func writeYAML(path string, v any) error {
	_ = os.MkdirAll(filepath.Dir(path), 0755)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := yaml.NewEncoder(f)
	defer encoder.Close()
	encoder.SetIndent(4)

	return encoder.Encode(v)
}
