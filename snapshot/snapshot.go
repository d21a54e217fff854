package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/bloodmagesoftware/brushwork/csg"
	"github.com/bloodmagesoftware/brushwork/geom"
	"github.com/xfmoulet/qoi"
	"golang.org/x/image/vector"
)

// Options controls how a level is rendered
type Options struct {
	// Scale is the number of pixels per world unit
	Scale float64
	// Padding is the empty border around the level in pixels
	Padding int
	// WallWidth is the stroke width of walls in pixels
	WallWidth float64
	// MaxSize caps the width and height of the image in pixels. Large levels
	// are rendered at a smaller scale to fit. Zero uses DefaultMaxSize.
	MaxSize int

	Background color.NRGBA
	Room       color.NRGBA
	Wall       color.NRGBA
	Partition  color.NRGBA
}

// DefaultMaxSize is the largest image side rendered unless Options.MaxSize is set
const DefaultMaxSize = 4096

// DefaultOptions returns the editor colour scheme at 32 pixels per unit
func DefaultOptions() Options {
	return Options{
		Scale:      32,
		Padding:    16,
		WallWidth:  2,
		MaxSize:    DefaultMaxSize,
		Background: color.NRGBA{R: 30, G: 30, B: 30, A: 255},
		Room:       color.NRGBA{R: 70, G: 90, B: 110, A: 255},
		Wall:       color.NRGBA{R: 230, G: 230, B: 230, A: 255},
		Partition:  color.NRGBA{R: 230, G: 160, B: 60, A: 255},
	}
}

// frame maps world coordinates to pixels, y axis up
type frame struct {
	min, max geom.Vector
	scale    float64
	padding  float64
}

func (f frame) pixel(p geom.Vector) (float32, float32) {
	x := f.padding + (p.X-f.min.X)*f.scale
	y := f.padding + (f.max.Y-p.Y)*f.scale
	return float32(x), float32(y)
}

// Render draws the rooms and walls of tree. Every room is filled, every wall
// is stroked on top; double-sided partitions use their own colour.
func Render(tree *csg.Tree, opts Options) *image.NRGBA {
	f, size := layoutFrame(tree, opts)

	img := image.NewNRGBA(image.Rectangle{Max: size})
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	z := vector.NewRasterizer(size.X, size.Y)

	for _, room := range tree.Rooms() {
		z.Reset(size.X, size.Y)
		for i, p := range room {
			x, y := f.pixel(p)
			if i == 0 {
				z.MoveTo(x, y)
			} else {
				z.LineTo(x, y)
			}
		}
		z.ClosePath()
		z.Draw(img, img.Bounds(), image.NewUniform(opts.Room), image.Point{})
	}

	for i := range tree.Len() {
		n := tree.Node(csg.NodeID(i))
		if n.Edge.Temporary {
			continue
		}
		col := opts.Wall
		if n.Edge.DoubleSided {
			col = opts.Partition
		}
		z.Reset(size.X, size.Y)
		strokeSegment(z, f, n.Edge.P0, n.Edge.P1, opts.WallWidth)
		z.Draw(img, img.Bounds(), image.NewUniform(col), image.Point{})
	}

	return img
}

// layoutFrame fits the bounds of all walls into an image with padding
func layoutFrame(tree *csg.Tree, opts Options) (frame, image.Point) {
	f := frame{scale: opts.Scale, padding: float64(opts.Padding)}

	edges := tree.Flatten()
	if len(edges) == 0 {
		side := max(1, 2*opts.Padding)
		return f, image.Point{X: side, Y: side}
	}

	f.min = geom.Vector{X: math.Inf(1), Y: math.Inf(1)}
	f.max = geom.Vector{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, e := range edges {
		for _, p := range []geom.Vector{e.P0, e.P1} {
			f.min.X = math.Min(f.min.X, p.X)
			f.min.Y = math.Min(f.min.Y, p.Y)
			f.max.X = math.Max(f.max.X, p.X)
			f.max.Y = math.Max(f.max.Y, p.Y)
		}
	}

	maxSize := opts.MaxSize
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	// Shrink the scale until the level fits
	extentX, extentY := f.max.X-f.min.X, f.max.Y-f.min.Y
	room := float64(max(1, maxSize-2*opts.Padding))
	if extentX*f.scale > room {
		f.scale = room / extentX
	}
	if extentY*f.scale > room {
		f.scale = room / extentY
	}

	width := int(math.Ceil(extentX*f.scale)) + 2*opts.Padding
	height := int(math.Ceil(extentY*f.scale)) + 2*opts.Padding
	return f, image.Point{X: min(max(1, width), maxSize), Y: min(max(1, height), maxSize)}
}

// strokeSegment adds a rectangle of the given pixel width around the segment
func strokeSegment(z *vector.Rasterizer, f frame, p0, p1 geom.Vector, width float64) {
	x0, y0 := f.pixel(p0)
	x1, y1 := f.pixel(p1)

	dx, dy := float64(x1-x0), float64(y1-y0)
	length := math.Hypot(dx, dy)
	if length < geom.Epsilon {
		return
	}
	nx := float32(-dy / length * width / 2)
	ny := float32(dx / length * width / 2)

	z.MoveTo(x0+nx, y0+ny)
	z.LineTo(x1+nx, y1+ny)
	z.LineTo(x1-nx, y1-ny)
	z.LineTo(x0-nx, y0-ny)
	z.ClosePath()
}

// Encode writes img as QOI
func Encode(w io.Writer, img image.Image) error {
	return qoi.Encode(w, img)
}

// WriteFile renders tree and writes it to path as QOI
func WriteFile(path string, tree *csg.Tree, opts Options) error {
	_ = os.MkdirAll(filepath.Dir(path), 0755)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	defer f.Close()

	if err := Encode(f, Render(tree, opts)); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}
