package geom

import "math"

// Epsilon is the threshold below which lengths and determinants count as zero.
const Epsilon = 1e-9

// Vector represents a 2D point or direction
type Vector struct {
	X, Y float64
}

// Add returns v + o
func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o
func (v Vector) Sub(o Vector) Vector {
	return Vector{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v multiplied by s
func (v Vector) Scale(s float64) Vector {
	return Vector{X: v.X * s, Y: v.Y * s}
}

// Dot returns the dot product of two vectors
func (v Vector) Dot(o Vector) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Cross returns the z component of the 3D cross product of v and o
func (v Vector) Cross(o Vector) float64 {
	return v.X*o.Y - v.Y*o.X
}

// Length returns the euclidean length of the vector
func (v Vector) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Distance returns the distance between two points
func (v Vector) Distance(o Vector) float64 {
	return v.Sub(o).Length()
}

// Normalize returns a normalized copy of the vector
func (v Vector) Normalize() Vector {
	length := v.Length()
	if length < Epsilon {
		return Vector{}
	}
	return Vector{X: v.X / length, Y: v.Y / length}
}

// Perp returns the vector rotated 90 degrees counter-clockwise
func (v Vector) Perp() Vector {
	return Vector{X: -v.Y, Y: v.X}
}

// Lerp interpolates between v and o
func (v Vector) Lerp(o Vector, t float64) Vector {
	return Vector{X: v.X + t*(o.X-v.X), Y: v.Y + t*(o.Y-v.Y)}
}

// Near reports whether two points are within tol of each other
func (v Vector) Near(o Vector, tol float64) bool {
	return v.Distance(o) <= tol
}

// Vector3 is a point in 3D space, used for extruded wall geometry
type Vector3 struct {
	X, Y, Z float64
}

// Side is the result of classifying a point against a plane
type Side int

const (
	Behind Side = iota - 1
	On
	InFront
)

func (s Side) String() string {
	switch s {
	case Behind:
		return "behind"
	case On:
		return "on"
	case InFront:
		return "in front"
	}
	return "unknown"
}

// Opposite returns the other side; On stays On
func (s Side) Opposite() Side {
	return -s
}

// SignedArea computes the signed area of a closed point sequence.
// Positive = CCW, Negative = CW
func SignedArea(points []Vector) float64 {
	if len(points) < 3 {
		return 0
	}

	var area float64
	n := len(points)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += points[i].X * points[j].Y
		area -= points[j].X * points[i].Y
	}
	return area / 2
}

// EnsureCCW returns the points in counter-clockwise order.
// CCW input is returned unchanged, CW input is returned as a reversed copy.
func EnsureCCW(points []Vector) []Vector {
	if SignedArea(points) >= 0 {
		return points
	}

	n := len(points)
	reversed := make([]Vector, n)
	for i := 0; i < n; i++ {
		reversed[i] = points[n-1-i]
	}
	return reversed
}

// Centroid returns the area centroid of a simple polygon, falling back to
// the vertex average for degenerate input
func Centroid(points []Vector) Vector {
	area := SignedArea(points)
	if math.Abs(area) < Epsilon {
		var sum Vector
		for _, p := range points {
			sum = sum.Add(p)
		}
		if len(points) == 0 {
			return sum
		}
		return sum.Scale(1 / float64(len(points)))
	}

	var cx, cy float64
	n := len(points)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		f := points[i].X*points[j].Y - points[j].X*points[i].Y
		cx += (points[i].X + points[j].X) * f
		cy += (points[i].Y + points[j].Y) * f
	}
	return Vector{X: cx / (6 * area), Y: cy / (6 * area)}
}
