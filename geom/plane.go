package geom

import "math"

// Plane represents a 2D line using the plane equation: Normal · Point = Distance
type Plane struct {
	Normal   Vector
	Distance float64
}

// PlaneFromPoints returns the support plane of the directed segment p0->p1.
// The normal is the left perpendicular of the direction, so the interior of a
// counter-clockwise polygon lies in front of each of its edges.
func PlaneFromPoints(p0, p1 Vector) Plane {
	normal := p1.Sub(p0).Perp().Normalize()
	return Plane{Normal: normal, Distance: normal.Dot(p0)}
}

// SignedDistance returns > 0 for front, < 0 for back, 0 for on the line
func (p Plane) SignedDistance(point Vector) float64 {
	return p.Normal.Dot(point) - p.Distance
}

// ClassifyPoint determines which side of the plane a point is on.
// Points within tolerance of the line count as On.
func (p Plane) ClassifyPoint(point Vector, tolerance float64) Side {
	side := p.SignedDistance(point)
	if side > tolerance {
		return InFront
	} else if side < -tolerance {
		return Behind
	}
	return On
}

// Flip returns the same line facing the other way
func (p Plane) Flip() Plane {
	return Plane{Normal: p.Normal.Scale(-1), Distance: -p.Distance}
}

// Direction returns the direction along the line that keeps the front side on the left
func (p Plane) Direction() Vector {
	return Vector{X: p.Normal.Y, Y: -p.Normal.X}
}

// Degenerate reports whether the plane has no usable normal
func (p Plane) Degenerate() bool {
	return p.Normal.Length() < Epsilon
}

// Coincident reports whether two planes describe the same line with the same facing
func (p Plane) Coincident(o Plane, tolerance float64) bool {
	return p.Normal.Dot(o.Normal) > 1-Epsilon*1e3 && math.Abs(p.Distance-o.Distance) <= tolerance
}

// IntersectSegment returns the point where the segment p0->p1 crosses the plane.
// Segments parallel to the plane have no intersection.
func (p Plane) IntersectSegment(p0, p1 Vector) (Vector, bool) {
	d0 := p.SignedDistance(p0)
	d1 := p.SignedDistance(p1)
	denom := d0 - d1
	if math.Abs(denom) < Epsilon {
		return Vector{}, false
	}
	t := d0 / denom
	return p0.Lerp(p1, t), true
}

// IntersectPlane returns the point shared by two lines.
// A zero determinant (parallel lines) reports no intersection.
func (p Plane) IntersectPlane(o Plane) (Vector, bool) {
	det := p.Normal.Cross(o.Normal)
	if math.Abs(det) < Epsilon {
		return Vector{}, false
	}
	return Vector{
		X: (p.Distance*o.Normal.Y - o.Distance*p.Normal.Y) / det,
		Y: (p.Normal.X*o.Distance - o.Normal.X*p.Distance) / det,
	}, true
}
