package geometry

import "math"

// Point is a position or a vector in logical canvas pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Scale returns p multiplied by n.
func (p Point) Scale(n float64) Point {
	return Point{n * p.X, n * p.Y}
}

// Dot returns the scalar product of p and q.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Length returns the euclidean norm of p.
func (p Point) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// Angle returns the direction of p in radians, as atan2.
func (p Point) Angle() float64 {
	return math.Atan2(p.Y, p.X)
}

// Mid returns the point halfway between a and b.
func Mid(a, b Point) Point {
	return Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
}

// Dist returns the distance between a and b.
func Dist(a, b Point) float64 {
	return b.Sub(a).Length()
}

// Vector returns the vector from a to b.
func Vector(a, b Point) Point {
	return b.Sub(a)
}

// NearlyEqual reports whether a and b are within eps on both axes.
func NearlyEqual(a, b Point, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps
}
