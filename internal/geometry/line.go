package geometry

import "math"

// onLineEpsilon is the tolerance used by Line.OnLine.
const onLineEpsilon = 1e-12

// Line is the implicit line a*x + b*y + c = 0.
type Line struct {
	A, B, C float64

	normal Point
	norm   float64
}

// NewLine builds a line from its implicit coefficients.
func NewLine(a, b, c float64) Line {
	norm := math.Hypot(a, b)
	return Line{
		A:      a,
		B:      b,
		C:      c,
		normal: Point{a / norm, b / norm},
		norm:   norm,
	}
}

// LineThrough returns the line directed from p1 to p2.
// Points to the right of the direction (in screen coordinates, y down) have a positive sign.
func LineThrough(p1, p2 Point) Line {
	return NewLine(p1.Y-p2.Y, p2.X-p1.X, p1.X*p2.Y-p2.X*p1.Y)
}

// RawDistance returns the unnormalized signed distance of p.
func (l Line) RawDistance(p Point) float64 {
	return l.A*p.X + l.B*p.Y + l.C
}

// Sign returns -1, 0 or +1 depending on which half-plane p lies in.
func (l Line) Sign(p Point) int {
	d := l.RawDistance(p)
	switch {
	case d > 0:
		return 1
	case d < 0:
		return -1
	default:
		return 0
	}
}

// OnLine reports whether p lies on the line.
func (l Line) OnLine(p Point) bool {
	return math.Abs(l.RawDistance(p)) < onLineEpsilon
}

// Distance returns the unsigned distance from p to the line.
func (l Line) Distance(p Point) float64 {
	return math.Abs(l.RawDistance(p)) / l.norm
}

// Projection returns the foot of the perpendicular from p onto the line.
func (l Line) Projection(p Point) Point {
	d := l.RawDistance(p) / l.norm
	return Point{p.X - l.normal.X*d, p.Y - l.normal.Y*d}
}
