package geometry

import "slices"

type edge struct {
	p1, p2      Point
	line        Line
	left, right float64
}

func newEdge(p1, p2 Point) edge {
	return edge{
		p1:    p1,
		p2:    p2,
		line:  LineThrough(p1, p2),
		left:  min(p1.X, p2.X),
		right: max(p1.X, p2.X),
	}
}

// Polygon is a closed polygon; the last point connects back to the first.
type Polygon struct {
	points []Point
	edges  []edge
}

// NewPolygon builds a polygon over a copy of points.
func NewPolygon(points ...Point) *Polygon {
	p := &Polygon{points: slices.Clone(points)}
	p.updateEdges()
	return p
}

func (p *Polygon) updateEdges() {
	n := len(p.points)
	p.edges = p.edges[:0]
	if n < 2 {
		return
	}
	for i := 0; i < n-1; i++ {
		p.edges = append(p.edges, newEdge(p.points[i], p.points[i+1]))
	}
	p.edges = append(p.edges, newEdge(p.points[n-1], p.points[0]))
}

// Points returns the polygon vertices. The slice must not be modified.
func (p *Polygon) Points() []Point {
	return p.points
}

// Transform applies m to every vertex in place.
func (p *Polygon) Transform(m Matrix2D) {
	for i, pt := range p.points {
		p.points[i] = m.Apply(pt)
	}
	p.updateEdges()
}

// TransformCopy returns a new polygon with m applied to every vertex.
func (p *Polygon) TransformCopy(m Matrix2D) *Polygon {
	points := make([]Point, len(p.points))
	for i, pt := range p.points {
		points[i] = m.Apply(pt)
	}
	q := &Polygon{points: points}
	q.updateEdges()
	return q
}

// Contains reports whether pt lies inside the polygon.
//
// Every edge whose x-span straddles pt.X contributes the side of pt relative to
// the edge line; pt is inside when the contributions do not cancel out.
func (p *Polygon) Contains(pt Point) bool {
	sum := 0
	for i := range p.edges {
		e := &p.edges[i]
		if pt.X <= e.left || pt.X > e.right {
			continue
		}
		sum += e.line.Sign(pt)
	}
	return sum != 0
}

// Center returns the vertex centroid.
func (p *Polygon) Center() Point {
	if len(p.points) == 0 {
		return Point{}
	}
	var c Point
	for _, pt := range p.points {
		c = c.Add(pt)
	}
	return c.Scale(1 / float64(len(p.points)))
}

// Area returns the signed shoelace area. It is positive for clockwise
// vertex order on a y-down canvas.
func (p *Polygon) Area() float64 {
	n := len(p.points)
	if n < 3 {
		return 0
	}
	area := 0.0
	for i := 0; i < n; i++ {
		a := p.points[i]
		b := p.points[(i+1)%n]
		area += a.X*b.Y - b.X*a.Y
	}
	return area / 2
}

// Repair reverses the vertex order when the area is negative.
func (p *Polygon) Repair() {
	if p.Area() < 0 {
		slices.Reverse(p.points)
		p.updateEdges()
	}
}
