package sprite

import (
	"math"

	"github.com/memeforge/memeforge/backend-go/internal/geometry"
)

const arcSegments = 32

// Rectangle returns a width x height rectangle centered on the origin.
func Rectangle(width, height float64) *geometry.Polygon {
	w, h := width/2, height/2
	return geometry.NewPolygon(
		geometry.Pt(-w, -h),
		geometry.Pt(w, -h),
		geometry.Pt(w, h),
		geometry.Pt(-w, h),
	)
}

// Arrow returns an arrow starting at the origin and pointing along +x.
// The head is width long and width wide; the shaft is half as thick.
func Arrow(length, width float64) *geometry.Polygon {
	head := min(width, length)
	shaft := width / 4
	hw := width / 2
	neck := length - head
	return geometry.NewPolygon(
		geometry.Pt(0, -shaft),
		geometry.Pt(neck, -shaft),
		geometry.Pt(neck, -hw),
		geometry.Pt(length, 0),
		geometry.Pt(neck, hw),
		geometry.Pt(neck, shaft),
		geometry.Pt(0, shaft),
	)
}

// CircleArrow returns a ring segment of the given radius sweeping clockwise
// from angle 0 to sweep, with an arrow head at its end.
func CircleArrow(radius, sweep, width float64) *geometry.Polygon {
	outer := radius + width/2
	inner := radius - width/2
	headAngle := width / radius

	points := make([]geometry.Point, 0, 2*arcSegments+5)
	for i := 0; i <= arcSegments; i++ {
		points = append(points, polar(outer, sweep*float64(i)/arcSegments))
	}
	points = append(points,
		polar(radius+width, sweep),
		polar(radius, sweep+headAngle),
		polar(max(radius-width, 0), sweep),
	)
	for i := arcSegments; i >= 0; i-- {
		points = append(points, polar(inner, sweep*float64(i)/arcSegments))
	}
	return geometry.NewPolygon(points...)
}

func polar(r, angle float64) geometry.Point {
	sin, cos := math.Sincos(angle)
	return geometry.Pt(r*cos, r*sin)
}
