package sprite

import (
	"github.com/memeforge/memeforge/backend-go/internal/geometry"
	"github.com/memeforge/memeforge/backend-go/internal/patch"
)

// Transform is a position and rotation node composing with an optional parent.
type Transform interface {
	// Matrix maps local coordinates into world coordinates:
	// rotate, then translate, then the parent's matrix.
	Matrix() geometry.Matrix2D
	// Rotation returns the cumulative rotation in radians.
	Rotation() float64
}

// StaticTransform holds plain, mutable fields.
type StaticTransform struct {
	X      float64
	Y      float64
	Rotate float64
	Parent Transform
}

// NewTransform creates a static transform.
func NewTransform(x, y, rotate float64, parent Transform) *StaticTransform {
	return &StaticTransform{X: x, Y: y, Rotate: rotate, Parent: parent}
}

func (t *StaticTransform) Matrix() geometry.Matrix2D {
	return compose(t.X, t.Y, t.Rotate, t.Parent)
}

func (t *StaticTransform) Rotation() float64 {
	return cumulative(t.Rotate, t.Parent)
}

// DynamicTransform evaluates its fields on every read.
type DynamicTransform struct {
	X      func() float64
	Y      func() float64
	Rotate func() float64
	Parent Transform
}

// NewDynamicTransform creates a transform backed by accessor functions.
func NewDynamicTransform(x, y, rotate func() float64, parent Transform) *DynamicTransform {
	return &DynamicTransform{X: x, Y: y, Rotate: rotate, Parent: parent}
}

func (t *DynamicTransform) Matrix() geometry.Matrix2D {
	return compose(t.X(), t.Y(), t.Rotate(), t.Parent)
}

func (t *DynamicTransform) Rotation() float64 {
	return cumulative(t.Rotate(), t.Parent)
}

// Zero is an accessor that always reads 0.
func Zero() float64 { return 0 }

// local maps a world point into the space of t.
func local(t Transform, p geometry.Point) geometry.Point {
	return t.Matrix().Invert().Apply(p)
}

func compose(x, y, rotate float64, parent Transform) geometry.Matrix2D {
	local := geometry.Translate(x, y).Multiply(geometry.Rotate(rotate))
	if parent == nil {
		return local
	}
	return parent.Matrix().Multiply(local)
}

func cumulative(rotate float64, parent Transform) float64 {
	if parent == nil {
		return rotate
	}
	return rotate + parent.Rotation()
}

// Static transform field paths.
var (
	TransformX = patch.NewField("x",
		func(t *StaticTransform) float64 { return t.X },
		func(t *StaticTransform, v float64) { t.X = v })
	TransformY = patch.NewField("y",
		func(t *StaticTransform) float64 { return t.Y },
		func(t *StaticTransform, v float64) { t.Y = v })
	TransformRotate = patch.NewField("rotate",
		func(t *StaticTransform) float64 { return t.Rotate },
		func(t *StaticTransform, v float64) { t.Rotate = v })
)
