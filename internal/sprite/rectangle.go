package sprite

import (
	"github.com/memeforge/memeforge/backend-go/internal/geometry"
	"github.com/memeforge/memeforge/backend-go/internal/patch"
)

// RectangleSprite is an editable box centered on its transform origin.
type RectangleSprite struct {
	transform *StaticTransform
	width     float64
	height    float64
	polygon   *geometry.Polygon
	Palette   Palette
}

// NewRectangleSprite creates a box centered at (x, y).
func NewRectangleSprite(x, y, width, height, rotation float64, palette Palette) *RectangleSprite {
	r := &RectangleSprite{
		transform: NewTransform(x, y, rotation, nil),
		width:     width,
		height:    height,
		Palette:   palette,
	}
	r.rebuild()
	return r
}

func (r *RectangleSprite) rebuild() {
	r.polygon = Rectangle(r.width, r.height)
}

// Transform returns the box transform; handles use it as their parent.
func (r *RectangleSprite) Transform() *StaticTransform { return r.transform }

func (r *RectangleSprite) X() float64        { return r.transform.X }
func (r *RectangleSprite) Y() float64        { return r.transform.Y }
func (r *RectangleSprite) Rotation() float64 { return r.transform.Rotate }
func (r *RectangleSprite) Width() float64    { return r.width }
func (r *RectangleSprite) Height() float64   { return r.height }

func (r *RectangleSprite) SetX(v float64)        { r.transform.X = v }
func (r *RectangleSprite) SetY(v float64)        { r.transform.Y = v }
func (r *RectangleSprite) SetRotation(v float64) { r.transform.Rotate = v }

func (r *RectangleSprite) SetWidth(v float64) {
	r.width = v
	r.rebuild()
}

func (r *RectangleSprite) SetHeight(v float64) {
	r.height = v
	r.rebuild()
}

func (r *RectangleSprite) Left() float64   { return r.X() - r.width/2 }
func (r *RectangleSprite) Right() float64  { return r.X() + r.width/2 }
func (r *RectangleSprite) Top() float64    { return r.Y() - r.height/2 }
func (r *RectangleSprite) Bottom() float64 { return r.Y() + r.height/2 }

// Center returns the box center in world coordinates.
func (r *RectangleSprite) Center() geometry.Point {
	return r.transform.Matrix().Apply(geometry.Point{})
}

func (r *RectangleSprite) Contains(p geometry.Point) bool {
	return r.polygon.Contains(local(r.transform, p))
}

// Interactive is false: the box itself is manipulated through its handles.
func (r *RectangleSprite) Interactive() bool { return false }

func (r *RectangleSprite) Draw(surface Surface, state State) {
	surface.Polygon(r.polygon.TransformCopy(r.transform.Matrix()).Points(), r.Palette.Style(state))
}

// Box field paths. Position and rotation live on the box transform.
var (
	BoxTransform = patch.NewRef("transform", func(r *RectangleSprite) *StaticTransform { return r.transform })

	BoxX        = patch.Descend(BoxTransform, TransformX)
	BoxY        = patch.Descend(BoxTransform, TransformY)
	BoxRotation = patch.Descend(BoxTransform, TransformRotate)

	BoxWidth = patch.NewField("width",
		func(r *RectangleSprite) float64 { return r.Width() },
		func(r *RectangleSprite, v float64) { r.SetWidth(v) })
	BoxHeight = patch.NewField("height",
		func(r *RectangleSprite) float64 { return r.Height() },
		func(r *RectangleSprite, v float64) { r.SetHeight(v) })
)
