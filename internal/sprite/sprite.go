// Package sprite provides hit-testable, drawable shapes positioned by a
// hierarchy of transforms.
package sprite

import "github.com/memeforge/memeforge/backend-go/internal/geometry"

// State is the visual state a sprite is drawn in.
type State string

const (
	StateDefault State = "default"
	StateHover   State = "hover"
	StateActive  State = "active"
)

// Surface receives drawing operations in world coordinates.
type Surface interface {
	Save()
	Restore()
	// SetTransform multiplies the current transform by m.
	SetTransform(m geometry.Matrix2D)
	// Polygon draws a closed polygon.
	Polygon(points []geometry.Point, style Style)
}

// Style is the resolved paint for one draw call. Empty colors are not painted.
type Style struct {
	Fill      string
	Stroke    string
	LineWidth float64
}

// Sprite is a drawable, hit-testable shape.
type Sprite interface {
	Contains(p geometry.Point) bool
	Interactive() bool
	Draw(s Surface, state State)
}

// Palette maps each visual state to a fill and stroke color.
type Palette struct {
	Fill      map[State]string
	Stroke    map[State]string
	LineWidth float64
}

// Style resolves the palette for state.
func (p Palette) Style(state State) Style {
	lw := p.LineWidth
	if lw == 0 {
		lw = 2
	}
	return Style{Fill: p.Fill[state], Stroke: p.Stroke[state], LineWidth: lw}
}

// AlphaGradient builds a palette from a #rrggbb color that gets more opaque
// from default to hover to active.
func AlphaGradient(color string) Palette {
	shades := map[State]string{
		StateDefault: color + "44",
		StateHover:   color + "99",
		StateActive:  color,
	}
	return Palette{Fill: shades, Stroke: shades}
}

// PolygonSprite is a fixed local polygon placed by a Transform.
type PolygonSprite struct {
	Polygon   *geometry.Polygon
	Transform Transform
	Palette   Palette

	interactive bool
}

// NewPolygonSprite creates a sprite from a local-space polygon.
func NewPolygonSprite(p *geometry.Polygon, t Transform, interactive bool, palette Palette) *PolygonSprite {
	return &PolygonSprite{Polygon: p, Transform: t, Palette: palette, interactive: interactive}
}

func (s *PolygonSprite) Contains(p geometry.Point) bool {
	return s.Polygon.Contains(local(s.Transform, p))
}

func (s *PolygonSprite) Interactive() bool { return s.interactive }

func (s *PolygonSprite) Draw(surface Surface, state State) {
	surface.Polygon(s.Polygon.TransformCopy(s.Transform.Matrix()).Points(), s.Palette.Style(state))
}

// CalculatedPolygonSprite rebuilds its local polygon from Shape on every query,
// for shapes whose size follows live state.
type CalculatedPolygonSprite struct {
	Shape     func() *geometry.Polygon
	Transform Transform
	Palette   Palette

	interactive bool
}

// NewCalculatedPolygonSprite creates a sprite whose polygon is supplied on demand.
func NewCalculatedPolygonSprite(shape func() *geometry.Polygon, t Transform, interactive bool, palette Palette) *CalculatedPolygonSprite {
	return &CalculatedPolygonSprite{Shape: shape, Transform: t, Palette: palette, interactive: interactive}
}

func (s *CalculatedPolygonSprite) world() *geometry.Polygon {
	p := s.Shape()
	p.Transform(s.Transform.Matrix())
	return p
}

func (s *CalculatedPolygonSprite) Contains(p geometry.Point) bool {
	return s.Shape().Contains(local(s.Transform, p))
}

func (s *CalculatedPolygonSprite) Interactive() bool { return s.interactive }

func (s *CalculatedPolygonSprite) Draw(surface Surface, state State) {
	surface.Polygon(s.world().Points(), s.Palette.Style(state))
}
