package editor

import (
	"github.com/memeforge/memeforge/backend-go/internal/geometry"
	"github.com/memeforge/memeforge/backend-go/internal/scene"
	"github.com/memeforge/memeforge/backend-go/internal/sprite"
)

func newCursor(shift, ctrl bool) *scene.Cursor {
	return &scene.Cursor{Shift: shift, Ctrl: ctrl, Scale: 1}
}

type countingSurface struct {
	transforms []geometry.Matrix2D
	polygons   int
	depth      int
}

func (s *countingSurface) Save()    { s.depth++ }
func (s *countingSurface) Restore() { s.depth-- }
func (s *countingSurface) SetTransform(m geometry.Matrix2D) {
	s.transforms = append(s.transforms, m)
}
func (s *countingSurface) Polygon([]geometry.Point, sprite.Style) { s.polygons++ }
