package render

import (
	"github.com/memeforge/memeforge/backend-go/internal/geometry"
	"github.com/memeforge/memeforge/backend-go/internal/sprite"
)

// Buffer is a sprite.Surface that records draw commands in painter's order.
type Buffer struct {
	commands []DrawCommand
	depth    int
}

func NewBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) Save() {
	b.depth++
	b.commands = append(b.commands, DrawCommand{Op: "save"})
}

// Restore pops a saved state. Unbalanced restores are dropped.
func (b *Buffer) Restore() {
	if b.depth == 0 {
		return
	}
	b.depth--
	b.commands = append(b.commands, DrawCommand{Op: "restore"})
}

func (b *Buffer) SetTransform(m geometry.Matrix2D) {
	b.commands = append(b.commands, DrawCommand{Op: "transform", Transform: m.ToSlice()})
}

func (b *Buffer) Polygon(points []geometry.Point, style sprite.Style) {
	if len(points) == 0 {
		return
	}
	b.commands = append(b.commands, DrawCommand{
		Op:          "path",
		Path:        PolygonPath(points),
		Fill:        style.Fill,
		Stroke:      style.Stroke,
		StrokeWidth: style.LineWidth,
	})
}

// Image draws an image asset with its top-left corner at the origin.
func (b *Buffer) Image(id, asset string, width, height float64) {
	b.commands = append(b.commands, DrawCommand{
		Op:           "image",
		ObjectID:     id,
		ImageAssetID: asset,
		ImageWidth:   width,
		ImageHeight:  height,
	})
}

// Commands returns the recorded commands, closing any unbalanced saves.
func (b *Buffer) Commands() []DrawCommand {
	for b.depth > 0 {
		b.Restore()
	}
	return b.commands
}

// Reset empties the buffer for the next frame.
func (b *Buffer) Reset() {
	b.commands = nil
	b.depth = 0
}

var _ sprite.Surface = (*Buffer)(nil)
