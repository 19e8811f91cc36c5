package scene

import "github.com/memeforge/memeforge/backend-go/internal/geometry"

// Cursor is the pointer as seen by the scene, in logical canvas pixels.
type Cursor struct {
	Position geometry.Point
	// MoveStart is the press position while the primary button is held.
	MoveStart *geometry.Point
	Shift     bool
	Ctrl      bool
	// Scale is the ratio of logical to device pixels.
	Scale float64
}

func newCursor() *Cursor {
	return &Cursor{Scale: 1}
}

// Pressed reports whether the primary button is held.
func (c *Cursor) Pressed() bool {
	return c.MoveStart != nil
}

// Anchor returns the press position, or the current position when not pressed.
func (c *Cursor) Anchor() geometry.Point {
	if c.MoveStart == nil {
		return c.Position
	}
	return *c.MoveStart
}
