// Package scene turns raw pointer gestures over a list of sprites into hover
// state and drag-and-drop sessions.
package scene

import (
	"log/slog"

	"github.com/memeforge/memeforge/backend-go/internal/geometry"
	"github.com/memeforge/memeforge/backend-go/internal/sprite"
)

// DefaultEpsilon is the pointer travel below which a drag is not recomputed.
const DefaultEpsilon = 1e-3

// DragDrop converts a gesture on one sprite into domain changes.
type DragDrop interface {
	Move(from, to geometry.Point, cursor *Cursor)
	Drop(from, to geometry.Point, cursor *Cursor)
}

// HandlerSource returns the handler for a sprite, or nil when the sprite
// cannot be dragged.
type HandlerSource func(s sprite.Sprite) DragDrop

type dragSession struct {
	sprite  sprite.Sprite
	handler DragDrop

	lastPos   geometry.Point
	lastShift bool
	lastCtrl  bool
}

// System owns the sprite list and the pointer. Sprites are drawn in insertion
// order; the last one is on top.
type System struct {
	sprites []sprite.Sprite
	cursor  *Cursor
	source  HandlerSource
	epsilon float64

	hovered sprite.Sprite
	drag    *dragSession
}

// Option configures a System.
type Option func(*System)

// WithEpsilon sets the drag recomputation tolerance.
func WithEpsilon(eps float64) Option {
	return func(s *System) { s.epsilon = eps }
}

// NewSystem creates an empty scene that asks source for drag handlers.
func NewSystem(source HandlerSource, opts ...Option) *System {
	s := &System{
		cursor:  newCursor(),
		source:  source,
		epsilon: DefaultEpsilon,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cursor returns the pointer state.
func (s *System) Cursor() *Cursor { return s.cursor }

// Sprites returns the sprites in draw order.
func (s *System) Sprites() []sprite.Sprite { return s.sprites }

// Hovered returns the hovered sprite, or nil.
func (s *System) Hovered() sprite.Sprite { return s.hovered }

// Dragging returns the sprite of the active drag session, or nil.
func (s *System) Dragging() sprite.Sprite {
	if s.drag == nil {
		return nil
	}
	return s.drag.sprite
}

// Add appends sprite on top of the scene and returns it.
func (s *System) Add(sp sprite.Sprite) sprite.Sprite {
	s.sprites = append(s.sprites, sp)
	return sp
}

// Clear removes every sprite. An in-progress drag is finished with a drop at
// the current pointer position first.
func (s *System) Clear() {
	if s.drag != nil {
		slog.Debug("finishing drag on scene clear")
		s.drag.handler.Drop(s.cursor.Anchor(), s.cursor.Position, s.cursor)
		s.drag = nil
	}
	s.hovered = nil
	s.sprites = nil
}

// SetScale sets the logical to device pixel ratio.
func (s *System) SetScale(scale float64) {
	if scale <= 0 {
		scale = 1
	}
	s.cursor.Scale = scale
}

// SetModifiers updates the modifier keys and refreshes the scene.
func (s *System) SetModifiers(shift, ctrl bool) {
	s.cursor.Shift = shift
	s.cursor.Ctrl = ctrl
	s.Update()
}

// PointerMove records a pointer move and refreshes the scene.
func (s *System) PointerMove(p geometry.Point) {
	s.cursor.Position = p
	s.Update()
}

// PointerDown presses the primary button at p. A drag session starts when the
// hovered sprite has a handler.
func (s *System) PointerDown(p geometry.Point) {
	s.cursor.Position = p
	if s.cursor.Pressed() {
		return
	}
	start := p
	s.cursor.MoveStart = &start

	s.Update()
	if s.drag != nil || s.hovered == nil {
		return
	}
	handler := s.source(s.hovered)
	if handler == nil {
		return
	}
	s.drag = &dragSession{
		sprite:    s.hovered,
		handler:   handler,
		lastPos:   p,
		lastShift: s.cursor.Shift,
		lastCtrl:  s.cursor.Ctrl,
	}
}

// PointerUp releases the primary button at p and drops the active session.
func (s *System) PointerUp(p geometry.Point) {
	s.cursor.Position = p
	if !s.cursor.Pressed() {
		return
	}
	from := *s.cursor.MoveStart
	if s.drag != nil {
		drag := s.drag
		s.drag = nil
		drag.handler.Drop(from, p, s.cursor)
	}
	s.cursor.MoveStart = nil
	s.Update()
}

// Update recomputes hover, or advances the active drag session.
func (s *System) Update() {
	if s.drag != nil {
		s.updateDrag()
		return
	}
	s.hovered = nil
	for i := len(s.sprites) - 1; i >= 0; i-- {
		sp := s.sprites[i]
		if sp.Interactive() && sp.Contains(s.cursor.Position) {
			s.hovered = sp
			return
		}
	}
}

func (s *System) updateDrag() {
	d := s.drag
	c := s.cursor
	if geometry.NearlyEqual(d.lastPos, c.Position, s.epsilon) && d.lastShift == c.Shift && d.lastCtrl == c.Ctrl {
		return
	}
	d.lastPos = c.Position
	d.lastShift = c.Shift
	d.lastCtrl = c.Ctrl
	d.handler.Move(c.Anchor(), c.Position, c)
}

// SpriteState returns the visual state of sp.
func (s *System) SpriteState(sp sprite.Sprite) sprite.State {
	if s.drag != nil && s.drag.sprite == sp {
		return sprite.StateActive
	}
	if s.hovered == sp {
		return sprite.StateHover
	}
	return sprite.StateDefault
}

// Draw refreshes the scene and draws every sprite in insertion order.
func (s *System) Draw(surface sprite.Surface) {
	s.Update()
	for _, sp := range s.sprites {
		surface.Save()
		sp.Draw(surface, s.SpriteState(sp))
		surface.Restore()
	}
}
