// Package editor draws manipulation handles around the active text box and
// turns drags on them into history patches.
package editor

import (
	"math"

	"github.com/memeforge/memeforge/backend-go/internal/geometry"
	"github.com/memeforge/memeforge/backend-go/internal/scene"
	"github.com/memeforge/memeforge/backend-go/internal/sprite"
	"github.com/memeforge/memeforge/backend-go/internal/state"
)

const (
	DefaultUIUnit   = 18
	DefaultSnapStep = 10
)

// Options sizes the handles and the shift snapping.
type Options struct {
	// UIUnit is the handle size in device pixels.
	UIUnit float64
	// SnapStep is the length quantum used by edge and arrow drags with shift.
	SnapStep float64
	// Epsilon is the pointer travel below which a drag is not recomputed.
	Epsilon float64
}

func (o Options) withDefaults() Options {
	if o.UIUnit <= 0 {
		o.UIUnit = DefaultUIUnit
	}
	if o.SnapStep <= 0 {
		o.SnapStep = DefaultSnapStep
	}
	if o.Epsilon <= 0 {
		o.Epsilon = scene.DefaultEpsilon
	}
	return o
}

// Editor owns the handle scene for the active text of a State.
type Editor struct {
	state    *state.State
	scene    *scene.System
	handlers map[sprite.Sprite]Gesture
	opts     Options
}

// New creates an editor. Call Setup to build the handles.
func New(st *state.State, opts Options) *Editor {
	e := &Editor{
		state:    st,
		handlers: make(map[sprite.Sprite]Gesture),
		opts:     opts.withDefaults(),
	}
	e.scene = scene.NewSystem(e.handler, scene.WithEpsilon(e.opts.Epsilon))
	return e
}

// Scene returns the interaction system the host feeds pointer events to.
func (e *Editor) Scene() *scene.System { return e.scene }

// handler binds the gesture of a handle to the box that is active when the
// drag starts.
func (e *Editor) handler(s sprite.Sprite) scene.DragDrop {
	g, ok := e.handlers[s]
	if !ok {
		return nil
	}
	return &boxDrag{state: e.state, box: e.state.ActiveText.Box, gesture: g}
}

type boxDrag struct {
	state   *state.State
	box     *sprite.RectangleSprite
	gesture Gesture
}

func (d *boxDrag) Move(from, to geometry.Point, c *scene.Cursor) {
	d.state.UndoTemporal()
	d.state.ApplyTemporal(state.Box(d.gesture(from, to, c, d.box)))
}

func (d *boxDrag) Drop(from, to geometry.Point, c *scene.Cursor) {
	d.state.UndoTemporal()
	d.state.Apply(state.Box(d.gesture(from, to, c, d.box)))
}

func (e *Editor) add(s sprite.Sprite, g Gesture) {
	e.handlers[e.scene.Add(s)] = g
}

type edge struct {
	horizontal bool
	dir        geometry.Point
}

var (
	edges = []edge{
		{false, geometry.Pt(1, 0)},
		{false, geometry.Pt(-1, 0)},
		{true, geometry.Pt(0, 1)},
		{true, geometry.Pt(0, -1)},
	}
	corners = []geometry.Point{
		geometry.Pt(1, 1),
		geometry.Pt(-1, 1),
		geometry.Pt(-1, -1),
		geometry.Pt(1, -1),
	}
)

// Setup rebuilds the handles for the current active text. The main caption
// gets none.
func (e *Editor) Setup() {
	e.scene.Clear()
	clear(e.handlers)

	text := e.state.ActiveText
	if text == nil || text.Main || text.Box == nil {
		return
	}
	box := text.Box
	e.scene.Add(box)
	cursor := e.scene.Cursor()
	unit := e.opts.UIUnit * cursor.Scale
	boxT := box.Transform()

	reverseOnCtrl := sprite.NewDynamicTransform(sprite.Zero, sprite.Zero, func() float64 {
		if cursor.Ctrl {
			return -boxT.Rotation()
		}
		return 0
	}, boxT)
	arrow := sprite.Arrow(7*unit, 1.4*unit)
	arrX := sprite.NewPolygonSprite(arrow, sprite.NewTransform(0, 0, 0, reverseOnCtrl), true, sprite.AlphaGradient("#0000ff"))
	arrY := sprite.NewPolygonSprite(arrow, sprite.NewTransform(0, 0, -math.Pi/2, reverseOnCtrl), true, sprite.AlphaGradient("#ff0000"))
	e.add(arrX, MoveAlong(arrX.Transform, e.opts.SnapStep))
	e.add(arrY, MoveAlong(arrY.Transform, e.opts.SnapStep))

	e.add(sprite.NewPolygonSprite(sprite.Rectangle(2*unit, 2*unit), sprite.NewTransform(0, 0, 0, boxT), true,
		sprite.AlphaGradient("#ff00ff")), Move)

	e.add(sprite.NewPolygonSprite(sprite.CircleArrow(4*unit, 1.5*math.Pi, 1.5*unit), sprite.NewTransform(0, 0, -math.Pi/4, boxT), true,
		sprite.AlphaGradient("#00ff00")), Rotate)

	for _, ed := range edges {
		shape := func() *geometry.Polygon { return sprite.Rectangle(unit, box.Height()-unit) }
		dim := sprite.BoxWidth
		if ed.horizontal {
			shape = func() *geometry.Polygon { return sprite.Rectangle(box.Width()-unit, unit) }
			dim = sprite.BoxHeight
		}
		e.add(sprite.NewCalculatedPolygonSprite(shape, e.anchor(box, ed.dir), true, sprite.AlphaGradient("#ff9900")),
			ResizeSide(dim, ed.dir, e.opts.SnapStep))
	}

	for _, dir := range corners {
		e.add(sprite.NewPolygonSprite(sprite.Rectangle(unit, unit), e.anchor(box, dir), true, sprite.AlphaGradient("#ff99ff")),
			ResizeCorner(dir))
	}
}

// anchor follows the point of box at dir, where (±1, ±1) are the corners.
func (e *Editor) anchor(box *sprite.RectangleSprite, dir geometry.Point) sprite.Transform {
	return sprite.NewDynamicTransform(
		func() float64 { return dir.X * box.Width() / 2 },
		func() float64 { return dir.Y * box.Height() / 2 },
		sprite.Zero,
		box.Transform(),
	)
}

// Draw paints the box and its handles in device pixels.
func (e *Editor) Draw(surface sprite.Surface) {
	scale := 1 / e.scene.Cursor().Scale
	surface.Save()
	surface.SetTransform(geometry.Scale(scale, scale))
	e.scene.Draw(surface)
	surface.Restore()
}
