package editor

import (
	"math"

	"github.com/memeforge/memeforge/backend-go/internal/geometry"
	"github.com/memeforge/memeforge/backend-go/internal/patch"
	"github.com/memeforge/memeforge/backend-go/internal/scene"
	"github.com/memeforge/memeforge/backend-go/internal/sprite"
)

const (
	rotationQuantum = math.Pi / 180
	rotationSnap    = math.Pi / 4
)

// BoxPatch is a change to a single text box.
type BoxPatch = patch.Patch[sprite.RectangleSprite]

// Gesture computes the box change for a drag from one point to another,
// relative to the box as it was before the drag.
type Gesture func(from, to geometry.Point, c *scene.Cursor, box *sprite.RectangleSprite) BoxPatch

func boxBatch(patches ...BoxPatch) BoxPatch {
	return patch.NewBatch(patches...)
}

func truncate(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Trunc(v/step) * step
}

// Move translates the box by the pointer delta.
func Move(from, to geometry.Point, _ *scene.Cursor, box *sprite.RectangleSprite) BoxPatch {
	d := to.Sub(from)
	return boxBatch(
		patch.Set(sprite.BoxX, box.X()+d.X),
		patch.Set(sprite.BoxY, box.Y()+d.Y),
	)
}

// Rotate turns the box by the angle swept around its center, in whole
// degrees. Shift snaps to 45°, ctrl sets the angle instead of adding to it.
func Rotate(from, to geometry.Point, c *scene.Cursor, box *sprite.RectangleSprite) BoxPatch {
	center := box.Center()
	a1 := geometry.Vector(center, from).Angle()
	a2 := geometry.Vector(center, to).Angle()
	d := math.Round((a2-a1)/rotationQuantum) * rotationQuantum
	if c.Shift {
		d = truncate(d, rotationSnap)
	}
	if c.Ctrl {
		return patch.Set(sprite.BoxRotation, d)
	}
	return patch.Set(sprite.BoxRotation, box.Rotation()+d)
}

// MoveAlong moves the box along the x axis of an arrow handle.
func MoveAlong(arrow sprite.Transform, step float64) Gesture {
	return func(from, to geometry.Point, c *scene.Cursor, box *sprite.RectangleSprite) BoxPatch {
		v := geometry.Rotate(arrow.Rotation()).ApplyVector(geometry.Pt(1, 0))
		l := to.Sub(from).Dot(v)
		if c.Shift {
			l = truncate(l, step)
		}
		return boxBatch(
			patch.Set(sprite.BoxX, box.X()+v.X*l),
			patch.Set(sprite.BoxY, box.Y()+v.Y*l),
		)
	}
}

// ResizeSide drags the edge facing dir. The opposite edge mirrors the move,
// unless ctrl pins it.
func ResizeSide(dim patch.Field[sprite.RectangleSprite, float64], dir geometry.Point, step float64) Gesture {
	return func(from, to geometry.Point, c *scene.Cursor, box *sprite.RectangleSprite) BoxPatch {
		v := geometry.Rotate(box.Transform().Rotation()).ApplyVector(dir)
		l := to.Sub(from).Dot(v)
		if c.Shift {
			l = truncate(l, step)
		}
		size := dim.Get(box)
		if !c.Ctrl {
			return patch.Set(dim, size+2*l)
		}
		return boxBatch(
			patch.Set(sprite.BoxX, box.X()+v.X*l/2),
			patch.Set(sprite.BoxY, box.Y()+v.Y*l/2),
			patch.Set(dim, size+l),
		)
	}
}

// ResizeCorner drags the corner facing dir. Shift keeps both projections
// equal; ctrl pins the opposite corner.
func ResizeCorner(dir geometry.Point) Gesture {
	return func(from, to geometry.Point, c *scene.Cursor, box *sprite.RectangleSprite) BoxPatch {
		r := geometry.Rotate(box.Transform().Rotation())
		vv := r.ApplyVector(geometry.Pt(0, dir.Y))
		vh := r.ApplyVector(geometry.Pt(dir.X, 0))
		d := to.Sub(from)
		lv, lh := d.Dot(vv), d.Dot(vh)
		if c.Shift {
			lv = max(lv, lh)
			lh = lv
		}
		if !c.Ctrl {
			return boxBatch(
				patch.Set(sprite.BoxHeight, box.Height()+2*lv),
				patch.Set(sprite.BoxWidth, box.Width()+2*lh),
			)
		}
		return boxBatch(
			patch.Set(sprite.BoxX, box.X()+vv.X*lv/2+vh.X*lh/2),
			patch.Set(sprite.BoxY, box.Y()+vv.Y*lv/2+vh.Y*lh/2),
			patch.Set(sprite.BoxHeight, box.Height()+lv),
			patch.Set(sprite.BoxWidth, box.Width()+lh),
		)
	}
}
