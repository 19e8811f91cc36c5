package state

import (
	"errors"
	"fmt"
	"slices"

	"github.com/memeforge/memeforge/backend-go/internal/document"
	"github.com/memeforge/memeforge/backend-go/internal/patch"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrMainContent = errors.New("main caption cannot be moved or removed")
	ErrLastFrame   = errors.New("cannot remove the last frame")
)

// FindFrame returns the frame with the given id.
func (s *State) FindFrame(id string) (*document.Frame, error) {
	for _, f := range s.Frames {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, fmt.Errorf("frame %s: %w", id, ErrNotFound)
}

// FindContent returns a text content of the given frame.
func (s *State) FindContent(frameID, id string) (*document.Frame, *document.TextContent, error) {
	f, err := s.FindFrame(frameID)
	if err != nil {
		return nil, nil, err
	}
	c, ok := f.Content(id)
	if !ok {
		return nil, nil, fmt.Errorf("text %s in frame %s: %w", id, frameID, ErrNotFound)
	}
	return f, c, nil
}

func SetActiveText(c *document.TextContent) Diff {
	return patch.Set(ActiveText, c)
}

func SetActiveFrame(f *document.Frame, c *document.TextContent) Diff {
	return batch(patch.Set(ActiveFrame, f), SetActiveText(c))
}

// SetFrames replaces all frames and activates the main caption of the first.
func SetFrames(frames []*document.Frame) Diff {
	first := frames[0]
	return batch(patch.Set(Frames, frames), SetActiveFrame(first, first.Main()))
}

// AddFrame appends f after the active frame and activates it.
func AddFrame(s *State, f *document.Frame) Diff {
	at := slices.Index(s.Frames, s.ActiveFrame) + 1
	frames := slices.Insert(slices.Clone(s.Frames), at, f)
	return batch(patch.Set(Frames, frames), SetActiveFrame(f, f.Main()))
}

// RemoveFrame removes a frame. When it is active, the next frame (or the
// previous one for the last frame) becomes active.
func RemoveFrame(s *State, id string) (Diff, error) {
	f, err := s.FindFrame(id)
	if err != nil {
		return nil, err
	}
	if len(s.Frames) == 1 {
		return nil, ErrLastFrame
	}
	i := slices.Index(s.Frames, f)
	frames := slices.Delete(slices.Clone(s.Frames), i, i+1)
	if s.ActiveFrame != f {
		return patch.Set(Frames, frames), nil
	}
	next := frames[min(i, len(frames)-1)]
	return batch(patch.Set(Frames, frames), SetActiveFrame(next, next.Main())), nil
}

// ShiftFrame moves a frame dir positions. Moving past either end is a no-op.
func ShiftFrame(s *State, id string, dir int) (Diff, error) {
	f, err := s.FindFrame(id)
	if err != nil {
		return nil, err
	}
	i := slices.Index(s.Frames, f)
	j := i + dir
	if dir == 0 || j < 0 || j >= len(s.Frames) {
		return patch.Empty[State](), nil
	}
	frames := slices.Delete(slices.Clone(s.Frames), i, i+1)
	frames = slices.Insert(frames, j, f)
	return patch.Set(Frames, frames), nil
}

// AddContent appends c to a frame. If the frame is active, c becomes the
// active text.
func AddContent(s *State, frameID string, c *document.TextContent) (Diff, error) {
	f, err := s.FindFrame(frameID)
	if err != nil {
		return nil, err
	}
	contents := append(slices.Clone(f.Contents), c)
	add := inFrame(f, patch.Set(document.FrameContents, contents))
	if s.ActiveFrame != f {
		return add, nil
	}
	return batch(add, SetActiveText(c)), nil
}

// RemoveContent removes a text from a frame. Removing the active text makes
// the frame's main caption active.
func RemoveContent(s *State, frameID, id string) (Diff, error) {
	f, c, err := s.FindContent(frameID, id)
	if err != nil {
		return nil, err
	}
	if c.Main {
		return nil, ErrMainContent
	}
	i := slices.Index(f.Contents, c)
	contents := slices.Delete(slices.Clone(f.Contents), i, i+1)
	remove := inFrame(f, patch.Set(document.FrameContents, contents))
	if s.ActiveText != c {
		return remove, nil
	}
	return batch(remove, SetActiveText(f.Main())), nil
}

// ShiftContent moves a text dir positions within its frame. The main caption
// keeps the first slot, so moving into it or past the end is a no-op.
func ShiftContent(s *State, frameID, id string, dir int) (Diff, error) {
	f, c, err := s.FindContent(frameID, id)
	if err != nil {
		return nil, err
	}
	if c.Main {
		return nil, ErrMainContent
	}
	i := slices.Index(f.Contents, c)
	j := i + dir
	if dir == 0 || j < 1 || j >= len(f.Contents) {
		return patch.Empty[State](), nil
	}
	contents := slices.Delete(slices.Clone(f.Contents), i, i+1)
	contents = slices.Insert(contents, j, c)
	return inFrame(f, patch.Set(document.FrameContents, contents)), nil
}

func SetText(s *State, frameID, id, text string) (Diff, error) {
	f, c, err := s.FindContent(frameID, id)
	if err != nil {
		return nil, err
	}
	if c.Text == text {
		return patch.Empty[State](), nil
	}
	return inContent(f, c, patch.Set(document.TextValue, text)), nil
}

func SetStyle(s *State, frameID, id string, style document.TextStyle) (Diff, error) {
	f, c, err := s.FindContent(frameID, id)
	if err != nil {
		return nil, err
	}
	if c.Style == style {
		return patch.Empty[State](), nil
	}
	return inContent(f, c, patch.Set(document.TextStyleField, style)), nil
}
