package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memeforge/memeforge/backend-go/internal/document"
	"github.com/memeforge/memeforge/backend-go/internal/patch"
)

func apply(t *testing.T, s *State) func(Diff, error) {
	t.Helper()
	return func(d Diff, err error) {
		t.Helper()
		require.NoError(t, err)
		s.Apply(d)
	}
}

func TestAddFrameActivatesIt(t *testing.T) {
	s := newState(t)
	first, second := s.Frames[0], s.Frames[1]
	f := newFrame()

	s.Apply(AddFrame(s, f))
	assert.Equal(t, []*document.Frame{first, f, second}, s.Frames)
	assert.Same(t, f, s.ActiveFrame)
	assert.Same(t, f.Main(), s.ActiveText)

	s.Undo()
	assert.Equal(t, []*document.Frame{first, second}, s.Frames)
	assert.Same(t, first, s.ActiveFrame)
}

func TestRemoveFrame(t *testing.T) {
	s := newState(t)
	first, second := s.Frames[0], s.Frames[1]

	_, err := RemoveFrame(s, "frame_missing")
	assert.ErrorIs(t, err, ErrNotFound)

	apply(t, s)(RemoveFrame(s, first.ID))
	assert.Equal(t, []*document.Frame{second}, s.Frames)
	assert.Same(t, second, s.ActiveFrame)
	assert.Same(t, second.Main(), s.ActiveText)

	_, err = RemoveFrame(s, second.ID)
	assert.ErrorIs(t, err, ErrLastFrame)

	s.Undo()
	assert.Equal(t, []*document.Frame{first, second}, s.Frames)
	assert.Same(t, first, s.ActiveFrame)
}

func TestRemoveLastActiveFrameSelectsPrevious(t *testing.T) {
	s := newState(t)
	first, second := s.Frames[0], s.Frames[1]
	s.Apply(SetActiveFrame(second, second.Main()))

	apply(t, s)(RemoveFrame(s, second.ID))
	assert.Same(t, first, s.ActiveFrame)
}

func TestShiftFrame(t *testing.T) {
	s := newState(t)
	first, second := s.Frames[0], s.Frames[1]

	d, err := ShiftFrame(s, first.ID, -1)
	require.NoError(t, err)
	assert.True(t, patch.IsEmpty(d))

	d, err = ShiftFrame(s, second.ID, 1)
	require.NoError(t, err)
	assert.True(t, patch.IsEmpty(d))

	apply(t, s)(ShiftFrame(s, first.ID, 1))
	assert.Equal(t, []*document.Frame{second, first}, s.Frames)
	assert.Same(t, first, s.ActiveFrame)
}

func TestAddContent(t *testing.T) {
	s := newState(t)
	active, other := s.Frames[0], s.Frames[1]

	text := active.NewText("new")
	apply(t, s)(AddContent(s, active.ID, text))
	assert.Same(t, text, active.Contents[3])
	assert.Same(t, text, s.ActiveText)

	hidden := other.NewText("hidden")
	apply(t, s)(AddContent(s, other.ID, hidden))
	assert.Len(t, other.Contents, 2)
	assert.Same(t, text, s.ActiveText)

	s.Undo()
	s.Undo()
	assert.Len(t, active.Contents, 3)
	assert.Same(t, active.Main(), s.ActiveText)
}

func TestRemoveContent(t *testing.T) {
	s := newState(t)
	f := s.Frames[0]
	top := f.Contents[1]
	s.Apply(SetActiveText(top))

	_, err := RemoveContent(s, f.ID, f.Main().ID)
	assert.ErrorIs(t, err, ErrMainContent)
	_, err = RemoveContent(s, f.ID, "text_missing")
	assert.ErrorIs(t, err, ErrNotFound)

	apply(t, s)(RemoveContent(s, f.ID, top.ID))
	assert.Len(t, f.Contents, 2)
	assert.Same(t, f.Main(), s.ActiveText)

	s.Undo()
	assert.Same(t, top, f.Contents[1])
	assert.Same(t, top, s.ActiveText)
}

func TestShiftContentKeepsMainFirst(t *testing.T) {
	s := newState(t)
	f := s.Frames[0]
	main, top, bottom := f.Contents[0], f.Contents[1], f.Contents[2]

	d, err := ShiftContent(s, f.ID, top.ID, -1)
	require.NoError(t, err)
	assert.True(t, patch.IsEmpty(d))

	_, err = ShiftContent(s, f.ID, main.ID, 1)
	assert.ErrorIs(t, err, ErrMainContent)

	apply(t, s)(ShiftContent(s, f.ID, top.ID, 1))
	assert.Equal(t, []*document.TextContent{main, bottom, top}, f.Contents)

	s.Undo()
	assert.Equal(t, []*document.TextContent{main, top, bottom}, f.Contents)
}

func TestSetTextAndStyle(t *testing.T) {
	s := newState(t)
	f := s.Frames[0]
	top := f.Contents[1]

	apply(t, s)(SetText(s, f.ID, top.ID, "changed"))
	assert.Equal(t, "changed", top.Text)

	d, err := SetText(s, f.ID, top.ID, "changed")
	require.NoError(t, err)
	assert.True(t, patch.IsEmpty(d))

	style := document.DefaultStyle
	style.Fill = "#FF0000"
	apply(t, s)(SetStyle(s, f.ID, top.ID, style))
	assert.Equal(t, "#FF0000", top.Style.Fill)

	s.Undo()
	s.Undo()
	assert.Equal(t, "top", top.Text)
	assert.Equal(t, document.DefaultStyle, top.Style)
}
