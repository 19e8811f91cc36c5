package engine

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/memeforge/memeforge/backend-go/internal/document"
	"github.com/memeforge/memeforge/backend-go/internal/editor"
	"github.com/memeforge/memeforge/backend-go/internal/geometry"
	"github.com/memeforge/memeforge/backend-go/internal/patch"
	"github.com/memeforge/memeforge/backend-go/internal/render"
	"github.com/memeforge/memeforge/backend-go/internal/state"
)

var (
	ErrNoProject    = errors.New("no project loaded")
	ErrEmptyProject   = errors.New("project has no frames")
	ErrInvalidProject = errors.New("invalid project")
)

// Options configures an Engine.
type Options struct {
	Editor       editor.Options
	HistoryLimit int
	HistoryTrim  int
	LogCapacity  int
}

// Engine owns the editing state of one project and the box editor over it.
// It processes commands from the frontend and returns query results.
// It is not safe for concurrent use.
type Engine struct {
	opts Options

	project    *document.Project
	state      *state.State
	editor     *editor.Editor
	dispatcher *state.Dispatcher
	buffer     *render.Buffer

	// Drained operations not yet returned by Tick.
	pending []state.Operation
	// needsSetup is set when the active text changed and the handles must be rebuilt.
	needsSetup bool
	// dirty is set by committed changes since the last save.
	dirty bool
}

// NewEngine creates an engine with no project loaded.
func NewEngine(opts Options) *Engine {
	e := &Engine{
		opts:       opts,
		buffer:     render.NewBuffer(),
		dispatcher: state.NewDispatcher(),
	}
	rebuild := func(state.OpKind, patch.Leaf) { e.needsSetup = true }
	e.dispatcher.OnField(state.Frames.Path(), rebuild)
	e.dispatcher.OnField(state.ActiveFrame.Path(), rebuild)
	e.dispatcher.OnField(state.ActiveText.Path(), rebuild)
	e.dispatcher.On(nil, func(kind state.OpKind, _ patch.Leaf) {
		switch kind {
		case state.OpDo, state.OpUndo, state.OpRedo:
			e.dirty = true
		}
	})
	return e
}

// --- Commands (frontend → backend) ---

// Load replaces the project. History starts empty.
func (e *Engine) Load(p *document.Project) error {
	if p == nil || len(p.Frames) == 0 {
		return ErrEmptyProject
	}
	if err := validate(p); err != nil {
		return err
	}
	opts := []state.Option{state.WithHistoryLimit(e.opts.HistoryLimit, e.opts.HistoryTrim)}
	if e.opts.LogCapacity > 0 {
		opts = append(opts, state.WithLogCapacity(e.opts.LogCapacity))
	}
	if e.editor != nil {
		e.editor.Scene().Clear()
	}

	e.project = p
	e.state = state.New(p.Frames, opts...)
	e.editor = editor.New(e.state, e.opts.Editor)
	e.pending = nil
	e.flush()
	e.dirty = false
	return nil
}

// validate checks that every frame starts with its main caption and holds no
// other main or missing captions.
func validate(p *document.Project) error {
	for i, f := range p.Frames {
		if f == nil {
			return fmt.Errorf("frame %d is null: %w", i, ErrInvalidProject)
		}
		if len(f.Contents) == 0 || f.Contents[0] == nil || !f.Contents[0].Main {
			return fmt.Errorf("frame %s has no main caption: %w", f.ID, ErrInvalidProject)
		}
		for j, c := range f.Contents[1:] {
			if c == nil {
				return fmt.Errorf("frame %s caption %d is null: %w", f.ID, j+1, ErrInvalidProject)
			}
			if c.Main {
				return fmt.Errorf("frame %s has more than one main caption: %w", f.ID, ErrInvalidProject)
			}
		}
	}
	return nil
}

// LoadJSON loads a project from its JSON document.
func (e *Engine) LoadJSON(data []byte) error {
	var p document.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decode project: %w", err)
	}
	return e.Load(&p)
}

// LoadSample loads the built-in sample project.
func (e *Engine) LoadSample(projectID string) {
	// The sample always has frames.
	_ = e.Load(document.NewSampleProject(projectID))
}

func (e *Engine) PointerMove(x, y float64) {
	if e.editor == nil {
		return
	}
	e.editor.Scene().PointerMove(geometry.Pt(x, y))
	e.flush()
}

func (e *Engine) PointerDown(x, y float64) {
	if e.editor == nil {
		return
	}
	e.editor.Scene().PointerDown(geometry.Pt(x, y))
	e.flush()
}

func (e *Engine) PointerUp(x, y float64) {
	if e.editor == nil {
		return
	}
	e.editor.Scene().PointerUp(geometry.Pt(x, y))
	e.flush()
}

// ForceDrop ends a drag in progress with a drop at the last pointer position,
// as when the pointer or the page is lost. The drop is committed to history.
func (e *Engine) ForceDrop() {
	if e.editor == nil {
		return
	}
	s := e.editor.Scene()
	s.PointerUp(s.Cursor().Position)
	e.flush()
}

// SetModifiers updates the shift and ctrl keys. A drag in progress is
// recomputed with the new modifiers.
func (e *Engine) SetModifiers(shift, ctrl bool) {
	if e.editor == nil {
		return
	}
	e.editor.Scene().SetModifiers(shift, ctrl)
	e.flush()
}

// SetScale sets the logical to device pixel ratio. Handles are resized.
func (e *Engine) SetScale(scale float64) {
	if e.editor == nil {
		return
	}
	e.editor.Scene().SetScale(scale)
	e.needsSetup = true
	e.flush()
}

func (e *Engine) Undo() {
	if e.state == nil {
		return
	}
	e.state.Undo()
	e.flush()
}

func (e *Engine) Redo() {
	if e.state == nil {
		return
	}
	e.state.Redo()
	e.flush()
}

// SelectFrame activates a frame and its main caption.
func (e *Engine) SelectFrame(id string) error {
	if e.state == nil {
		return ErrNoProject
	}
	f, err := e.state.FindFrame(id)
	if err != nil {
		return err
	}
	if f == e.state.ActiveFrame {
		return nil
	}
	return e.apply(state.SetActiveFrame(f, f.Main()), nil)
}

// SelectText activates a caption of the active frame.
func (e *Engine) SelectText(id string) error {
	if e.state == nil {
		return ErrNoProject
	}
	_, c, err := e.state.FindContent(e.state.ActiveFrame.ID, id)
	if err != nil {
		return err
	}
	if c == e.state.ActiveText {
		return nil
	}
	return e.apply(state.SetActiveText(c), nil)
}

// AddFrame inserts a frame after the active one and returns its id.
func (e *Engine) AddFrame(image string, width, height int) (string, error) {
	if e.state == nil {
		return "", ErrNoProject
	}
	f := document.NewFrame(image, width, height)
	return f.ID, e.apply(state.AddFrame(e.state, f), nil)
}

func (e *Engine) RemoveFrame(id string) error {
	if e.state == nil {
		return ErrNoProject
	}
	return e.apply(state.RemoveFrame(e.state, id))
}

func (e *Engine) ShiftFrame(id string, dir int) error {
	if e.state == nil {
		return ErrNoProject
	}
	return e.apply(state.ShiftFrame(e.state, id, dir))
}

// AddText adds a caption to the active frame, selects it and returns its id.
func (e *Engine) AddText(text string) (string, error) {
	if e.state == nil {
		return "", ErrNoProject
	}
	f := e.state.ActiveFrame
	c := f.NewText(text)
	return c.ID, e.apply(state.AddContent(e.state, f.ID, c))
}

func (e *Engine) RemoveText(id string) error {
	if e.state == nil {
		return ErrNoProject
	}
	return e.apply(state.RemoveContent(e.state, e.state.ActiveFrame.ID, id))
}

func (e *Engine) ShiftText(id string, dir int) error {
	if e.state == nil {
		return ErrNoProject
	}
	return e.apply(state.ShiftContent(e.state, e.state.ActiveFrame.ID, id, dir))
}

func (e *Engine) SetText(id, text string) error {
	if e.state == nil {
		return ErrNoProject
	}
	return e.apply(state.SetText(e.state, e.state.ActiveFrame.ID, id, text))
}

func (e *Engine) SetStyle(id string, style document.TextStyle) error {
	if e.state == nil {
		return ErrNoProject
	}
	return e.apply(state.SetStyle(e.state, e.state.ActiveFrame.ID, id, style))
}

func (e *Engine) apply(d state.Diff, err error) error {
	if err != nil {
		return err
	}
	e.state.Apply(d)
	e.flush()
	return nil
}

// flush dispatches the operations logged since the last call and rebuilds the
// handles when the active text changed.
func (e *Engine) flush() {
	if e.state == nil {
		return
	}
	ops := e.state.Drain()
	e.dispatcher.Dispatch(ops)
	e.pending = append(e.pending, ops...)
	if limit := e.logCapacity(); len(e.pending) > limit {
		e.pending = e.pending[len(e.pending)-limit:]
	}
	if e.needsSetup {
		e.needsSetup = false
		e.editor.Setup()
	}
}

func (e *Engine) logCapacity() int {
	if e.opts.LogCapacity > 0 {
		return e.opts.LogCapacity
	}
	return state.DefaultLogCapacity
}

// MarkSaved clears the dirty flag after the project was persisted.
func (e *Engine) MarkSaved() { e.dirty = false }
