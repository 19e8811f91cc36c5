package engine

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/memeforge/memeforge/backend-go/internal/document"
	"github.com/memeforge/memeforge/backend-go/internal/geometry"
	"github.com/memeforge/memeforge/backend-go/internal/patch"
	"github.com/memeforge/memeforge/backend-go/internal/render"
	"github.com/memeforge/memeforge/backend-go/internal/state"
)

// Frame is the result of one Tick: what to draw and what changed.
type Frame struct {
	Commands   []render.DrawCommand `json:"commands"`
	Operations []Operation          `json:"operations"`
}

// Operation describes an applied patch for the frontend.
type Operation struct {
	Kind    state.OpKind `json:"kind"`
	Changes []Change     `json:"changes"`
}

// Change is a single leaf mutation. Value is set for scalar values only.
type Change struct {
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

// Status is a snapshot of the editing state for UI chrome.
type Status struct {
	ProjectID   string        `json:"projectId"`
	ActiveFrame string        `json:"activeFrame"`
	ActiveText  string        `json:"activeText"`
	Box         *BoxStatus    `json:"box,omitempty"`
	Frames      []FrameStatus `json:"frames"`
	CanUndo     bool          `json:"canUndo"`
	CanRedo     bool          `json:"canRedo"`
	History     int           `json:"history"`
	Cursor      int           `json:"cursor"`
	Dragging    bool          `json:"dragging"`
	Dirty       bool          `json:"dirty"`
}

// BoxStatus is the geometry of the active text box.
type BoxStatus struct {
	X        float64       `json:"x"`
	Y        float64       `json:"y"`
	Width    float64       `json:"width"`
	Height   float64       `json:"height"`
	Rotation float64       `json:"rotation"`
	Bounds   geometry.Rect `json:"bounds"`
}

type FrameStatus struct {
	ID    string   `json:"id"`
	Image string   `json:"image"`
	Texts []string `json:"texts"`
}

// --- Queries (frontend ← backend) ---

// Tick refreshes the scene, returns the operations applied since the last
// tick and the draw commands for the editor layer.
// This is called once per animation frame from the frontend.
func (e *Engine) Tick() Frame {
	if e.state == nil {
		return Frame{}
	}
	e.editor.Scene().Update()
	e.flush()

	ops := make([]Operation, 0, len(e.pending))
	for _, op := range e.pending {
		ops = append(ops, describe(op))
	}
	e.pending = nil

	return Frame{Commands: e.Render(), Operations: ops}
}

// Render draws the active frame image and the box editor.
func (e *Engine) Render() []render.DrawCommand {
	if e.state == nil {
		return nil
	}
	e.buffer.Reset()
	f := e.state.ActiveFrame
	e.buffer.Image(f.ID, f.Image, float64(f.Width), float64(f.Height))
	e.editor.Draw(e.buffer)
	return slices.Clone(e.buffer.Commands())
}

func describe(op state.Operation) Operation {
	out := Operation{Kind: op.Kind, Changes: []Change{}}
	patch.Walk(op.Patch, func(l patch.Leaf) {
		c := Change{Path: patch.FormatPath(l.Path)}
		switch v := l.Value.(type) {
		case float64, string, bool:
			c.Value = v
		case *document.TextContent:
			if v != nil {
				c.Value = v.ID
			}
		case *document.Frame:
			if v != nil {
				c.Value = v.ID
			}
		}
		out.Changes = append(out.Changes, c)
	})
	return out
}

// Status returns the current editing state.
func (e *Engine) Status() Status {
	if e.state == nil {
		return Status{Cursor: -1}
	}
	st := Status{
		ProjectID:   e.project.ID,
		ActiveFrame: e.state.ActiveFrame.ID,
		ActiveText:  e.state.ActiveText.ID,
		CanUndo:     e.state.CanUndo(),
		CanRedo:     e.state.CanRedo(),
		History:     e.state.Len(),
		Cursor:      e.state.Cursor(),
		Dragging:    e.editor.Scene().Dragging() != nil,
		Dirty:       e.dirty,
	}
	if t := e.state.ActiveText; !t.Main && t.Box != nil {
		b := t.Box
		corners := []geometry.Point{
			geometry.Pt(-b.Width()/2, -b.Height()/2),
			geometry.Pt(b.Width()/2, -b.Height()/2),
			geometry.Pt(b.Width()/2, b.Height()/2),
			geometry.Pt(-b.Width()/2, b.Height()/2),
		}
		m := b.Transform().Matrix()
		for i, c := range corners {
			corners[i] = m.Apply(c)
		}
		st.Box = &BoxStatus{
			X:        b.X(),
			Y:        b.Y(),
			Width:    b.Width(),
			Height:   b.Height(),
			Rotation: b.Rotation(),
			Bounds:   geometry.Bounds(corners),
		}
	}
	for _, f := range e.state.Frames {
		fs := FrameStatus{ID: f.ID, Image: f.Image, Texts: make([]string, 0, len(f.Contents))}
		for _, c := range f.Contents {
			fs.Texts = append(fs.Texts, c.ID)
		}
		st.Frames = append(st.Frames, fs)
	}
	return st
}

// StatusJSON returns Status as JSON.
func (e *Engine) StatusJSON() string {
	data, _ := json.Marshal(e.Status())
	return string(data)
}

// Project returns a copy of the committed document. A drag preview in
// progress is not part of it.
func (e *Engine) Project() (*document.Project, error) {
	if e.state == nil {
		return nil, ErrNoProject
	}
	var (
		data []byte
		err  error
	)
	e.state.WithoutTemporal(func() { data, err = json.Marshal(e.state.Frames) })
	if err != nil {
		return nil, fmt.Errorf("encode frames: %w", err)
	}
	p := &document.Project{ID: e.project.ID, Name: e.project.Name}
	if err := json.Unmarshal(data, &p.Frames); err != nil {
		return nil, fmt.Errorf("decode frames: %w", err)
	}
	return p, nil
}

// Dirty reports whether committed changes were made since the last save.
func (e *Engine) Dirty() bool { return e.dirty }

// ProjectID returns the id of the loaded project.
func (e *Engine) ProjectID() string {
	if e.project == nil {
		return ""
	}
	return e.project.ID
}
