// Package state holds the editing session aggregate. Every change to it is a
// patch, recorded in a linear undo/redo history.
package state

import (
	"log/slog"

	"github.com/memeforge/memeforge/backend-go/internal/document"
	"github.com/memeforge/memeforge/backend-go/internal/patch"
)

const (
	DefaultHistoryLimit = 1250
	DefaultHistoryTrim  = 250
	DefaultLogCapacity  = 4096
)

// Diff is a patch over the whole session state.
type Diff = patch.Patch[State]

type entry struct {
	do   Diff
	undo Diff
}

// State is the editing session: the frames, the active frame and the active
// text, plus the history of how they got there.
type State struct {
	Frames      []*document.Frame
	ActiveFrame *document.Frame
	ActiveText  *document.TextContent

	operations []entry
	lastOp     int
	temporal   Diff

	log *Log

	historyLimit int
	historyTrim  int
}

// Option configures a State.
type Option func(*State)

// WithHistoryLimit sets how many entries are kept and how many of the oldest
// are dropped once the limit is exceeded.
func WithHistoryLimit(limit, trim int) Option {
	return func(s *State) {
		if limit > 0 {
			s.historyLimit = limit
		}
		if trim > 0 {
			s.historyTrim = trim
		}
		s.historyTrim = max(1, min(s.historyTrim, s.historyLimit))
	}
}

// WithLogCapacity bounds the operation log.
func WithLogCapacity(n int) Option {
	return func(s *State) { s.log = NewLog(n) }
}

// New creates a session over frames. The first frame and its main caption
// become active. frames must not be empty.
func New(frames []*document.Frame, opts ...Option) *State {
	s := &State{
		lastOp:       -1,
		log:          NewLog(DefaultLogCapacity),
		historyLimit: DefaultHistoryLimit,
		historyTrim:  DefaultHistoryTrim,
	}
	for _, opt := range opts {
		opt(s)
	}
	setup := SetFrames(frames)
	setup.Apply(s)
	s.log.push(Operation{Patch: setup, Kind: OpDo})
	return s
}

// Log returns the operation log.
func (s *State) Log() *Log { return s.log }

// Len returns the number of history entries.
func (s *State) Len() int { return len(s.operations) }

// Cursor returns the index of the last applied history entry, -1 when none.
func (s *State) Cursor() int { return s.lastOp }

func (s *State) CanUndo() bool { return s.lastOp >= 0 }

func (s *State) CanRedo() bool { return s.lastOp < len(s.operations)-1 }

// HasTemporal reports whether a preview patch is pending.
func (s *State) HasTemporal() bool { return s.temporal != nil }

// UndoTemporal reverts the pending preview patch, if any.
func (s *State) UndoTemporal() {
	if s.temporal == nil {
		return
	}
	revert := s.temporal
	s.temporal = nil
	revert.Apply(s)
	s.log.push(Operation{Patch: revert, Kind: OpRevert})
}

// WithoutTemporal runs fn with the pending preview reverted and restores the
// preview afterwards. Nothing is logged.
func (s *State) WithoutTemporal(fn func()) {
	if s.temporal == nil {
		fn()
		return
	}
	redo := s.temporal.Apply(s)
	defer func() { s.temporal = redo.Apply(s) }()
	fn()
}

// ApplyTemporal replaces the pending preview patch with p. It is not recorded
// in history.
func (s *State) ApplyTemporal(p Diff) {
	s.UndoTemporal()
	undo := p.Apply(s)
	if patch.IsEmpty(undo) {
		return
	}
	s.log.push(Operation{Patch: p, Kind: OpTemporal})
	s.temporal = undo
}

// Apply discards any preview, applies p and records it. The redo tail is
// dropped. Patches that change nothing are not recorded.
func (s *State) Apply(p Diff) {
	s.UndoTemporal()
	undo := p.Apply(s)
	if patch.IsEmpty(undo) {
		return
	}
	s.log.push(Operation{Patch: p, Kind: OpDo})

	s.operations = append(s.operations[:s.lastOp+1], entry{do: p, undo: undo})
	if len(s.operations) > s.historyLimit {
		s.operations = append([]entry(nil), s.operations[s.historyTrim:]...)
		slog.Debug("history trimmed", "dropped", s.historyTrim, "kept", len(s.operations))
	}
	s.lastOp = len(s.operations) - 1
}

// Undo reverts the last applied entry. It is a no-op without history.
func (s *State) Undo() {
	s.UndoTemporal()
	if s.lastOp < 0 {
		return
	}
	op := s.operations[s.lastOp]
	s.lastOp--
	op.undo.Apply(s)
	s.log.push(Operation{Patch: op.undo, Kind: OpUndo})
}

// Redo re-applies the next entry. It is a no-op at the end of history.
func (s *State) Redo() {
	s.UndoTemporal()
	if s.lastOp == len(s.operations)-1 {
		return
	}
	op := s.operations[s.lastOp+1]
	s.lastOp++
	op.do.Apply(s)
	s.log.push(Operation{Patch: op.do, Kind: OpRedo})
}
