package state

import (
	"log/slog"

	"github.com/memeforge/memeforge/backend-go/internal/patch"
)

// OpKind says how a patch reached the state.
type OpKind string

const (
	OpDo       OpKind = "do"
	OpUndo     OpKind = "undo"
	OpRedo     OpKind = "redo"
	OpTemporal OpKind = "temporal"
	// OpRevert is the inverse applied when a pending temporal patch is dropped.
	OpRevert OpKind = "revert"
)

// Operation is a patch that was applied to the state.
type Operation struct {
	Patch Diff
	Kind  OpKind
}

// Changes lists the leaf mutations of the operation.
func (o Operation) Changes() []patch.Leaf {
	var leaves []patch.Leaf
	patch.Walk(o.Patch, func(l patch.Leaf) { leaves = append(leaves, l) })
	return leaves
}

// Log is a bounded FIFO of applied operations with a single consumer.
type Log struct {
	ops      []Operation
	capacity int
	dropped  int
}

func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	return &Log{capacity: capacity}
}

func (l *Log) push(op Operation) {
	if len(l.ops) == l.capacity {
		l.ops = l.ops[1:]
		l.dropped++
		slog.Warn("operation log full, dropping oldest", "capacity", l.capacity, "dropped", l.dropped)
	}
	l.ops = append(l.ops, op)
}

// Len returns the number of pending operations.
func (l *Log) Len() int { return len(l.ops) }

// Dropped returns how many operations were lost to overflow.
func (l *Log) Dropped() int { return l.dropped }

// Drain returns the pending operations in order and empties the log.
func (l *Log) Drain() []Operation {
	ops := l.ops
	l.ops = nil
	return ops
}

// Drain returns and clears the state's operation log.
func (s *State) Drain() []Operation {
	return s.log.Drain()
}
