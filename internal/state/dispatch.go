package state

import (
	"log/slog"
	"slices"

	"github.com/memeforge/memeforge/backend-go/internal/patch"
)

// Listener is notified about a leaf change under the path it subscribed to.
type Listener func(kind OpKind, leaf patch.Leaf)

type subscription struct {
	prefix []string
	exact  bool
	fn     Listener
}

// Dispatcher routes logged operations to listeners by path prefix.
type Dispatcher struct {
	subs        []subscription
	dispatching bool
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// On registers fn for every leaf whose path starts with prefix. An empty
// prefix matches everything.
func (d *Dispatcher) On(prefix []string, fn Listener) {
	d.subs = append(d.subs, subscription{prefix: slices.Clone(prefix), fn: fn})
}

// OnField registers fn for leaves that replace exactly the value at path,
// ignoring changes made deeper inside it.
func (d *Dispatcher) OnField(path []string, fn Listener) {
	d.subs = append(d.subs, subscription{prefix: slices.Clone(path), exact: true, fn: fn})
}

// Dispatch delivers ops in order. Listeners must not dispatch again; a nested
// call is dropped with a warning.
func (d *Dispatcher) Dispatch(ops []Operation) {
	if d.dispatching {
		slog.Warn("nested dispatch ignored", "operations", len(ops))
		return
	}
	d.dispatching = true
	defer func() { d.dispatching = false }()

	for _, op := range ops {
		patch.Walk(op.Patch, func(leaf patch.Leaf) {
			for _, sub := range d.subs {
				if sub.matches(leaf.Path) {
					sub.fn(op.Kind, leaf)
				}
			}
		})
	}
}

func (s subscription) matches(path []string) bool {
	if s.exact {
		return slices.Equal(path, s.prefix)
	}
	return patch.HasPrefix(path, s.prefix)
}
