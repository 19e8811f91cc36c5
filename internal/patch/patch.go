// Package patch represents every state mutation as a reversible operation over
// a nested object graph. Applying a patch mutates the target in place and
// returns the patch that restores the previous state.
package patch

// Kind identifies a patch variant.
type Kind string

const (
	KindChange   Kind = "change"
	KindBatch    Kind = "batch"
	KindDelegate Kind = "delegate"
	KindEmpty    Kind = "empty"
)

// Patch is a reversible mutation of a T.
//
// The set of implementations is closed: Change, Batch, Delegate and Empty.
type Patch[T any] interface {
	// Apply mutates target and returns the inverse patch.
	Apply(target *T) Patch[T]
	Kind() Kind

	walk(prefix []string, fn func(Leaf))
}

// Leaf describes a terminal mutation found by Walk.
type Leaf struct {
	// Path is the full path from the root object to the changed value.
	Path []string
	// Value is the value the leaf writes when applied.
	Value any
}

// Walk visits every Change reachable from p in application order, expanding
// batches and prefixing delegated paths.
func Walk[T any](p Patch[T], fn func(Leaf)) {
	p.walk(nil, fn)
}

// Change replaces the value at Field with Value.
type Change[T, V any] struct {
	Field Field[T, V]
	Value V
}

// Set creates a Change patch.
func Set[T, V any](f Field[T, V], v V) Change[T, V] {
	return Change[T, V]{Field: f, Value: v}
}

// Apply swaps the value in target and returns a Change carrying the old value.
func (c Change[T, V]) Apply(target *T) Patch[T] {
	old := c.Field.Get(target)
	c.Field.Set(target, c.Value)
	return Change[T, V]{Field: c.Field, Value: old}
}

func (c Change[T, V]) Kind() Kind { return KindChange }

func (c Change[T, V]) walk(prefix []string, fn func(Leaf)) {
	fn(Leaf{Path: concat(prefix, c.Field.path), Value: c.Value})
}

// Batch applies an ordered list of patches over the same T.
type Batch[T any] struct {
	Patches []Patch[T]
}

// NewBatch groups patches in application order.
func NewBatch[T any](patches ...Patch[T]) *Batch[T] {
	return &Batch[T]{Patches: patches}
}

// Apply applies every sub-patch in order. The inverse lists the sub-inverses in
// reverse order so later mutations are undone first. A batch that changed
// nothing returns Empty.
func (b *Batch[T]) Apply(target *T) Patch[T] {
	inverses := make([]Patch[T], 0, len(b.Patches))
	for _, p := range b.Patches {
		inv := p.Apply(target)
		if IsEmpty(inv) {
			continue
		}
		inverses = append(inverses, inv)
	}
	if len(inverses) == 0 {
		return Empty[T]()
	}
	for i, j := 0, len(inverses)-1; i < j; i, j = i+1, j-1 {
		inverses[i], inverses[j] = inverses[j], inverses[i]
	}
	return &Batch[T]{Patches: inverses}
}

func (b *Batch[T]) Kind() Kind { return KindBatch }

func (b *Batch[T]) walk(prefix []string, fn func(Leaf)) {
	for _, p := range b.Patches {
		p.walk(prefix, fn)
	}
}

// Delegate applies Patch to the object found at Ref.
type Delegate[T, C any] struct {
	Ref   Ref[T, C]
	Patch Patch[C]
}

// Nest wraps p so that it applies to the object at r.
func Nest[T, C any](r Ref[T, C], p Patch[C]) Delegate[T, C] {
	return Delegate[T, C]{Ref: r, Patch: p}
}

// Apply applies the inner patch to the nested object and wraps its inverse at the same path.
func (d Delegate[T, C]) Apply(target *T) Patch[T] {
	inv := d.Patch.Apply(d.Ref.Resolve(target))
	if IsEmpty(inv) {
		return Empty[T]()
	}
	return Delegate[T, C]{Ref: d.Ref, Patch: inv}
}

func (d Delegate[T, C]) Kind() Kind { return KindDelegate }

func (d Delegate[T, C]) walk(prefix []string, fn func(Leaf)) {
	d.Patch.walk(concat(prefix, d.Ref.path), fn)
}

type empty[T any] struct{}

// Empty returns the no-op sentinel. Its inverse is itself.
func Empty[T any]() Patch[T] {
	return empty[T]{}
}

// IsEmpty reports whether p is the Empty sentinel.
func IsEmpty[T any](p Patch[T]) bool {
	_, ok := p.(empty[T])
	return ok
}

func (e empty[T]) Apply(*T) Patch[T] { return e }

func (e empty[T]) Kind() Kind { return KindEmpty }

func (e empty[T]) walk([]string, func(Leaf)) {}
