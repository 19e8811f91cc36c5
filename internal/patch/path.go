package patch

import (
	"fmt"
	"slices"
	"strings"
)

// Field addresses a terminal value of type V inside a T.
// The value at the end of a Field is always replaced wholesale.
type Field[T, V any] struct {
	path []string
	get  func(*T) V
	set  func(*T, V)
}

// NewField declares a single-element path with its accessor pair.
func NewField[T, V any](name string, get func(*T) V, set func(*T, V)) Field[T, V] {
	return Field[T, V]{path: []string{name}, get: get, set: set}
}

// Path returns the field names from the root of T to the value.
func (f Field[T, V]) Path() []string {
	return slices.Clone(f.path)
}

// Get reads the current value from target.
func (f Field[T, V]) Get(target *T) V {
	return f.get(target)
}

// Set writes v into target.
func (f Field[T, V]) Set(target *T, v V) {
	f.set(target, v)
}

// Ref addresses a nested object C inside a T.
type Ref[T, C any] struct {
	path    []string
	resolve func(*T) *C
}

// NewRef declares a single-element path to a nested object.
func NewRef[T, C any](name string, resolve func(*T) *C) Ref[T, C] {
	return Ref[T, C]{path: []string{name}, resolve: resolve}
}

// Path returns the field names from the root of T to the nested object.
func (r Ref[T, C]) Path() []string {
	return slices.Clone(r.path)
}

// Resolve returns the nested object. A missing object means the path does not
// exist in target, which is a programming error.
func (r Ref[T, C]) Resolve(target *T) *C {
	if target == nil {
		panic(fmt.Sprintf("patch: resolve %s on nil target", FormatPath(r.path)))
	}
	c := r.resolve(target)
	if c == nil {
		panic(fmt.Sprintf("patch: path %s does not resolve", FormatPath(r.path)))
	}
	return c
}

// Descend extends a reference to a nested object with a field of that object.
func Descend[T, C, V any](r Ref[T, C], f Field[C, V]) Field[T, V] {
	return Field[T, V]{
		path: concat(r.path, f.path),
		get:  func(t *T) V { return f.get(r.Resolve(t)) },
		set:  func(t *T, v V) { f.set(r.Resolve(t), v) },
	}
}

// Chain extends a reference with a reference nested one level deeper.
func Chain[T, M, C any](outer Ref[T, M], inner Ref[M, C]) Ref[T, C] {
	return Ref[T, C]{
		path:    concat(outer.path, inner.path),
		resolve: func(t *T) *C { return inner.Resolve(outer.Resolve(t)) },
	}
}

// FormatPath renders a path as dotted field names.
func FormatPath(path []string) string {
	return strings.Join(path, ".")
}

// HasPrefix reports whether path starts with prefix.
func HasPrefix(path, prefix []string) bool {
	return len(path) >= len(prefix) && slices.Equal(path[:len(prefix)], prefix)
}

func concat(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	return append(append(out, a...), b...)
}
