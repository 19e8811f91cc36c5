package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type leafObj struct {
	Value int
	Name  string
}

type middleObj struct {
	Leaf  *leafObj
	Scale float64
}

type rootObj struct {
	Middle *middleObj
	Count  int
	Items  []string
}

var (
	rootCount  = NewField("count", func(r *rootObj) int { return r.Count }, func(r *rootObj, v int) { r.Count = v })
	rootItems  = NewField("items", func(r *rootObj) []string { return r.Items }, func(r *rootObj, v []string) { r.Items = v })
	rootMiddle = NewRef("middle", func(r *rootObj) *middleObj { return r.Middle })
	midScale   = NewField("scale", func(m *middleObj) float64 { return m.Scale }, func(m *middleObj, v float64) { m.Scale = v })
	midLeaf    = NewRef("leaf", func(m *middleObj) *leafObj { return m.Leaf })
	leafValue  = NewField("value", func(l *leafObj) int { return l.Value }, func(l *leafObj, v int) { l.Value = v })
	leafName   = NewField("name", func(l *leafObj) string { return l.Name }, func(l *leafObj, v string) { l.Name = v })
)

func newRoot() *rootObj {
	return &rootObj{
		Middle: &middleObj{Leaf: &leafObj{Value: 1, Name: "a"}, Scale: 1.5},
		Count:  3,
		Items:  []string{"x", "y"},
	}
}

func snapshot(r *rootObj) rootObj {
	m := *r.Middle
	l := *r.Middle.Leaf
	m.Leaf = &l
	out := *r
	out.Middle = &m
	return out
}

func TestChangeInverse(t *testing.T) {
	r := newRoot()
	before := snapshot(r)

	inv := Set(rootCount, 10).Apply(r)
	assert.Equal(t, 10, r.Count)
	assert.Equal(t, KindChange, inv.Kind())

	redo := inv.Apply(r)
	assert.Equal(t, before, snapshot(r))

	redo.Apply(r)
	assert.Equal(t, 10, r.Count)
}

func TestChangeReplacesCollectionWholesale(t *testing.T) {
	r := newRoot()
	original := r.Items

	inv := Set(rootItems, []string{"z"}).Apply(r)
	assert.Equal(t, []string{"z"}, r.Items)

	inv.Apply(r)
	assert.Equal(t, original, r.Items)
}

func TestBatchInverseRunsInReverseOrder(t *testing.T) {
	r := newRoot()

	// The second change overwrites the first, so undoing in application order
	// would leave the intermediate value behind.
	inv := NewBatch[rootObj](Set(rootCount, 5), Set(rootCount, 7)).Apply(r)
	require.Equal(t, 7, r.Count)

	batch, ok := inv.(*Batch[rootObj])
	require.True(t, ok)
	require.Len(t, batch.Patches, 2)
	assert.Equal(t, 5, batch.Patches[0].(Change[rootObj, int]).Value)
	assert.Equal(t, 3, batch.Patches[1].(Change[rootObj, int]).Value)

	inv.Apply(r)
	assert.Equal(t, 3, r.Count)
}

func TestNestedCompositionInverse(t *testing.T) {
	r := newRoot()
	before := snapshot(r)

	p := NewBatch[rootObj](
		Set(rootCount, 9),
		Nest(rootMiddle, Patch[middleObj](NewBatch[middleObj](
			Set(midScale, 4.0),
			Nest(midLeaf, Patch[leafObj](NewBatch[leafObj](
				Set(leafValue, 42),
				Set(leafName, "b"),
			))),
		))),
		Set(Descend(Chain(rootMiddle, midLeaf), leafValue), 43),
	)

	inv := p.Apply(r)
	assert.Equal(t, 9, r.Count)
	assert.Equal(t, 4.0, r.Middle.Scale)
	assert.Equal(t, 43, r.Middle.Leaf.Value)
	assert.Equal(t, "b", r.Middle.Leaf.Name)

	redo := inv.Apply(r)
	assert.Equal(t, before, snapshot(r))

	redo.Apply(r)
	assert.Equal(t, 43, r.Middle.Leaf.Value)
	assert.Equal(t, "b", r.Middle.Leaf.Name)
}

func TestEmptyIsItsOwnInverse(t *testing.T) {
	r := newRoot()
	e := Empty[rootObj]()

	assert.True(t, IsEmpty(e.Apply(r)))
	assert.Equal(t, e, e.Apply(r))
	assert.False(t, IsEmpty[rootObj](Set(rootCount, 1)))
}

func TestBatchWithoutChangesCollapsesToEmpty(t *testing.T) {
	r := newRoot()

	assert.True(t, IsEmpty(NewBatch[rootObj]().Apply(r)))
	assert.True(t, IsEmpty(NewBatch(Empty[rootObj](), Empty[rootObj]()).Apply(r)))
	assert.True(t, IsEmpty(Nest(rootMiddle, Empty[middleObj]()).Apply(r)))
}

func TestUnresolvedPathPanics(t *testing.T) {
	r := &rootObj{}
	assert.PanicsWithValue(t, "patch: path middle does not resolve", func() {
		Set(Descend(rootMiddle, midScale), 2.0).Apply(r)
	})
}

func TestWalkReportsFullPaths(t *testing.T) {
	p := NewBatch[rootObj](
		Set(rootCount, 1),
		Nest(rootMiddle, Patch[middleObj](Nest(midLeaf, Patch[leafObj](Set(leafValue, 2))))),
		Set(Descend(rootMiddle, midScale), 3.0),
	)

	var paths []string
	Walk[rootObj](p, func(l Leaf) { paths = append(paths, FormatPath(l.Path)) })

	assert.Equal(t, []string{"count", "middle.leaf.value", "middle.scale"}, paths)
}

func TestHasPrefix(t *testing.T) {
	assert.True(t, HasPrefix([]string{"activeText", "box", "width"}, []string{"activeText"}))
	assert.True(t, HasPrefix([]string{"frames"}, nil))
	assert.False(t, HasPrefix([]string{"frames"}, []string{"frames", "x"}))
	assert.False(t, HasPrefix([]string{"activeFrame"}, []string{"activeText"}))
}
