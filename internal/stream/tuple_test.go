package stream

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTuple_Root(t *testing.T) {
	tup := NewTuple("spout", "", Values{"the quick brown fox"})

	assert.NotEmpty(t, tup.ID)
	assert.Equal(t, DefaultStream, tup.Stream)
	assert.Empty(t, tup.Anchors)
	assert.Equal(t, []string{tup.ID}, tup.Roots())
	assert.Equal(t, "the quick brown fox", tup.Value(0))
	assert.Nil(t, tup.Value(1))
}

// TestNewTuple_Anchors verifies that an emitted tuple inherits the roots of
// its anchors, without duplicates.
func TestNewTuple_Anchors(t *testing.T) {
	root1 := NewTuple("spout", DefaultStream, Values{"a"})
	root2 := NewTuple("spout", DefaultStream, Values{"b"})
	child := NewTuple("split", DefaultStream, Values{"a"}, root1)

	joined := NewTuple("join", DefaultStream, Values{1}, child, root1, root2, nil)

	assert.Equal(t, []string{root1.ID}, child.Anchors)
	assert.Equal(t, []string{root1.ID, root2.ID}, joined.Anchors)
	assert.True(t, joined.IsAnchoredTo(child))
	assert.True(t, joined.IsAnchoredTo(root2))
	assert.False(t, child.IsAnchoredTo(root2))
}

func TestNewTuple_CopiesValues(t *testing.T) {
	values := Values{"a"}
	tup := NewTuple("c", DefaultStream, values)
	values[0] = "changed"

	assert.Equal(t, "a", tup.Value(0))
}

func TestRecordingCollector(t *testing.T) {
	c := NewRecordingCollector("bolt")
	in := NewTuple("spout", DefaultStream, Values{"x"})

	c.Emit(Values{1}, in)
	c.EmitStream("errors", Values{"bad"})
	c.Ack(in)
	c.Fail(in)

	emitted := c.Emitted()
	require.Len(t, emitted, 2)
	assert.Equal(t, "bolt", emitted[0].Component)
	assert.True(t, emitted[0].IsAnchoredTo(in))
	assert.Equal(t, "errors", emitted[1].Stream)
	assert.Equal(t, []*Tuple{in}, c.Acked())
	assert.Equal(t, []*Tuple{in}, c.Failed())
}

func TestSimpleBolt(t *testing.T) {
	upper := &SimpleBolt{
		Fields: []string{"n"},
		Handler: func(_ context.Context, tup *Tuple, e Emitter) error {
			if tup.Value(0) == nil {
				return errors.New("empty tuple")
			}
			e.Emit(Values{len(tup.Values)}, tup)
			return nil
		},
	}
	require.NoError(t, upper.Prepare(Context{}))
	assert.Equal(t, map[string][]string{DefaultStream: {"n"}}, upper.OutputFields())

	c := NewRecordingCollector("b")
	ok := NewTuple("s", DefaultStream, Values{"x"})
	bad := NewTuple("s", DefaultStream, nil)

	require.NoError(t, upper.Process(context.Background(), ok, c))
	require.Error(t, upper.Process(context.Background(), bad, c))

	assert.Len(t, c.Emitted(), 1)
	assert.Equal(t, []*Tuple{ok}, c.Acked())
	assert.Equal(t, []*Tuple{bad}, c.Failed())
}
