package bolts

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-pyleus/internal/provider"
	"github.com/MKhiriev/go-pyleus/internal/stream"
	"github.com/MKhiriev/go-pyleus/internal/topology"
)

func TestWordCountingBolt(t *testing.T) {
	tests := []struct {
		sentence string
		want     int
	}{
		{sentence: "the quick brown fox", want: 4},
		{sentence: "  spaced \t out\nwords  ", want: 3},
		{sentence: "", want: 0},
		{sentence: "No Sentence Specified", want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.sentence, func(t *testing.T) {
			bolt := NewWordCountingBolt()
			c := stream.NewRecordingCollector("word-counter")
			in := stream.NewTuple("sentence", stream.DefaultStream, stream.Values{tt.sentence})

			require.NoError(t, bolt.Process(context.Background(), in, c))

			emitted := c.Emitted()
			require.Len(t, emitted, 1)
			assert.Equal(t, stream.Values{tt.want}, emitted[0].Values)
			assert.True(t, emitted[0].IsAnchoredTo(in))
			assert.Equal(t, []*stream.Tuple{in}, c.Acked())
		})
	}
}

func TestWordCountingBolt_NotASentence(t *testing.T) {
	bolt := NewWordCountingBolt()
	c := stream.NewRecordingCollector("word-counter")
	in := stream.NewTuple("numbers", stream.DefaultStream, stream.Values{42})

	err := bolt.Process(context.Background(), in, c)

	assert.ErrorIs(t, err, ErrNotASentence)
	assert.Empty(t, c.Emitted())
	assert.Equal(t, []*stream.Tuple{in}, c.Failed())
}

func TestWordCountingBolt_LogsToContextLogger(t *testing.T) {
	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	var buf bytes.Buffer
	zl := zerolog.New(&buf).With().Str("bolt", "word-counter").Logger()
	ctx := zl.WithContext(context.Background())

	bolt := NewWordCountingBolt()
	in := stream.NewTuple("sentence", stream.DefaultStream, stream.Values{"two words"})
	require.NoError(t, bolt.Process(ctx, in, stream.NewRecordingCollector("word-counter")))

	assert.Contains(t, buf.String(), `"bolt":"word-counter"`)
	assert.Contains(t, buf.String(), `"words":2`)
}

func TestWordCountingBolt_TickTuple(t *testing.T) {
	bolt := NewWordCountingBolt()
	c := stream.NewRecordingCollector("word-counter")
	tick := stream.NewTickTuple(1)

	require.NoError(t, bolt.Process(context.Background(), tick, c))

	assert.Empty(t, c.Emitted())
	assert.Equal(t, []*stream.Tuple{tick}, c.Acked())
}

func TestRegister(t *testing.T) {
	r := provider.NewRegistry()
	require.NoError(t, Register(r))

	f, err := r.Module(WordCountingModule)
	require.NoError(t, err)

	component, err := f(topology.ComponentSpec{Name: "word-counter"})
	require.NoError(t, err)

	bolt, ok := component.(stream.Bolt)
	require.True(t, ok)
	assert.Equal(t, map[string][]string{stream.DefaultStream: {"wc"}}, bolt.(stream.OutputDeclarer).OutputFields())
}
