// Package bolts holds the built-in in-process bolts.
package bolts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-pyleus/internal/logger"
	"github.com/MKhiriev/go-pyleus/internal/provider"
	"github.com/MKhiriev/go-pyleus/internal/stream"
	"github.com/MKhiriev/go-pyleus/internal/topology"
)

// WordCountingModule is the module name the word counting bolt is
// registered under.
const WordCountingModule = "sentence_consumer.word_counting_bolt"

var ErrNotASentence = errors.New("first value is not a sentence")

// WordCountingOutputFields are the fields of every tuple the word counting
// bolt emits.
var WordCountingOutputFields = []string{"wc"}

// NewWordCountingBolt returns a bolt that emits the number of
// whitespace-separated words of the sentence in the first value, anchored
// to the input tuple. Tick tuples are acked without output.
func NewWordCountingBolt() *stream.SimpleBolt {
	return &stream.SimpleBolt{
		Fields:  WordCountingOutputFields,
		Handler: countWords,
	}
}

func countWords(ctx context.Context, t *stream.Tuple, e stream.Emitter) error {
	if t.IsTick() {
		return nil
	}

	sentence, ok := t.Value(0).(string)
	if !ok {
		return fmt.Errorf("%w: %T", ErrNotASentence, t.Value(0))
	}

	words := len(strings.Fields(sentence))
	logger.FromContext(ctx).Trace().Str("tuple", t.ID).Int("words", words).Msg("counted words")

	e.Emit(stream.Values{words}, t)
	return nil
}

// Register adds the built-in bolt modules to r.
func Register(r *provider.Registry) error {
	return r.RegisterModule(WordCountingModule, func(topology.ComponentSpec) (any, error) {
		return NewWordCountingBolt(), nil
	})
}
