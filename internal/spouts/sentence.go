package spouts

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-pyleus/internal/provider"
	"github.com/MKhiriev/go-pyleus/internal/stream"
	"github.com/MKhiriev/go-pyleus/internal/topology"
)

const (
	DefaultSentence        = "No Sentence Specified"
	DefaultSentencesPerMin = 30
)

// SentenceOutputFields are the fields of every tuple a sentence spout emits.
var SentenceOutputFields = []string{"sentence"}

type sentenceOptions struct {
	Sentence        any  `mapstructure:"sentence"`
	SentencesPerMin *int `mapstructure:"sentencesPerMin"`
}

// NewSentenceProvider returns the example provider: a spout emitting one
// fixed sentence at a steady rate. A non-string sentence option is ignored
// and a sentencesPerMin option that is not a number fails.
func NewSentenceProvider() provider.SpoutProvider {
	return provider.SpoutProviderFunc(func(spec topology.ComponentSpec) (stream.Spout, error) {
		var opts sentenceOptions
		if err := decodeOptions(spec.Options, &opts); err != nil {
			return nil, fmt.Errorf("sentence spout %s: %w", spec.Name, err)
		}

		spout := NewSentenceSpout(DefaultSentence)
		if s, ok := opts.Sentence.(string); ok {
			spout.sentence = s
		}
		if opts.SentencesPerMin != nil && *opts.SentencesPerMin > 0 {
			spout.perMin = *opts.SentencesPerMin
		}
		return spout, nil
	})
}

// SentenceSpout emits the same sentence perMin times a minute.
type SentenceSpout struct {
	sentence string
	perMin   int
	wait     func(ctx context.Context, d time.Duration) bool
}

func NewSentenceSpout(sentence string) *SentenceSpout {
	return &SentenceSpout{
		sentence: sentence,
		perMin:   DefaultSentencesPerMin,
		wait:     sleep,
	}
}

func (s *SentenceSpout) Sentence() string     { return s.sentence }
func (s *SentenceSpout) SentencesPerMin() int { return s.perMin }

// Interval is the pause before each emitted sentence.
func (s *SentenceSpout) Interval() time.Duration {
	return time.Minute / time.Duration(s.perMin)
}

func (s *SentenceSpout) Open(stream.Context) error { return nil }

func (s *SentenceSpout) NextTuple(ctx context.Context, e stream.Emitter) error {
	if !s.wait(ctx, s.Interval()) {
		return nil
	}
	e.Emit(stream.Values{s.sentence})
	return nil
}

func (s *SentenceSpout) OutputFields() map[string][]string {
	return map[string][]string{stream.DefaultStream: SentenceOutputFields}
}

func (s *SentenceSpout) Close() error { return nil }

// sleep waits for d and reports false when ctx ends first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
