package stream

import "context"

// Emitter sends tuples downstream.
type Emitter interface {
	// Emit sends values on the default stream anchored to anchors.
	Emit(values Values, anchors ...*Tuple)
	// EmitStream sends values on stream anchored to anchors.
	EmitStream(stream string, values Values, anchors ...*Tuple)
}

// Collector is handed to bolts: besides emitting, a bolt acknowledges or
// fails every tuple it processes.
type Collector interface {
	Emitter
	Ack(t *Tuple)
	Fail(t *Tuple)
}

// Context describes the instance a component runs as.
type Context struct {
	Component string
	TaskIndex int
	Conf      map[string]any
}

// OutputDeclarer is implemented by components that know their output fields.
type OutputDeclarer interface {
	OutputFields() map[string][]string
}

// Bolt consumes tuples and may emit derived tuples.
type Bolt interface {
	Prepare(ctx Context) error
	Process(ctx context.Context, t *Tuple, c Collector) error
}

// Spout produces root tuples.
type Spout interface {
	Open(ctx Context) error
	// NextTuple emits zero or more tuples. It should return promptly when
	// ctx is done.
	NextTuple(ctx context.Context, e Emitter) error
	Close() error
}

// SimpleBolt adapts a function to [Bolt]. The processed tuple is acked
// when fn returns nil and failed otherwise.
type SimpleBolt struct {
	Fields  []string
	Handler func(ctx context.Context, t *Tuple, e Emitter) error
}

func (b *SimpleBolt) Prepare(Context) error { return nil }

func (b *SimpleBolt) Process(ctx context.Context, t *Tuple, c Collector) error {
	if err := b.Handler(ctx, t, c); err != nil {
		c.Fail(t)
		return err
	}
	c.Ack(t)
	return nil
}

func (b *SimpleBolt) OutputFields() map[string][]string {
	return map[string][]string{DefaultStream: b.Fields}
}
