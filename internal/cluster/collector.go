package cluster

import (
	"context"

	"github.com/MKhiriev/go-pyleus/internal/stream"
)

// collector is the [stream.Collector] of one task. It is used only by the
// goroutine running that task.
type collector struct {
	ctx       context.Context
	t         *Topology
	component string
	emitted   int
}

func (t *Topology) newCollector(ctx context.Context, component string) *collector {
	return &collector{ctx: ctx, t: t, component: component}
}

func (c *collector) Emit(values stream.Values, anchors ...*stream.Tuple) {
	c.EmitStream(stream.DefaultStream, values, anchors...)
}

func (c *collector) EmitStream(name string, values stream.Values, anchors ...*stream.Tuple) {
	tup := stream.NewTuple(c.component, name, values, anchors...)
	c.emitted++
	c.t.metrics.Emitted.WithLabelValues(c.component, tup.Stream).Inc()

	if c.t.debug {
		c.t.log.Info().
			Str("source", c.component).
			Str("stream", tup.Stream).
			Str("tuple", tup.ID).
			Any("values", tup.Values).
			Msg("emitting")
	}

	c.t.dispatch(c.ctx, tup)
}

func (c *collector) Ack(tup *stream.Tuple) {
	c.t.metrics.Acked.WithLabelValues(c.component).Inc()
}

func (c *collector) Fail(tup *stream.Tuple) {
	c.t.metrics.Failed.WithLabelValues(c.component).Inc()
	c.t.log.Warn().Str("source", c.component).Str("tuple", tup.ID).Msg("tuple failed")
}
