package stream

import "sync"

// RecordingCollector records every emitted, acked and failed tuple. It is
// safe for concurrent use.
type RecordingCollector struct {
	Component string

	mu      sync.Mutex
	emitted []*Tuple
	acked   []*Tuple
	failed  []*Tuple
}

// NewRecordingCollector returns a collector that stamps emitted tuples with
// component.
func NewRecordingCollector(component string) *RecordingCollector {
	return &RecordingCollector{Component: component}
}

func (c *RecordingCollector) Emit(values Values, anchors ...*Tuple) {
	c.EmitStream(DefaultStream, values, anchors...)
}

func (c *RecordingCollector) EmitStream(stream string, values Values, anchors ...*Tuple) {
	t := NewTuple(c.Component, stream, values, anchors...)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.emitted = append(c.emitted, t)
}

func (c *RecordingCollector) Ack(t *Tuple) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.acked = append(c.acked, t)
}

func (c *RecordingCollector) Fail(t *Tuple) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failed = append(c.failed, t)
}

// Emitted returns the emitted tuples in order.
func (c *RecordingCollector) Emitted() []*Tuple {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Tuple(nil), c.emitted...)
}

// Acked returns the acked tuples in order.
func (c *RecordingCollector) Acked() []*Tuple {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Tuple(nil), c.acked...)
}

// Failed returns the failed tuples in order.
func (c *RecordingCollector) Failed() []*Tuple {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Tuple(nil), c.failed...)
}
