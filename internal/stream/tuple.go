// Package stream defines the units of work that flow through a topology and
// the contracts of the components that produce and consume them.
package stream

import (
	"slices"

	"github.com/google/uuid"
)

// DefaultStream is the stream tuples are emitted on unless another is named.
const DefaultStream = "default"

// Tick tuples come from the system component on the tick stream.
const (
	SystemComponent = "__system"
	TickStream      = "__tick"
)

// Values is the ordered payload of a tuple.
type Values []any

// Tuple is a unit of work. Anchors holds the IDs of the root tuples the
// tuple descends from; a tuple emitted without anchors is its own root.
type Tuple struct {
	ID        string
	Component string
	Stream    string
	Values    Values
	Anchors   []string
}

// NewTuple returns a tuple with a fresh ID whose lineage is the union of
// the roots of anchors, in first-seen order.
func NewTuple(component, stream string, values Values, anchors ...*Tuple) *Tuple {
	if stream == "" {
		stream = DefaultStream
	}

	t := &Tuple{
		ID:        newTupleID(),
		Component: component,
		Stream:    stream,
		Values:    slices.Clone(values),
	}

	for _, a := range anchors {
		if a == nil {
			continue
		}
		for _, root := range a.Roots() {
			if !slices.Contains(t.Anchors, root) {
				t.Anchors = append(t.Anchors, root)
			}
		}
	}
	return t
}

// newTupleID returns a time-ordered ID, falling back to a random one.
func newTupleID() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return v7.String()
}

// NewTickTuple returns a tick tuple carrying the tick period in seconds.
func NewTickTuple(freqSecs float64) *Tuple {
	return NewTuple(SystemComponent, TickStream, Values{freqSecs})
}

// IsTick reports whether t is a tick tuple.
func (t *Tuple) IsTick() bool {
	return t.Component == SystemComponent && t.Stream == TickStream
}

// Roots returns the root tuple IDs of t. An unanchored tuple is a root.
func (t *Tuple) Roots() []string {
	if len(t.Anchors) == 0 {
		return []string{t.ID}
	}
	return t.Anchors
}

// IsAnchoredTo reports whether t descends from the root of other.
func (t *Tuple) IsAnchoredTo(other *Tuple) bool {
	for _, root := range other.Roots() {
		if slices.Contains(t.Anchors, root) {
			return true
		}
	}
	return false
}

// Value returns the i-th value, or nil when out of range.
func (t *Tuple) Value(i int) any {
	if i < 0 || i >= len(t.Values) {
		return nil
	}
	return t.Values[i]
}
