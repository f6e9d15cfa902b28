// Package topology loads and validates topology definitions: the set of
// spouts and bolts, how bolts subscribe to other components and the
// options the topology is submitted with.
package topology

import (
	"fmt"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// Unset marks integer and float options that were not given.
const Unset = -1

// Serializers understood by the multi-lang runtime.
const (
	SerializerMsgpack = "msgpack"
	SerializerJSON    = "json"
)

// Spec is a topology definition.
type Spec struct {
	Name                 string      `yaml:"name"`
	Workers              int         `yaml:"workers"`
	Ackers               int         `yaml:"ackers"`
	MaxSpoutPending      int         `yaml:"max_spout_pending"`
	MaxShellboltPending  int         `yaml:"max_shellbolt_pending"`
	MessageTimeoutSecs   int         `yaml:"message_timeout_secs"`
	LoggingConfig        string      `yaml:"logging_config,omitempty"`
	Serializer           string      `yaml:"serializer"`
	RequirementsFilename string      `yaml:"requirements_filename,omitempty"`
	Topology             []Component `yaml:"topology"`
}

func newSpec() Spec {
	return Spec{
		Workers:             Unset,
		Ackers:              Unset,
		MaxSpoutPending:     Unset,
		MaxShellboltPending: Unset,
		MessageTimeoutSecs:  Unset,
		Serializer:          SerializerMsgpack,
	}
}

// Component is one entry of the topology list: exactly one of Spout and
// Bolt is set in a valid definition.
type Component struct {
	Spout *ComponentSpec `yaml:"spout,omitempty"`
	Bolt  *ComponentSpec `yaml:"bolt,omitempty"`
}

// IsSpout reports whether the entry declares a spout.
func (c Component) IsSpout() bool { return c.Spout != nil && c.Bolt == nil }

// IsBolt reports whether the entry declares a bolt.
func (c Component) IsBolt() bool { return c.Bolt != nil && c.Spout == nil }

// Spec returns the declared component, spout or bolt.
func (c Component) Spec() *ComponentSpec {
	if c.Spout != nil {
		return c.Spout
	}
	return c.Bolt
}

// ComponentSpec declares a spout or a bolt.
type ComponentSpec struct {
	Name string `yaml:"name"`
	// Module names the in-process implementation of the component.
	Module string `yaml:"module,omitempty"`
	// Type names a spout provider alias (e.g. "kafka"). Spouts with a
	// type are built by the provider instead of Module.
	Type            string         `yaml:"type,omitempty"`
	Options         map[string]any `yaml:"options,omitempty"`
	OutputFields    OutputFields   `yaml:"output_fields,omitempty"`
	ParallelismHint int            `yaml:"parallelism_hint"`
	Tasks           int            `yaml:"tasks"`
	TickFreqSecs    float64        `yaml:"tick_freq_secs"`
	Groupings       []Grouping     `yaml:"groupings,omitempty"`
}

func (c *ComponentSpec) UnmarshalYAML(node *yaml.Node) error {
	type plain ComponentSpec
	spec := plain{ParallelismHint: Unset, Tasks: Unset, TickFreqSecs: Unset}
	if err := node.Decode(&spec); err != nil {
		return err
	}
	*c = ComponentSpec(spec)
	return nil
}

// Parallelism returns the parallelism hint when given, otherwise one.
func (c *ComponentSpec) Parallelism() int {
	if c.ParallelismHint > 0 {
		return c.ParallelismHint
	}
	return 1
}

// NumTasks returns the number of task instances of the component: tasks
// when given, otherwise [ComponentSpec.Parallelism].
func (c *ComponentSpec) NumTasks() int {
	if c.Tasks > 0 {
		return c.Tasks
	}
	return c.Parallelism()
}

// TickInterval returns the period of tick tuples, or zero when the
// component receives none.
func (c *ComponentSpec) TickInterval() time.Duration {
	if c.TickFreqSecs <= 0 {
		return 0
	}
	return time.Duration(c.TickFreqSecs * float64(time.Second))
}

// OutputFields maps stream names to the fields of tuples emitted on it.
// In YAML it is either a list of fields for the default stream or a
// mapping of stream to fields.
type OutputFields map[string][]string

func (o *OutputFields) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var fields []string
		if err := node.Decode(&fields); err != nil {
			return err
		}
		*o = OutputFields{DefaultStream: fields}
		return nil
	case yaml.MappingNode:
		var streams map[string][]string
		if err := node.Decode(&streams); err != nil {
			return err
		}
		*o = streams
		return nil
	}
	return fmt.Errorf("line %d: output_fields must be a list or a mapping of streams", node.Line)
}

// Streams returns the declared stream names, sorted.
func (o OutputFields) Streams() []string {
	streams := make([]string, 0, len(o))
	for s := range o {
		streams = append(streams, s)
	}
	sort.Strings(streams)
	return streams
}

// Index returns the position of field in stream, or -1.
func (o OutputFields) Index(stream, field string) int {
	for i, f := range o[stream] {
		if f == field {
			return i
		}
	}
	return -1
}

// Components returns the component specs in declaration order.
func (s *Spec) Components() []*ComponentSpec {
	out := make([]*ComponentSpec, 0, len(s.Topology))
	for _, c := range s.Topology {
		if spec := c.Spec(); spec != nil {
			out = append(out, spec)
		}
	}
	return out
}

// Component returns the component named name.
func (s *Spec) Component(name string) (*ComponentSpec, bool) {
	for _, c := range s.Components() {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}
