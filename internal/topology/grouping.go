package topology

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DefaultStream is the stream a grouping subscribes to when none is given.
const DefaultStream = "default"

// GroupingType selects how tuples of a source component are distributed
// among the instances of a subscribing bolt.
type GroupingType string

const (
	ShuffleGrouping        GroupingType = "shuffle_grouping"
	GlobalGrouping         GroupingType = "global_grouping"
	FieldsGrouping         GroupingType = "fields_grouping"
	LocalOrShuffleGrouping GroupingType = "local_or_shuffle_grouping"
	NoneGrouping           GroupingType = "none_grouping"
	AllGrouping            GroupingType = "all_grouping"
)

// Known reports whether g is a supported grouping type.
func (g GroupingType) Known() bool {
	switch g {
	case ShuffleGrouping, GlobalGrouping, FieldsGrouping,
		LocalOrShuffleGrouping, NoneGrouping, AllGrouping:
		return true
	}
	return false
}

// Grouping subscribes a bolt to a stream of another component.
//
// In YAML a grouping is a single-key mapping whose key is the grouping
// type. The value is either the source component name or a mapping:
//
//	groupings:
//	  - shuffle_grouping: line-spout
//	  - fields_grouping:
//	      component: line-splitter
//	      stream: words
//	      fields: [word]
type Grouping struct {
	Type      GroupingType
	Component string
	Stream    string
	Fields    []string
}

type groupingBody struct {
	Component string   `yaml:"component"`
	Stream    string   `yaml:"stream"`
	Fields    []string `yaml:"fields"`
}

func (g *Grouping) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return fmt.Errorf("line %d: grouping must be a mapping with a single grouping type", node.Line)
	}

	var body groupingBody
	value := node.Content[1]
	switch value.Kind {
	case yaml.ScalarNode:
		body.Component = value.Value
	case yaml.MappingNode:
		if err := value.Decode(&body); err != nil {
			return err
		}
	default:
		return fmt.Errorf("line %d: grouping must name a component", value.Line)
	}

	g.Type = GroupingType(node.Content[0].Value)
	g.Component = body.Component
	g.Stream = body.Stream
	if g.Stream == "" {
		g.Stream = DefaultStream
	}
	g.Fields = body.Fields
	return nil
}
