package topology

import (
	"errors"
	"fmt"
)

// Validate checks the topology definition:
//   - the topology has a name and a known serializer;
//   - every entry is exactly one of spout or bolt, with a unique name;
//   - spouts without a provider type declare output fields;
//   - groupings have a known type, reference a component of the topology
//     and, for fields groupings, name at least one field declared by the
//     source stream when the source declares its output fields.
//
// Returns nil or an error wrapping [ErrInvalidTopology] and every violation.
func (s *Spec) Validate() error {
	var errs []error

	if s.Name == "" {
		errs = append(errs, errors.New("topology must have a name"))
	}

	switch s.Serializer {
	case SerializerMsgpack, SerializerJSON:
	default:
		errs = append(errs, fmt.Errorf("%w: %s. Known: %s, %s",
			ErrUnknownSerializer, s.Serializer, SerializerJSON, SerializerMsgpack))
	}

	names := make(map[string]*ComponentSpec, len(s.Topology))
	for i, c := range s.Topology {
		spec := c.Spec()
		if spec == nil || (c.Spout != nil && c.Bolt != nil) {
			errs = append(errs, fmt.Errorf("%w: entry #%d: only bolts and spouts are supported", ErrUnknownComponent, i))
			continue
		}
		if spec.Name == "" {
			errs = append(errs, fmt.Errorf("entry #%d: component must have a name", i))
			continue
		}
		if _, ok := names[spec.Name]; ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateComponent, spec.Name))
			continue
		}
		names[spec.Name] = spec
	}

	for _, c := range s.Topology {
		switch {
		case c.IsSpout():
			errs = append(errs, validateSpout(c.Spout)...)
		case c.IsBolt():
			errs = append(errs, validateBolt(c.Bolt, names)...)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(append([]error{ErrInvalidTopology}, errs...)...)
}

func validateSpout(spec *ComponentSpec) []error {
	var errs []error
	if spec.Type == "" && len(spec.OutputFields) == 0 {
		errs = append(errs, fmt.Errorf("%w: %s", ErrMissingOutputFields, spec.Name))
	}
	if spec.Type == "" && spec.Module == "" {
		errs = append(errs, fmt.Errorf("spout %s must have a module or a type", spec.Name))
	}
	if len(spec.Groupings) > 0 {
		errs = append(errs, fmt.Errorf("spout %s cannot have groupings", spec.Name))
	}
	return errs
}

func validateBolt(spec *ComponentSpec, names map[string]*ComponentSpec) []error {
	var errs []error
	if spec.Module == "" {
		errs = append(errs, fmt.Errorf("bolt %s must have a module", spec.Name))
	}

	for _, g := range spec.Groupings {
		if !g.Type.Known() {
			errs = append(errs, fmt.Errorf("%w: %s in bolt %s", ErrUnknownGrouping, g.Type, spec.Name))
			continue
		}

		source, ok := names[g.Component]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: bolt %s subscribes to %q", ErrUnknownComponent, spec.Name, g.Component))
			continue
		}

		if g.Type != FieldsGrouping {
			continue
		}
		if len(g.Fields) == 0 {
			errs = append(errs, fmt.Errorf("bolt %s: fields_grouping on %s must name fields", spec.Name, g.Component))
			continue
		}
		if len(source.OutputFields) == 0 {
			continue
		}
		for _, f := range g.Fields {
			if source.OutputFields.Index(g.Stream, f) < 0 {
				errs = append(errs, fmt.Errorf("bolt %s: stream %s of %s has no field %q", spec.Name, g.Stream, g.Component, f))
			}
		}
	}
	return errs
}
