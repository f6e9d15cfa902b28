package topology

import "errors"

// Validation errors returned by [Spec.Validate] and the loaders.
var (
	// ErrInvalidTopology wraps every topology definition problem.
	ErrInvalidTopology = errors.New("invalid topology")
	// ErrUnknownGrouping indicates a grouping type other than the known ones.
	ErrUnknownGrouping = errors.New("unknown grouping type")
	// ErrUnknownSerializer indicates a serializer other than msgpack or json.
	ErrUnknownSerializer = errors.New("unknown serializer")
	// ErrMissingOutputFields indicates a spout without a provider type and
	// without output fields.
	ErrMissingOutputFields = errors.New("spouts must have output_fields")
	// ErrDuplicateComponent indicates two components sharing a name.
	ErrDuplicateComponent = errors.New("duplicate component name")
	// ErrUnknownComponent indicates an entry that is neither a spout nor a
	// bolt, or a grouping that references a component not in the topology.
	ErrUnknownComponent = errors.New("unknown component")
)
