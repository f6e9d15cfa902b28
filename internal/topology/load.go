package topology

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads, parses and validates the topology definition at path.
func Load(path string) (*Spec, error) {
	f, err := os.Open(path) //nolint:gosec // path is given by the operator
	if err != nil {
		return nil, fmt.Errorf("error opening topology file: %w", err)
	}
	defer f.Close()

	spec, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return spec, nil
}

// Parse decodes a topology definition from r and validates it. Unset
// numeric options are [Unset] and the serializer defaults to msgpack.
func Parse(r io.Reader) (*Spec, error) {
	spec := newSpec()
	if err := yaml.NewDecoder(r).Decode(&spec); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty topology definition", ErrInvalidTopology)
		}
		return nil, fmt.Errorf("%w: unable to parse topology definition: %w", ErrInvalidTopology, err)
	}

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}
