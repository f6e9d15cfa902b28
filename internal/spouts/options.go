// Package spouts holds the built-in spout providers: a Kafka consumer and a
// fixed-sentence example spout.
package spouts

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/MKhiriev/go-pyleus/internal/provider"
)

// decodeOptions decodes the options of a spout definition into out, keyed
// by the mapstructure tags of out.
func decodeOptions(options map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}

	if err := dec.Decode(options); err != nil {
		return fmt.Errorf("%w: %w", provider.ErrInvalidOption, err)
	}
	return nil
}
