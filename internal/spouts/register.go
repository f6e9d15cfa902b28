package spouts

import (
	"errors"

	"github.com/MKhiriev/go-pyleus/internal/logger"
	"github.com/MKhiriev/go-pyleus/internal/provider"
)

// Register adds the built-in providers to r under their qualified names.
func Register(r *provider.Registry, log *logger.Logger) error {
	return errors.Join(
		r.Register(provider.KafkaProvider, NewKafkaProvider(log)),
		r.Register(provider.ExampleProvider, NewSentenceProvider()),
	)
}
