package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"

	"github.com/MKhiriev/go-pyleus/internal/logger"
)

type configBuilder struct {
	resolver *Resolver
	base     Configuration
	configs  []*Configuration
	err      error
}

func newConfigBuilder(resolver *Resolver) *configBuilder {
	return &configBuilder{
		resolver: resolver,
		base:     resolver.defaults.Clone(),
		configs:  make([]*Configuration, 0, 2),
	}
}

// build layers every collected config over the file-resolved base. Only
// non-zero fields of a layer override the base; a non-empty plugin list
// replaces the base list.
func (b *configBuilder) build() (Configuration, error) {
	if b.err != nil {
		return Configuration{}, fmt.Errorf("error occured during building config: %w", b.err)
	}

	config := b.base.Clone()
	for _, cfg := range b.configs {
		if err := mergo.Merge(&config, cfg, mergo.WithOverride); err != nil {
			return Configuration{}, fmt.Errorf("error merging configs: %w", err)
		}
	}

	config = config.Clone()
	return config, config.Validate()
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg := &Configuration{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

func (b *configBuilder) withFlags(flags *Flags) *configBuilder {
	flagsCfg, err := flags.Configuration()
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, flagsCfg)
	return b
}

// withFile resolves the base from the configuration file named by the
// last layer that sets one. Without a file the base is resolved from the
// user file and the defaults.
func (b *configBuilder) withFile() *configBuilder {
	var path string
	for _, cfg := range b.configs {
		if cfg.ConfigFile != "" {
			path = cfg.ConfigFile
		}
	}

	base, err := b.resolver.Load(path)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.base = base
	return b
}

// GetConfiguration resolves the configuration from all sources in the
// following priority order (last source wins for non-zero fields):
//  1. Defaults
//  2. User file and the INI file named by --config or PYLEUS_CONFIG
//  3. Environment variables
//  4. Command-line flags
//
// Returns a validated Configuration or an error if any source fails to
// load or the result fails validation.
func GetConfiguration(flags *Flags, log *logger.Logger) (Configuration, error) {
	resolver := NewResolver(Defaults(), NewINIParser(), log)
	return newConfigBuilder(resolver).
		withEnv().
		withFlags(flags).
		withFile().
		build()
}
