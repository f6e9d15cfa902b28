// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/MKhiriev/go-pyleus/internal/logger"
)

// optionSections are the sections whose keys are read as options. A key
// present in a later section wins.
var optionSections = []string{SectionStorm, SectionBuild}

// Resolver turns configuration files into a [Configuration] derived from an
// explicit default value.
type Resolver struct {
	defaults Configuration
	parser   Parser
	log      *logger.Logger

	// userFile is read before the command-line file when it exists.
	userFile string
}

// NewResolver returns a Resolver that merges discovered options over
// defaults. A nil log discards output.
func NewResolver(defaults Configuration, parser Parser, log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.Nop()
	}
	return &Resolver{
		defaults: defaults.Clone(),
		parser:   parser,
		log:      log,
		userFile: userConfigPath(),
	}
}

// WithUserFile replaces the user configuration file path. An empty path
// disables the user file.
func (r *Resolver) WithUserFile(path string) *Resolver {
	r.userFile = path
	return r
}

// Load resolves the configuration for the command-line file path.
//
// A non-empty path is validated with [ValidatePath] first. An empty path
// skips validation and resolves from the user file and the defaults only.
// Options are taken from the [storm] and [build] sections; the [plugins]
// section yields the plugin declarations in file order. Every failure is a
// *ConfigurationError.
func (r *Resolver) Load(path string) (Configuration, error) {
	if path != "" {
		if err := ValidatePath(path); err != nil {
			return Configuration{}, err
		}
	}

	sources := make([]string, 0, 2)
	if r.userFile != "" && isRegularFile(r.userFile) {
		sources = append(sources, r.userFile)
	}
	if path != "" {
		sources = append(sources, path)
	}

	if len(sources) == 0 {
		r.log.Debug().Msg("no configuration file found, using defaults")
		return r.defaults.Clone(), nil
	}

	sections, err := r.parser.Parse(sources...)
	if err != nil {
		return Configuration{}, newConfigurationError(path, fmt.Errorf("%w: %w", ErrConfigParse, err))
	}

	overrides := collectOverrides(sections)
	if path != "" {
		overrides["config_file"] = path
	}

	cfg, unused := UpdateConfigurationWithUnused(r.defaults, overrides)
	if len(unused) > 0 {
		r.log.Debug().Strs("keys", unused).Msg("ignoring unrecognized configuration options")
	}

	r.log.Debug().
		Strs("sources", sources).
		Int("plugins", len(cfg.Plugins)).
		Msg("configuration loaded")

	return cfg, nil
}

// collectOverrides flattens the option sections and the plugin section of
// sections into overrides.
func collectOverrides(sections []Section) Overrides {
	overrides := make(Overrides)
	for _, name := range optionSections {
		items, _ := Lookup(sections, name)
		for _, item := range items {
			overrides[item.Key] = item.Value
		}
	}

	if items, ok := Lookup(sections, SectionPlugins); ok {
		overrides["plugins"] = items
	} else {
		delete(overrides, "plugins")
	}

	return overrides
}

// LoadConfiguration resolves path with the INI parser over [Defaults].
func LoadConfiguration(path string) (Configuration, error) {
	return NewResolver(Defaults(), NewINIParser(), nil).Load(path)
}
