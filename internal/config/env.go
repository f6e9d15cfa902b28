// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes every environment variable read by [parseEnv].
const EnvPrefix = "PYLEUS_"

// parseEnv populates cfg from environment variables using the caarlos0/env
// library. Fields are mapped via their `env` tags on [Configuration], each
// prefixed with [EnvPrefix] (e.g. PYLEUS_NIMBUS_HOST).
//
// Returns a wrapped error if a value cannot be converted to the field type.
func parseEnv(cfg *Configuration) error {
	err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix})
	if err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	return nil
}
