// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
)

// Validate checks the option constraints of a resolved configuration:
// a known serializer, non-negative NimbusPort and WaitTime, and plugin
// declarations with both alias and name.
//
// Returns nil if the configuration is valid, or a *ConfigurationError
// wrapping [ErrInvalidConfiguration] and every violation found.
func (c Configuration) Validate() error {
	var errs []error

	switch c.Serializer {
	case SerializerMsgpack, SerializerJSON:
	default:
		errs = append(errs, fmt.Errorf("unknown serializer %q, known: %s, %s",
			c.Serializer, SerializerMsgpack, SerializerJSON))
	}

	if c.NimbusPort < 0 {
		errs = append(errs, fmt.Errorf("nimbus_port must not be negative, got %d", c.NimbusPort))
	}

	if c.WaitTime < 0 {
		errs = append(errs, fmt.Errorf("wait_time must not be negative, got %d", c.WaitTime))
	}

	for i, p := range c.Plugins {
		if p.Alias == "" || p.Name == "" {
			errs = append(errs, fmt.Errorf("plugin #%d must have both alias and name, got %q = %q", i, p.Alias, p.Name))
		}
	}

	if len(errs) == 0 {
		return nil
	}

	return newConfigurationError(c.ConfigFile, errors.Join(append([]error{ErrInvalidConfiguration}, errs...)...))
}
