package config

import (
	"errors"
	"fmt"
)

// Sentinel causes wrapped by [ConfigurationError]. Match them with
// errors.Is.
var (
	// ErrConfigNotFound indicates that the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
	// ErrConfigNotAFile indicates that the configuration path exists but
	// is not a regular file (for example, a directory).
	ErrConfigNotAFile = errors.New("configuration path is not a file")
	// ErrConfigParse indicates that a configuration file could not be parsed.
	ErrConfigParse = errors.New("unable to parse configuration")
	// ErrInvalidConfiguration indicates that the resolved configuration
	// breaks one of the option constraints checked by [Configuration.Validate].
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// ConfigurationError is the single error kind returned while resolving a
// configuration. Path is the offending file, if any.
type ConfigurationError struct {
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("configuration error: %v", e.Err)
	}
	return fmt.Sprintf("configuration error: %s: %v", e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func newConfigurationError(path string, err error) *ConfigurationError {
	return &ConfigurationError{Path: path, Err: err}
}
