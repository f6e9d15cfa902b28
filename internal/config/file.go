package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// UserConfigFile is the per-user configuration file, relative to the home
// directory. It is read, when present, before the command-line file.
const UserConfigFile = ".pyleus.conf"

// ValidatePath checks that path names an existing regular file. It only
// probes the filesystem and never reads the file.
//
// Returns a *ConfigurationError wrapping [ErrConfigNotFound] when nothing
// exists at path and [ErrConfigNotAFile] when path is not a regular file.
func ValidatePath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return newConfigurationError(path, ErrConfigNotFound)
		}
		return newConfigurationError(path, err)
	}

	if !info.Mode().IsRegular() {
		return newConfigurationError(path, ErrConfigNotAFile)
	}

	return nil
}

// userConfigPath returns the user configuration file path, or "" when the
// home directory cannot be determined.
func userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, UserConfigFile)
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
