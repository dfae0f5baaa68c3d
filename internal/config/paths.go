package config

import (
	"os"
	"path/filepath"

	"github.com/mrz1836/asyncflock/internal/constants"
	"github.com/mrz1836/asyncflock/internal/errors"
)

// HomeDir returns the flockctl home directory. FLOCK_HOME overrides the
// default of ~/.flockctl.
func HomeDir() (string, error) {
	if dir := os.Getenv(constants.EnvPrefix + "_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.FlockHome), nil
}

// GlobalConfigPath returns the full path to the global configuration file.
func GlobalConfigPath() (string, error) {
	dir, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.ConfigFileName), nil
}

// LogFilePath returns the path of the rotating CLI log file.
func LogFilePath() (string, error) {
	dir, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.LogsDir, constants.CLILogFileName), nil
}

// fileExists reports whether path names an existing regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
