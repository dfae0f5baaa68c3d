// Package constants provides centralized constant values used throughout asyncflock.
// This package is the single source of truth for shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory and file names used by flockctl.
const (
	// FlockHome is the hidden directory under the user's home where flockctl
	// keeps its global config and logs.
	FlockHome = ".flockctl"

	// ConfigFileName is the config file name inside FlockHome.
	ConfigFileName = "config.yaml"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// CLILogFileName is the name of the rotating CLI log file.
	CLILogFileName = "flockctl.log"
)

// EnvPrefix prefixes every environment variable override (FLOCK_POOL_SIZE, ...).
const EnvPrefix = "FLOCK"

// Lock retry defaults.
const (
	// LockRetryInterval is the pause between non-blocking lock attempts.
	LockRetryInterval = 50 * time.Millisecond

	// LockRetryTimeout bounds how long a polling acquisition keeps trying.
	LockRetryTimeout = 30 * time.Second
)

// Dispatch pool defaults.
const (
	// DefaultPoolSize caps running blocking calls for the bounded strategies.
	DefaultPoolSize = 16

	// MaxPoolSize is the largest accepted pool size.
	MaxPoolSize = 4096
)

// Log rotation settings for the CLI log file.
const (
	// LogMaxSizeMB is the size in megabytes at which the log file rotates.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated files kept.
	LogMaxBackups = 3

	// LogMaxAgeDays is the number of days rotated files are kept.
	LogMaxAgeDays = 28

	// LogCompress controls gzip compression of rotated files.
	LogCompress = true
)
