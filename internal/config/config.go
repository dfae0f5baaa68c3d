// Package config provides configuration management for flockctl with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. Environment variables (FLOCK_* prefix)
//  2. Explicit config file (--config)
//  3. Global config (~/.flockctl/config.yaml)
//  4. Built-in defaults
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import other internal packages.
package config

import "time"

// Config is the root configuration structure.
type Config struct {
	// Pool selects and sizes the dispatch strategy.
	Pool PoolConfig `yaml:"pool" json:"pool" mapstructure:"pool"`

	// Retry controls polling acquisitions (flockctl wait).
	Retry RetryConfig `yaml:"retry" json:"retry" mapstructure:"retry"`

	// Log controls CLI logging.
	Log LogConfig `yaml:"log" json:"log" mapstructure:"log"`

	// Metrics controls the Prometheus endpoint.
	Metrics MetricsConfig `yaml:"metrics" json:"metrics" mapstructure:"metrics"`
}

// PoolConfig contains dispatch pool settings.
type PoolConfig struct {
	// Strategy is "goroutine", "errgroup" or "workers".
	// Default: "" (the strategy compiled in by build tags)
	Strategy string `yaml:"strategy" json:"strategy" mapstructure:"strategy"`

	// Size caps running blocking calls (errgroup) or sets the worker count (workers).
	Size int `yaml:"size" json:"size" mapstructure:"size"`

	// Queue is the workers strategy queue length. Zero means Size.
	Queue int `yaml:"queue" json:"queue" mapstructure:"queue"`
}

// RetryConfig contains polling acquisition settings.
type RetryConfig struct {
	// Timeout bounds a polling acquisition.
	Timeout time.Duration `yaml:"timeout" json:"timeout" mapstructure:"timeout"`

	// Interval is the pause between attempts.
	Interval time.Duration `yaml:"interval" json:"interval" mapstructure:"interval"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is a zerolog level name (debug, info, warn, error).
	Level string `yaml:"level" json:"level" mapstructure:"level"`

	// File enables the rotating log file under ~/.flockctl/logs.
	File bool `yaml:"file" json:"file" mapstructure:"file"`
}

// MetricsConfig contains metrics endpoint settings.
type MetricsConfig struct {
	// Addr is the listen address for /metrics. Empty disables the endpoint.
	Addr string `yaml:"addr" json:"addr" mapstructure:"addr"`
}
