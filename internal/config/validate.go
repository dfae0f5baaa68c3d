package config

import (
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/asyncflock/internal/constants"
	"github.com/mrz1836/asyncflock/internal/errors"
)

// knownStrategies mirrors the dispatch strategy names. An empty strategy
// selects the build-time default.
//
//nolint:gochecknoglobals // Fixed lookup table
var knownStrategies = []string{"", "goroutine", "errgroup", "workers"}

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - pool.strategy must name a dispatch strategy or be empty
//   - pool.size must be between 1 and MaxPoolSize
//   - pool.queue must not be negative
//   - retry.timeout must not be negative
//   - retry.interval must be between 1ms and 1m
//   - log.level must be a zerolog level name
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validatePoolConfig(&cfg.Pool); err != nil {
		return err
	}

	if err := validateRetryConfig(&cfg.Retry); err != nil {
		return err
	}

	return validateLogConfig(&cfg.Log)
}

func validatePoolConfig(cfg *PoolConfig) error {
	if !slices.Contains(knownStrategies, cfg.Strategy) {
		return errors.Wrapf(errors.ErrConfigInvalidPool,
			"pool.strategy %q is not one of goroutine, errgroup, workers", cfg.Strategy)
	}

	if cfg.Size < 1 || cfg.Size > constants.MaxPoolSize {
		return errors.Wrapf(errors.ErrConfigInvalidPool,
			"pool.size must be between 1 and %d, got %d", constants.MaxPoolSize, cfg.Size)
	}

	if cfg.Queue < 0 {
		return errors.Wrapf(errors.ErrConfigInvalidPool,
			"pool.queue must not be negative, got %d", cfg.Queue)
	}

	return nil
}

func validateRetryConfig(cfg *RetryConfig) error {
	if cfg.Timeout < 0 {
		return errors.Wrapf(errors.ErrConfigInvalidRetry,
			"retry.timeout must not be negative, got %s", cfg.Timeout)
	}

	minInterval := time.Millisecond
	maxInterval := time.Minute
	if cfg.Interval < minInterval || cfg.Interval > maxInterval {
		return errors.Wrapf(errors.ErrConfigInvalidRetry,
			"retry.interval must be between %s and %s, got %s", minInterval, maxInterval, cfg.Interval)
	}

	return nil
}

func validateLogConfig(cfg *LogConfig) error {
	if _, err := zerolog.ParseLevel(cfg.Level); err != nil || cfg.Level == "" {
		return errors.Wrapf(errors.ErrConfigInvalidLog,
			"log.level %q is not a valid level", cfg.Level)
	}
	return nil
}
