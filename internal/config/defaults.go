package config

import (
	"github.com/spf13/viper"

	"github.com/mrz1836/asyncflock/internal/constants"
)

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Pool: PoolConfig{
			Size: constants.DefaultPoolSize,
		},
		Retry: RetryConfig{
			Timeout:  constants.LockRetryTimeout,
			Interval: constants.LockRetryInterval,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// setDefaults registers DefaultConfig on v so env-only keys resolve.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("pool.strategy", d.Pool.Strategy)
	v.SetDefault("pool.size", d.Pool.Size)
	v.SetDefault("pool.queue", d.Pool.Queue)

	v.SetDefault("retry.timeout", d.Retry.Timeout.String())
	v.SetDefault("retry.interval", d.Retry.Interval.String())

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)

	v.SetDefault("metrics.addr", d.Metrics.Addr)
}
