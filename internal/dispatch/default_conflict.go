//go:build flockpool_errgroup && flockpool_workers

package dispatch

// Building with both pool tags fails here on purpose.
var _ int = "build tags flockpool_errgroup and flockpool_workers are mutually exclusive"
