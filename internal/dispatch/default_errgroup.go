//go:build flockpool_errgroup && !flockpool_workers

package dispatch

// DefaultStrategy is the strategy Default and New("") use.
const DefaultStrategy = StrategyErrgroup
