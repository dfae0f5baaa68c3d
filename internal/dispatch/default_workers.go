//go:build flockpool_workers && !flockpool_errgroup

package dispatch

// DefaultStrategy is the strategy Default and New("") use.
const DefaultStrategy = StrategyWorkers
