package asyncflock

import (
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/mrz1836/asyncflock/internal/clock"
	"github.com/mrz1836/asyncflock/internal/dispatch"
	"github.com/mrz1836/asyncflock/internal/flock"
	"github.com/mrz1836/asyncflock/internal/metrics"
)

// Option configures a Locker.
type Option func(*Locker)

// WithShim runs lock calls on s instead of the build-time default.
func WithShim(s Shim) Option {
	return func(l *Locker) { l.shim = s }
}

// WithBackend replaces the native lock backend. Intended for tests.
func WithBackend(b Backend) Option {
	return func(l *Locker) { l.backend = b }
}

// WithLogger sets the logger. Without it the logger in the request context is used.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Locker) { l.logger = &logger }
}

// WithMetrics records lock attempts and releases on m.
func WithMetrics(m *Metrics) Option {
	return func(l *Locker) { l.metrics = m }
}

// WithTracer sets the tracer. Defaults to the global otel provider.
func WithTracer(t trace.Tracer) Option {
	return func(l *Locker) { l.tracer = t }
}

// WithClock sets the clock used for lock timestamps and retry deadlines.
func WithClock(c clock.Clock) Option {
	return func(l *Locker) { l.clock = c }
}

// Re-exported building blocks.
type (
	// Mode selects exclusive or shared locking.
	Mode = flock.Mode
	// Backend performs native lock calls.
	Backend = flock.Backend
	// Outcome is a native call's semantic result.
	Outcome = flock.Outcome
	// Shim runs blocking jobs on worker goroutines.
	Shim = dispatch.Shim
	// ShimOption configures a Shim.
	ShimOption = dispatch.Option
	// Metrics holds the Prometheus collectors.
	Metrics = metrics.Collector
)

// Lock modes.
const (
	Exclusive = flock.Exclusive
	Shared    = flock.Shared
)

// ParseMode converts "exclusive" or "shared" to a Mode.
func ParseMode(s string) (Mode, error) { return flock.ParseMode(s) }

// NativeBackend returns the platform's flock or LockFileEx backend.
func NativeBackend() Backend { return flock.Native() }

// NewShim builds a dispatch Shim by strategy name ("goroutine", "errgroup",
// "workers"; empty selects the build-time default).
func NewShim(strategy string, opts ...ShimOption) (Shim, error) {
	return dispatch.New(strategy, opts...)
}

// ShimSize caps running jobs or sets the worker count.
func ShimSize(n int) ShimOption { return dispatch.WithSize(n) }

// ShimQueue sets the workers strategy queue length.
func ShimQueue(n int) ShimOption { return dispatch.WithQueue(n) }

// ShimLogger sets a Shim's logger.
func ShimLogger(l zerolog.Logger) ShimOption { return dispatch.WithLogger(l) }

// ShimMetrics sets a Shim's metrics collector.
func ShimMetrics(m *Metrics) ShimOption { return dispatch.WithMetrics(m) }

// NewMetrics creates an unregistered metrics collector.
func NewMetrics() *Metrics { return metrics.NewCollector() }
