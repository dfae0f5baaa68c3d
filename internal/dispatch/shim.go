package dispatch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"

	flockerrors "github.com/mrz1836/asyncflock/internal/errors"
	"github.com/mrz1836/asyncflock/internal/metrics"
)

// Strategy names accepted by New.
const (
	StrategyGoroutine = "goroutine"
	StrategyErrgroup  = "errgroup"
	StrategyWorkers   = "workers"
)

// Shim runs Jobs on worker goroutines that are not the submitter's.
type Shim interface {
	// Submit hands job to a worker. It must not run job on the calling
	// goroutine. If the shim is closed, or ctx ends while job is still
	// queued, job is failed instead of run.
	Submit(ctx context.Context, job Job)
	// Name returns the strategy name.
	Name() string
	// Close stops accepting jobs and waits for running ones to finish.
	// A job blocked in a syscall delays Close until the syscall returns.
	Close() error
}

// Strategies returns the names accepted by New.
func Strategies() []string {
	return []string{StrategyGoroutine, StrategyErrgroup, StrategyWorkers}
}

// Option configures a Shim.
type Option func(*options)

type options struct {
	logger  zerolog.Logger
	metrics *metrics.Collector
	size    int
	queue   int
}

func defaultOptions() options {
	return options{
		logger: zerolog.Nop(),
		size:   runtime.GOMAXPROCS(0) * 4,
	}
}

// WithLogger sets the logger used for task lifecycle events.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics sets the collector that records task metrics.
func WithMetrics(c *metrics.Collector) Option {
	return func(o *options) { o.metrics = c }
}

// WithSize caps concurrently running jobs (errgroup) or sets the worker
// count (workers). Ignored by the goroutine strategy. Values below 1 are ignored.
func WithSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.size = n
		}
	}
}

// WithQueue sets the workers strategy queue length. Defaults to the worker count.
func WithQueue(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.queue = n
		}
	}
}

// New builds a Shim by strategy name. An empty name selects DefaultStrategy.
func New(name string, opts ...Option) (Shim, error) {
	if name == "" {
		name = DefaultStrategy
	}
	switch name {
	case StrategyGoroutine:
		return NewGoroutine(opts...), nil
	case StrategyErrgroup:
		return NewErrgroup(opts...), nil
	case StrategyWorkers:
		return NewWorkers(opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q (want one of %v)", flockerrors.ErrUnknownShim, name, Strategies())
	}
}

//nolint:gochecknoglobals // Process-wide default pool
var (
	defaultOnce sync.Once
	defaultShim Shim
)

// Default returns the process-wide Shim for DefaultStrategy. It is never closed.
func Default() Shim {
	defaultOnce.Do(func() {
		s, err := New(DefaultStrategy)
		if err != nil {
			panic(err) // DefaultStrategy is a compile-time constant
		}
		defaultShim = s
	})
	return defaultShim
}

// base holds what every strategy shares: naming, logging, metrics and the
// instrumented execution of a job.
type base struct {
	name string
	opts options
}

func newBase(name string, opts []Option) base {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.queue <= 0 {
		o.queue = o.size
	}
	return base{name: name, opts: o}
}

// Name implements Shim.
func (b *base) Name() string { return b.name }

// execute runs job on the current goroutine and records the outcome. The
// bookkeeping is deferred so it also happens when the job ends the
// goroutine with runtime.Goexit.
func (b *base) execute(job Job) {
	b.opts.metrics.TaskStarted(b.name)
	start := time.Now()

	var err error
	returned := false
	defer func() {
		if !returned {
			err = &FaultError{TaskID: job.ID(), Value: errWorkerExited}
		}
		b.finish(job, err, time.Since(start))
	}()

	err = job.Run()
	returned = true
}

func (b *base) finish(job Job, err error, took time.Duration) {
	logger := b.opts.logger.With().Str("shim", b.name).Str("task_id", job.ID()).Logger()

	result := metrics.ResultOK
	var fault *FaultError
	switch {
	case errors.As(err, &fault):
		result = metrics.ResultFault
		logger.Error().
			Interface("fault", fault.Value).
			Bytes("stack", fault.Stack).
			Dur("took", took).
			Msg("dispatch task faulted")
	case err != nil:
		result = metrics.ResultError
		logger.Debug().Err(err).Dur("took", took).Msg("dispatch task failed")
	default:
		logger.Debug().Dur("took", took).Msg("dispatch task completed")
	}
	b.opts.metrics.TaskFinished(b.name, result, took)

	if job.Abandoned() {
		b.opts.metrics.TaskAbandoned(b.name)
		logger.Warn().
			AnErr("result_error", err).
			Msg("result abandoned: waiter detached before the blocking call returned")
	}
}

// reject fails a job that never reached a worker.
func (b *base) reject(job Job, err error) {
	b.opts.logger.Debug().
		Str("shim", b.name).
		Str("task_id", job.ID()).
		Err(err).
		Msg("dispatch task rejected")
	job.Fail(err)
}
