package cli

import (
	"context"
	stderrors "errors"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/mrz1836/asyncflock"
	"github.com/mrz1836/asyncflock/internal/errors"
	"github.com/mrz1836/asyncflock/internal/metrics"
)

// session is one opened lock file plus the Locker and telemetry around it.
type session struct {
	path    string
	file    *os.File
	shim    asyncflock.Shim
	locker  *asyncflock.Locker
	logger  zerolog.Logger
	closers []func(context.Context) error
}

// openSession opens (creating if needed) path and builds a Locker for it
// from the loaded configuration.
func (a *app) openSession(ctx context.Context, path string, stderr io.Writer) (*session, error) {
	if path == "" {
		return nil, errors.Wrap(errors.ErrEmptyValue, "lock file path")
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "flockctl").Str("path", path).Logger()

	//nolint:gosec // The path is the operator's explicit lock target
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}

	s := &session{path: path, file: f, logger: logger}

	collector := metrics.NewCollector()
	if a.cfg.Metrics.Addr != "" {
		reg := metrics.NewRegistry()
		if err := collector.Register(reg); err != nil {
			_ = s.Close(ctx)
			return nil, errors.Wrap(err, "failed to register metrics")
		}
		_, stop, err := serveMetrics(a.cfg.Metrics.Addr, reg, logger)
		if err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		s.closers = append(s.closers, stop)
	}

	lockerOpts := []asyncflock.Option{
		asyncflock.WithLogger(logger),
		asyncflock.WithMetrics(collector),
	}
	if a.flags.Trace {
		tracer, shutdown, err := startTracing(stderr)
		if err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		s.closers = append(s.closers, shutdown)
		lockerOpts = append(lockerOpts, asyncflock.WithTracer(tracer))
	}

	shim, err := asyncflock.NewShim(a.cfg.Pool.Strategy,
		asyncflock.ShimSize(a.cfg.Pool.Size),
		asyncflock.ShimQueue(a.cfg.Pool.Queue),
		asyncflock.ShimLogger(logger),
		asyncflock.ShimMetrics(collector),
	)
	if err != nil {
		_ = s.Close(ctx)
		return nil, err
	}
	s.shim = shim
	lockerOpts = append(lockerOpts, asyncflock.WithShim(shim))

	s.locker = asyncflock.New(f, lockerOpts...)
	logger.Debug().Str("shim", shim.Name()).Msg("session opened")
	return s, nil
}

// Close stops the shim and telemetry, then closes the file. Closing the
// file drops any lock still held on it. A worker still parked in a blocking
// lock call cannot be interrupted, so the shim drain is bounded by ctx and
// the process exit finishes the job.
func (s *session) Close(ctx context.Context) error {
	var errs []error
	if s.shim != nil {
		errs = append(errs, closeShim(ctx, s.shim))
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i](ctx))
	}
	if s.file != nil {
		errs = append(errs, s.file.Close())
	}
	return stderrors.Join(errs...)
}

func closeShim(ctx context.Context, shim asyncflock.Shim) error {
	done := make(chan error, 1)
	go func() { done <- shim.Close() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "shim still draining")
	}
}

// parseShared maps the --shared flag to a lock mode.
func parseShared(shared bool) asyncflock.Mode {
	if shared {
		return asyncflock.Shared
	}
	return asyncflock.Exclusive
}

// lock waits for mode on the session's file.
func (s *session) lock(ctx context.Context, mode asyncflock.Mode) (*asyncflock.Lock, error) {
	if mode == asyncflock.Shared {
		return s.locker.LockShared(ctx)
	}
	return s.locker.LockExclusive(ctx)
}

// tryLock makes one non-blocking attempt for mode.
func (s *session) tryLock(ctx context.Context, mode asyncflock.Mode) (*asyncflock.Lock, bool, error) {
	if mode == asyncflock.Shared {
		return s.locker.TryLockShared(ctx)
	}
	return s.locker.TryLockExclusive(ctx)
}
