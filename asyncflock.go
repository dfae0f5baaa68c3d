package asyncflock

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mrz1836/asyncflock/internal/clock"
	"github.com/mrz1836/asyncflock/internal/ctxutil"
	"github.com/mrz1836/asyncflock/internal/dispatch"
	flockerrors "github.com/mrz1836/asyncflock/internal/errors"
	"github.com/mrz1836/asyncflock/internal/flock"
	"github.com/mrz1836/asyncflock/internal/metrics"
)

const tracerName = "github.com/mrz1836/asyncflock"

// File is an open file handle. *os.File satisfies it. The caller owns it and
// must keep it open while any Lock taken through it is held.
type File interface {
	Fd() uintptr
}

// PendingLock is an in-flight acquisition.
type PendingLock = dispatch.Future[*Lock]

// Locker issues lock requests against one File.
// It holds no mutable state and is safe for concurrent use.
type Locker struct {
	file    File
	shim    dispatch.Shim
	backend flock.Backend
	logger  *zerolog.Logger
	metrics *metrics.Collector
	tracer  trace.Tracer
	clock   clock.Clock
}

// New returns a Locker for f.
func New(f File, opts ...Option) *Locker {
	l := &Locker{
		file:    f,
		backend: flock.Native(),
		tracer:  otel.Tracer(tracerName),
		clock:   clock.RealClock{},
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.shim == nil {
		l.shim = dispatch.Default()
	}
	return l
}

// File returns the handle this Locker locks.
func (l *Locker) File() File { return l.file }

// LockExclusive waits until an exclusive lock is held or the OS reports an error.
func (l *Locker) LockExclusive(ctx context.Context) (*Lock, error) {
	return l.LockExclusiveAsync(ctx).Await(ctx)
}

// LockShared waits until a shared lock is held or the OS reports an error.
func (l *Locker) LockShared(ctx context.Context) (*Lock, error) {
	return l.LockSharedAsync(ctx).Await(ctx)
}

// LockExclusiveAsync starts a blocking exclusive acquisition and returns at once.
func (l *Locker) LockExclusiveAsync(ctx context.Context) *PendingLock {
	return l.acquire(ctx, Exclusive, true)
}

// LockSharedAsync starts a blocking shared acquisition and returns at once.
func (l *Locker) LockSharedAsync(ctx context.Context) *PendingLock {
	return l.acquire(ctx, Shared, true)
}

// TryLockExclusive attempts an exclusive lock without waiting for other holders.
// It returns (nil, false, nil) when the lock is held elsewhere.
func (l *Locker) TryLockExclusive(ctx context.Context) (*Lock, bool, error) {
	return l.tryLock(ctx, Exclusive)
}

// TryLockShared attempts a shared lock without waiting for an exclusive holder.
// It returns (nil, false, nil) when the lock is held elsewhere.
func (l *Locker) TryLockShared(ctx context.Context) (*Lock, bool, error) {
	return l.tryLock(ctx, Shared)
}

func (l *Locker) tryLock(ctx context.Context, mode Mode) (*Lock, bool, error) {
	lock, err := l.acquire(ctx, mode, false).Await(ctx)
	switch {
	case err == nil:
		return lock, true, nil
	case errors.Is(err, flockerrors.ErrWouldBlock):
		return nil, false, nil
	default:
		return nil, false, err
	}
}

// acquire packages one native Acquire call and submits it to the shim.
func (l *Locker) acquire(ctx context.Context, mode Mode, blocking bool) *PendingLock {
	if err := ctxutil.Canceled(ctx); err != nil {
		f := dispatch.NewFuture[*Lock](nil)
		f.Fail(err)
		return f
	}

	logger := l.loggerFor(ctx).With().
		Str("component", "asyncflock").
		Str("mode", mode.String()).
		Bool("blocking", blocking).
		Str("shim", l.shim.Name()).
		Logger()

	_, span := l.tracer.Start(ctx, spanName(mode, blocking), trace.WithAttributes(
		attribute.String("asyncflock.mode", mode.String()),
		attribute.Bool("asyncflock.blocking", blocking),
		attribute.String("asyncflock.shim", l.shim.Name()),
	))

	f := dispatch.NewFuture(func() (*Lock, error) {
		defer span.End()

		outcome, err := l.backend.Acquire(l.file.Fd(), mode, blocking)
		l.metrics.LockAttempt(mode.String(), blocking, outcome.String())
		span.SetAttributes(attribute.String("asyncflock.outcome", outcome.String()))

		switch outcome {
		case flock.Acquired:
			logger.Debug().Msg("lock acquired")
			return newLock(l, mode), nil
		case flock.WouldBlock:
			logger.Debug().Msg("lock held elsewhere")
			return nil, err
		default:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.Debug().Err(err).Msg("lock request failed")
			return nil, flockerrors.Wrapf(err, "%s lock", mode)
		}
	})
	f.OnFail(endRejected(span))
	return dispatch.Submit(ctx, l.shim, f)
}

// release packages one native Release call and submits it to the shim.
func (l *Locker) release(ctx context.Context, mode Mode) error {
	_, span := l.tracer.Start(ctx, "asyncflock.Unlock", trace.WithAttributes(
		attribute.String("asyncflock.mode", mode.String()),
		attribute.String("asyncflock.shim", l.shim.Name()),
	))

	f := dispatch.NewFuture(func() (struct{}, error) {
		defer span.End()

		err := l.backend.Release(l.file.Fd())
		l.metrics.LockReleased(err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return struct{}{}, err
	})
	f.OnFail(endRejected(span))

	_, err := dispatch.Submit(ctx, l.shim, f).Await(ctx)
	if err != nil {
		l.loggerFor(ctx).Debug().
			Str("component", "asyncflock").
			Str("mode", mode.String()).
			Err(err).
			Msg("unlock failed")
		return flockerrors.Wrap(err, "unlock")
	}
	return nil
}

// loggerFor prefers the configured logger and falls back to the one carried by ctx.
func (l *Locker) loggerFor(ctx context.Context) *zerolog.Logger {
	if l.logger != nil {
		return l.logger
	}
	return zerolog.Ctx(ctx)
}

// endRejected ends a span whose closure never ran because the shim
// rejected it.
func endRejected(span trace.Span) func(error) {
	return func(err error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.End()
	}
}

func spanName(mode Mode, blocking bool) string {
	prefix := "asyncflock.Lock"
	if !blocking {
		prefix = "asyncflock.TryLock"
	}
	if mode == Shared {
		return prefix + "Shared"
	}
	return prefix + "Exclusive"
}
