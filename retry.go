package asyncflock

import (
	"context"
	"time"

	flockerrors "github.com/mrz1836/asyncflock/internal/errors"
)

// RetryPolicy controls LockWithRetry.
type RetryPolicy struct {
	// Timeout bounds the whole attempt. Zero means a single try.
	Timeout time.Duration
	// Interval is the pause between tries.
	Interval time.Duration
}

// DefaultRetryPolicy polls every 50ms for up to 30s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Timeout: 30 * time.Second, Interval: 50 * time.Millisecond}
}

// LockWithRetry polls the non-blocking variant until it succeeds, the policy
// times out (ErrLockTimeout) or ctx ends. Unlike LockExclusive it never
// leaves a worker parked in a blocking syscall.
func (l *Locker) LockWithRetry(ctx context.Context, mode Mode, p RetryPolicy) (*Lock, error) {
	if p.Interval <= 0 {
		p.Interval = DefaultRetryPolicy().Interval
	}
	deadline := l.clock.Now().Add(p.Timeout)
	attempts := 0

	for {
		attempts++
		lock, ok, err := l.tryLock(ctx, mode)
		if err != nil {
			return nil, err
		}
		if ok {
			return lock, nil
		}

		if !l.clock.Now().Before(deadline) {
			return nil, flockerrors.Wrapf(flockerrors.ErrLockTimeout,
				"%s lock after %v (%d attempts)", mode, p.Timeout, attempts)
		}

		timer := time.NewTimer(p.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
