package asyncflock

import (
	"context"
	"sync/atomic"
	"time"

	flockerrors "github.com/mrz1836/asyncflock/internal/errors"
)

// Lock is proof that one acquisition succeeded. Unlock consumes it: only the
// first call issues a release and every later call returns ErrLockReleased.
//
// A Lock that is never unlocked is left to the OS, which drops it when the
// file is closed or the process exits.
type Lock struct {
	locker     *Locker
	mode       Mode
	acquiredAt time.Time
	released   atomic.Bool
}

func newLock(l *Locker, mode Mode) *Lock {
	return &Lock{locker: l, mode: mode, acquiredAt: l.clock.Now()}
}

// Mode returns the mode the lock was acquired in.
func (k *Lock) Mode() Mode { return k.mode }

// File returns the locked handle.
func (k *Lock) File() File { return k.locker.file }

// AcquiredAt returns when the native call granted the lock.
func (k *Lock) AcquiredAt() time.Time { return k.acquiredAt }

// Released reports whether Unlock has consumed the lock.
func (k *Lock) Released() bool { return k.released.Load() }

// Unlock releases the lock through the same dispatch shim that acquired it.
// An OS failure is returned as is; nothing is retried. A ctx that is already
// done leaves the lock untouched. Cancelling ctx mid-release only detaches:
// the release still runs.
func (k *Lock) Unlock(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !k.released.CompareAndSwap(false, true) {
		return flockerrors.ErrLockReleased
	}
	return k.locker.release(ctx, k.mode)
}
