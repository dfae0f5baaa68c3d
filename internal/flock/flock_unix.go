//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd

package flock

import (
	"errors"

	"golang.org/x/sys/unix"

	flockerrors "github.com/mrz1836/asyncflock/internal/errors"
)

// nativeOp names the syscall in OSError values.
const nativeOp = "flock"

// nativeBackend locks whole files with flock(2).
type nativeBackend struct{}

// Acquire locks fd with LOCK_EX or LOCK_SH, adding LOCK_NB when blocking is false.
func (nativeBackend) Acquire(fd uintptr, mode Mode, blocking bool) (Outcome, error) {
	var how int
	switch mode {
	case Exclusive:
		how = unix.LOCK_EX
	case Shared:
		how = unix.LOCK_SH
	default:
		return invalidMode(mode)
	}
	if !blocking {
		how |= unix.LOCK_NB
	}

	err := unix.Flock(int(fd), how)
	if err == nil {
		return Acquired, nil
	}
	if !blocking && isContention(err) {
		return WouldBlock, flockerrors.ErrWouldBlock
	}
	return Failed, flockerrors.NewOSError(nativeOp, err)
}

// Release unlocks fd with LOCK_UN.
func (nativeBackend) Release(fd uintptr) error {
	return flockerrors.NewOSError(nativeOp, unix.Flock(int(fd), unix.LOCK_UN))
}

// isContention reports whether err is the errno flock returns for LOCK_NB on a held lock.
func isContention(err error) bool {
	return errors.Is(err, unix.EWOULDBLOCK) || errors.Is(err, unix.EAGAIN)
}
