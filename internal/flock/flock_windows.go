//go:build windows

package flock

import (
	"errors"

	"golang.org/x/sys/windows"

	flockerrors "github.com/mrz1836/asyncflock/internal/errors"
)

// nativeOp names the syscall in OSError values.
const nativeOp = "LockFileEx"

// Windows LockFileEx/UnlockFileEx API parameters.
// See: https://learn.microsoft.com/en-us/windows/win32/api/fileapi/nf-fileapi-lockfileex
//
// The range starts at offset 0 (the zero Overlapped) and spans the largest
// expressible length, which is how whole-file flock semantics are emulated.
const (
	lockReserved  = 0          // Reserved parameter, must be zero
	lockBytesLow  = 0xFFFFFFFF // Low-order 32 bits of byte range length
	lockBytesHigh = 0xFFFFFFFF // High-order 32 bits of byte range length
)

// nativeBackend locks whole files with LockFileEx.
type nativeBackend struct{}

// Acquire locks the handle, exclusive or shared, failing immediately when
// blocking is false.
func (nativeBackend) Acquire(fd uintptr, mode Mode, blocking bool) (Outcome, error) {
	var flags uint32
	switch mode {
	case Exclusive:
		flags = windows.LOCKFILE_EXCLUSIVE_LOCK
	case Shared:
	default:
		return invalidMode(mode)
	}
	if !blocking {
		flags |= windows.LOCKFILE_FAIL_IMMEDIATELY
	}

	err := windows.LockFileEx(
		windows.Handle(fd),
		flags,
		lockReserved,
		lockBytesLow,
		lockBytesHigh,
		&windows.Overlapped{},
	)
	if err == nil {
		return Acquired, nil
	}
	if !blocking && isContention(err) {
		return WouldBlock, flockerrors.ErrWouldBlock
	}
	return Failed, flockerrors.NewOSError(nativeOp, err)
}

// Release unlocks the same whole-file range with UnlockFileEx.
func (nativeBackend) Release(fd uintptr) error {
	err := windows.UnlockFileEx(
		windows.Handle(fd),
		lockReserved,
		lockBytesLow,
		lockBytesHigh,
		&windows.Overlapped{},
	)
	return flockerrors.NewOSError("UnlockFileEx", err)
}

// isContention reports whether err means LOCKFILE_FAIL_IMMEDIATELY hit a held range.
func isContention(err error) bool {
	return errors.Is(err, windows.ERROR_LOCK_VIOLATION) || errors.Is(err, windows.ERROR_IO_PENDING)
}
