package asyncflock

import (
	"github.com/mrz1836/asyncflock/internal/dispatch"
	flockerrors "github.com/mrz1836/asyncflock/internal/errors"
)

// Errors returned by Locker and Lock. Match them with errors.Is.
var (
	ErrWouldBlock          = flockerrors.ErrWouldBlock
	ErrOSError             = flockerrors.ErrOSError
	ErrWorkerFault         = flockerrors.ErrWorkerFault
	ErrShimClosed          = flockerrors.ErrShimClosed
	ErrLockReleased        = flockerrors.ErrLockReleased
	ErrLockTimeout         = flockerrors.ErrLockTimeout
	ErrUnsupportedPlatform = flockerrors.ErrUnsupportedPlatform
	ErrInvalidMode         = flockerrors.ErrInvalidMode
	ErrUnknownShim         = flockerrors.ErrUnknownShim
)

type (
	// OSError carries the failed native call and its OS error.
	OSError = flockerrors.OSError
	// FaultError describes a worker that panicked while running a lock call.
	FaultError = dispatch.FaultError
)
