// Package errors provides centralized error handling for asyncflock.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the module. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import "errors"

// Sentinel errors for error categorization.
// These allow callers to check error types with errors.Is().
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrWouldBlock indicates a non-blocking lock attempt found the lock
	// held elsewhere. Only the try variants produce it.
	ErrWouldBlock = errors.New("lock would block")

	// ErrOSError indicates the native locking syscall failed for a reason
	// other than contention. The concrete error is an *OSError.
	ErrOSError = errors.New("native lock call failed")

	// ErrWorkerFault indicates the pool worker running a blocking closure
	// did not run it to completion (for example it panicked).
	ErrWorkerFault = errors.New("dispatch worker fault")

	// ErrShimClosed indicates a task was submitted to a dispatch pool that
	// has already been closed.
	ErrShimClosed = errors.New("dispatch pool closed")

	// ErrLockReleased indicates Unlock was called on a lock handle that has
	// already been consumed.
	ErrLockReleased = errors.New("lock already released")

	// ErrLockTimeout indicates a file lock could not be acquired within the timeout period.
	ErrLockTimeout = errors.New("lock acquisition timeout")

	// ErrUnsupportedPlatform indicates no native locking primitive exists
	// for the current operating system.
	ErrUnsupportedPlatform = errors.New("file locking unsupported on this platform")

	// ErrInvalidMode indicates an unknown lock mode name or value.
	ErrInvalidMode = errors.New("invalid lock mode")

	// ErrUnknownShim indicates an unknown dispatch strategy name.
	ErrUnknownShim = errors.New("unknown dispatch strategy")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidPool indicates an invalid dispatch pool configuration value.
	ErrConfigInvalidPool = errors.New("invalid pool configuration")

	// ErrConfigInvalidRetry indicates an invalid retry configuration value.
	ErrConfigInvalidRetry = errors.New("invalid retry configuration")

	// ErrConfigInvalidLog indicates an invalid logging configuration value.
	ErrConfigInvalidLog = errors.New("invalid log configuration")

	// ErrConfigNotFound indicates that the configuration file was not found.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrInvalidArgument indicates that an invalid argument was provided.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")
)

// OSError records a failed native locking call and the OS error it returned.
// It matches ErrOSError and, through Unwrap, the underlying errno.
type OSError struct {
	// Op is the native call that failed (e.g. "flock", "LockFileEx").
	Op string
	// Err is the OS error, usually a syscall.Errno.
	Err error
}

// NewOSError wraps err as an OSError for op. Returns nil if err is nil.
func NewOSError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &OSError{Op: op, Err: err}
}

// Error implements the error interface.
func (e *OSError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying OS error.
func (e *OSError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrOSError.
func (e *OSError) Is(target error) bool {
	return target == ErrOSError
}

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}
