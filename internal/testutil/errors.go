// Package testutil provides testing utilities for asyncflock.
//
// It holds mock errors and a scriptable lock backend. It should only be
// imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors for testing purposes.
var (
	// ErrMockSyscall simulates a native lock call rejected by the OS.
	ErrMockSyscall = errors.New("mock syscall failed")

	// ErrMockRelease simulates a failing unlock call.
	ErrMockRelease = errors.New("mock release failed")
)
