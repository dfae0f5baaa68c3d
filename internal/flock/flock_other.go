//go:build !(darwin || dragonfly || freebsd || linux || netbsd || openbsd || windows)

package flock

import flockerrors "github.com/mrz1836/asyncflock/internal/errors"

// nativeBackend reports every call as unsupported.
type nativeBackend struct{}

// Acquire always fails with ErrUnsupportedPlatform.
func (nativeBackend) Acquire(_ uintptr, mode Mode, _ bool) (Outcome, error) {
	if !mode.Valid() {
		return invalidMode(mode)
	}
	return Failed, flockerrors.ErrUnsupportedPlatform
}

// Release always fails with ErrUnsupportedPlatform.
func (nativeBackend) Release(_ uintptr) error {
	return flockerrors.ErrUnsupportedPlatform
}
