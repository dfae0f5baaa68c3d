package flock

import (
	"fmt"
	"strings"

	flockerrors "github.com/mrz1836/asyncflock/internal/errors"
)

// Mode selects shared (read) or exclusive (write) locking.
type Mode int

const (
	// Exclusive grants a single holder.
	Exclusive Mode = iota
	// Shared grants any number of concurrent shared holders.
	Shared
)

// String returns the lowercase mode name.
func (m Mode) String() string {
	switch m {
	case Exclusive:
		return "exclusive"
	case Shared:
		return "shared"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == Exclusive || m == Shared
}

// ParseMode converts "exclusive"/"ex" or "shared"/"sh" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exclusive", "ex":
		return Exclusive, nil
	case "shared", "sh":
		return Shared, nil
	default:
		return 0, fmt.Errorf("%w: %q", flockerrors.ErrInvalidMode, s)
	}
}

// Outcome is the semantic result of a single acquisition syscall.
type Outcome int

const (
	// Acquired means the lock is now held through the given handle.
	Acquired Outcome = iota
	// WouldBlock means a non-blocking request found the lock held elsewhere.
	WouldBlock
	// Failed means the OS rejected the request. The error carries the cause.
	Failed
)

// String returns the outcome name used in logs and metrics labels.
func (o Outcome) String() string {
	switch o {
	case Acquired:
		return "acquired"
	case WouldBlock:
		return "would_block"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Backend performs native lock calls on an open file descriptor or handle.
type Backend interface {
	// Acquire issues one lock syscall. It returns (WouldBlock, ErrWouldBlock)
	// only when blocking is false and the lock is held elsewhere, and
	// (Failed, err) for every other failure.
	Acquire(fd uintptr, mode Mode, blocking bool) (Outcome, error)

	// Release issues one unlock syscall over the same whole-file range.
	// Unlocking an unlocked handle yields whatever the OS reports.
	Release(fd uintptr) error
}

// Native returns the Backend for the current platform.
func Native() Backend {
	return nativeBackend{}
}

// invalidMode reports a request for a mode no backend understands.
func invalidMode(m Mode) (Outcome, error) {
	return Failed, fmt.Errorf("%w: %s", flockerrors.ErrInvalidMode, m)
}
