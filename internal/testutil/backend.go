package testutil

import (
	"runtime"
	"sync"
	"sync/atomic"

	flockerrors "github.com/mrz1836/asyncflock/internal/errors"
	"github.com/mrz1836/asyncflock/internal/flock"
)

// Call records one request a FakeBackend received.
type Call struct {
	Op       string
	FD       uintptr
	Mode     flock.Mode
	Blocking bool
}

// FakeBackend is a flock.Backend driven by test hooks. Nil hooks succeed.
type FakeBackend struct {
	AcquireFunc func(fd uintptr, mode flock.Mode, blocking bool) (flock.Outcome, error)
	ReleaseFunc func(fd uintptr) error

	mu    sync.Mutex
	calls []Call
}

// Acquire implements flock.Backend.
func (b *FakeBackend) Acquire(fd uintptr, mode flock.Mode, blocking bool) (flock.Outcome, error) {
	b.record(Call{Op: "acquire", FD: fd, Mode: mode, Blocking: blocking})
	if b.AcquireFunc == nil {
		return flock.Acquired, nil
	}
	return b.AcquireFunc(fd, mode, blocking)
}

// Release implements flock.Backend.
func (b *FakeBackend) Release(fd uintptr) error {
	b.record(Call{Op: "release", FD: fd})
	if b.ReleaseFunc == nil {
		return nil
	}
	return b.ReleaseFunc(fd)
}

// Calls returns a copy of the recorded calls.
func (b *FakeBackend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

func (b *FakeBackend) record(c Call) {
	b.mu.Lock()
	b.calls = append(b.calls, c)
	b.mu.Unlock()
}

// PanicOnAcquire returns an AcquireFunc that panics with v.
func PanicOnAcquire(v any) func(uintptr, flock.Mode, bool) (flock.Outcome, error) {
	return func(uintptr, flock.Mode, bool) (flock.Outcome, error) {
		panic(v)
	}
}

// ExitOnAcquire returns an AcquireFunc whose first n calls end the calling
// goroutine with runtime.Goexit; later calls succeed.
func ExitOnAcquire(n int) func(uintptr, flock.Mode, bool) (flock.Outcome, error) {
	var calls atomic.Int64
	return func(uintptr, flock.Mode, bool) (flock.Outcome, error) {
		if calls.Add(1) <= int64(n) {
			runtime.Goexit()
		}
		return flock.Acquired, nil
	}
}

// FailAcquire returns an AcquireFunc that reports an OS error wrapping err.
func FailAcquire(err error) func(uintptr, flock.Mode, bool) (flock.Outcome, error) {
	return func(uintptr, flock.Mode, bool) (flock.Outcome, error) {
		return flock.Failed, flockerrors.NewOSError("fake", err)
	}
}

var _ flock.Backend = (*FakeBackend)(nil)
