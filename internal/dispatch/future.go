package dispatch

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	flockerrors "github.com/mrz1836/asyncflock/internal/errors"
)

// Job is a unit of blocking work as seen by a Shim.
// A Shim calls exactly one of Run or Fail for every submitted Job.
type Job interface {
	// ID identifies the job in logs.
	ID() string
	// Run executes the job on the current goroutine and completes it.
	// A panic is recovered and reported as a *FaultError.
	Run() error
	// Fail completes the job with err without running it.
	Fail(err error)
	// Abandoned reports whether the last waiter detached before completion.
	Abandoned() bool
}

// FaultError reports a job whose closure panicked on a worker or whose
// worker goroutine exited (runtime.Goexit) before the closure returned.
type FaultError struct {
	TaskID string
	Value  any
	Stack  []byte
}

// Error implements the error interface.
func (e *FaultError) Error() string {
	return fmt.Sprintf("dispatch worker fault in task %s: %v", e.TaskID, e.Value)
}

// Is reports whether target is ErrWorkerFault.
func (e *FaultError) Is(target error) bool {
	return target == flockerrors.ErrWorkerFault
}

// Future is the pending result of a Job producing a T.
type Future[T any] struct {
	id        string
	submitted time.Time
	fn        func() (T, error)

	onFail func(error)

	mu        sync.Mutex
	done      chan struct{}
	completed bool
	val       T
	err       error
	detached  bool
	abandoned bool
}

// errWorkerExited is the FaultError value for a closure that never returned.
const errWorkerExited = "worker goroutine exited before the task returned"

// NewFuture wraps fn as a Job. It does not run it.
func NewFuture[T any](fn func() (T, error)) *Future[T] {
	return &Future[T]{
		id:        uuid.NewString(),
		submitted: time.Now(),
		fn:        fn,
		done:      make(chan struct{}),
	}
}

// ID returns the task ID.
func (f *Future[T]) ID() string { return f.id }

// SubmittedAt returns when the future was created.
func (f *Future[T]) SubmittedAt() time.Time { return f.submitted }

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// OnFail registers fn to run when the future is failed without its closure
// ever running (rejected by a shim or a done ctx). Set it before Submit.
func (f *Future[T]) OnFail(fn func(error)) *Future[T] {
	f.onFail = fn
	return f
}

// Run implements Job. A panic, or the goroutine exiting through
// runtime.Goexit, completes the future with a *FaultError.
func (f *Future[T]) Run() (err error) {
	returned := false
	defer func() {
		r := recover()
		if returned {
			return
		}
		if r == nil {
			r = errWorkerExited
		}
		fault := &FaultError{TaskID: f.id, Value: r, Stack: debug.Stack()}
		var zero T
		f.complete(zero, fault)
		err = fault
	}()

	v, err := f.fn()
	returned = true
	f.complete(v, err)
	return err
}

// Fail implements Job.
func (f *Future[T]) Fail(err error) {
	var zero T
	if f.complete(zero, err) && f.onFail != nil {
		f.onFail(err)
	}
}

// Abandoned implements Job. It is decided when the future completes: true
// only if the last waiter had already detached at that moment.
func (f *Future[T]) Abandoned() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.abandoned
}

// complete stores the result once and reports whether this call did so.
func (f *Future[T]) complete(v T, err error) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.completed {
		return false
	}
	f.completed = true
	f.val = v
	f.err = err
	f.abandoned = f.detached
	close(f.done)
	return true
}

// Await parks until the result is ready or ctx ends. When ctx wins the
// waiter detaches and ctx.Err() is returned; the job keeps running and a
// later Await can still collect its result.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	f.mu.Lock()
	if !f.completed {
		f.detached = false
	}
	f.mu.Unlock()

	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.completed {
		// The result raced with cancellation; take it.
		return f.val, f.err
	}
	f.detached = true
	var zero T
	return zero, ctx.Err()
}

// Submit hands f to s. A ctx that is already done fails f without submitting.
func Submit[T any](ctx context.Context, s Shim, f *Future[T]) *Future[T] {
	if err := ctx.Err(); err != nil {
		f.Fail(err)
		return f
	}
	s.Submit(ctx, f)
	return f
}

// Go submits fn to s and returns its Future.
// A ctx that is already done fails the future without submitting.
func Go[T any](ctx context.Context, s Shim, fn func() (T, error)) *Future[T] {
	return Submit(ctx, s, NewFuture(fn))
}

// Run submits fn to s and awaits its result.
func Run[T any](ctx context.Context, s Shim, fn func() (T, error)) (T, error) {
	return Go(ctx, s, fn).Await(ctx)
}
