package asyncflock_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/mrz1836/asyncflock"
	"github.com/mrz1836/asyncflock/internal/clock"
	"github.com/mrz1836/asyncflock/internal/flock"
	"github.com/mrz1836/asyncflock/internal/testutil"
)

// fakeFile is a File with a fixed descriptor number.
type fakeFile uintptr

func (f fakeFile) Fd() uintptr { return uintptr(f) }

func TestLocker_WorkerFaultSurfaces(t *testing.T) {
	t.Parallel()

	for _, strategy := range []string{"goroutine", "errgroup", "workers"} {
		t.Run(strategy, func(t *testing.T) {
			t.Parallel()

			shim, err := asyncflock.NewShim(strategy, asyncflock.ShimSize(1))
			require.NoError(t, err)
			t.Cleanup(func() { _ = shim.Close() })

			backend := &testutil.FakeBackend{AcquireFunc: testutil.PanicOnAcquire("syscall wrapper crashed")}
			l := asyncflock.New(fakeFile(7), asyncflock.WithShim(shim), asyncflock.WithBackend(backend))

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			lock, err := l.LockExclusive(ctx)
			require.ErrorIs(t, err, asyncflock.ErrWorkerFault, "fault must surface, not hang")
			assert.NotErrorIs(t, err, context.DeadlineExceeded)
			assert.Nil(t, lock)

			var fault *asyncflock.FaultError
			require.ErrorAs(t, err, &fault)
			assert.Equal(t, "syscall wrapper crashed", fault.Value)
		})
	}
}

func TestLocker_AbortedWorkerSurfacesFault(t *testing.T) {
	t.Parallel()

	for _, strategy := range []string{"goroutine", "errgroup", "workers"} {
		t.Run(strategy, func(t *testing.T) {
			t.Parallel()

			shim, err := asyncflock.NewShim(strategy, asyncflock.ShimSize(1))
			require.NoError(t, err)
			t.Cleanup(func() { _ = shim.Close() })

			backend := &testutil.FakeBackend{AcquireFunc: testutil.ExitOnAcquire(1)}
			l := asyncflock.New(fakeFile(8), asyncflock.WithShim(shim), asyncflock.WithBackend(backend))

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			lock, err := l.LockExclusive(ctx)
			require.ErrorIs(t, err, asyncflock.ErrWorkerFault, "an aborted worker must not leave the request pending")
			assert.NotErrorIs(t, err, context.DeadlineExceeded)
			assert.Nil(t, lock)

			// A single-worker shim still serves the next request.
			lock, err = l.LockExclusive(ctx)
			require.NoError(t, err)
			require.NoError(t, lock.Unlock(ctx))
		})
	}
}

func TestLocker_RejectedRequestsEndTheirSpans(t *testing.T) {
	t.Parallel()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	shim, err := asyncflock.NewShim("goroutine")
	require.NoError(t, err)

	l := asyncflock.New(fakeFile(9),
		asyncflock.WithShim(shim),
		asyncflock.WithBackend(&testutil.FakeBackend{}),
		asyncflock.WithTracer(tp.Tracer("test")),
	)

	lock, err := l.LockShared(context.Background())
	require.NoError(t, err)
	require.NoError(t, shim.Close())

	_, err = l.LockExclusive(context.Background())
	require.ErrorIs(t, err, asyncflock.ErrShimClosed)
	require.ErrorIs(t, lock.Unlock(context.Background()), asyncflock.ErrShimClosed)

	ended := recorder.Ended()
	require.Len(t, ended, 3, "every started span must end")
	assert.Equal(t, "asyncflock.LockShared", ended[0].Name())
	for _, span := range ended[1:] {
		assert.Equal(t, codes.Error, span.Status().Code, span.Name())
	}
}

func TestLocker_OSErrorPropagates(t *testing.T) {
	t.Parallel()

	backend := &testutil.FakeBackend{AcquireFunc: testutil.FailAcquire(testutil.ErrMockSyscall)}
	l := asyncflock.New(fakeFile(3), asyncflock.WithBackend(backend))

	_, err := l.LockShared(context.Background())
	require.ErrorIs(t, err, asyncflock.ErrOSError)
	require.ErrorIs(t, err, testutil.ErrMockSyscall)
	assert.Contains(t, err.Error(), "shared lock")

	_, ok, err := l.TryLockExclusive(context.Background())
	require.ErrorIs(t, err, asyncflock.ErrOSError)
	assert.False(t, ok)

	assert.Len(t, backend.Calls(), 2, "no layer may retry")
}

func TestLocker_RequestsReachBackend(t *testing.T) {
	t.Parallel()

	backend := &testutil.FakeBackend{}
	l := asyncflock.New(fakeFile(9), asyncflock.WithBackend(backend))
	ctx := context.Background()

	lock, err := l.LockShared(ctx)
	require.NoError(t, err)
	lock2, ok, err := l.TryLockExclusive(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, lock.Unlock(ctx))
	require.NoError(t, lock2.Unlock(ctx))

	assert.Equal(t, []testutil.Call{
		{Op: "acquire", FD: 9, Mode: flock.Shared, Blocking: true},
		{Op: "acquire", FD: 9, Mode: flock.Exclusive, Blocking: false},
		{Op: "release", FD: 9},
		{Op: "release", FD: 9},
	}, backend.Calls())
}

func TestLock_UnlockErrorIsReturnedOnce(t *testing.T) {
	t.Parallel()

	backend := &testutil.FakeBackend{ReleaseFunc: func(uintptr) error { return testutil.ErrMockRelease }}
	l := asyncflock.New(fakeFile(4), asyncflock.WithBackend(backend))
	ctx := context.Background()

	lock, err := l.LockExclusive(ctx)
	require.NoError(t, err)

	require.ErrorIs(t, lock.Unlock(ctx), testutil.ErrMockRelease)
	require.ErrorIs(t, lock.Unlock(ctx), asyncflock.ErrLockReleased)
	assert.Len(t, backend.Calls(), 2, "a failed unlock is not retried")
}

func TestLocker_ClosedShim(t *testing.T) {
	t.Parallel()

	shim, err := asyncflock.NewShim("workers", asyncflock.ShimSize(1))
	require.NoError(t, err)
	require.NoError(t, shim.Close())

	l := asyncflock.New(fakeFile(5), asyncflock.WithShim(shim), asyncflock.WithBackend(&testutil.FakeBackend{}))
	_, err = l.LockExclusive(context.Background())
	require.ErrorIs(t, err, asyncflock.ErrShimClosed)
}

func TestLocker_LockWithRetry(t *testing.T) {
	t.Parallel()

	t.Run("succeeds once the holder releases", func(t *testing.T) {
		t.Parallel()

		var tries atomic.Int32
		backend := &testutil.FakeBackend{AcquireFunc: func(uintptr, flock.Mode, bool) (flock.Outcome, error) {
			if tries.Add(1) < 3 {
				return flock.WouldBlock, asyncflock.ErrWouldBlock
			}
			return flock.Acquired, nil
		}}
		l := asyncflock.New(fakeFile(6), asyncflock.WithBackend(backend))

		lock, err := l.LockWithRetry(context.Background(), asyncflock.Exclusive,
			asyncflock.RetryPolicy{Timeout: 5 * time.Second, Interval: time.Millisecond})
		require.NoError(t, err)
		require.NotNil(t, lock)
		assert.Equal(t, int32(3), tries.Load())
		for _, c := range backend.Calls() {
			assert.False(t, c.Blocking, "retry must only use the non-blocking variant")
		}
	})

	t.Run("times out", func(t *testing.T) {
		t.Parallel()

		// Each clock read advances one second, so a 3s budget runs out quickly.
		start := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
		var ticks atomic.Int64
		fake := clock.Func(func() time.Time {
			return start.Add(time.Duration(ticks.Add(1)) * time.Second)
		})

		backend := &testutil.FakeBackend{AcquireFunc: func(uintptr, flock.Mode, bool) (flock.Outcome, error) {
			return flock.WouldBlock, asyncflock.ErrWouldBlock
		}}
		l := asyncflock.New(fakeFile(6), asyncflock.WithBackend(backend), asyncflock.WithClock(fake))

		_, err := l.LockWithRetry(context.Background(), asyncflock.Shared,
			asyncflock.RetryPolicy{Timeout: 3 * time.Second, Interval: time.Millisecond})
		require.ErrorIs(t, err, asyncflock.ErrLockTimeout)
		assert.Contains(t, err.Error(), "shared lock")
	})

	t.Run("zero timeout tries once", func(t *testing.T) {
		t.Parallel()

		backend := &testutil.FakeBackend{AcquireFunc: func(uintptr, flock.Mode, bool) (flock.Outcome, error) {
			return flock.WouldBlock, asyncflock.ErrWouldBlock
		}}
		l := asyncflock.New(fakeFile(6), asyncflock.WithBackend(backend))

		_, err := l.LockWithRetry(context.Background(), asyncflock.Exclusive, asyncflock.RetryPolicy{})
		require.ErrorIs(t, err, asyncflock.ErrLockTimeout)
		assert.Len(t, backend.Calls(), 1)
	})

	t.Run("honors context", func(t *testing.T) {
		t.Parallel()

		backend := &testutil.FakeBackend{AcquireFunc: func(uintptr, flock.Mode, bool) (flock.Outcome, error) {
			return flock.WouldBlock, asyncflock.ErrWouldBlock
		}}
		l := asyncflock.New(fakeFile(6), asyncflock.WithBackend(backend))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := l.LockWithRetry(ctx, asyncflock.Exclusive,
			asyncflock.RetryPolicy{Timeout: time.Hour, Interval: 5 * time.Millisecond})
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestLocker_UsesContextLogger(t *testing.T) {
	t.Parallel()

	var buf safeBuffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	ctx := logger.WithContext(context.Background())

	l := asyncflock.New(fakeFile(8), asyncflock.WithBackend(&testutil.FakeBackend{}))
	lock, err := l.LockExclusive(ctx)
	require.NoError(t, err)
	require.NoError(t, lock.Unlock(ctx))

	assert.Contains(t, buf.String(), `"message":"lock acquired"`)
	assert.Contains(t, buf.String(), `"mode":"exclusive"`)
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	m, err := asyncflock.ParseMode("shared")
	require.NoError(t, err)
	assert.Equal(t, asyncflock.Shared, m)

	_, err = asyncflock.ParseMode("nope")
	require.ErrorIs(t, err, asyncflock.ErrInvalidMode)
}
