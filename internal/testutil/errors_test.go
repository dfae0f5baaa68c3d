package testutil

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	flockerrors "github.com/mrz1836/asyncflock/internal/errors"
	"github.com/mrz1836/asyncflock/internal/flock"
)

func TestMockErrors(t *testing.T) {
	assert.Equal(t, "mock syscall failed", ErrMockSyscall.Error())
	assert.Equal(t, "mock release failed", ErrMockRelease.Error())
	assert.NotErrorIs(t, ErrMockSyscall, ErrMockRelease)
}

func TestFakeBackend(t *testing.T) {
	t.Run("defaults succeed and record calls", func(t *testing.T) {
		b := &FakeBackend{}

		outcome, err := b.Acquire(3, flock.Shared, false)
		require.NoError(t, err)
		assert.Equal(t, flock.Acquired, outcome)
		require.NoError(t, b.Release(3))

		assert.Equal(t, []Call{
			{Op: "acquire", FD: 3, Mode: flock.Shared, Blocking: false},
			{Op: "release", FD: 3},
		}, b.Calls())
	})

	t.Run("fail acquire wraps as os error", func(t *testing.T) {
		b := &FakeBackend{AcquireFunc: FailAcquire(ErrMockSyscall)}

		outcome, err := b.Acquire(3, flock.Exclusive, true)
		assert.Equal(t, flock.Failed, outcome)
		require.ErrorIs(t, err, flockerrors.ErrOSError)
		require.ErrorIs(t, err, ErrMockSyscall)
	})

	t.Run("panic on acquire", func(t *testing.T) {
		b := &FakeBackend{AcquireFunc: PanicOnAcquire("boom")}
		assert.PanicsWithValue(t, "boom", func() { _, _ = b.Acquire(3, flock.Exclusive, true) })
	})

	t.Run("release hook", func(t *testing.T) {
		b := &FakeBackend{ReleaseFunc: func(uintptr) error { return ErrMockRelease }}
		assert.True(t, errors.Is(b.Release(1), ErrMockRelease))
	})
}
