package constants

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryConstants(t *testing.T) {
	t.Run("LockRetryInterval is reasonable", func(t *testing.T) {
		assert.Equal(t, 50*time.Millisecond, LockRetryInterval)
		assert.Less(t, LockRetryInterval, time.Second, "should retry quickly")
	})

	t.Run("LockRetryTimeout exceeds the interval", func(t *testing.T) {
		assert.Greater(t, LockRetryTimeout, LockRetryInterval)
	})
}

func TestPoolConstants(t *testing.T) {
	assert.Positive(t, DefaultPoolSize)
	assert.LessOrEqual(t, DefaultPoolSize, MaxPoolSize)
}
