package flock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	flockerrors "github.com/mrz1836/asyncflock/internal/errors"
)

func TestParseMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Mode
	}{
		{"exclusive", Exclusive},
		{"EX", Exclusive},
		{" shared ", Shared},
		{"sh", Shared},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseMode(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := ParseMode("upgrade")
	require.ErrorIs(t, err, flockerrors.ErrInvalidMode)
}

func TestModeAndOutcomeStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "exclusive", Exclusive.String())
	assert.Equal(t, "shared", Shared.String())
	assert.Equal(t, "mode(7)", Mode(7).String())
	assert.False(t, Mode(7).Valid())

	assert.Equal(t, "acquired", Acquired.String())
	assert.Equal(t, "would_block", WouldBlock.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "outcome(9)", Outcome(9).String())
}
