package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/asyncflock/internal/config"
	"github.com/mrz1836/asyncflock/internal/dispatch"
	"github.com/mrz1836/asyncflock/internal/errors"
)

func TestConfigShow_YAML(t *testing.T) {
	isolateHome(t)

	out, _, err := runCLI(t, "config", "show")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Contains(t, got, "pool")
	assert.Contains(t, got, "retry")
	assert.Equal(t, dispatch.DefaultStrategy, got["default_strategy"])
	assert.Contains(t, out, "timeout: 30s")
}

func TestConfigShow_JSON(t *testing.T) {
	isolateHome(t)
	t.Setenv("FLOCK_POOL_STRATEGY", "workers")
	t.Setenv("FLOCK_POOL_SIZE", "3")

	out, _, err := runCLI(t, "config", "show", "-o", "json")
	require.NoError(t, err)

	var got struct {
		Pool            config.PoolConfig `json:"pool"`
		DefaultStrategy string            `json:"default_strategy"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "workers", got.Pool.Strategy)
	assert.Equal(t, 3, got.Pool.Size)
	assert.Equal(t, dispatch.DefaultStrategy, got.DefaultStrategy)
}

func TestConfigShow_ExplicitFile(t *testing.T) {
	isolateHome(t)
	path := filepath.Join(t.TempDir(), "flock.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o600))

	out, _, err := runCLI(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "level: warn")
}

func TestConfigShow_BadFormat(t *testing.T) {
	isolateHome(t)

	_, _, err := runCLI(t, "config", "show", "-o", "toml")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidOutputFormat)
}
