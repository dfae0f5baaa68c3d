package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/asyncflock/internal/errors"
)

// runCLI executes the command tree with args against an isolated home and
// returns stdout and stderr.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runCLIContext(context.Background(), t, args...)
}

func runCLIContext(ctx context.Context, t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCmd(&GlobalFlags{}, BuildInfo{Version: "test"})
	stdout := new(syncBuffer)
	stderr := new(syncBuffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

// syncBuffer is a bytes.Buffer safe for the concurrent writes worker
// goroutines make through the logger and span exporter.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// isolateHome keeps the developer's ~/.flockctl and FLOCK_* settings out of a test.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("FLOCK_HOME", home)
	for _, key := range []string{
		"FLOCK_OUTPUT", "FLOCK_VERBOSE", "FLOCK_QUIET", "FLOCK_TRACE",
		"FLOCK_POOL_STRATEGY", "FLOCK_POOL_SIZE", "FLOCK_POOL_QUEUE",
		"FLOCK_RETRY_TIMEOUT", "FLOCK_RETRY_INTERVAL",
		"FLOCK_LOG_LEVEL", "FLOCK_LOG_FILE", "FLOCK_METRICS_ADDR",
	} {
		t.Setenv(key, "")
	}
	return home
}

func TestRootCmd_Help(t *testing.T) {
	t.Parallel()

	flags := &GlobalFlags{}
	cmd := newRootCmd(flags, BuildInfo{Version: "test"})
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	for _, want := range []string{"flockctl", "hold", "probe", "wait", "config", "--output", "--verbose", "--quiet", "--metrics-addr"} {
		assert.Contains(t, output, want)
	}
}

func TestRootCmd_Version(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		info           BuildInfo
		expectContains []string
	}{
		{
			name:           "full version info",
			info:           BuildInfo{Version: "1.0.0", Commit: "abc1234", Date: "2026-01-01"},
			expectContains: []string{"1.0.0", "abc1234", "2026-01-01"},
		},
		{
			name:           "default dev version",
			info:           BuildInfo{},
			expectContains: []string{"dev", "none", "unknown"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cmd := newRootCmd(&GlobalFlags{}, tc.info)
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetArgs([]string{"--version"})

			require.NoError(t, cmd.Execute())
			for _, expected := range tc.expectContains {
				assert.Contains(t, buf.String(), expected)
			}
		})
	}
}

func TestRootCmd_InvalidOutputFormat(t *testing.T) {
	isolateHome(t)

	_, _, err := runCLI(t, "probe", "-o", "xml", "/nonexistent")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidOutputFormat)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestRootCmd_VerboseAndQuietExclusive(t *testing.T) {
	isolateHome(t)

	_, _, err := runCLI(t, "config", "show", "-v", "-q")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestRootCmd_MissingConfigFile(t *testing.T) {
	isolateHome(t)

	_, _, err := runCLI(t, "config", "show", "--config", "/definitely/not/here.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrConfigNotFound)
}

func TestFormatVersion(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1.2.3 (commit: abc, built: today)", formatVersion(BuildInfo{Version: "1.2.3", Commit: "abc", Date: "today"}))
	assert.Equal(t, "dev (commit: none, built: unknown)", formatVersion(BuildInfo{}))
}
