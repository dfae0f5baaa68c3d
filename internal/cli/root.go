// Package cli provides the flockctl command-line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/asyncflock/internal/config"
	"github.com/mrz1836/asyncflock/internal/errors"
	"github.com/mrz1836/asyncflock/internal/logging"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// app is the state PersistentPreRunE prepares for every subcommand.
type app struct {
	flags  *GlobalFlags
	cfg    *config.Config
	logger *logging.Logger
}

// newRootCmd creates the root command. State lives in an app value rather
// than package globals so tests can build independent trees.
func newRootCmd(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	return (&app{flags: flags}).rootCmd(info)
}

func (a *app) rootCmd(info BuildInfo) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "flockctl",
		Short: "Hold, probe and wait on advisory file locks",
		Long: `flockctl takes whole-file advisory locks (flock on Unix, LockFileEx on
Windows) through the asyncflock library.

Use it to block another process in tests, to check whether a lock is
free from a shell script, or to wait until a lock can be taken.`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.prepare(cmd, v)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd, a.flags)

	AddHoldCommand(cmd, a)
	AddProbeCommand(cmd, a)
	AddWaitCommand(cmd, a)
	AddConfigCommand(cmd, a)

	return cmd
}

// prepare binds flags, loads configuration and builds the logger.
func (a *app) prepare(cmd *cobra.Command, v *viper.Viper) error {
	if err := BindGlobalFlags(v, cmd); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}
	applyBoundFlags(v, a.flags)

	if !IsValidOutputFormat(a.flags.Output) {
		return fmt.Errorf("%w: %q must be one of %v", errors.ErrInvalidOutputFormat, a.flags.Output, ValidOutputFormats())
	}

	cfg, err := config.Load(cmd.Context(), a.flags.ConfigPath)
	if err != nil {
		return err
	}
	if a.flags.MetricsAddr != "" {
		cfg.Metrics.Addr = a.flags.MetricsAddr
	}
	a.cfg = cfg

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	opts := logging.Options{
		Level:   level,
		Verbose: a.flags.Verbose,
		Quiet:   a.flags.Quiet,
		Console: cmd.ErrOrStderr(),
	}
	if cfg.Log.File {
		if opts.FilePath, err = config.LogFilePath(); err != nil {
			return err
		}
	}

	logger, err := logging.New(opts)
	a.logger = logger
	if err != nil {
		// Console logging still works; the file is optional.
		logger.Warn().Err(err).Msg("log file unavailable")
	}

	cmd.SetContext(logger.WithContext(cmd.Context()))
	return nil
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command with the provided context and build info.
func Execute(ctx context.Context, info BuildInfo) error {
	a := &app{flags: &GlobalFlags{}}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := a.rootCmd(info)
	defer func() { _ = a.logger.Close() }()
	return cmd.ExecuteContext(ctx)
}
