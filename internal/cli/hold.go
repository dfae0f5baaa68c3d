package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/asyncflock"
	"github.com/mrz1836/asyncflock/internal/errors"
	"github.com/mrz1836/asyncflock/internal/signal"
)

// HoldFlags holds flags specific to the hold command.
type HoldFlags struct {
	// Shared takes a shared lock instead of an exclusive one.
	Shared bool
	// Try fails immediately instead of waiting when the lock is held.
	Try bool
	// For releases the lock after this long. Zero holds until interrupted.
	For time.Duration
}

// AddHoldCommand adds the hold subcommand to the root command.
func AddHoldCommand(root *cobra.Command, a *app) {
	flags := &HoldFlags{}
	cmd := &cobra.Command{
		Use:   "hold <path>",
		Short: "Acquire a lock and hold it",
		Long: `Open (creating if needed) the file at <path>, lock it and print "ready".
The lock is held until the process receives SIGINT or SIGTERM, or until
--for elapses, then released.

Examples:
  flockctl hold /tmp/app.lock            # exclusive, until Ctrl+C
  flockctl hold --shared --for 10s /tmp/app.lock
  flockctl hold --try /tmp/app.lock      # exit 3 if already locked`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runHold(cmd, args[0], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.Shared, "shared", false, "take a shared lock")
	cmd.Flags().BoolVar(&flags.Try, "try", false, "fail instead of waiting if the lock is held")
	cmd.Flags().DurationVar(&flags.For, "for", 0, "release after this duration (default: until interrupted)")

	root.AddCommand(cmd)
}

func (a *app) runHold(cmd *cobra.Command, path string, flags *HoldFlags) error {
	h := signal.NewHandler(cmd.Context())
	defer h.Stop()
	ctx := h.Context()

	s, err := a.openSession(ctx, path, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		_ = s.Close(closeCtx)
	}()

	mode := parseShared(flags.Shared)
	report := lockReport{Path: path, Mode: mode.String()}

	var lock *asyncflock.Lock
	if flags.Try {
		l, ok, err := s.tryLock(ctx, mode)
		if err != nil {
			return err
		}
		if !ok {
			report.Status = StatusWouldBlock
			_ = writeReport(cmd.OutOrStdout(), a.flags.Output, report)
			return errors.Wrapf(errors.ErrWouldBlock, "%s", path)
		}
		lock = l
	} else {
		if lock, err = s.lock(ctx, mode); err != nil {
			return err
		}
	}

	report.Status = StatusReady
	if err := writeReport(cmd.OutOrStdout(), a.flags.Output, report); err != nil {
		_ = lock.Unlock(context.Background())
		return err
	}
	s.logger.Info().Str("mode", report.Mode).Dur("for", flags.For).Msg("holding lock")

	waitForRelease(ctx, flags.For)
	if sig := h.Signal(); sig != nil {
		s.logger.Info().Str("signal", sig.String()).Msg("interrupted")
	}

	// The command context may already be canceled; release regardless.
	if err := lock.Unlock(context.Background()); err != nil {
		return err
	}
	report.Status = StatusReleased
	return writeReport(cmd.OutOrStdout(), a.flags.Output, report)
}

// waitForRelease returns when ctx ends or, if d is positive, after d.
func waitForRelease(ctx context.Context, d time.Duration) {
	if d <= 0 {
		<-ctx.Done()
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
