package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/asyncflock"
)

// WaitFlags holds flags specific to the wait command.
type WaitFlags struct {
	// Shared waits for a shared lock.
	Shared bool
	// Timeout overrides retry.timeout.
	Timeout time.Duration
	// Interval overrides retry.interval.
	Interval time.Duration
}

// AddWaitCommand adds the wait subcommand to the root command.
func AddWaitCommand(root *cobra.Command, a *app) {
	flags := &WaitFlags{}
	cmd := &cobra.Command{
		Use:   "wait <path>",
		Short: "Poll until a lock can be taken",
		Long: `Poll <path> with non-blocking attempts until the lock is free, then
release it and print "acquired". Exits 3 when --timeout passes first.

Defaults come from retry.timeout and retry.interval in the config.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runWait(cmd, args[0], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.Shared, "shared", false, "wait for a shared lock")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", 0, "give up after this long (default from config)")
	cmd.Flags().DurationVar(&flags.Interval, "interval", 0, "pause between attempts (default from config)")

	root.AddCommand(cmd)
}

// retryPolicy merges flag overrides onto the configured retry settings.
func (a *app) retryPolicy(cmd *cobra.Command, flags *WaitFlags) asyncflock.RetryPolicy {
	p := asyncflock.RetryPolicy{
		Timeout:  a.cfg.Retry.Timeout,
		Interval: a.cfg.Retry.Interval,
	}
	if cmd.Flags().Changed("timeout") {
		p.Timeout = flags.Timeout
	}
	if cmd.Flags().Changed("interval") {
		p.Interval = flags.Interval
	}
	return p
}

func (a *app) runWait(cmd *cobra.Command, path string, flags *WaitFlags) error {
	ctx := cmd.Context()

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
	policy := a.retryPolicy(cmd, flags)
	s.logger.Debug().Dur("timeout", policy.Timeout).Dur("interval", policy.Interval).Msg("waiting for lock")

	lock, err := s.locker.LockWithRetry(ctx, mode, policy)
	if err != nil {
		return err
	}
	if err := lock.Unlock(ctx); err != nil {
		return err
	}

	return writeReport(cmd.OutOrStdout(), a.flags.Output, lockReport{
		Status: StatusAcquired,
		Path:   path,
		Mode:   mode.String(),
	})
}
