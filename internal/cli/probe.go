package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mrz1836/asyncflock/internal/errors"
)

// AddProbeCommand adds the probe subcommand to the root command.
func AddProbeCommand(root *cobra.Command, a *app) {
	var shared bool
	cmd := &cobra.Command{
		Use:   "probe <path>",
		Short: "Check once whether a lock is free",
		Long: `Try to lock <path> without waiting. Prints "acquired" and exits 0 when the
lock was free (it is released again immediately), or prints "would-block"
and exits 3 when another holder has it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runProbe(cmd, args[0], shared)
		},
	}
	cmd.Flags().BoolVar(&shared, "shared", false, "probe for a shared lock")
	root.AddCommand(cmd)
}

func (a *app) runProbe(cmd *cobra.Command, path string, shared bool) error {
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

	mode := parseShared(shared)
	report := lockReport{Path: path, Mode: mode.String()}

	lock, ok, err := s.tryLock(ctx, mode)
	if err != nil {
		return err
	}
	if !ok {
		report.Status = StatusWouldBlock
		if err := writeReport(cmd.OutOrStdout(), a.flags.Output, report); err != nil {
			return err
		}
		return errors.Wrapf(errors.ErrWouldBlock, "%s", path)
	}

	if err := lock.Unlock(ctx); err != nil {
		return err
	}
	report.Status = StatusAcquired
	return writeReport(cmd.OutOrStdout(), a.flags.Output, report)
}
