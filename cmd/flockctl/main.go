// Package main provides the entry point for the flockctl CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mrz1836/asyncflock/internal/cli"
	"github.com/mrz1836/asyncflock/internal/errors"
)

// Set via ldflags.
//
//nolint:gochecknoglobals // Build metadata
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	ctx := context.Background()
	err := cli.Execute(ctx, cli.BuildInfo{Version: version, Commit: commit, Date: date})
	if err != nil {
		msg, action := errors.Actionable(err)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
		if action != "" {
			_, _ = fmt.Fprintf(os.Stderr, "%s\n", action)
		}
	}
	os.Exit(cli.ExitCodeForError(err))
}
