// Package ctxutil provides context utility functions.
package ctxutil

import "context"

// Canceled returns the context error if ctx is done (Canceled or
// DeadlineExceeded), nil otherwise. Lock entry points call it before
// handing anything to a worker, so a dead context never starts a syscall.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}
