// Package flock issues native advisory file-locking calls.
//
// One Backend exists per platform and is chosen by build constraints:
// flock(2) on BSD, Darwin and Linux, LockFileEx/UnlockFileEx on Windows.
// Both are normalized to whole-file locks and to the same outcome contract,
// so callers cannot tell the platforms apart.
//
// Every call performs exactly one blocking (or, for try variants,
// non-blocking) syscall on the calling goroutine's thread. Nothing here
// retries; retry policy belongs to the caller.
//
// Usage:
//
//	file, _ := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
//	outcome, err := flock.Native().Acquire(file.Fd(), flock.Exclusive, false)
//	if outcome == flock.WouldBlock {
//	    // held elsewhere
//	}
//	defer flock.Native().Release(file.Fd())
package flock
