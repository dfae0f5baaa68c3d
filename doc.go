// Package asyncflock provides advisory file locks whose blocking syscalls run
// off the caller's goroutine.
//
// flock(2) and LockFileEx both block the calling thread until the lock is
// granted. A Locker hands each call to a dispatch Shim, which runs it on a
// worker goroutine, and parks the caller on the result together with its
// context. The two native APIs are normalized to whole-file locks, so
// callers see the same behavior on every supported platform.
//
//	f, _ := os.OpenFile("state.lock", os.O_RDWR|os.O_CREATE, 0o600)
//	defer f.Close()
//
//	lock, err := asyncflock.New(f).LockExclusive(ctx)
//	if err != nil {
//	    return err
//	}
//	defer lock.Unlock(context.Background())
//
// # Cancellation
//
// Cancelling ctx detaches the waiter but cannot interrupt a syscall already
// running on a worker. That call finishes anyway, and a lock it acquires is
// held with nobody tracking it until the file is closed. Use the Async
// variants and Await the returned future again to recover such a lock.
//
// # Dispatch strategy
//
// The default Shim is chosen at build time: goroutine (no tag),
// errgroup (-tags flockpool_errgroup) or workers (-tags flockpool_workers).
// WithShim injects any other Shim.
package asyncflock
