// Package dispatch runs blocking closures off the caller's goroutine.
//
// A Shim owns a pool of worker goroutines and runs each submitted Job to
// completion on one of them. The submitter gets a Future and parks on it
// together with its context; cancelling the context detaches the waiter but
// never interrupts the job, which keeps running until its syscall returns.
//
// Three strategies are always compiled:
//
//   - goroutine: one goroutine per job, scheduled by the Go runtime (default)
//   - errgroup: unbounded errgroup with a weighted semaphore capping running jobs
//   - workers: a fixed set of OS-thread-pinned goroutines fed by a queue
//
// Default returns the process-wide Shim for the strategy chosen at build
// time. Build with -tags flockpool_errgroup or -tags flockpool_workers to
// change it; the two tags are mutually exclusive.
package dispatch
