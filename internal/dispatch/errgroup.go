package dispatch

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	flockerrors "github.com/mrz1836/asyncflock/internal/errors"
)

// ErrgroupShim tracks jobs in an errgroup and caps how many run at once with
// a weighted semaphore. Submission never blocks; excess jobs wait for a
// slot on their own goroutine and are failed if their context ends first.
type ErrgroupShim struct {
	base

	mu     sync.Mutex
	closed bool
	g      errgroup.Group
	sem    *semaphore.Weighted
}

// NewErrgroup creates an ErrgroupShim limited by WithSize.
func NewErrgroup(opts ...Option) *ErrgroupShim {
	s := &ErrgroupShim{base: newBase(StrategyErrgroup, opts)}
	s.sem = semaphore.NewWeighted(int64(s.opts.size))
	return s
}

// Submit implements Shim.
func (s *ErrgroupShim) Submit(ctx context.Context, job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.reject(job, flockerrors.ErrShimClosed)
		return
	}

	s.g.Go(func() error {
		// Queued jobs can still be dropped: nothing has been issued yet.
		if err := s.sem.Acquire(ctx, 1); err != nil {
			s.reject(job, err)
			return nil
		}
		defer s.sem.Release(1)
		s.execute(job)
		return nil
	})
}

// Close implements Shim.
func (s *ErrgroupShim) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return s.g.Wait()
}

var _ Shim = (*ErrgroupShim)(nil)
