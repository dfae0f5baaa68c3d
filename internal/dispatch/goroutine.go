package dispatch

import (
	"context"
	"sync"

	flockerrors "github.com/mrz1836/asyncflock/internal/errors"
)

// GoroutineShim starts one goroutine per job. A goroutine blocked in a
// syscall releases its P, so the runtime keeps scheduling everything else.
type GoroutineShim struct {
	base

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewGoroutine creates a GoroutineShim.
func NewGoroutine(opts ...Option) *GoroutineShim {
	return &GoroutineShim{base: newBase(StrategyGoroutine, opts)}
}

// Submit implements Shim.
func (s *GoroutineShim) Submit(_ context.Context, job Job) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.reject(job, flockerrors.ErrShimClosed)
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		s.execute(job)
	}()
}

// Close implements Shim.
func (s *GoroutineShim) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.wg.Wait()
	return nil
}

var _ Shim = (*GoroutineShim)(nil)
