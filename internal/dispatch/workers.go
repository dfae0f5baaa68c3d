package dispatch

import (
	"context"
	"runtime"
	"sync"

	flockerrors "github.com/mrz1836/asyncflock/internal/errors"
)

// WorkerPool is a standalone fixed-size blocking pool. Each worker pins its
// goroutine to an OS thread for its lifetime, so blocking calls always sit
// on one of a known set of threads.
type WorkerPool struct {
	base

	mu     sync.RWMutex
	closed bool
	queue  chan Job
	wg     sync.WaitGroup
}

// NewWorkers starts a WorkerPool with WithSize workers and a WithQueue queue.
func NewWorkers(opts ...Option) *WorkerPool {
	p := &WorkerPool{base: newBase(StrategyWorkers, opts)}
	p.queue = make(chan Job, p.opts.queue)
	p.wg.Add(p.opts.size)
	for range p.opts.size {
		go p.worker()
	}
	return p
}

// worker serves the queue until Close. A job that ends the goroutine with
// runtime.Goexit takes the worker's locked thread with it; a replacement
// worker inherits its WaitGroup slot so the pool keeps its size.
func (p *WorkerPool) worker() {
	runtime.LockOSThread()

	drained := false
	defer func() {
		if !drained {
			go p.worker()
			return
		}
		runtime.UnlockOSThread()
		p.wg.Done()
	}()

	for job := range p.queue {
		p.execute(job)
	}
	drained = true
}

// Submit implements Shim. When the queue is full the submitter parks until
// a slot frees or ctx ends.
func (p *WorkerPool) Submit(ctx context.Context, job Job) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.reject(job, flockerrors.ErrShimClosed)
		return
	}

	select {
	case p.queue <- job:
	case <-ctx.Done():
		p.reject(job, ctx.Err())
	}
}

// Close implements Shim. Queued jobs still run before Close returns.
func (p *WorkerPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	p.wg.Wait()
	return nil
}

var _ Shim = (*WorkerPool)(nil)
