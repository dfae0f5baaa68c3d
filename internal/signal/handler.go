// Package signal ties a context to process interrupts so flockctl can
// release held locks on Ctrl+C.
//
// Import rules:
//   - CAN import: std lib only
//   - MUST NOT import: internal packages (to avoid circular dependencies)
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Handler cancels its context when SIGINT or SIGTERM arrives and remembers
// which signal ended it.
type Handler struct {
	ctx    context.Context //nolint:containedctx // handler owns the context lifecycle
	cancel context.CancelFunc

	sigs     chan os.Signal
	stopped  chan struct{}
	received chan struct{}

	mu     sync.Mutex
	signal os.Signal

	fireOnce sync.Once
	stopOnce sync.Once
}

// NewHandler starts listening for SIGINT and SIGTERM. Callers must Stop it.
//
//	h := signal.NewHandler(ctx)
//	defer h.Stop()
//	<-h.Context().Done()
func NewHandler(parent context.Context) *Handler {
	ctx, cancel := context.WithCancel(parent)
	h := &Handler{
		ctx:      ctx,
		cancel:   cancel,
		sigs:     make(chan os.Signal, 1),
		stopped:  make(chan struct{}),
		received: make(chan struct{}),
	}

	signal.Notify(h.sigs, syscall.SIGINT, syscall.SIGTERM)
	go h.listen()

	return h
}

// Context is canceled on the first signal, on Stop, or when the parent ends.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// Interrupted closes when a signal has been received.
func (h *Handler) Interrupted() <-chan struct{} {
	return h.received
}

// Signal returns the signal that fired, or nil.
func (h *Handler) Signal() os.Signal {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.signal
}

// Stop unregisters the handler and cancels its context.
func (h *Handler) Stop() {
	h.stopOnce.Do(func() {
		signal.Stop(h.sigs)
		close(h.stopped)
		h.cancel()
	})
}

func (h *Handler) fire(sig os.Signal) {
	h.fireOnce.Do(func() {
		h.mu.Lock()
		h.signal = sig
		h.mu.Unlock()
		h.cancel()
		close(h.received)
	})
}

func (h *Handler) listen() {
	for {
		select {
		case <-h.ctx.Done():
			return
		case <-h.stopped:
			return
		case sig := <-h.sigs:
			h.fire(sig)
		}
	}
}
