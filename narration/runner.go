package narration

import (
	"context"
	"errors"
	"sync"

	"github.com/dgnsrekt/readaloud/playback"
)

// ErrClosed is returned by Speak after the driver was closed.
var ErrClosed = errors.New("narration driver is closed")

const eventBuffer = 16

// runner runs one goroutine per request and reports its outcome, unless the
// request was cancelled first.
type runner struct {
	events chan playback.Event
	done   chan struct{}

	mu      sync.Mutex
	cancels map[playback.Handle]context.CancelFunc
	closed  bool
	wg      sync.WaitGroup
}

func newRunner() *runner {
	return &runner{
		events:  make(chan playback.Event, eventBuffer),
		done:    make(chan struct{}),
		cancels: make(map[playback.Handle]context.CancelFunc),
	}
}

func (r *runner) start(h playback.Handle, fn func(ctx context.Context) error) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.cancels[h] = cancel
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		err := fn(ctx)

		r.mu.Lock()
		_, live := r.cancels[h]
		delete(r.cancels, h)
		r.mu.Unlock()
		cancel()

		if !live {
			return
		}
		select {
		case r.events <- playback.Event{Handle: h, Err: err}:
		case <-r.done:
		}
	}()
	return nil
}

func (r *runner) cancel(h playback.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cancel, ok := r.cancels[h]; ok {
		delete(r.cancels, h)
		cancel()
	}
}

func (r *runner) close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.done)
	for h, cancel := range r.cancels {
		delete(r.cancels, h)
		cancel()
	}
	r.mu.Unlock()
	r.wg.Wait()
}
