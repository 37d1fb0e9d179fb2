package room

import (
	"context"
	"errors"
	"sync"

	"pokerroom/internal/engine"
)

// ErrSubscriptionClosed is returned by Next once the stream has delivered
// its terminal snapshot (or the subscriber cancelled) and the buffer has
// drained.
var ErrSubscriptionClosed = errors.New("subscription closed")

// Subscription is one consumer's cursor over the room's snapshot stream.
// Snapshots are buffered per subscriber and delivered in commit order with
// no coalescing; a slow subscriber delays only itself.
type Subscription struct {
	mu     sync.Mutex
	queue  []engine.State
	ready  chan struct{}
	done   bool
	cancel func(*Subscription)
}

func newSubscription(cancel func(*Subscription)) *Subscription {
	return &Subscription{
		ready:  make(chan struct{}, 1),
		cancel: cancel,
	}
}

// Next blocks until the next snapshot is available, the context is
// cancelled, or the stream ends. Buffered snapshots are always drained
// before the closed error is surfaced.
func (s *Subscription) Next(ctx context.Context) (engine.State, error) {
	for {
		s.mu.Lock()
		if len(s.queue) > 0 {
			st := s.queue[0]
			s.queue = s.queue[1:]
			s.mu.Unlock()
			return st, nil
		}
		if s.done {
			s.mu.Unlock()
			return engine.State{}, ErrSubscriptionClosed
		}
		s.mu.Unlock()

		select {
		case <-s.ready:
		case <-ctx.Done():
			return engine.State{}, ctx.Err()
		}
	}
}

// Close detaches the subscription from the room. Buffered snapshots remain
// readable until drained.
func (s *Subscription) Close() {
	if s.cancel != nil {
		s.cancel(s)
	}
	s.finish()
}

// publish appends a snapshot and wakes a blocked reader.
func (s *Subscription) publish(st engine.State) {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, st)
	s.mu.Unlock()
	s.signal()
}

// finish marks the stream ended; queued snapshots stay readable.
func (s *Subscription) finish() {
	s.mu.Lock()
	s.done = true
	s.mu.Unlock()
	s.signal()
}

func (s *Subscription) signal() {
	select {
	case s.ready <- struct{}{}:
	default:
	}
}
