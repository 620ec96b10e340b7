package pubsub

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Broker delivers each published event to every live subscription.
// Publish never blocks: a subscription whose buffer is full misses the event
// and counts it as dropped.
type Broker[T any] struct {
	mu     sync.Mutex
	subs   []*Subscription[T]
	buffer int
	closed bool
}

// NewBroker creates a broker whose subscriptions buffer up to buffer events.
func NewBroker[T any](buffer int) *Broker[T] {
	return &Broker[T]{buffer: max(buffer, 1)}
}

// Subscribe starts a subscription that ends when ctx is cancelled or the
// broker is closed. Subscribing to a closed broker returns an ended
// subscription.
func (b *Broker[T]) Subscribe(ctx context.Context) *Subscription[T] {
	sub := &Subscription[T]{ctx: ctx, events: make(chan Event[T], b.buffer)}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(sub.events)
		return sub
	}
	b.subs = append(b.subs, sub)
	context.AfterFunc(ctx, func() { b.unsubscribe(sub) })
	return sub
}

func (b *Broker[T]) unsubscribe(sub *Subscription[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := slices.Index(b.subs, sub)
	if i < 0 {
		return
	}
	b.subs = slices.Delete(b.subs, i, i+1)
	close(sub.events)
}

// Publish sends an event to every subscription.
func (b *Broker[T]) Publish(eventType EventType, payload T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	event := Event[T]{Type: eventType, Payload: payload, Timestamp: time.Now()}
	for _, sub := range b.subs {
		select {
		case sub.events <- event:
		default:
			sub.dropped.Add(1)
		}
	}
}

// Close ends every subscription. Later calls are no-ops.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, sub := range b.subs {
		close(sub.events)
	}
	b.subs = nil
}

// Subscription receives the events published after it was created.
type Subscription[T any] struct {
	ctx     context.Context
	events  chan Event[T]
	dropped atomic.Int64
}

// Events returns the delivery channel. It is closed when the subscription
// ends.
func (s *Subscription[T]) Events() <-chan Event[T] {
	return s.events
}

// Next returns a command that waits for the next event and delivers it as a
// tea.Msg. It yields nil once the subscription has ended, so an Update loop
// that re-issues Next after each event stops on its own.
func (s *Subscription[T]) Next() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-s.ctx.Done():
			return nil
		case event, ok := <-s.events:
			if !ok {
				return nil
			}
			return event
		}
	}
}

// Dropped returns how many events were missed because the buffer was full.
func (s *Subscription[T]) Dropped() int64 {
	return s.dropped.Load()
}
