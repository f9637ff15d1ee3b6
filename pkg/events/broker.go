package events

import (
	"sync"
	"sync/atomic"

	"github.com/nexusprime/fabric/pkg/log"
	"github.com/nexusprime/fabric/pkg/metrics"
)

// Broker is a generic, non-blocking, fan-out broadcaster. Publish never
// blocks the caller; a subscriber whose buffer is full drops the event
// and records a lag count instead of stalling the producer or the other
// subscribers. There is no history: a subscriber only observes events
// published after it subscribed.
type Broker[T any] struct {
	mu          sync.RWMutex
	subscribers map[*Subscription[T]]struct{}
	bufferSize  int
	name        string
}

// NewBroker creates a broker whose subscriber channels are buffered to
// bufferSize. The recommended capacity from the fabric spec is 100.
func NewBroker[T any](name string, bufferSize int) *Broker[T] {
	return &Broker[T]{
		subscribers: make(map[*Subscription[T]]struct{}),
		bufferSize:  bufferSize,
		name:        name,
	}
}

// Subscription is a handle returned by Broker.Subscribe. Events arrives
// in publication order; whenever the subscriber's buffer overflows,
// Lagged fires with the total number of events dropped for this
// subscriber since it subscribed (the count is cumulative, never reset).
type Subscription[T any] struct {
	Events <-chan T
	Lagged <-chan int

	events chan T
	lagged chan int
	lag    atomic.Int64
}

// Subscribe registers a new subscription. The caller must eventually
// call Broker.Unsubscribe to release it.
func (b *Broker[T]) Subscribe() *Subscription[T] {
	sub := &Subscription[T]{
		events: make(chan T, b.bufferSize),
		lagged: make(chan int, 1),
	}
	sub.Events = sub.events
	sub.Lagged = sub.lagged

	b.mu.Lock()
	b.subscribers[sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

// Unsubscribe removes a subscription and closes its channels. No more
// events will be delivered to it afterward.
func (b *Broker[T]) Unsubscribe(sub *Subscription[T]) {
	b.mu.Lock()
	delete(b.subscribers, sub)
	b.mu.Unlock()

	close(sub.events)
	close(sub.lagged)
}

// SubscriberCount returns the number of active subscriptions.
func (b *Broker[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Publish fans event out to every current subscriber. It never blocks:
// a subscriber whose buffer is full is skipped and its lag counter is
// incremented instead. With no subscribers, the publish is a no-op and
// is logged at warn level.
func (b *Broker[T]) Publish(event T) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(b.subscribers) == 0 {
		log.WithComponent("events").Warn().Str("bus", b.name).Msg("publish with no subscribers, event dropped")
		metrics.EventsDroppedTotal.WithLabelValues(b.name).Inc()
		return
	}

	for sub := range b.subscribers {
		select {
		case sub.events <- event:
		default:
			n := int(sub.lag.Add(1))
			metrics.EventsDroppedTotal.WithLabelValues(b.name).Inc()
			select {
			case sub.lagged <- n:
			default:
				// a lag notification is already pending; the count on it is stale
				// but the subscriber will still learn it fell behind.
			}
		}
	}
}
