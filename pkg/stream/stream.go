// Package stream provides the broadcast primitives the rest of the module
// is wired with. Producers publish values into a Stream or a Value and any
// number of subscribers receive them on their own channel. Publishing never
// blocks: a subscriber that does not keep up has values dropped and counted.
package stream

import (
	"sync"
	"sync/atomic"

	"github.com/cbodonnell/afterglow/pkg/log"
)

// DefaultSubscriptionBuffer is the per-subscriber channel capacity used
// when NewStream is given a non-positive buffer size.
const DefaultSubscriptionBuffer = 16

// Sink is the write-only side of a stream. Producers hold a Sink and
// publish values without knowing who, if anyone, is listening.
type Sink[T any] interface {
	Publish(value T)
}

var (
	_ Sink[struct{}] = &Stream[struct{}]{}
	_ Sink[struct{}] = &Value[struct{}]{}
)

// Stream broadcasts published values to all current subscribers.
// The zero value is not usable, use NewStream.
type Stream[T any] struct {
	lock    sync.Mutex
	subs    map[*Subscription[T]]struct{}
	buffer  int
	closed  bool
	dropped atomic.Int64
}

// NewStream creates a stream whose subscribers each get a channel with
// the given buffer capacity. A non-positive buffer selects
// DefaultSubscriptionBuffer.
func NewStream[T any](buffer int) *Stream[T] {
	if buffer <= 0 {
		buffer = DefaultSubscriptionBuffer
	}
	return &Stream[T]{
		subs:   make(map[*Subscription[T]]struct{}),
		buffer: buffer,
	}
}

// Subscribe registers a new subscriber and returns its subscription.
// Subscribing to a closed stream returns an already-closed subscription
// whose Events channel yields no values.
func (s *Stream[T]) Subscribe() *Subscription[T] {
	s.lock.Lock()
	defer s.lock.Unlock()
	sub := &Subscription[T]{
		stream: s,
		ch:     make(chan T, s.buffer),
	}
	if s.closed {
		close(sub.ch)
		sub.closed = true
		return sub
	}
	s.subs[sub] = struct{}{}
	return sub
}

// Publish delivers value to every subscriber that has buffer space.
// Subscribers that are full are skipped and the value is counted as
// dropped for each of them. Publishing to a closed stream is a no-op.
func (s *Stream[T]) Publish(value T) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return
	}
	for sub := range s.subs {
		select {
		case sub.ch <- value:
		default:
			s.dropped.Add(1)
		}
	}
}

// Dropped returns the number of values discarded because a subscriber's
// buffer was full.
func (s *Stream[T]) Dropped() int64 {
	return s.dropped.Load()
}

// Close closes every subscription and marks the stream closed.
// Further publishes are dropped silently and further subscriptions are
// returned already closed. Close is idempotent.
func (s *Stream[T]) Close() {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for sub := range s.subs {
		sub.closed = true
		close(sub.ch)
	}
	s.subs = nil
	if n := s.dropped.Load(); n > 0 {
		log.Debug("stream closed with %d dropped values", n)
	}
}

// Subscription is one subscriber's view of a stream. Values are read
// from Events. A subscription that is no longer needed must be closed
// so the stream stops delivering to it.
type Subscription[T any] struct {
	stream *Stream[T]
	ch     chan T
	closed bool
}

// Events returns the channel values are delivered on. The channel is
// closed when the subscription or its stream is closed.
func (s *Subscription[T]) Events() <-chan T {
	return s.ch
}

// Close unsubscribes from the stream and closes the events channel.
// Close is idempotent and safe to call concurrently with publishes.
func (s *Subscription[T]) Close() {
	s.stream.lock.Lock()
	defer s.stream.lock.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	delete(s.stream.subs, s)
	close(s.ch)
}
