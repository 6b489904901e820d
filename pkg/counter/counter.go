// Package counter is the smallest useful bloc: three events, an integer
// state. It exists as the reference wiring for new blocs and as the
// fixture the pattern is tested against.
package counter

import (
	"github.com/cbodonnell/afterglow/pkg/bloc"
	"github.com/cbodonnell/afterglow/pkg/stream"
)

// Event is a counter input.
type Event int

const (
	EventIncrement Event = iota
	EventDecrement
	EventReset
)

func (e Event) String() string {
	switch e {
	case EventIncrement:
		return "increment"
	case EventDecrement:
		return "decrement"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Counter wraps a bloc whose state is the current count. Events go in
// through the bloc's sink, counts come out through its state stream.
type Counter struct {
	bloc   *bloc.Bloc[Event, int]
	events stream.Sink[Event]
}

// New creates a counter starting at zero.
func New() *Counter {
	b := bloc.New(0, transition)
	return &Counter{
		bloc:   b,
		events: b.Sink(),
	}
}

func transition(state int, event Event) int {
	switch event {
	case EventIncrement:
		return state + 1
	case EventDecrement:
		return state - 1
	case EventReset:
		return 0
	default:
		return state
	}
}

// Increment queues an increment event.
func (c *Counter) Increment() {
	c.events.Publish(EventIncrement)
}

// Decrement queues a decrement event.
func (c *Counter) Decrement() {
	c.events.Publish(EventDecrement)
}

// Reset queues a reset event.
func (c *Counter) Reset() {
	c.events.Publish(EventReset)
}

// Count returns the current count.
func (c *Counter) Count() int {
	return c.bloc.State()
}

// Counts returns a subscription that delivers the current count and every
// count after it.
func (c *Counter) Counts() *stream.Subscription[int] {
	return c.bloc.States()
}

// Close stops the counter.
func (c *Counter) Close() {
	c.bloc.Close()
}
