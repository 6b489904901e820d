package stream

import "sync"

// Value is a stream that retains the most recently published value and
// replays it to each new subscriber before live values. It is the state
// half of an input/output pair: logic publishes into a Value, interested
// parties subscribe and always start from the current state.
type Value[T any] struct {
	lock    sync.RWMutex
	stream  *Stream[T]
	current T
}

// NewValue creates a Value holding initial.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{
		stream:  NewStream[T](0),
		current: initial,
	}
}

// Get returns the most recently published value.
func (v *Value[T]) Get() T {
	v.lock.RLock()
	defer v.lock.RUnlock()
	return v.current
}

// Publish retains value as the current state and broadcasts it to all
// subscribers.
func (v *Value[T]) Publish(value T) {
	v.lock.Lock()
	defer v.lock.Unlock()
	v.current = value
	v.stream.Publish(value)
}

// Subscribe registers a new subscriber. The current value is delivered
// first, then every value published afterwards, in order.
func (v *Value[T]) Subscribe() *Subscription[T] {
	v.lock.Lock()
	defer v.lock.Unlock()
	sub := v.stream.Subscribe()
	if !sub.closed {
		sub.ch <- v.current
	}
	return sub
}

// Dropped returns the number of values discarded because a subscriber's
// buffer was full.
func (v *Value[T]) Dropped() int64 {
	return v.stream.Dropped()
}

// Close closes the underlying stream and all subscriptions. The last
// value remains readable through Get.
func (v *Value[T]) Close() {
	v.stream.Close()
}
