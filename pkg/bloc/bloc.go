// Package bloc implements a small business logic component: events go in
// through Dispatch, states come out through a replayed subscription. All
// transitions run serially on one goroutine, so transition functions never
// need their own locking and observers always see states in the order they
// were produced.
package bloc

import (
	"sync"
	"sync/atomic"

	"github.com/cbodonnell/afterglow/pkg/log"
	"github.com/cbodonnell/afterglow/pkg/stream"
)

// DefaultEventBuffer is the capacity of the pending event queue.
const DefaultEventBuffer = 64

// Transition produces the next state from the current state and an event.
// It must not retain the state value if the state type is a pointer or
// contains reference types shared with observers.
type Transition[E, S any] func(state S, event E) S

// Bloc routes dispatched events through a transition function and
// broadcasts each resulting state. E is the event type, S the state type.
type Bloc[E, S any] struct {
	transition Transition[E, S]
	events     chan E
	states     *stream.Value[S]
	quit       chan struct{}
	stopped    chan struct{}
	closeOnce  sync.Once
	dropped    atomic.Int64
}

// New creates a bloc holding initial and starts its event loop.
// The caller owns the bloc and must Close it when done.
func New[E, S any](initial S, transition Transition[E, S]) *Bloc[E, S] {
	b := &Bloc[E, S]{
		transition: transition,
		events:     make(chan E, DefaultEventBuffer),
		states:     stream.NewValue(initial),
		quit:       make(chan struct{}),
		stopped:    make(chan struct{}),
	}
	go b.run()
	return b
}

// Dispatch queues an event for processing. Dispatch never blocks: if the
// event queue is full the event is dropped and counted. Dispatching to a
// closed bloc is a no-op.
func (b *Bloc[E, S]) Dispatch(event E) {
	select {
	case <-b.quit:
		return
	default:
	}
	select {
	case b.events <- event:
	default:
		b.dropped.Add(1)
		log.Debug("bloc event queue full, dropped event")
	}
}

// Sink returns the write-only view of the bloc's event input. Publishing
// to it is the same as calling Dispatch, so UI code can hold a
// stream.Sink without seeing the rest of the bloc.
func (b *Bloc[E, S]) Sink() stream.Sink[E] {
	return dispatchSink[E, S]{bloc: b}
}

type dispatchSink[E, S any] struct {
	bloc *Bloc[E, S]
}

func (s dispatchSink[E, S]) Publish(event E) {
	s.bloc.Dispatch(event)
}

// State returns the current state.
func (b *Bloc[E, S]) State() S {
	return b.states.Get()
}

// States returns a subscription that first delivers the current state and
// then every state produced afterwards.
func (b *Bloc[E, S]) States() *stream.Subscription[S] {
	return b.states.Subscribe()
}

// Dropped returns the number of events discarded because the queue was full.
func (b *Bloc[E, S]) Dropped() int64 {
	return b.dropped.Load()
}

// Close stops the event loop and closes the state stream. Events still
// queued when Close is called are discarded. The final state remains
// readable through State. Close is idempotent.
func (b *Bloc[E, S]) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
		<-b.stopped
		b.states.Close()
	})
}

func (b *Bloc[E, S]) run() {
	defer close(b.stopped)
	for {
		select {
		case <-b.quit:
			return
		case event := <-b.events:
			b.apply(event)
		}
	}
}

// apply runs one transition. A panicking transition is logged and leaves
// the state unchanged so a single bad event cannot kill the loop.
func (b *Bloc[E, S]) apply(event E) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("recovered from panic in bloc transition: %v", r)
		}
	}()
	next := b.transition(b.states.Get(), event)
	b.states.Publish(next)
}
