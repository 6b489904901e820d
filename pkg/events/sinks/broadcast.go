package sinks

import (
	"context"

	"github.com/cbodonnell/afterglow/pkg/events"
	"github.com/cbodonnell/afterglow/pkg/stream"
)

// Broadcaster republishes accepted scores on a stream so live watchers,
// like the websocket feed, can subscribe. Slow subscribers miss events
// rather than slowing the hub down.
type Broadcaster struct {
	scores *stream.Stream[events.ScoreEvent]
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		scores: stream.NewStream[events.ScoreEvent](32),
	}
}

// Subscribe returns a subscription to future score events.
func (b *Broadcaster) Subscribe() *stream.Subscription[events.ScoreEvent] {
	return b.scores.Subscribe()
}

func (b *Broadcaster) Consume(_ context.Context, batch []events.ScoreEvent) error {
	for _, evt := range batch {
		b.scores.Publish(evt)
	}
	return nil
}

// Close ends every subscription.
func (b *Broadcaster) Close(context.Context) error {
	b.scores.Close()
	return nil
}
