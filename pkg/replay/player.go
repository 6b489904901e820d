package replay

import (
	"context"
	"sync"
	"time"

	"github.com/cbodonnell/afterglow/pkg/simon"
	"github.com/cbodonnell/afterglow/pkg/stream"
)

type NewPlayerOptions struct {
	// Speed scales playback, 1 is real time, 2 is twice as fast.
	Speed float64
	Clock simon.Clock
}

// Player replays a recorded game's signals with their original pacing.
// Subscribers of Signals render a replay the same way they render a live
// session.
type Player struct {
	speed     float64
	clock     simon.Clock
	signals   *stream.Stream[simon.Signal]
	closeOnce sync.Once
}

func NewPlayer(opts NewPlayerOptions) *Player {
	if opts.Speed <= 0 {
		opts.Speed = 1
	}
	if opts.Clock == nil {
		opts.Clock = simon.NewRealClock()
	}
	return &Player{
		speed:   opts.Speed,
		clock:   opts.Clock,
		signals: stream.NewStream[simon.Signal](64),
	}
}

// Signals returns a subscription to the replayed signals.
func (p *Player) Signals() *stream.Subscription[simon.Signal] {
	return p.signals.Subscribe()
}

// Play publishes the game's events at their recorded offsets, scaled by
// the player's speed. It blocks until playback finishes or ctx is done.
func (p *Player) Play(ctx context.Context, game *Game) error {
	start := p.clock.Now()
	for _, ev := range game.Events {
		at := time.Duration(float64(ev.AtMs)/p.speed) * time.Millisecond
		if wait := at - p.clock.Now().Sub(start); wait > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-p.clock.After(wait):
			}
		}
		p.signals.Publish(ev.Signal())
	}
	return nil
}

// Close closes the signal stream.
func (p *Player) Close() {
	p.closeOnce.Do(func() {
		p.signals.Close()
	})
}
