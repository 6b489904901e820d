// Package events carries accepted scores from the API to whoever wants
// them: logs, metrics, live watchers. Emitting never blocks the request
// path; a slow sink costs events, not latency.
package events

import (
	"context"
	"fmt"
	"time"
)

// ScoreEvent is emitted once per accepted score.
type ScoreEvent struct {
	ID         string    `json:"id"`
	PlayerName string    `json:"player_name"`
	Score      int       `json:"score"`
	Rounds     int       `json:"rounds"`
	Mode       string    `json:"mode"`
	CreatedAt  time.Time `json:"created_at"`
}

// Validate rejects events that would be meaningless downstream.
func (e ScoreEvent) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("event id is required")
	}
	if e.PlayerName == "" {
		return fmt.Errorf("event player name is required")
	}
	if e.Score < 0 {
		return fmt.Errorf("event score must not be negative")
	}
	return nil
}

// Sink consumes batches of score events. Implementations must be safe
// for repeated calls, honor ctx deadlines, and may be invoked
// concurrently.
type Sink interface {
	Consume(ctx context.Context, batch []ScoreEvent) error
	Close(ctx context.Context) error
}

// Emitter publishes individual events. Hub satisfies this interface so
// handlers stay agnostic about buffering and fan-out.
type Emitter interface {
	Emit(evt ScoreEvent)
}
