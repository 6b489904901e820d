// Package sinks holds the score event consumers that ship with the
// server: structured logs, Prometheus collectors, and the live
// broadcast feed.
package sinks

import (
	"context"

	"go.uber.org/zap"

	"github.com/cbodonnell/afterglow/pkg/events"
)

// LogSink writes one structured log line per accepted score.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink wires a zap logger to the sink interface.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Consume(_ context.Context, batch []events.ScoreEvent) error {
	for _, evt := range batch {
		s.logger.Info("score accepted",
			zap.String("id", evt.ID),
			zap.String("player", evt.PlayerName),
			zap.Int("score", evt.Score),
			zap.Int("rounds", evt.Rounds),
			zap.String("mode", evt.Mode),
			zap.Time("created_at", evt.CreatedAt),
		)
	}
	return nil
}

func (s *LogSink) Close(context.Context) error {
	return nil
}
