package sinks

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cbodonnell/afterglow/pkg/events"
)

// PrometheusSink exports score metrics. It owns all of its collectors.
type PrometheusSink struct {
	scoresTotal *prometheus.CounterVec
	scoreRounds *prometheus.HistogramVec
	bestScore   prometheus.Gauge
	best        int
}

// NewPrometheusSink registers the collectors against the provided
// registry. A nil registry means the default one.
func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PrometheusSink{
		scoresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "afterglow_scores_total",
			Help: "Accepted scores partitioned by mode.",
		}, []string{"mode"}),
		scoreRounds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "afterglow_score_rounds",
			Help:    "Rounds reached per accepted score.",
			Buckets: []float64{1, 3, 5, 8, 12, 16, 20, 30},
		}, []string{"mode"}),
		bestScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "afterglow_best_score",
			Help: "Highest score seen since the server started.",
		}),
	}
	for _, collector := range []prometheus.Collector{
		s.scoresTotal,
		s.scoreRounds,
		s.bestScore,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("failed to register score collector: %v", err)
		}
	}
	return s, nil
}

func (s *PrometheusSink) Consume(_ context.Context, batch []events.ScoreEvent) error {
	for _, evt := range batch {
		mode := evt.Mode
		if mode == "" {
			mode = "unknown"
		}
		s.scoresTotal.WithLabelValues(mode).Inc()
		s.scoreRounds.WithLabelValues(mode).Observe(float64(evt.Rounds))
		s.observeBest(evt.Score)
	}
	return nil
}

// observeBest keeps the gauge at the maximum seen. Consume only runs on
// the hub's flush goroutine, so the unguarded read of best is safe.
func (s *PrometheusSink) observeBest(score int) {
	if score > s.best {
		s.best = score
		s.bestScore.Set(float64(score))
	}
}

func (s *PrometheusSink) Close(context.Context) error {
	return nil
}
