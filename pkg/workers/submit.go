package workers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	apihandlers "github.com/cbodonnell/afterglow/pkg/api/handlers"
	"github.com/cbodonnell/afterglow/pkg/leaderboard"
	"github.com/cbodonnell/afterglow/pkg/log"
	"github.com/cbodonnell/afterglow/pkg/queue"
	"github.com/cbodonnell/afterglow/pkg/repositories/models"
)

const (
	// DefaultSubmitInterval is how often the worker drains the queue.
	DefaultSubmitInterval = 15 * time.Second
	// DefaultMaxAttempts is how many times a score is submitted before
	// it is dropped.
	DefaultMaxAttempts = 5
)

// Submitter submits a single score to the leaderboard.
// *leaderboard.Client satisfies it.
type Submitter interface {
	SubmitScore(ctx context.Context, idToken string, score *apihandlers.SubmitScoreRequestBody) (*models.Score, error)
}

// TokenFunc returns the id token to authenticate submissions with.
// It is called per submission so refreshed tokens are picked up.
type TokenFunc func(ctx context.Context) (string, error)

// PendingScore is a finished game waiting to be submitted.
type PendingScore struct {
	Body     *apihandlers.SubmitScoreRequestBody
	Attempts int
}

type SubmitScoreWorker struct {
	queue       queue.Queue
	submitter   Submitter
	token       TokenFunc
	interval    time.Duration
	maxAttempts int
}

type NewSubmitScoreWorkerOptions struct {
	Queue       queue.Queue
	Submitter   Submitter
	Token       TokenFunc
	Interval    time.Duration
	MaxAttempts int
}

// NewSubmitScoreWorker creates a new SubmitScoreWorker.
// The worker drains queued scores on an interval and submits them to
// the leaderboard, so games finished offline still make the board once
// connectivity returns.
func NewSubmitScoreWorker(opts NewSubmitScoreWorkerOptions) *SubmitScoreWorker {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultSubmitInterval
	}
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &SubmitScoreWorker{
		queue:       opts.Queue,
		submitter:   opts.Submitter,
		token:       opts.Token,
		interval:    interval,
		maxAttempts: maxAttempts,
	}
}

func (w *SubmitScoreWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Drain(ctx)
		}
	}
}

// Drain submits every queued score once. Transient failures go back on
// the queue until the attempt cap, scores the server rejected are
// dropped immediately.
func (w *SubmitScoreWorker) Drain(ctx context.Context) {
	pending, err := w.queue.ReadAllMessages()
	if err != nil {
		log.Error("Failed to read pending scores: %v", err)
		return
	}

	for _, item := range pending {
		pendingScore, ok := item.(*PendingScore)
		if !ok {
			log.Error("Failed to cast pending score")
			continue
		}
		if err := w.submit(ctx, pendingScore); err != nil {
			w.handleFailure(pendingScore, err)
			continue
		}
		log.Debug("Submitted queued score for %s", pendingScore.Body.PlayerName)
	}
}

func (w *SubmitScoreWorker) submit(ctx context.Context, pending *PendingScore) error {
	idToken, err := w.token(ctx)
	if err != nil {
		return fmt.Errorf("failed to get id token: %v", err)
	}
	if _, err := w.submitter.SubmitScore(ctx, idToken, pending.Body); err != nil {
		return err
	}
	return nil
}

func (w *SubmitScoreWorker) handleFailure(pending *PendingScore, err error) {
	apiErr := &leaderboard.APIError{}
	if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
		log.Error("Dropping score for %s, the server rejected it: %v", pending.Body.PlayerName, err)
		return
	}
	pending.Attempts++
	if pending.Attempts >= w.maxAttempts {
		log.Error("Dropping score for %s after %d attempts: %v", pending.Body.PlayerName, pending.Attempts, err)
		return
	}
	log.Warn("Failed to submit score for %s, will retry: %v", pending.Body.PlayerName, err)
	if err := w.queue.Enqueue(pending); err != nil {
		log.Error("Failed to requeue score for %s: %v", pending.Body.PlayerName, err)
	}
}
