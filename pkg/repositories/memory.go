package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cbodonnell/afterglow/pkg/repositories/models"
)

// InMemoryRepository keeps scores in process memory. It backs tests and
// servers running without a database.
type InMemoryRepository struct {
	lock    sync.RWMutex
	scores  map[string]*models.Score
	replays map[string][]byte
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		scores:  make(map[string]*models.Score),
		replays: make(map[string][]byte),
	}
}

func (r *InMemoryRepository) Close(ctx context.Context) error {
	return nil
}

func (r *InMemoryRepository) SaveScore(ctx context.Context, score *models.Score) error {
	if score.ID == "" {
		return fmt.Errorf("score id is required")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.scores[score.ID]; ok {
		return nil
	}
	copied := *score
	r.scores[score.ID] = &copied
	return nil
}

func (r *InMemoryRepository) GetScore(ctx context.Context, id string) (*models.Score, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	score, ok := r.scores[id]
	if !ok {
		return nil, &ErrNotFound{}
	}
	copied := *score
	return &copied, nil
}

func (r *InMemoryRepository) TopScores(ctx context.Context, limit int) ([]*models.Score, error) {
	if limit <= 0 {
		limit = DefaultTopScoresLimit
	}
	r.lock.RLock()
	defer r.lock.RUnlock()

	scores := make([]*models.Score, 0, len(r.scores))
	for _, score := range r.scores {
		copied := *score
		scores = append(scores, &copied)
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].CreatedAt.Before(scores[j].CreatedAt)
	})
	if len(scores) > limit {
		scores = scores[:limit]
	}
	return scores, nil
}

func (r *InMemoryRepository) PersonalBest(ctx context.Context, playerName string) (*models.Score, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	var best *models.Score
	for _, score := range r.scores {
		if score.PlayerName != playerName {
			continue
		}
		if best == nil || score.Score > best.Score ||
			(score.Score == best.Score && score.CreatedAt.Before(best.CreatedAt)) {
			best = score
		}
	}
	if best == nil {
		return nil, &ErrNotFound{}
	}
	copied := *best
	return &copied, nil
}

func (r *InMemoryRepository) SaveReplay(ctx context.Context, scoreID string, data []byte) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	copied := make([]byte, len(data))
	copy(copied, data)
	r.replays[scoreID] = copied
	return nil
}

func (r *InMemoryRepository) LoadReplay(ctx context.Context, scoreID string) ([]byte, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	data, ok := r.replays[scoreID]
	if !ok {
		return nil, &ErrNotFound{}
	}
	copied := make([]byte, len(data))
	copy(copied, data)
	return copied, nil
}
