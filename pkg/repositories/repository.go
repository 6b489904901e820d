package repositories

import (
	"context"

	"github.com/cbodonnell/afterglow/pkg/repositories/models"
)

// DefaultTopScoresLimit is used when a caller asks for a non-positive
// number of scores.
const DefaultTopScoresLimit = 10

// Repository persists scores and their replays.
// Implementations must be safe for concurrent use.
type Repository interface {
	Close(ctx context.Context) error
	// SaveScore inserts a score. Saving an ID that already exists is a
	// no-op, retries must be safe.
	SaveScore(ctx context.Context, score *models.Score) error
	// GetScore returns the score with the given ID, or ErrNotFound.
	GetScore(ctx context.Context, id string) (*models.Score, error)
	// TopScores returns up to limit scores, best first. Ties go to the
	// earlier score.
	TopScores(ctx context.Context, limit int) ([]*models.Score, error)
	// PersonalBest returns the player's best score, or ErrNotFound if
	// the player has none.
	PersonalBest(ctx context.Context, playerName string) (*models.Score, error)
	// SaveReplay stores the encoded replay for a score, replacing any
	// previous one.
	SaveReplay(ctx context.Context, scoreID string, data []byte) error
	// LoadReplay returns the encoded replay for a score, or ErrNotFound.
	LoadReplay(ctx context.Context, scoreID string) ([]byte, error)
}
