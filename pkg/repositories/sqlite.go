package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cbodonnell/afterglow/pkg/repositories/models"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteRepository stores scores in a local SQLite database. It is the
// client's offline store and the default server backend in development.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens the database at path and applies every file
// in the migrations directory, in name order.
func NewSQLiteRepository(ctx context.Context, path string, migrations string) (Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	dir, err := os.ReadDir(migrations)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %v", err)
	}

	for _, entry := range dir {
		if entry.IsDir() {
			continue
		}

		migrationPath := filepath.Join(migrations, entry.Name())
		migration, err := os.ReadFile(migrationPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %v", migrationPath, err)
		}

		if _, err := db.ExecContext(ctx, string(migration)); err != nil {
			return nil, fmt.Errorf("failed to execute migration %s: %v", migrationPath, err)
		}
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) SaveScore(ctx context.Context, score *models.Score) error {
	if score.ID == "" {
		return fmt.Errorf("score id is required")
	}
	q := `
	INSERT OR IGNORE INTO scores (id, player_name, score, rounds, seed, duration_ms, mode, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?);
	`
	_, err := r.db.ExecContext(ctx, q, score.ID, score.PlayerName, score.Score, score.Rounds, score.Seed, score.DurationMs, score.Mode, score.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert score: %v", err)
	}

	return nil
}

func (r *SQLiteRepository) GetScore(ctx context.Context, id string) (*models.Score, error) {
	q := `
	SELECT id, player_name, score, rounds, seed, duration_ms, mode, created_at
	FROM scores WHERE id = ?;
	`
	score := &models.Score{}
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&score.ID, &score.PlayerName, &score.Score, &score.Rounds, &score.Seed, &score.DurationMs, &score.Mode, &score.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan score: %v", err)
	}

	return score, nil
}

func (r *SQLiteRepository) TopScores(ctx context.Context, limit int) ([]*models.Score, error) {
	if limit <= 0 {
		limit = DefaultTopScoresLimit
	}
	q := `
	SELECT id, player_name, score, rounds, seed, duration_ms, mode, created_at
	FROM scores ORDER BY score DESC, created_at ASC LIMIT ?;
	`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %v", err)
	}
	defer rows.Close()

	scores := make([]*models.Score, 0, limit)
	for rows.Next() {
		score := &models.Score{}
		if err := rows.Scan(&score.ID, &score.PlayerName, &score.Score, &score.Rounds, &score.Seed, &score.DurationMs, &score.Mode, &score.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan score: %v", err)
		}
		scores = append(scores, score)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scores: %v", err)
	}

	return scores, nil
}

func (r *SQLiteRepository) PersonalBest(ctx context.Context, playerName string) (*models.Score, error) {
	q := `
	SELECT id, player_name, score, rounds, seed, duration_ms, mode, created_at
	FROM scores WHERE player_name = ? ORDER BY score DESC, created_at ASC LIMIT 1;
	`
	score := &models.Score{}
	if err := r.db.QueryRowContext(ctx, q, playerName).Scan(&score.ID, &score.PlayerName, &score.Score, &score.Rounds, &score.Seed, &score.DurationMs, &score.Mode, &score.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan score: %v", err)
	}

	return score, nil
}

func (r *SQLiteRepository) SaveReplay(ctx context.Context, scoreID string, data []byte) error {
	q := `
	INSERT OR REPLACE INTO replays (score_id, data)
	VALUES (?, ?);
	`
	_, err := r.db.ExecContext(ctx, q, scoreID, data)
	if err != nil {
		return fmt.Errorf("failed to insert replay: %v", err)
	}

	return nil
}

func (r *SQLiteRepository) LoadReplay(ctx context.Context, scoreID string) ([]byte, error) {
	q := `
	SELECT data FROM replays WHERE score_id = ?;
	`
	var data []byte
	if err := r.db.QueryRowContext(ctx, q, scoreID).Scan(&data); err != nil {
		if err == sql.ErrNoRows {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan replay: %v", err)
	}

	return data, nil
}
