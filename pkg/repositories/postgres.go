package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cbodonnell/afterglow/pkg/log"
	"github.com/cbodonnell/afterglow/pkg/repositories/models"
)

// PgxPool is the slice of the pgxpool API the repository uses. It is
// what pgxmock implements, so tests can run against an expectation pool.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresRepository stores scores in Postgres behind a connection pool.
type PostgresRepository struct {
	pool PgxPool
}

// NewPostgresRepository connects a pool to connStr and verifies the
// connection. The caller is responsible for calling Close.
func NewPostgresRepository(ctx context.Context, connStr string) (Repository, error) {
	cfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	var username string
	var database string
	if err := pool.QueryRow(ctx, "SELECT current_user, current_database()").Scan(&username, &database); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to query database: %v", err)
	}
	log.Info("connected to %s as %s", database, username)

	return &PostgresRepository{pool: pool}, nil
}

// NewPostgresRepositoryWithPool wraps an existing pool, primarily for
// tests.
func NewPostgresRepositoryWithPool(pool PgxPool) Repository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	r.pool.Close()
	return nil
}

func (r *PostgresRepository) SaveScore(ctx context.Context, score *models.Score) error {
	if score.ID == "" {
		return fmt.Errorf("score id is required")
	}
	q := `
	INSERT INTO scores (id, player_name, score, rounds, seed, duration_ms, mode, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (id) DO NOTHING;
	`
	_, err := r.pool.Exec(ctx, q, score.ID, score.PlayerName, score.Score, score.Rounds, score.Seed, score.DurationMs, score.Mode, score.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert score: %v", err)
	}

	return nil
}

func (r *PostgresRepository) GetScore(ctx context.Context, id string) (*models.Score, error) {
	q := `
	SELECT id, player_name, score, rounds, seed, duration_ms, mode, created_at
	FROM scores WHERE id = $1;
	`
	score := &models.Score{}
	if err := r.pool.QueryRow(ctx, q, id).Scan(&score.ID, &score.PlayerName, &score.Score, &score.Rounds, &score.Seed, &score.DurationMs, &score.Mode, &score.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan score: %v", err)
	}

	return score, nil
}

func (r *PostgresRepository) TopScores(ctx context.Context, limit int) ([]*models.Score, error) {
	if limit <= 0 {
		limit = DefaultTopScoresLimit
	}
	q := `
	SELECT id, player_name, score, rounds, seed, duration_ms, mode, created_at
	FROM scores ORDER BY score DESC, created_at ASC LIMIT $1;
	`
	rows, err := r.pool.Query(ctx, q, limit)
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

func (r *PostgresRepository) PersonalBest(ctx context.Context, playerName string) (*models.Score, error) {
	q := `
	SELECT id, player_name, score, rounds, seed, duration_ms, mode, created_at
	FROM scores WHERE player_name = $1 ORDER BY score DESC, created_at ASC LIMIT 1;
	`
	score := &models.Score{}
	if err := r.pool.QueryRow(ctx, q, playerName).Scan(&score.ID, &score.PlayerName, &score.Score, &score.Rounds, &score.Seed, &score.DurationMs, &score.Mode, &score.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan score: %v", err)
	}

	return score, nil
}

func (r *PostgresRepository) SaveReplay(ctx context.Context, scoreID string, data []byte) error {
	q := `
	INSERT INTO replays (score_id, data) VALUES ($1, $2)
	ON CONFLICT (score_id) DO UPDATE SET data = $2;
	`
	_, err := r.pool.Exec(ctx, q, scoreID, data)
	if err != nil {
		return fmt.Errorf("failed to insert replay: %v", err)
	}

	return nil
}

func (r *PostgresRepository) LoadReplay(ctx context.Context, scoreID string) ([]byte, error) {
	q := `
	SELECT data FROM replays WHERE score_id = $1;
	`
	var data []byte
	if err := r.pool.QueryRow(ctx, q, scoreID).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan replay: %v", err)
	}

	return data, nil
}
