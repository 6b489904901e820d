package models

import "time"

const (
	// ModeClassic is a free play session with a random seed.
	ModeClassic = "classic"
	// ModeDaily is a session played on the shared daily seed.
	ModeDaily = "daily"
)

// User is an authenticated caller, identified by the UID of their
// verified token.
type User struct {
	ID string `json:"id"`
}

type Score struct {
	ID         string    `json:"id"`
	PlayerName string    `json:"player_name"`
	Score      int       `json:"score"`
	Rounds     int       `json:"rounds"`
	Seed       int64     `json:"seed"`
	DurationMs int64     `json:"duration_ms"`
	Mode       string    `json:"mode"`
	CreatedAt  time.Time `json:"created_at"`
}
