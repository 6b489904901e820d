package state

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateLayout is the wire format for daily challenge dates, always UTC.
const DateLayout = "2006-01-02"

// Daily is the shared challenge for one UTC date. Everyone who plays it
// gets the same sequence because they all start from the same seed.
type Daily struct {
	Date string `json:"date"`
	Seed int64  `json:"seed"`
}

// Manager provides shared access to the current daily challenge.
// Implementations must be thread-safe.
type Manager interface {
	// Current returns a copy of today's challenge.
	Current(ctx context.Context) (*Daily, error)
	// For returns a copy of the challenge for a specific date.
	For(ctx context.Context, date string) (*Daily, error)
}

// SeedFor derives the challenge seed for a date. The derivation is pure,
// every server and offline client computes the same seed.
func SeedFor(date string) int64 {
	sum := sha256.Sum256([]byte("afterglow-daily:" + date))
	// clear the sign bit so seeds are always non-negative
	return int64(binary.BigEndian.Uint64(sum[:8]) &^ (1 << 63))
}

// Today returns the current UTC date in DateLayout.
func Today(now time.Time) string {
	return now.UTC().Format(DateLayout)
}
