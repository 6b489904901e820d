package state

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSeedForIsStableAndNonNegative(t *testing.T) {
	t.Parallel()

	a := SeedFor("2024-06-01")
	b := SeedFor("2024-06-01")
	c := SeedFor("2024-06-02")

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.GreaterOrEqual(t, a, int64(0))
	require.GreaterOrEqual(t, c, int64(0))
}

func TestCurrentRotatesAtMidnight(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 23, 59, 0, 0, time.UTC)
	m := NewInMemoryManager()
	m.now = func() time.Time { return now }

	first, err := m.Current(context.Background())
	require.NoError(t, err)
	require.Equal(t, "2024-06-01", first.Date)
	require.Equal(t, SeedFor("2024-06-01"), first.Seed)

	again, err := m.Current(context.Background())
	require.NoError(t, err)
	require.Equal(t, first, again)

	now = now.Add(2 * time.Minute)
	next, err := m.Current(context.Background())
	require.NoError(t, err)
	require.Equal(t, "2024-06-02", next.Date)
	require.NotEqual(t, first.Seed, next.Seed)
}

func TestCurrentReturnsCopies(t *testing.T) {
	t.Parallel()

	m := NewInMemoryManager()
	first, err := m.Current(context.Background())
	require.NoError(t, err)

	first.Seed = -1

	again, err := m.Current(context.Background())
	require.NoError(t, err)
	require.NotEqual(t, int64(-1), again.Seed)
}

func TestForValidatesDate(t *testing.T) {
	t.Parallel()

	m := NewInMemoryManager()

	daily, err := m.For(context.Background(), "2024-06-01")
	require.NoError(t, err)
	require.Equal(t, SeedFor("2024-06-01"), daily.Seed)

	_, err = m.For(context.Background(), "junk")
	require.Error(t, err)
}
