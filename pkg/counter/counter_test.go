package counter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func waitForCount(t *testing.T, c *Counter, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return c.Count() == want
	}, time.Second, 5*time.Millisecond, "count never reached %d", want)
}

func TestCounterStartsAtZero(t *testing.T) {
	t.Parallel()

	c := New()
	defer c.Close()

	require.Zero(t, c.Count())
}

func TestCounterIncrementDecrement(t *testing.T) {
	t.Parallel()

	c := New()
	defer c.Close()

	c.Increment()
	c.Increment()
	waitForCount(t, c, 2)

	c.Decrement()
	waitForCount(t, c, 1)
}

func TestCounterDecrementBelowZero(t *testing.T) {
	t.Parallel()

	c := New()
	defer c.Close()

	c.Decrement()
	waitForCount(t, c, -1)
}

func TestCounterReset(t *testing.T) {
	t.Parallel()

	c := New()
	defer c.Close()

	for i := 0; i < 5; i++ {
		c.Increment()
	}
	waitForCount(t, c, 5)

	c.Reset()
	waitForCount(t, c, 0)
}

func TestCounterCountsStream(t *testing.T) {
	t.Parallel()

	c := New()
	defer c.Close()

	sub := c.Counts()
	defer sub.Close()

	c.Increment()
	c.Increment()
	c.Decrement()

	want := []int{0, 1, 2, 1}
	for _, w := range want {
		select {
		case got, ok := <-sub.Events():
			require.True(t, ok)
			require.Equal(t, w, got)
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for count %d", w)
		}
	}
}

func TestEventString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "increment", EventIncrement.String())
	require.Equal(t, "decrement", EventDecrement.String())
	require.Equal(t, "reset", EventReset.String())
	require.Equal(t, "unknown", Event(99).String())
}
