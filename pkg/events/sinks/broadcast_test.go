package sinks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cbodonnell/afterglow/pkg/events"
)

func TestBroadcasterDeliversToSubscribers(t *testing.T) {
	t.Parallel()

	b := NewBroadcaster()
	sub := b.Subscribe()

	batch := []events.ScoreEvent{
		{ID: "a", PlayerName: "ada", Score: 1},
		{ID: "b", PlayerName: "grace", Score: 2},
	}
	require.NoError(t, b.Consume(context.Background(), batch))

	for _, want := range batch {
		select {
		case got, ok := <-sub.Events():
			require.True(t, ok)
			require.Equal(t, want, got)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for a broadcast event")
		}
	}
}

func TestBroadcasterCloseEndsSubscriptions(t *testing.T) {
	t.Parallel()

	b := NewBroadcaster()
	sub := b.Subscribe()

	require.NoError(t, b.Close(context.Background()))

	_, ok := <-sub.Events()
	require.False(t, ok)
}
