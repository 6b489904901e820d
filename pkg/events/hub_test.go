package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type captureSink struct {
	mu      sync.Mutex
	batches [][]ScoreEvent
	closed  bool
}

func (s *captureSink) Consume(_ context.Context, batch []ScoreEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := append([]ScoreEvent(nil), batch...)
	s.batches = append(s.batches, copied)
	return nil
}

func (s *captureSink) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *captureSink) events() []ScoreEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []ScoreEvent
	for _, batch := range s.batches {
		all = append(all, batch...)
	}
	return all
}

func (s *captureSink) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func testEvent(id string, score int) ScoreEvent {
	return ScoreEvent{
		ID:         id,
		PlayerName: "ada",
		Score:      score,
		Rounds:     score + 1,
		Mode:       "classic",
		CreatedAt:  time.Unix(1700000000, 0).UTC(),
	}
}

func TestHubFlushesWhenBatchFills(t *testing.T) {
	t.Parallel()

	sink := &captureSink{}
	h := NewHub(NewHubOptions{
		MaxBatch:     2,
		MaxBatchWait: time.Hour,
		Sinks:        []Sink{sink},
	})
	defer h.Close(context.Background())

	h.Emit(testEvent("a", 1))
	h.Emit(testEvent("b", 2))

	require.Eventually(t, func() bool {
		return len(sink.events()) == 2
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, "a", sink.events()[0].ID)
	require.Equal(t, "b", sink.events()[1].ID)
}

func TestHubFlushesPartialBatchAfterWait(t *testing.T) {
	t.Parallel()

	sink := &captureSink{}
	h := NewHub(NewHubOptions{
		MaxBatch:     100,
		MaxBatchWait: 20 * time.Millisecond,
		Sinks:        []Sink{sink},
	})
	defer h.Close(context.Background())

	h.Emit(testEvent("a", 1))

	require.Eventually(t, func() bool {
		return len(sink.events()) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestHubDiscardsInvalidEvents(t *testing.T) {
	t.Parallel()

	sink := &captureSink{}
	h := NewHub(NewHubOptions{
		MaxBatch:     1,
		MaxBatchWait: 10 * time.Millisecond,
		Sinks:        []Sink{sink},
	})
	defer h.Close(context.Background())

	h.Emit(ScoreEvent{PlayerName: "ada"})
	h.Emit(ScoreEvent{ID: "a", PlayerName: "ada", Score: -1})
	h.Emit(testEvent("ok", 3))

	require.Eventually(t, func() bool {
		return len(sink.events()) == 1
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, "ok", sink.events()[0].ID)
}

func TestHubCloseDrainsAndClosesSinks(t *testing.T) {
	t.Parallel()

	sink := &captureSink{}
	h := NewHub(NewHubOptions{
		MaxBatch:     100,
		MaxBatchWait: time.Hour,
		Sinks:        []Sink{sink},
	})

	for i, id := range []string{"a", "b", "c"} {
		h.Emit(testEvent(id, i+1))
	}

	require.NoError(t, h.Close(context.Background()))
	require.Len(t, sink.events(), 3)
	require.True(t, sink.isClosed())

	// emits after close are dropped silently
	h.Emit(testEvent("late", 9))
	require.Len(t, sink.events(), 3)
}
