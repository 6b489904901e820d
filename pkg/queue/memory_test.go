package queue

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInMemoryQueueOrdering(t *testing.T) {
	t.Parallel()

	q := NewInMemoryQueue(10)
	for i := 0; i < 3; i++ {
		require.NoError(t, q.Enqueue(i))
	}
	require.Equal(t, 3, q.Size())

	item, err := q.Dequeue()
	require.NoError(t, err)
	require.Equal(t, 0, item)

	messages, err := q.ReadAllMessages()
	require.NoError(t, err)
	require.Equal(t, []interface{}{1, 2}, messages)
	require.Zero(t, q.Size())
}

func TestInMemoryQueueEnqueueFullFails(t *testing.T) {
	t.Parallel()

	q := NewInMemoryQueue(2)
	require.NoError(t, q.Enqueue("a"))
	require.NoError(t, q.Enqueue("b"))
	require.Error(t, q.Enqueue("c"))
	require.Equal(t, 2, q.Size())
}

func TestInMemoryQueueDequeueEmptyFails(t *testing.T) {
	t.Parallel()

	q := NewInMemoryQueue(2)
	_, err := q.Dequeue()
	require.Error(t, err)
}

func TestInMemoryQueueClear(t *testing.T) {
	t.Parallel()

	q := NewInMemoryQueue(4)
	require.NoError(t, q.Enqueue("a"))
	require.NoError(t, q.ClearQueue())
	require.Zero(t, q.Size())

	messages, err := q.ReadAllMessages()
	require.NoError(t, err)
	require.Empty(t, messages)
}

func TestInMemoryQueueConcurrentEnqueue(t *testing.T) {
	t.Parallel()

	q := NewInMemoryQueue(1000)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				require.NoError(t, q.Enqueue(fmt.Sprintf("%d-%d", n, j)))
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 500, q.Size())
	messages, err := q.ReadAllMessages()
	require.NoError(t, err)
	require.Len(t, messages, 500)
}
