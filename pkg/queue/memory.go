package queue

import (
	"fmt"
	"sync"
)

const (
	// DefaultMaxQueueSize is the maximum size of a queue created with a
	// non-positive size.
	DefaultMaxQueueSize = 1024
)

// InMemoryQueue implements a bounded in-memory queue.
type InMemoryQueue struct {
	lock    sync.Mutex
	items   []interface{}
	maxSize int
}

// NewInMemoryQueue creates a queue holding at most maxSize items.
func NewInMemoryQueue(maxSize int) *InMemoryQueue {
	if maxSize <= 0 {
		maxSize = DefaultMaxQueueSize
	}
	return &InMemoryQueue{
		maxSize: maxSize,
	}
}

// Enqueue adds an item to the end of the queue.
func (q *InMemoryQueue) Enqueue(item interface{}) error {
	q.lock.Lock()
	defer q.lock.Unlock()
	if len(q.items) >= q.maxSize {
		return fmt.Errorf("queue is full")
	}
	q.items = append(q.items, item)
	return nil
}

// Dequeue removes and returns the item at the front of the queue.
func (q *InMemoryQueue) Dequeue() (interface{}, error) {
	q.lock.Lock()
	defer q.lock.Unlock()
	if len(q.items) == 0 {
		return nil, fmt.Errorf("queue is empty")
	}
	item := q.items[0]
	q.items = q.items[1:]
	return item, nil
}

// Size returns the current size of the queue.
func (q *InMemoryQueue) Size() int {
	q.lock.Lock()
	defer q.lock.Unlock()
	return len(q.items)
}

// ReadAllMessages drains the queue and returns everything in order.
func (q *InMemoryQueue) ReadAllMessages() ([]interface{}, error) {
	q.lock.Lock()
	defer q.lock.Unlock()
	messages := q.items
	q.items = nil
	return messages, nil
}

// ClearQueue discards all items.
func (q *InMemoryQueue) ClearQueue() error {
	q.lock.Lock()
	defer q.lock.Unlock()
	q.items = nil
	return nil
}
