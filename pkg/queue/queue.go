package queue

// Queue represents a basic bounded queue.
type Queue interface {
	// Enqueue adds an item to the end of the queue. It fails when the
	// queue is full.
	Enqueue(item interface{}) error
	// Dequeue removes and returns the item at the front of the queue.
	Dequeue() (interface{}, error)
	// Size returns the number of items in the queue.
	Size() int
	// ReadAllMessages drains the queue and returns everything in order.
	ReadAllMessages() ([]interface{}, error)
	// ClearQueue discards all items.
	ClearQueue() error
}
