package events

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cbodonnell/afterglow/pkg/log"
)

const (
	defaultBufferSize   = 1024
	defaultMaxBatch     = 64
	defaultMaxBatchWait = 250 * time.Millisecond
	defaultSinkTimeout  = 5 * time.Second
	dropLogInterval     = 5 * time.Second
)

type NewHubOptions struct {
	// BufferSize is the capacity of the internal event channel.
	BufferSize int
	// MaxBatch flushes once this many events are pending.
	MaxBatch int
	// MaxBatchWait flushes a partial batch after this duration.
	MaxBatchWait time.Duration
	// SinkTimeout bounds each sink call during a flush.
	SinkTimeout time.Duration
	// Sinks receive every flushed batch, in registration order.
	Sinks []Sink
}

// Hub batches score events and fans them out to its sinks on a
// background goroutine. Emit never blocks; when the buffer is full
// events are dropped and the drop is logged at a bounded rate.
type Hub struct {
	opts      NewHubOptions
	events    chan ScoreEvent
	quit      chan struct{}
	stopped   chan struct{}
	closed    atomic.Bool
	closeOnce sync.Once
	closeCtx  context.Context
	dropped   atomic.Int64
	lastWarn  atomic.Int64
}

// NewHub creates a hub and starts its flush loop. The caller must Close
// the hub to flush buffered events and close the sinks.
func NewHub(opts NewHubOptions) *Hub {
	if opts.BufferSize <= 0 {
		opts.BufferSize = defaultBufferSize
	}
	if opts.MaxBatch <= 0 {
		opts.MaxBatch = defaultMaxBatch
	}
	if opts.MaxBatchWait <= 0 {
		opts.MaxBatchWait = defaultMaxBatchWait
	}
	if opts.SinkTimeout <= 0 {
		opts.SinkTimeout = defaultSinkTimeout
	}
	h := &Hub{
		opts:    opts,
		events:  make(chan ScoreEvent, opts.BufferSize),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go h.run()
	return h
}

// Emit enqueues an event for the next flush. Invalid events are
// discarded. Emitting to a closed hub is a no-op.
func (h *Hub) Emit(evt ScoreEvent) {
	if h == nil || h.closed.Load() {
		return
	}
	if err := evt.Validate(); err != nil {
		log.Debug("discarding invalid score event: %v", err)
		return
	}
	select {
	case h.events <- evt:
	default:
		h.dropped.Add(1)
		h.warnDropped()
	}
}

// Dropped returns the number of events discarded since the last warning
// was logged.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// Close drains buffered events, flushes the sinks, closes them, and
// waits for the flush loop to exit or ctx to end.
func (h *Hub) Close(ctx context.Context) error {
	if h == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	h.closeOnce.Do(func() {
		h.closed.Store(true)
		h.closeCtx = ctx
		close(h.quit)
	})
	select {
	case <-h.stopped:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to close hub: %v", ctx.Err())
	}
}

func (h *Hub) run() {
	defer close(h.stopped)
	batch := make([]ScoreEvent, 0, h.opts.MaxBatch)
	var flushAt <-chan time.Time
	for {
		select {
		case evt := <-h.events:
			batch = append(batch, evt)
			if len(batch) >= h.opts.MaxBatch {
				h.flush(batch)
				batch = batch[:0]
				flushAt = nil
			} else if flushAt == nil {
				flushAt = time.After(h.opts.MaxBatchWait)
			}
		case <-flushAt:
			flushAt = nil
			if len(batch) > 0 {
				h.flush(batch)
				batch = batch[:0]
			}
		case <-h.quit:
			h.drain(batch)
			return
		}
	}
}

// drain empties whatever is still buffered, flushes it, and closes the
// sinks.
func (h *Hub) drain(batch []ScoreEvent) {
	for {
		select {
		case evt := <-h.events:
			batch = append(batch, evt)
			if len(batch) >= h.opts.MaxBatch {
				h.flush(batch)
				batch = batch[:0]
			}
		default:
			if len(batch) > 0 {
				h.flush(batch)
			}
			h.closeSinks()
			return
		}
	}
}

func (h *Hub) flush(batch []ScoreEvent) {
	copied := append([]ScoreEvent(nil), batch...)
	for _, sink := range h.opts.Sinks {
		if sink == nil {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), h.opts.SinkTimeout)
		if err := sink.Consume(ctx, copied); err != nil {
			log.Warn("score sink consume failed: %v", err)
		}
		cancel()
	}
}

func (h *Hub) closeSinks() {
	ctx := h.closeCtx
	if ctx == nil {
		ctx = context.Background()
	}
	for _, sink := range h.opts.Sinks {
		if sink == nil {
			continue
		}
		if err := sink.Close(ctx); err != nil {
			log.Warn("score sink close failed: %v", err)
		}
	}
}

// warnDropped logs at most once per dropLogInterval, with the number of
// events dropped since the previous warning.
func (h *Hub) warnDropped() {
	now := time.Now().UnixNano()
	last := h.lastWarn.Load()
	if now-last < dropLogInterval.Nanoseconds() {
		return
	}
	if !h.lastWarn.CompareAndSwap(last, now) {
		return
	}
	count := h.dropped.Swap(0)
	log.Warn("dropped %d score events due to backpressure", count)
}
