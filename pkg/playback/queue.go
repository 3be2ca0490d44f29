package playback

import "context"

// DefaultQueueCapacity bounds the queue when no capacity is configured.
const DefaultQueueCapacity = 32

// Queue is a bounded FIFO of clips, safe for concurrent producers
// (the two feed connectors) and a single consumer (the engine).
// Enqueue never blocks: a clip arriving on a full queue is dropped.
type Queue struct {
	ch chan *Clip
}

// NewQueue creates a queue holding at most capacity clips.
func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	return &Queue{ch: make(chan *Clip, capacity)}
}

// Enqueue adds a clip without blocking.
// It returns false if the queue is full and the clip was dropped;
// the caller owns reporting the drop.
func (q *Queue) Enqueue(c *Clip) bool {
	select {
	case q.ch <- c:
		return true
	default:
		return false
	}
}

// Dequeue blocks until a clip is available or the context ends.
func (q *Queue) Dequeue(ctx context.Context) (*Clip, error) {
	select {
	case c := <-q.ch:
		return c, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Drain removes and discards every currently queued clip without blocking.
// It returns the number of clips discarded.
func (q *Queue) Drain() int {
	n := 0
	for {
		select {
		case <-q.ch:
			n++
		default:
			return n
		}
	}
}

// Len returns the number of queued clips.
func (q *Queue) Len() int {
	return len(q.ch)
}

// Cap returns the queue capacity.
func (q *Queue) Cap() int {
	return cap(q.ch)
}
