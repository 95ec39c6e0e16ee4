// Package pipeline drives chunks from a source through the classifier and
// assembler, and provides the optional bounded handoff queue for a
// threaded producer/consumer mode (spec.md §4.10, §5).
package pipeline

import "sync"

// Queue is a bounded FIFO of assembled frames shared between a producer
// goroutine and the public stream's consumer. Unlike the teacher's
// framesupplier mailbox (modules/framesupplier/internal/worker_slot.go),
// which overwrites on a full slot because dropped video frames are
// acceptable, a CompositeFrame must never be silently dropped (spec.md
// §4.10): Push blocks until a slot frees up instead of overwriting.
// The sync.Cond blocking pattern itself — two condition variables guarding
// a mutex-protected buffer — is the same idiom the teacher uses.
type Queue struct {
	mu       sync.Mutex
	notFull  *sync.Cond
	notEmpty *sync.Cond

	items  []any
	cap    int
	closed bool
}

// NewQueue returns a Queue with the given capacity; a capacity below 2 is
// raised to 2 (spec.md §4.10).
func NewQueue(capacity int) *Queue {
	if capacity < 2 {
		capacity = 2
	}
	q := &Queue{cap: capacity}
	q.notFull = sync.NewCond(&q.mu)
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// Push blocks while the queue is full, then enqueues v. It returns false
// without enqueuing if the queue has been closed in the meantime —
// backpressure applied to C1 per spec.md §4.10.
func (q *Queue) Push(v any) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) >= q.cap && !q.closed {
		q.notFull.Wait()
	}
	if q.closed {
		return false
	}
	q.items = append(q.items, v)
	q.notEmpty.Signal()
	return true
}

// Pop blocks until an item is available or the queue is closed and
// drained, in which case it returns (nil, false).
func (q *Queue) Pop() (any, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.notEmpty.Wait()
	}
	if len(q.items) == 0 {
		return nil, false
	}
	v := q.items[0]
	q.items = q.items[1:]
	q.notFull.Signal()
	return v, true
}

// Close wakes any blocked Push or Pop callers. Pop continues to drain
// items already queued before returning false; Push returns false
// immediately.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.notFull.Broadcast()
	q.notEmpty.Broadcast()
}
