package toast

import (
	"sync"
	"time"
)

// Sink receives a user's full toast list whenever it changes.
type Sink func(userID string, items []Toast)

// Board holds one queue per user with pending toasts. A queue is created by
// the first push and dropped again once its last toast expires or is removed.
type Board struct {
	mu       sync.Mutex
	queues   map[string]*Queue
	capacity int
	ttl      time.Duration
	sink     Sink
}

func NewBoard(capacity int, ttl time.Duration, sink Sink) *Board {
	return &Board{
		queues:   make(map[string]*Queue),
		capacity: capacity,
		ttl:      ttl,
		sink:     sink,
	}
}

func (b *Board) Push(userID string, t Toast) Toast {
	if userID == "" {
		return t
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.queueLocked(userID).Push(t)
}

func (b *Board) Items(userID string) []Toast {
	b.mu.Lock()
	q, ok := b.queues[userID]
	b.mu.Unlock()
	if !ok {
		return []Toast{}
	}
	return q.Items()
}

// Len reports how many users currently hold a queue.
func (b *Board) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queues)
}

func (b *Board) queueLocked(userID string) *Queue {
	if q, ok := b.queues[userID]; ok {
		return q
	}
	q := NewQueue(b.capacity, b.ttl)
	if b.sink != nil {
		sink := b.sink
		q.Subscribe(func(items []Toast) { sink(userID, items) })
	}
	q.Subscribe(func(items []Toast) {
		if len(items) == 0 {
			b.evict(userID, q)
		}
	})
	b.queues[userID] = q
	return q
}

// evict drops q if it is still the user's queue and still empty. Listeners run
// outside the queue lock, so a push may have landed since the snapshot.
func (b *Board) evict(userID string, q *Queue) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.queues[userID] != q || len(q.Items()) > 0 {
		return
	}
	delete(b.queues, userID)
}
