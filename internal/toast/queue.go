// Package toast keeps short-lived user-facing messages: a bounded queue per
// user, newest first, each item expiring on its own timer.
package toast

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultCapacity = 5
	DefaultTTL      = 5 * time.Second
)

type Toast struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Listener func(items []Toast)

type Queue struct {
	mu        sync.Mutex
	capacity  int
	ttl       time.Duration
	items     []Toast
	timers    map[string]*time.Timer
	listeners map[int]Listener
	nextID    int
}

func NewQueue(capacity int, ttl time.Duration) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Queue{
		capacity:  capacity,
		ttl:       ttl,
		timers:    make(map[string]*time.Timer),
		listeners: make(map[int]Listener),
	}
}

// Push puts t at the front and evicts past capacity. A missing ID or
// CreatedAt is filled in. The stored toast is returned.
func (q *Queue) Push(t Toast) Toast {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	q.mu.Lock()
	q.items = append([]Toast{t}, q.items...)
	for len(q.items) > q.capacity {
		evicted := q.items[len(q.items)-1]
		q.items = q.items[:len(q.items)-1]
		q.stopTimerLocked(evicted.ID)
	}
	id := t.ID
	q.stopTimerLocked(id)
	q.timers[id] = time.AfterFunc(q.ttl, func() { q.Remove(id) })
	snapshot, listeners := q.snapshotLocked()
	q.mu.Unlock()

	notify(listeners, snapshot)
	return t
}

func (q *Queue) Remove(id string) {
	q.mu.Lock()
	idx := -1
	for i, item := range q.items {
		if item.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		q.mu.Unlock()
		return
	}
	q.items = append(q.items[:idx], q.items[idx+1:]...)
	q.stopTimerLocked(id)
	snapshot, listeners := q.snapshotLocked()
	q.mu.Unlock()

	notify(listeners, snapshot)
}

func (q *Queue) Clear() {
	q.mu.Lock()
	for id := range q.timers {
		q.stopTimerLocked(id)
	}
	q.items = nil
	snapshot, listeners := q.snapshotLocked()
	q.mu.Unlock()

	notify(listeners, snapshot)
}

func (q *Queue) Items() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Toast, len(q.items))
	copy(out, q.items)
	return out
}

// Subscribe calls l with the current items and after every change until the
// returned func is called.
func (q *Queue) Subscribe(l Listener) func() {
	q.mu.Lock()
	id := q.nextID
	q.nextID++
	q.listeners[id] = l
	snapshot := make([]Toast, len(q.items))
	copy(snapshot, q.items)
	q.mu.Unlock()

	l(snapshot)
	return func() {
		q.mu.Lock()
		delete(q.listeners, id)
		q.mu.Unlock()
	}
}

func (q *Queue) stopTimerLocked(id string) {
	if timer, ok := q.timers[id]; ok {
		timer.Stop()
		delete(q.timers, id)
	}
}

func (q *Queue) snapshotLocked() ([]Toast, []Listener) {
	snapshot := make([]Toast, len(q.items))
	copy(snapshot, q.items)
	listeners := make([]Listener, 0, len(q.listeners))
	for _, l := range q.listeners {
		listeners = append(listeners, l)
	}
	return snapshot, listeners
}

func notify(listeners []Listener, items []Toast) {
	for _, l := range listeners {
		l(items)
	}
}
