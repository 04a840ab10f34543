// Package events dispatches domain events after their transaction commits.
// Handlers are side effects: their failures are logged and never reach the
// code that published the event.
package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Hossain-Anas/UniVerse/internal/zlog"
)

const (
	TopicBannerApproved      = "banner.approved"
	TopicBannerRejected      = "banner.rejected"
	TopicBannerExpired       = "banner.expired"
	TopicNotificationCreated = "notification.created"
	TopicReminderDelivered   = "reminder.delivered"

	// TopicAll subscribes a handler to every topic.
	TopicAll = "*"
)

type Event struct {
	Topic      string      `json:"type"`
	Key        string      `json:"key"`
	UserID     string      `json:"user_id"`
	OccurredAt time.Time   `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

type Handler func(ctx context.Context, e Event) error

type subscription struct {
	name    string
	handler Handler
}

type Bus struct {
	mu      sync.RWMutex
	subs    map[string][]subscription
	timeout time.Duration
}

func NewBus() *Bus {
	return &Bus{
		subs:    make(map[string][]subscription),
		timeout: 10 * time.Second,
	}
}

func (b *Bus) Subscribe(topic, name string, h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[topic] = append(b.subs[topic], subscription{name: name, handler: h})
}

// Publish runs the topic's handlers in subscription order, then the wildcard
// handlers. It detaches from the caller's cancellation so a client hanging up
// does not cut side effects short.
func (b *Bus) Publish(ctx context.Context, e Event) {
	if b == nil {
		return
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	b.mu.RLock()
	subs := make([]subscription, 0, len(b.subs[e.Topic])+len(b.subs[TopicAll]))
	subs = append(subs, b.subs[e.Topic]...)
	subs = append(subs, b.subs[TopicAll]...)
	b.mu.RUnlock()

	base := context.WithoutCancel(ctx)
	for _, sub := range subs {
		b.dispatch(base, sub, e)
	}
}

func (b *Bus) dispatch(ctx context.Context, sub subscription, e Event) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			zlog.Error("event handler panic",
				zap.String("handler", sub.name),
				zap.String("topic", e.Topic),
				zap.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	if err := sub.handler(ctx, e); err != nil {
		zlog.Warn("event handler failed",
			zap.String("handler", sub.name),
			zap.String("topic", e.Topic),
			zap.String("key", e.Key),
			zap.Error(err),
		)
	}
}
