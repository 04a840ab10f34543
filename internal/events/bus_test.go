package events

import (
	"context"
	"errors"
	"testing"
)

func TestPublishRunsTopicThenWildcardHandlers(t *testing.T) {
	bus := NewBus()
	var order []string
	bus.Subscribe(TopicAll, "audit", func(_ context.Context, e Event) error {
		order = append(order, "audit:"+e.Topic)
		return nil
	})
	bus.Subscribe(TopicBannerApproved, "notify", func(_ context.Context, e Event) error {
		order = append(order, "notify:"+e.Key)
		return nil
	})
	bus.Subscribe(TopicBannerRejected, "ignored", func(_ context.Context, _ Event) error {
		order = append(order, "wrong")
		return nil
	})

	bus.Publish(context.Background(), Event{Topic: TopicBannerApproved, Key: "req-1"})

	if len(order) != 2 || order[0] != "notify:req-1" || order[1] != "audit:banner.approved" {
		t.Fatalf("unexpected dispatch order %v", order)
	}
}

func TestPublishIsolatesFailuresAndPanics(t *testing.T) {
	bus := NewBus()
	reached := false
	bus.Subscribe(TopicNotificationCreated, "fails", func(_ context.Context, _ Event) error {
		return errors.New("store down")
	})
	bus.Subscribe(TopicNotificationCreated, "panics", func(_ context.Context, _ Event) error {
		panic("bad handler")
	})
	bus.Subscribe(TopicNotificationCreated, "last", func(_ context.Context, _ Event) error {
		reached = true
		return nil
	})

	bus.Publish(context.Background(), Event{Topic: TopicNotificationCreated})

	if !reached {
		t.Fatalf("expected later handler to run after failures")
	}
}

func TestPublishSurvivesCanceledCaller(t *testing.T) {
	bus := NewBus()
	var handlerErr error
	bus.Subscribe(TopicBannerApproved, "check", func(ctx context.Context, e Event) error {
		handlerErr = ctx.Err()
		if e.OccurredAt.IsZero() {
			t.Errorf("expected occurred_at stamped")
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.Publish(ctx, Event{Topic: TopicBannerApproved})

	if handlerErr != nil {
		t.Fatalf("expected handler context live, got %v", handlerErr)
	}
}

func TestNilBusPublishIsNoop(t *testing.T) {
	var bus *Bus
	bus.Publish(context.Background(), Event{Topic: TopicBannerExpired})
}
