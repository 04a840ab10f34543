package session

import (
	"context"
	"fmt"

	"github.com/Hossain-Anas/UniVerse/internal/events"
	"github.com/Hossain-Anas/UniVerse/internal/toast"
)

// SubscribeToasts mirrors every new notification into its owner's toasts.
func SubscribeToasts(bus *events.Bus, board *toast.Board) {
	bus.Subscribe(events.TopicNotificationCreated, "session.toasts", func(_ context.Context, e events.Event) error {
		p, ok := e.Payload.(events.NotificationPayload)
		if !ok {
			return fmt.Errorf("unexpected payload %T", e.Payload)
		}
		board.Push(p.UserID, toast.Toast{
			Title:   p.Title,
			Message: p.Message,
			Type:    p.Type,
		})
		return nil
	})
}
