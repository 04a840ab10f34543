package push

import (
	"context"

	"github.com/Hossain-Anas/UniVerse/internal/events"
)

// SubscribeNotifications forwards each new notification to its owner's open
// connections.
func SubscribeNotifications(bus *events.Bus, hub *Hub) {
	bus.Subscribe(events.TopicNotificationCreated, "push.notifications", func(_ context.Context, e events.Event) error {
		return hub.SendFrame(e.UserID, FrameNotification, e.Payload)
	})
}
