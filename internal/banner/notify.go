package banner

import (
	"context"
	"fmt"
	"time"

	"github.com/Hossain-Anas/UniVerse/internal/db"
	"github.com/Hossain-Anas/UniVerse/internal/events"
	"github.com/Hossain-Anas/UniVerse/internal/localtime"
	"github.com/Hossain-Anas/UniVerse/internal/notification"
)

const (
	approvedTitle = "Banner Request Approved"
	rejectedTitle = "Banner Request Rejected"
	ownerURL      = "/myspace"
)

type Notifier interface {
	Create(ctx context.Context, userID string, in notification.CreateInput) (db.Notification, error)
}

// SubscribeOwnerNotifications tells requesters about review outcomes.
// Approvals always notify; rejections only when notifyOnRejection is set.
func SubscribeOwnerNotifications(bus *events.Bus, notifier Notifier, notifyOnRejection bool) {
	bus.Subscribe(events.TopicBannerApproved, "banner.notify_approved", func(ctx context.Context, e events.Event) error {
		p, ok := e.Payload.(events.BannerPayload)
		if !ok {
			return fmt.Errorf("unexpected payload %T", e.Payload)
		}
		_, err := notifier.Create(ctx, p.UserID, notification.CreateInput{
			Title:     approvedTitle,
			Message:   ApprovalMessage(p),
			Type:      db.NotificationTypeBannerRequest,
			ActionURL: ownerURL,
		})
		return err
	})
	if !notifyOnRejection {
		return
	}
	bus.Subscribe(events.TopicBannerRejected, "banner.notify_rejected", func(ctx context.Context, e events.Event) error {
		p, ok := e.Payload.(events.BannerPayload)
		if !ok {
			return fmt.Errorf("unexpected payload %T", e.Payload)
		}
		_, err := notifier.Create(ctx, p.UserID, notification.CreateInput{
			Title:     rejectedTitle,
			Message:   RejectionMessage(p),
			Type:      db.NotificationTypeBannerRequest,
			ActionURL: ownerURL,
		})
		return err
	})
}

func ApprovalMessage(p events.BannerPayload) string {
	if p.ScheduleType == string(db.ScheduleTypeScheduled) {
		start := time.Now()
		if p.StartDate != nil {
			start = *p.StartDate
		}
		return fmt.Sprintf("Your banner request \"%s\" has been approved and will start displaying on %s", p.Title, localtime.Format(start))
	}
	return fmt.Sprintf("Your banner request \"%s\" has been approved and is now live!", p.Title)
}

func RejectionMessage(p events.BannerPayload) string {
	msg := fmt.Sprintf("Your banner request \"%s\" has been rejected.", p.Title)
	if p.AdminNotes != "" {
		msg += " Reason: " + p.AdminNotes
	}
	return msg
}
