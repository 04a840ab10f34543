// Package reminder turns due event reminders into inbox notifications.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"

	"github.com/Hossain-Anas/UniVerse/internal/db"
	"github.com/Hossain-Anas/UniVerse/internal/events"
	"github.com/Hossain-Anas/UniVerse/internal/localtime"
	"github.com/Hossain-Anas/UniVerse/internal/metrics"
	"github.com/Hossain-Anas/UniVerse/internal/notification"
	"github.com/Hossain-Anas/UniVerse/internal/zlog"
)

const (
	fallbackTitle = "Event"
	notifyTTL     = 7 * 24 * time.Hour
)

type Queries interface {
	ListDueReminders(ctx context.Context, now pgtype.Timestamptz) ([]db.EventReminder, error)
	ClaimReminder(ctx context.Context, id pgtype.UUID) (db.EventReminder, error)
	GetEventSummary(ctx context.Context, id pgtype.UUID) (db.EventSummary, error)
	CreateNotification(ctx context.Context, arg db.CreateNotificationParams) (db.Notification, error)
}

type TxFunc func(ctx context.Context, fn func(Queries) error) error

func StoreTx(store *db.Store) TxFunc {
	return func(ctx context.Context, fn func(Queries) error) error {
		return store.WithTx(ctx, func(q *db.Queries) error { return fn(q) })
	}
}

type Result struct {
	Processed int      `json:"processed"`
	Errors    []string `json:"errors"`
}

type Processor struct {
	q    Queries
	inTx TxFunc
	bus  *events.Bus
	now  func() time.Time
}

func NewProcessor(q Queries, inTx TxFunc, bus *events.Bus) *Processor {
	return &Processor{
		q:    q,
		inTx: inTx,
		bus:  bus,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the processor's time source.
func (p *Processor) SetClock(now func() time.Time) {
	p.now = now
}

// Process delivers every unsent reminder whose time has come. Each reminder
// is claimed, rendered and written in its own transaction, so a failure
// leaves that reminder unsent for the next run and does not stop the rest.
// Only a failure to read the due list is returned as an error.
func (p *Processor) Process(ctx context.Context) (Result, error) {
	due, err := p.q.ListDueReminders(ctx, db.Time(p.now()))
	if err != nil {
		return Result{}, fmt.Errorf("failed to fetch due reminders: %w", err)
	}

	result := Result{Errors: []string{}}
	for _, rem := range due {
		created, claimed, err := p.deliver(ctx, rem)
		if err != nil {
			metrics.ReminderErrors.Inc()
			zlog.Warn("reminder delivery failed", zap.String("reminder_id", db.UUIDString(rem.ID)), zap.Error(err))
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		if !claimed {
			continue
		}
		result.Processed++
		metrics.RemindersProcessed.Inc()

		p.bus.Publish(ctx, events.Event{
			Topic:  events.TopicReminderDelivered,
			Key:    db.UUIDString(rem.ID),
			UserID: db.UUIDString(rem.UserID),
			Payload: events.ReminderPayload{
				ReminderID:     db.UUIDString(rem.ID),
				EventID:        db.UUIDString(rem.EventID),
				UserID:         db.UUIDString(rem.UserID),
				NotificationID: db.UUIDString(created.ID),
			},
		})
		notification.Announce(ctx, p.bus, created)
	}

	if result.Processed > 0 || len(result.Errors) > 0 {
		zlog.Info("reminders processed", zap.Int("processed", result.Processed), zap.Int("errors", len(result.Errors)))
	}
	return result, nil
}

// deliver reports claimed=false when another run already owns the reminder.
func (p *Processor) deliver(ctx context.Context, rem db.EventReminder) (db.Notification, bool, error) {
	var (
		created db.Notification
		claimed bool
	)
	err := p.inTx(ctx, func(q Queries) error {
		owned, err := q.ClaimReminder(ctx, rem.ID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return fmt.Errorf("failed to claim reminder: %w", err)
		}
		claimed = true

		now := p.now()
		title := fallbackTitle
		eventDate := now
		summary, err := q.GetEventSummary(ctx, owned.EventID)
		switch {
		case err == nil:
			if summary.Title != "" {
				title = summary.Title
			}
			if summary.EventDate.Valid {
				eventDate = summary.EventDate.Time
			}
		case !errors.Is(err, pgx.ErrNoRows):
			return fmt.Errorf("failed to fetch event: %w", err)
		}

		expires := now.Add(notifyTTL)
		created, err = q.CreateNotification(ctx, notification.Params(owned.UserID, notification.CreateInput{
			Title:     "Event Reminder: " + title,
			Message:   fmt.Sprintf("Don't forget! %s is happening on %s.", title, localtime.Format(eventDate)),
			Type:      db.NotificationTypeEvent,
			ActionURL: "/myspace?eventId=" + db.UUIDString(owned.EventID),
			ExpiresAt: &expires,
		}))
		if err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}
		return nil
	})
	if err != nil {
		return db.Notification{}, false, err
	}
	return created, claimed, nil
}
