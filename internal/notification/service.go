// Package notification keeps the per-user notification inbox.
package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Hossain-Anas/UniVerse/internal/db"
	"github.com/Hossain-Anas/UniVerse/internal/events"
	"github.com/Hossain-Anas/UniVerse/internal/metrics"
)

var ErrNotFound = errors.New("notification not found")

type Queries interface {
	ListNotificationsByUser(ctx context.Context, userID pgtype.UUID) ([]db.Notification, error)
	ListUnreadNotificationsByUser(ctx context.Context, userID pgtype.UUID) ([]db.Notification, error)
	CreateNotification(ctx context.Context, arg db.CreateNotificationParams) (db.Notification, error)
	MarkNotificationRead(ctx context.Context, arg db.MarkNotificationReadParams) (db.Notification, error)
	MarkAllNotificationsRead(ctx context.Context, userID pgtype.UUID) (int64, error)
	DeleteNotification(ctx context.Context, arg db.DeleteNotificationParams) error
	CountUnreadNotifications(ctx context.Context, userID pgtype.UUID) (int64, error)
}

type CreateInput struct {
	Title     string
	Message   string
	Type      db.NotificationType
	ActionURL string
	ExpiresAt *time.Time
}

// Params stamps the owner onto in. An unknown type falls back to general.
func Params(owner pgtype.UUID, in CreateInput) db.CreateNotificationParams {
	kind := in.Type
	if !kind.Valid() {
		kind = db.NotificationTypeGeneral
	}
	params := db.CreateNotificationParams{
		UserID:    owner,
		Title:     in.Title,
		Message:   in.Message,
		Type:      kind,
		ActionUrl: db.Text(in.ActionURL),
	}
	if in.ExpiresAt != nil {
		params.ExpiresAt = db.Time(*in.ExpiresAt)
	}
	return params
}

type Service struct {
	q   Queries
	bus *events.Bus
}

func NewService(q Queries, bus *events.Bus) *Service {
	return &Service{q: q, bus: bus}
}

func (s *Service) List(ctx context.Context, userID string) ([]db.Notification, error) {
	owner, err := db.ParseUUID(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	items, err := s.q.ListNotificationsByUser(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	return items, nil
}

func (s *Service) Unread(ctx context.Context, userID string) ([]db.Notification, error) {
	owner, err := db.ParseUUID(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	items, err := s.q.ListUnreadNotificationsByUser(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unread notifications: %w", err)
	}
	return items, nil
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (db.Notification, error) {
	owner, err := db.ParseUUID(userID)
	if err != nil {
		return db.Notification{}, fmt.Errorf("invalid user id: %w", err)
	}
	created, err := s.q.CreateNotification(ctx, Params(owner, in))
	if err != nil {
		return db.Notification{}, fmt.Errorf("failed to create notification: %w", err)
	}
	Announce(ctx, s.bus, created)
	return created, nil
}

// MarkRead flips one of userID's notifications to read.
func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) (db.Notification, error) {
	owner, err := db.ParseUUID(userID)
	if err != nil {
		return db.Notification{}, fmt.Errorf("invalid user id: %w", err)
	}
	id, err := db.ParseUUID(notificationID)
	if err != nil {
		return db.Notification{}, ErrNotFound
	}
	updated, err := s.q.MarkNotificationRead(ctx, db.MarkNotificationReadParams{ID: id, UserID: owner})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return db.Notification{}, ErrNotFound
		}
		return db.Notification{}, fmt.Errorf("failed to mark notification as read: %w", err)
	}
	return updated, nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	owner, err := db.ParseUUID(userID)
	if err != nil {
		return 0, fmt.Errorf("invalid user id: %w", err)
	}
	n, err := s.q.MarkAllNotificationsRead(ctx, owner)
	if err != nil {
		return 0, fmt.Errorf("failed to mark all notifications as read: %w", err)
	}
	return n, nil
}

func (s *Service) Delete(ctx context.Context, userID, notificationID string) error {
	owner, err := db.ParseUUID(userID)
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}
	id, err := db.ParseUUID(notificationID)
	if err != nil {
		return fmt.Errorf("invalid notification id: %w", err)
	}
	if err := s.q.DeleteNotification(ctx, db.DeleteNotificationParams{ID: id, UserID: owner}); err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	return nil
}

func (s *Service) CountUnread(ctx context.Context, userID string) (int64, error) {
	owner, err := db.ParseUUID(userID)
	if err != nil {
		return 0, fmt.Errorf("invalid user id: %w", err)
	}
	n, err := s.q.CountUnreadNotifications(ctx, owner)
	if err != nil {
		return 0, fmt.Errorf("failed to get unread count: %w", err)
	}
	return n, nil
}

// Announce records and publishes a committed notification. Writers that
// insert inside their own transaction call it after commit.
func Announce(ctx context.Context, bus *events.Bus, n db.Notification) {
	metrics.NotificationsCreated.WithLabelValues(string(n.Type)).Inc()
	bus.Publish(ctx, events.Event{
		Topic:   events.TopicNotificationCreated,
		Key:     db.UUIDString(n.ID),
		UserID:  db.UUIDString(n.UserID),
		Payload: Payload(n),
	})
}

func Payload(n db.Notification) events.NotificationPayload {
	p := events.NotificationPayload{
		ID:        db.UUIDString(n.ID),
		UserID:    db.UUIDString(n.UserID),
		Title:     n.Title,
		Message:   n.Message,
		Type:      string(n.Type),
		ActionURL: n.ActionUrl.String,
		IsRead:    n.IsRead,
		ExpiresAt: db.TimePtr(n.ExpiresAt),
	}
	if n.CreatedAt.Valid {
		p.CreatedAt = n.CreatedAt.Time.UTC()
	}
	return p
}
