package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const notificationColumns = `id, user_id, title, message, type, action_url, is_read, expires_at, created_at`

func scanNotification(row pgx.Row) (Notification, error) {
	var i Notification
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Title,
		&i.Message,
		&i.Type,
		&i.ActionUrl,
		&i.IsRead,
		&i.ExpiresAt,
		&i.CreatedAt,
	)
	return i, err
}

func collectNotifications(rows pgx.Rows) ([]Notification, error) {
	defer rows.Close()
	items := []Notification{}
	for rows.Next() {
		i, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listNotificationsByUser = `SELECT ` + notificationColumns + ` FROM notifications
WHERE user_id = $1
ORDER BY created_at DESC`

func (q *Queries) ListNotificationsByUser(ctx context.Context, userID pgtype.UUID) ([]Notification, error) {
	rows, err := q.db.Query(ctx, listNotificationsByUser, userID)
	if err != nil {
		return nil, err
	}
	return collectNotifications(rows)
}

const listUnreadNotificationsByUser = `SELECT ` + notificationColumns + ` FROM notifications
WHERE user_id = $1 AND is_read = false
ORDER BY created_at DESC`

func (q *Queries) ListUnreadNotificationsByUser(ctx context.Context, userID pgtype.UUID) ([]Notification, error) {
	rows, err := q.db.Query(ctx, listUnreadNotificationsByUser, userID)
	if err != nil {
		return nil, err
	}
	return collectNotifications(rows)
}

const createNotification = `INSERT INTO notifications (user_id, title, message, type, action_url, expires_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + notificationColumns

type CreateNotificationParams struct {
	UserID    pgtype.UUID
	Title     string
	Message   string
	Type      NotificationType
	ActionUrl pgtype.Text
	ExpiresAt pgtype.Timestamptz
}

func (q *Queries) CreateNotification(ctx context.Context, arg CreateNotificationParams) (Notification, error) {
	row := q.db.QueryRow(ctx, createNotification,
		arg.UserID,
		arg.Title,
		arg.Message,
		arg.Type,
		arg.ActionUrl,
		arg.ExpiresAt,
	)
	return scanNotification(row)
}

// Row ownership stands in for the hosted store's row-level security.
const markNotificationRead = `UPDATE notifications SET is_read = true
WHERE id = $1 AND user_id = $2
RETURNING ` + notificationColumns

type MarkNotificationReadParams struct {
	ID     pgtype.UUID
	UserID pgtype.UUID
}

func (q *Queries) MarkNotificationRead(ctx context.Context, arg MarkNotificationReadParams) (Notification, error) {
	return scanNotification(q.db.QueryRow(ctx, markNotificationRead, arg.ID, arg.UserID))
}

const markAllNotificationsRead = `UPDATE notifications SET is_read = true
WHERE user_id = $1 AND is_read = false`

func (q *Queries) MarkAllNotificationsRead(ctx context.Context, userID pgtype.UUID) (int64, error) {
	tag, err := q.db.Exec(ctx, markAllNotificationsRead, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const deleteNotification = `DELETE FROM notifications WHERE id = $1 AND user_id = $2`

type DeleteNotificationParams struct {
	ID     pgtype.UUID
	UserID pgtype.UUID
}

func (q *Queries) DeleteNotification(ctx context.Context, arg DeleteNotificationParams) error {
	_, err := q.db.Exec(ctx, deleteNotification, arg.ID, arg.UserID)
	return err
}

const countUnreadNotifications = `SELECT count(*) FROM notifications WHERE user_id = $1 AND is_read = false`

func (q *Queries) CountUnreadNotifications(ctx context.Context, userID pgtype.UUID) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countUnreadNotifications, userID).Scan(&count)
	return count, err
}
