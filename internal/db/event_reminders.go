package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const listDueReminders = `SELECT id, event_id, user_id, reminder_time, is_sent
FROM event_reminders
WHERE reminder_time <= $1 AND is_sent = false
ORDER BY reminder_time`

func (q *Queries) ListDueReminders(ctx context.Context, now pgtype.Timestamptz) ([]EventReminder, error) {
	rows, err := q.db.Query(ctx, listDueReminders, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []EventReminder{}
	for rows.Next() {
		var i EventReminder
		if err := rows.Scan(&i.ID, &i.EventID, &i.UserID, &i.ReminderTime, &i.IsSent); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// ClaimReminder flips is_sent for an unsent reminder. pgx.ErrNoRows means
// another caller already claimed it.
const claimReminder = `UPDATE event_reminders SET is_sent = true
WHERE id = $1 AND is_sent = false
RETURNING id, event_id, user_id, reminder_time, is_sent`

func (q *Queries) ClaimReminder(ctx context.Context, id pgtype.UUID) (EventReminder, error) {
	var i EventReminder
	err := q.db.QueryRow(ctx, claimReminder, id).Scan(&i.ID, &i.EventID, &i.UserID, &i.ReminderTime, &i.IsSent)
	return i, err
}

const getEventSummary = `SELECT title, description, event_date FROM events WHERE id = $1`

func (q *Queries) GetEventSummary(ctx context.Context, id pgtype.UUID) (EventSummary, error) {
	var i EventSummary
	err := q.db.QueryRow(ctx, getEventSummary, id).Scan(&i.Title, &i.Description, &i.EventDate)
	return i, err
}
