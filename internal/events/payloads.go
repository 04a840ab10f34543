package events

import "time"

type BannerPayload struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	Title        string     `json:"title"`
	Status       string     `json:"status"`
	ScheduleType string     `json:"schedule_type"`
	AdminNotes   string     `json:"admin_notes,omitempty"`
	ReviewedBy   string     `json:"reviewed_by,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
}

type NotificationPayload struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Type      string     `json:"type"`
	ActionURL string     `json:"action_url,omitempty"`
	IsRead    bool       `json:"is_read"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type ReminderPayload struct {
	ReminderID     string `json:"reminder_id"`
	EventID        string `json:"event_id"`
	UserID         string `json:"user_id"`
	NotificationID string `json:"notification_id"`
}
