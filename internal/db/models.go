package db

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type BannerStatus string

const (
	BannerStatusPending  BannerStatus = "pending"
	BannerStatusApproved BannerStatus = "approved"
	BannerStatusRejected BannerStatus = "rejected"
	BannerStatusExpired  BannerStatus = "expired"
)

type ScheduleType string

const (
	ScheduleTypeImmediate ScheduleType = "immediate"
	ScheduleTypeScheduled ScheduleType = "scheduled"
)

type NotificationType string

const (
	NotificationTypeEvent         NotificationType = "event"
	NotificationTypeTransaction   NotificationType = "transaction"
	NotificationTypeGeneral       NotificationType = "general"
	NotificationTypeFoodOrder     NotificationType = "food_order"
	NotificationTypeStudyRoom     NotificationType = "study_room"
	NotificationTypeBannerRequest NotificationType = "banner_request"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTypeEvent, NotificationTypeTransaction, NotificationTypeGeneral,
		NotificationTypeFoodOrder, NotificationTypeStudyRoom, NotificationTypeBannerRequest:
		return true
	}
	return false
}

type BookStatus string

const (
	BookStatusAvailable BookStatus = "available"
	BookStatusBorrowed  BookStatus = "borrowed"
	BookStatusReserved  BookStatus = "reserved"
)

type BannerRequest struct {
	ID                 pgtype.UUID
	UserID             pgtype.UUID
	Title              string
	Description        pgtype.Text
	ImageUrl           pgtype.Text
	TargetUrl          pgtype.Text
	DurationDays       pgtype.Int4
	DurationHours      pgtype.Int4
	DurationMinutes    pgtype.Int4
	ScheduleType       ScheduleType
	ScheduledStartDate pgtype.Timestamptz
	Status             BannerStatus
	AdminNotes         pgtype.Text
	ReviewedBy         pgtype.UUID
	ReviewedAt         pgtype.Timestamptz
	StartDate          pgtype.Timestamptz
	EndDate            pgtype.Timestamptz
	CreatedAt          pgtype.Timestamptz
	UpdatedAt          pgtype.Timestamptz
}

type ActiveBanner struct {
	Title       string
	Description pgtype.Text
}

type Notification struct {
	ID        pgtype.UUID
	UserID    pgtype.UUID
	Title     string
	Message   string
	Type      NotificationType
	ActionUrl pgtype.Text
	IsRead    bool
	ExpiresAt pgtype.Timestamptz
	CreatedAt pgtype.Timestamptz
}

type EventReminder struct {
	ID           pgtype.UUID
	EventID      pgtype.UUID
	UserID       pgtype.UUID
	ReminderTime pgtype.Timestamptz
	IsSent       bool
}

type EventSummary struct {
	Title       string
	Description pgtype.Text
	EventDate   pgtype.Timestamptz
}

type Book struct {
	ID            pgtype.UUID
	Title         string
	Author        string
	Isbn          string
	Status        BookStatus
	Category      string
	PublishedYear int32
	Location      string
	CreatedAt     pgtype.Timestamptz
}

type User struct {
	ID           pgtype.UUID
	Email        string
	PasswordHash string
}
