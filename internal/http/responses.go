package http

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Hossain-Anas/UniVerse/internal/db"
)

type bannerRequestResponse struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"user_id"`
	Title              string     `json:"title"`
	Description        *string    `json:"description"`
	ImageURL           *string    `json:"image_url"`
	TargetURL          *string    `json:"target_url"`
	DurationDays       *int32     `json:"duration_days"`
	DurationHours      *int32     `json:"duration_hours"`
	DurationMinutes    *int32     `json:"duration_minutes"`
	ScheduleType       string     `json:"schedule_type"`
	ScheduledStartDate *time.Time `json:"scheduled_start_date"`
	Status             string     `json:"status"`
	AdminNotes         *string    `json:"admin_notes"`
	ReviewedBy         *string    `json:"reviewed_by"`
	ReviewedAt         *time.Time `json:"reviewed_at"`
	StartDate          *time.Time `json:"start_date"`
	EndDate            *time.Time `json:"end_date"`
	CreatedAt          *time.Time `json:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at"`
}

type bannerListResponse struct {
	PendingRequests []bannerRequestResponse `json:"pendingRequests"`
	AllRequests     []bannerRequestResponse `json:"allRequests"`
}

type activeBannerResponse struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

type notificationResponse struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Type      string     `json:"type"`
	ActionURL *string    `json:"action_url"`
	IsRead    bool       `json:"is_read"`
	ExpiresAt *time.Time `json:"expires_at"`
	CreatedAt *time.Time `json:"created_at"`
}

type bookResponse struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Author        string     `json:"author"`
	ISBN          string     `json:"isbn"`
	Status        string     `json:"status"`
	Category      string     `json:"category"`
	PublishedYear int32      `json:"published_year"`
	Location      string     `json:"location"`
	CreatedAt     *time.Time `json:"created_at"`
}

func mapBannerRequest(req db.BannerRequest) bannerRequestResponse {
	resp := bannerRequestResponse{
		ID:                 db.UUIDString(req.ID),
		UserID:             db.UUIDString(req.UserID),
		Title:              req.Title,
		Description:        textPtr(req.Description),
		ImageURL:           textPtr(req.ImageUrl),
		TargetURL:          textPtr(req.TargetUrl),
		DurationDays:       int4Ptr(req.DurationDays),
		DurationHours:      int4Ptr(req.DurationHours),
		DurationMinutes:    int4Ptr(req.DurationMinutes),
		ScheduleType:       string(req.ScheduleType),
		ScheduledStartDate: db.TimePtr(req.ScheduledStartDate),
		Status:             string(req.Status),
		AdminNotes:         textPtr(req.AdminNotes),
		ReviewedAt:         db.TimePtr(req.ReviewedAt),
		StartDate:          db.TimePtr(req.StartDate),
		EndDate:            db.TimePtr(req.EndDate),
		CreatedAt:          db.TimePtr(req.CreatedAt),
		UpdatedAt:          db.TimePtr(req.UpdatedAt),
	}
	if req.ReviewedBy.Valid {
		reviewer := db.UUIDString(req.ReviewedBy)
		resp.ReviewedBy = &reviewer
	}
	return resp
}

func mapBannerRequests(items []db.BannerRequest) []bannerRequestResponse {
	out := make([]bannerRequestResponse, 0, len(items))
	for _, item := range items {
		out = append(out, mapBannerRequest(item))
	}
	return out
}

func mapNotification(n db.Notification) notificationResponse {
	return notificationResponse{
		ID:        db.UUIDString(n.ID),
		UserID:    db.UUIDString(n.UserID),
		Title:     n.Title,
		Message:   n.Message,
		Type:      string(n.Type),
		ActionURL: textPtr(n.ActionUrl),
		IsRead:    n.IsRead,
		ExpiresAt: db.TimePtr(n.ExpiresAt),
		CreatedAt: db.TimePtr(n.CreatedAt),
	}
}

func mapNotifications(items []db.Notification) []notificationResponse {
	out := make([]notificationResponse, 0, len(items))
	for _, item := range items {
		out = append(out, mapNotification(item))
	}
	return out
}

func mapBook(b db.Book) bookResponse {
	return bookResponse{
		ID:            db.UUIDString(b.ID),
		Title:         b.Title,
		Author:        b.Author,
		ISBN:          b.Isbn,
		Status:        string(b.Status),
		Category:      b.Category,
		PublishedYear: b.PublishedYear,
		Location:      b.Location,
		CreatedAt:     db.TimePtr(b.CreatedAt),
	}
}

func mapBooks(items []db.Book) []bookResponse {
	out := make([]bookResponse, 0, len(items))
	for _, item := range items {
		out = append(out, mapBook(item))
	}
	return out
}

func textPtr(value pgtype.Text) *string {
	if !value.Valid {
		return nil
	}
	v := value.String
	return &v
}

func int4Ptr(value pgtype.Int4) *int32 {
	if !value.Valid {
		return nil
	}
	v := value.Int32
	return &v
}
