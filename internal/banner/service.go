// Package banner owns the advertisement request lifecycle: submission,
// review, the active projection and expiry.
package banner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"

	"github.com/Hossain-Anas/UniVerse/internal/db"
	"github.com/Hossain-Anas/UniVerse/internal/events"
	"github.com/Hossain-Anas/UniVerse/internal/localtime"
	"github.com/Hossain-Anas/UniVerse/internal/metrics"
	"github.com/Hossain-Anas/UniVerse/internal/validate"
	"github.com/Hossain-Anas/UniVerse/internal/zlog"
)

var ErrNotFound = errors.New("banner request not found")

// ValidationError carries the message shown to the requester.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type Queries interface {
	CreateBannerRequest(ctx context.Context, arg db.CreateBannerRequestParams) (db.BannerRequest, error)
	GetBannerRequest(ctx context.Context, id pgtype.UUID) (db.BannerRequest, error)
	ListBannerRequests(ctx context.Context) ([]db.BannerRequest, error)
	ListBannerRequestsByStatus(ctx context.Context, status db.BannerStatus) ([]db.BannerRequest, error)
	ListActiveBanners(ctx context.Context, now pgtype.Timestamptz) ([]db.ActiveBanner, error)
	ApproveBannerRequest(ctx context.Context, arg db.ApproveBannerRequestParams) (db.BannerRequest, error)
	RejectBannerRequest(ctx context.Context, arg db.RejectBannerRequestParams) (db.BannerRequest, error)
	DeleteBannerRequest(ctx context.Context, id pgtype.UUID) error
	ExpireBannerRequests(ctx context.Context, now pgtype.Timestamptz) ([]db.BannerRequest, error)
}

// TxFunc runs fn in a transaction; fn's error rolls it back.
type TxFunc func(ctx context.Context, fn func(Queries) error) error

func StoreTx(store *db.Store) TxFunc {
	return func(ctx context.Context, fn func(Queries) error) error {
		return store.WithTx(ctx, func(q *db.Queries) error { return fn(q) })
	}
}

// CreateInput is the submission form. Checks run in field order so the
// requester sees the first problem only.
type CreateInput struct {
	Title         string `form:"title" validate:"notblank,max=100" msg:"notblank=Advertisement text is required;max=Advertisement text must be 100 characters or less"`
	Description   string `form:"description" validate:"max=500" msg:"max=Description must be 500 characters or less"`
	ImageURL      string `form:"image_url"`
	TargetURL     string `form:"target_url"`
	DurationType  string `form:"duration_type" validate:"oneof=minutes hours days" msg:"oneof=Invalid duration type"`
	DurationValue int    `form:"duration_value" msg:"duration_range=Duration must be between 1 and {param}"`
	ScheduleType  string `form:"schedule_type" validate:"oneof=immediate scheduled" msg:"oneof=Invalid schedule type"`
	ScheduledDate string `form:"scheduled_date" validate:"required_if=ScheduleType scheduled" msg:"required_if=Scheduled date and time are required for scheduled requests"`
	ScheduledTime string `form:"scheduled_time" validate:"required_if=ScheduleType scheduled" msg:"required_if=Scheduled date and time are required for scheduled requests"`
}

func durationRule(sl validator.StructLevel) {
	in, ok := sl.Current().Interface().(CreateInput)
	if !ok {
		return
	}
	b, known := DurationBounds(in.DurationType)
	if !known || b.Contains(in.DurationValue) {
		return
	}
	sl.ReportError(in.DurationValue, "duration_value", "DurationValue", "duration_range", fmt.Sprintf("%d %s", b.Max, b.Unit))
}

type Service struct {
	q         Queries
	inTx      TxFunc
	bus       *events.Bus
	validator *validate.Validator
	now       func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithValidator(v *validate.Validator) Option {
	return func(s *Service) { s.validator = v }
}

func NewService(q Queries, inTx TxFunc, bus *events.Bus, opts ...Option) *Service {
	s := &Service{
		q:    q,
		inTx: inTx,
		bus:  bus,
		now:  func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.validator == nil {
		s.validator = validate.New()
	}
	s.validator.RegisterStructRule(durationRule, CreateInput{})
	return s
}

func (s *Service) List(ctx context.Context) ([]db.BannerRequest, error) {
	items, err := s.q.ListBannerRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch banner requests: %w", err)
	}
	return items, nil
}

func (s *Service) ListPending(ctx context.Context) ([]db.BannerRequest, error) {
	items, err := s.q.ListBannerRequestsByStatus(ctx, db.BannerStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending banner requests: %w", err)
	}
	return items, nil
}

// Active lists approved banners whose window contains now. It filters on
// time itself, so banners past their end drop out before the expiry sweep.
func (s *Service) Active(ctx context.Context) ([]db.ActiveBanner, error) {
	items, err := s.q.ListActiveBanners(ctx, db.Time(s.now()))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active banners: %w", err)
	}
	return items, nil
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (db.BannerRequest, error) {
	if err := s.validator.Struct(in); err != nil {
		var verrs *validate.Errors
		if errors.As(err, &verrs) {
			return db.BannerRequest{}, &ValidationError{Message: verrs.First()}
		}
		return db.BannerRequest{}, err
	}

	var scheduledStart pgtype.Timestamptz
	if in.ScheduleType == string(db.ScheduleTypeScheduled) {
		start, err := localtime.ParseWall(in.ScheduledDate, in.ScheduledTime)
		if err != nil {
			return db.BannerRequest{}, &ValidationError{Message: "Scheduled date and time are invalid"}
		}
		now := s.now()
		if !start.After(now) {
			return db.BannerRequest{}, &ValidationError{Message: fmt.Sprintf(
				"Scheduled date and time must be in the future. You selected %s %s (Bangladesh time), which is %s UTC, but current time is %s UTC.",
				in.ScheduledDate, in.ScheduledTime, localtime.ISO(start), localtime.ISO(now),
			)}
		}
		scheduledStart = db.Time(start)
	}

	owner, err := db.ParseUUID(userID)
	if err != nil {
		return db.BannerRequest{}, fmt.Errorf("invalid user id: %w", err)
	}

	params := db.CreateBannerRequestParams{
		UserID:             owner,
		Title:              strings.TrimSpace(in.Title),
		Description:        db.Text(strings.TrimSpace(in.Description)),
		ImageUrl:           db.Text(strings.TrimSpace(in.ImageURL)),
		TargetUrl:          db.Text(strings.TrimSpace(in.TargetURL)),
		ScheduleType:       db.ScheduleType(in.ScheduleType),
		ScheduledStartDate: scheduledStart,
	}
	switch in.DurationType {
	case DurationMinutes:
		params.DurationMinutes = db.Int4(in.DurationValue)
	case DurationHours:
		params.DurationHours = db.Int4(in.DurationValue)
	default:
		params.DurationDays = db.Int4(in.DurationValue)
	}

	created, err := s.q.CreateBannerRequest(ctx, params)
	if err != nil {
		return db.BannerRequest{}, fmt.Errorf("failed to create banner request: %w", err)
	}
	metrics.BannerTransitions.WithLabelValues(string(db.BannerStatusPending)).Inc()
	zlog.Info("banner request created",
		zap.String("id", db.UUIDString(created.ID)),
		zap.String("user_id", userID),
		zap.String("schedule_type", in.ScheduleType),
	)
	return created, nil
}

// Approve opens the display window: it starts at the scheduled instant, or
// now for immediate requests, and lasts the requested duration.
func (s *Service) Approve(ctx context.Context, requestID, adminID, notes string) (db.BannerRequest, error) {
	id, err := db.ParseUUID(requestID)
	if err != nil {
		return db.BannerRequest{}, ErrNotFound
	}
	reviewer, err := db.ParseUUID(adminID)
	if err != nil {
		return db.BannerRequest{}, fmt.Errorf("invalid admin id: %w", err)
	}

	var updated db.BannerRequest
	err = s.inTx(ctx, func(q Queries) error {
		req, err := q.GetBannerRequest(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		now := s.now()
		start := now
		if req.ScheduleType == db.ScheduleTypeScheduled && req.ScheduledStartDate.Valid {
			start = req.ScheduledStartDate.Time.UTC()
		}
		end, err := EndDate(start, req.DurationMinutes, req.DurationHours, req.DurationDays)
		if err != nil {
			return err
		}

		updated, err = q.ApproveBannerRequest(ctx, db.ApproveBannerRequestParams{
			ID:         id,
			AdminNotes: db.Text(strings.TrimSpace(notes)),
			ReviewedBy: reviewer,
			ReviewedAt: db.Time(now),
			StartDate:  db.Time(start),
			EndDate:    db.Time(end),
		})
		return err
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return db.BannerRequest{}, ErrNotFound
		}
		return db.BannerRequest{}, fmt.Errorf("failed to approve banner request: %w", err)
	}

	metrics.BannerTransitions.WithLabelValues(string(db.BannerStatusApproved)).Inc()
	s.publish(ctx, events.TopicBannerApproved, updated)
	return updated, nil
}

func (s *Service) Reject(ctx context.Context, requestID, adminID, notes string) (db.BannerRequest, error) {
	id, err := db.ParseUUID(requestID)
	if err != nil {
		return db.BannerRequest{}, ErrNotFound
	}
	reviewer, err := db.ParseUUID(adminID)
	if err != nil {
		return db.BannerRequest{}, fmt.Errorf("invalid admin id: %w", err)
	}

	var updated db.BannerRequest
	err = s.inTx(ctx, func(q Queries) error {
		var err error
		updated, err = q.RejectBannerRequest(ctx, db.RejectBannerRequestParams{
			ID:         id,
			AdminNotes: db.Text(strings.TrimSpace(notes)),
			ReviewedBy: reviewer,
			ReviewedAt: db.Time(s.now()),
		})
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return db.BannerRequest{}, ErrNotFound
		}
		return db.BannerRequest{}, fmt.Errorf("failed to reject banner request: %w", err)
	}

	metrics.BannerTransitions.WithLabelValues(string(db.BannerStatusRejected)).Inc()
	s.publish(ctx, events.TopicBannerRejected, updated)
	return updated, nil
}

// Delete removes the request whatever its status. Deleting a missing id is
// not an error.
func (s *Service) Delete(ctx context.Context, requestID string) error {
	id, err := db.ParseUUID(requestID)
	if err != nil {
		return fmt.Errorf("failed to delete banner request: %w", err)
	}
	if err := s.q.DeleteBannerRequest(ctx, id); err != nil {
		return fmt.Errorf("failed to delete banner request: %w", err)
	}
	zlog.Info("banner request deleted", zap.String("id", requestID))
	return nil
}

// ExpireDue marks approved banners whose window has closed as expired.
func (s *Service) ExpireDue(ctx context.Context) (int, error) {
	expired, err := s.q.ExpireBannerRequests(ctx, db.Time(s.now()))
	if err != nil {
		return 0, fmt.Errorf("failed to expire banners: %w", err)
	}
	for _, req := range expired {
		metrics.BannerTransitions.WithLabelValues(string(db.BannerStatusExpired)).Inc()
		s.publish(ctx, events.TopicBannerExpired, req)
	}
	if len(expired) > 0 {
		zlog.Info("banners expired", zap.Int("count", len(expired)))
	}
	return len(expired), nil
}

func (s *Service) publish(ctx context.Context, topic string, req db.BannerRequest) {
	s.bus.Publish(ctx, events.Event{
		Topic:   topic,
		Key:     db.UUIDString(req.ID),
		UserID:  db.UUIDString(req.UserID),
		Payload: Payload(req),
	})
}

func Payload(req db.BannerRequest) events.BannerPayload {
	return events.BannerPayload{
		ID:           db.UUIDString(req.ID),
		UserID:       db.UUIDString(req.UserID),
		Title:        req.Title,
		Status:       string(req.Status),
		ScheduleType: string(req.ScheduleType),
		AdminNotes:   req.AdminNotes.String,
		ReviewedBy:   db.UUIDString(req.ReviewedBy),
		StartDate:    db.TimePtr(req.StartDate),
		EndDate:      db.TimePtr(req.EndDate),
	}
}
