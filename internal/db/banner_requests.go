package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const bannerRequestColumns = `id, user_id, title, description, image_url, target_url,
  duration_days, duration_hours, duration_minutes, schedule_type, scheduled_start_date,
  status, admin_notes, reviewed_by, reviewed_at, start_date, end_date, created_at, updated_at`

func scanBannerRequest(row pgx.Row) (BannerRequest, error) {
	var i BannerRequest
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Title,
		&i.Description,
		&i.ImageUrl,
		&i.TargetUrl,
		&i.DurationDays,
		&i.DurationHours,
		&i.DurationMinutes,
		&i.ScheduleType,
		&i.ScheduledStartDate,
		&i.Status,
		&i.AdminNotes,
		&i.ReviewedBy,
		&i.ReviewedAt,
		&i.StartDate,
		&i.EndDate,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func collectBannerRequests(rows pgx.Rows) ([]BannerRequest, error) {
	defer rows.Close()
	items := []BannerRequest{}
	for rows.Next() {
		i, err := scanBannerRequest(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const createBannerRequest = `INSERT INTO banner_requests (
  user_id, title, description, image_url, target_url,
  duration_days, duration_hours, duration_minutes, schedule_type, scheduled_start_date
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + bannerRequestColumns

type CreateBannerRequestParams struct {
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
}

func (q *Queries) CreateBannerRequest(ctx context.Context, arg CreateBannerRequestParams) (BannerRequest, error) {
	row := q.db.QueryRow(ctx, createBannerRequest,
		arg.UserID,
		arg.Title,
		arg.Description,
		arg.ImageUrl,
		arg.TargetUrl,
		arg.DurationDays,
		arg.DurationHours,
		arg.DurationMinutes,
		arg.ScheduleType,
		arg.ScheduledStartDate,
	)
	return scanBannerRequest(row)
}

const getBannerRequest = `SELECT ` + bannerRequestColumns + ` FROM banner_requests WHERE id = $1`

func (q *Queries) GetBannerRequest(ctx context.Context, id pgtype.UUID) (BannerRequest, error) {
	return scanBannerRequest(q.db.QueryRow(ctx, getBannerRequest, id))
}

const listBannerRequests = `SELECT ` + bannerRequestColumns + ` FROM banner_requests ORDER BY created_at DESC`

func (q *Queries) ListBannerRequests(ctx context.Context) ([]BannerRequest, error) {
	rows, err := q.db.Query(ctx, listBannerRequests)
	if err != nil {
		return nil, err
	}
	return collectBannerRequests(rows)
}

const listBannerRequestsByStatus = `SELECT ` + bannerRequestColumns + ` FROM banner_requests
WHERE status = $1
ORDER BY created_at DESC`

func (q *Queries) ListBannerRequestsByStatus(ctx context.Context, status BannerStatus) ([]BannerRequest, error) {
	rows, err := q.db.Query(ctx, listBannerRequestsByStatus, status)
	if err != nil {
		return nil, err
	}
	return collectBannerRequests(rows)
}

const listActiveBanners = `SELECT title, description FROM banner_requests
WHERE status = 'approved' AND start_date <= $1 AND end_date > $1
ORDER BY created_at DESC`

func (q *Queries) ListActiveBanners(ctx context.Context, now pgtype.Timestamptz) ([]ActiveBanner, error) {
	rows, err := q.db.Query(ctx, listActiveBanners, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ActiveBanner{}
	for rows.Next() {
		var i ActiveBanner
		if err := rows.Scan(&i.Title, &i.Description); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const approveBannerRequest = `UPDATE banner_requests
SET status = 'approved',
    admin_notes = $2,
    reviewed_by = $3,
    reviewed_at = $4,
    start_date = $5,
    end_date = $6,
    updated_at = $4
WHERE id = $1
RETURNING ` + bannerRequestColumns

type ApproveBannerRequestParams struct {
	ID         pgtype.UUID
	AdminNotes pgtype.Text
	ReviewedBy pgtype.UUID
	ReviewedAt pgtype.Timestamptz
	StartDate  pgtype.Timestamptz
	EndDate    pgtype.Timestamptz
}

func (q *Queries) ApproveBannerRequest(ctx context.Context, arg ApproveBannerRequestParams) (BannerRequest, error) {
	row := q.db.QueryRow(ctx, approveBannerRequest,
		arg.ID,
		arg.AdminNotes,
		arg.ReviewedBy,
		arg.ReviewedAt,
		arg.StartDate,
		arg.EndDate,
	)
	return scanBannerRequest(row)
}

const rejectBannerRequest = `UPDATE banner_requests
SET status = 'rejected',
    admin_notes = $2,
    reviewed_by = $3,
    reviewed_at = $4,
    updated_at = $4
WHERE id = $1
RETURNING ` + bannerRequestColumns

type RejectBannerRequestParams struct {
	ID         pgtype.UUID
	AdminNotes pgtype.Text
	ReviewedBy pgtype.UUID
	ReviewedAt pgtype.Timestamptz
}

func (q *Queries) RejectBannerRequest(ctx context.Context, arg RejectBannerRequestParams) (BannerRequest, error) {
	row := q.db.QueryRow(ctx, rejectBannerRequest,
		arg.ID,
		arg.AdminNotes,
		arg.ReviewedBy,
		arg.ReviewedAt,
	)
	return scanBannerRequest(row)
}

const deleteBannerRequest = `DELETE FROM banner_requests WHERE id = $1`

func (q *Queries) DeleteBannerRequest(ctx context.Context, id pgtype.UUID) error {
	_, err := q.db.Exec(ctx, deleteBannerRequest, id)
	return err
}

const expireBannerRequests = `UPDATE banner_requests
SET status = 'expired', updated_at = $1
WHERE status = 'approved' AND end_date <= $1
RETURNING ` + bannerRequestColumns

func (q *Queries) ExpireBannerRequests(ctx context.Context, now pgtype.Timestamptz) ([]BannerRequest, error) {
	rows, err := q.db.Query(ctx, expireBannerRequests, now)
	if err != nil {
		return nil, err
	}
	return collectBannerRequests(rows)
}
