package http

import (
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/Hossain-Anas/UniVerse/internal/banner"
	"github.com/Hossain-Anas/UniVerse/internal/zlog"
)

func (s *Server) handleCreateBannerRequest(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "You must be logged in to request advertisements")
		return
	}

	// Unparseable durations become 0 and fail the range check.
	durationValue, _ := strconv.Atoi(formValue(r, "duration_value"))
	in := banner.CreateInput{
		Title:         r.PostFormValue("title"),
		Description:   r.PostFormValue("description"),
		ImageURL:      formValue(r, "image_url"),
		TargetURL:     formValue(r, "target_url"),
		DurationType:  formValue(r, "duration_type"),
		DurationValue: durationValue,
		ScheduleType:  formValue(r, "schedule_type"),
		ScheduledDate: formValue(r, "scheduled_date"),
		ScheduledTime: formValue(r, "scheduled_time"),
	}
	if in.ScheduleType != "scheduled" {
		in.ScheduledDate, in.ScheduledTime = "", ""
	}

	created, err := s.banners.Create(r.Context(), claims.UserID(), in)
	if err != nil {
		var verr *banner.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Message)
			return
		}
		zlog.Error("create banner request failed", zap.String("user_id", claims.UserID()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to create banner request")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    mapBannerRequest(created),
	})
}

func (s *Server) handleListBannerRequests(w http.ResponseWriter, r *http.Request) {
	pending, err := s.banners.ListPending(r.Context())
	if err != nil {
		zlog.Error("list pending banner requests failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to load banner requests")
		return
	}
	all, err := s.banners.List(r.Context())
	if err != nil {
		zlog.Error("list banner requests failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to load banner requests")
		return
	}
	writeJSON(w, http.StatusOK, bannerListResponse{
		PendingRequests: mapBannerRequests(pending),
		AllRequests:     mapBannerRequests(all),
	})
}

func (s *Server) handleApproveBannerRequest(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	requestID := formValue(r, "requestId")

	updated, err := s.banners.Approve(r.Context(), requestID, claims.UserID(), formValue(r, "adminNotes"))
	if err != nil {
		if errors.Is(err, banner.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Banner request not found")
			return
		}
		zlog.Error("approve banner request failed", zap.String("request_id", requestID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to approve banner request")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": "Banner request approved successfully",
		"data":    mapBannerRequest(updated),
	})
}

func (s *Server) handleRejectBannerRequest(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	requestID := formValue(r, "requestId")
	notes := formValue(r, "adminNotes")
	if notes == "" {
		writeError(w, http.StatusBadRequest, "Admin notes are required for rejection")
		return
	}

	updated, err := s.banners.Reject(r.Context(), requestID, claims.UserID(), notes)
	if err != nil {
		if errors.Is(err, banner.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Banner request not found")
			return
		}
		zlog.Error("reject banner request failed", zap.String("request_id", requestID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to reject banner request")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": "Banner request rejected successfully",
		"data":    mapBannerRequest(updated),
	})
}

func (s *Server) handleDeleteBannerRequest(w http.ResponseWriter, r *http.Request) {
	requestID := formValue(r, "requestId")
	if err := s.banners.Delete(r.Context(), requestID); err != nil {
		zlog.Error("delete banner request failed", zap.String("request_id", requestID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to delete banner request")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"success": "Banner request deleted successfully"})
}

func (s *Server) handleActiveBanners(w http.ResponseWriter, r *http.Request) {
	active, err := s.banners.Active(r.Context())
	if err != nil {
		zlog.Error("active banners failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to load active banners")
		return
	}
	resp := make([]activeBannerResponse, 0, len(active))
	for _, b := range active {
		resp = append(resp, activeBannerResponse{Title: b.Title, Description: b.Description.String})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": resp})
}
