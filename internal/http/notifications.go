package http

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Hossain-Anas/UniVerse/internal/notification"
	"github.com/Hossain-Anas/UniVerse/internal/zlog"
)

// handleListNotifications flushes overdue reminders first so the inbox is
// current. A flush failure is logged and the listing still goes out.
func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if result, err := s.reminders.Process(r.Context()); err != nil {
		zlog.Warn("overdue reminder processing failed", zap.String("user_id", claims.UserID()), zap.Error(err))
	} else if result.Processed > 0 {
		zlog.Info("overdue reminders processed on inbox load", zap.Int("processed", result.Processed))
	}

	items, err := s.notifications.List(r.Context(), claims.UserID())
	if err != nil {
		zlog.Error("list notifications failed", zap.String("user_id", claims.UserID()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch notifications")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"notifications": mapNotifications(items)})
}

func (s *Server) handleUnreadNotifications(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	items, err := s.notifications.Unread(r.Context(), claims.UserID())
	if err != nil {
		zlog.Error("list unread notifications failed", zap.String("user_id", claims.UserID()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to fetch unread notifications")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"notifications": mapNotifications(items)})
}

func (s *Server) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	count, err := s.notifications.CountUnread(r.Context(), claims.UserID())
	if err != nil {
		zlog.Error("count unread notifications failed", zap.String("user_id", claims.UserID()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to get unread count")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": count})
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	id := formValue(r, "notificationId")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Notification ID is required")
		return
	}
	updated, err := s.notifications.MarkRead(r.Context(), claims.UserID(), id)
	if err != nil {
		if errors.Is(err, notification.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Notification not found")
			return
		}
		zlog.Error("mark notification read failed", zap.String("notification_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to mark notification as read")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": mapNotification(updated)})
}

func (s *Server) handleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	updated, err := s.notifications.MarkAllRead(r.Context(), claims.UserID())
	if err != nil {
		zlog.Error("mark all notifications read failed", zap.String("user_id", claims.UserID()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to mark all notifications as read")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "updated": updated})
}

func (s *Server) handleDeleteNotification(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	id := formValue(r, "notificationId")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Notification ID is required")
		return
	}
	if err := s.notifications.Delete(r.Context(), claims.UserID(), id); err != nil {
		zlog.Error("delete notification failed", zap.String("notification_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to delete notification")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleProcessOverdue(w http.ResponseWriter, r *http.Request) {
	result, err := s.reminders.Process(r.Context())
	if err != nil {
		zlog.Error("process overdue reminders failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": result})
}
