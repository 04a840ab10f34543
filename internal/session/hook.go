// Package session reacts to sign-ins: overdue reminders are flushed once per
// session and the outcome lands in the user's toast queue.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Hossain-Anas/UniVerse/internal/reminder"
	"github.com/Hossain-Anas/UniVerse/internal/toast"
	"github.com/Hossain-Anas/UniVerse/internal/zlog"
)

type ReminderRunner interface {
	Process(ctx context.Context) (reminder.Result, error)
}

type SignInHook struct {
	runner ReminderRunner
	board  *toast.Board
	redis  *redis.Client
	ttl    time.Duration

	mu   sync.Mutex
	seen map[string]time.Time
}

// NewSignInHook remembers handled sessions for ttl, in Redis when a client
// is given and in process memory otherwise.
func NewSignInHook(runner ReminderRunner, board *toast.Board, redisClient *redis.Client, ttl time.Duration) *SignInHook {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SignInHook{
		runner: runner,
		board:  board,
		redis:  redisClient,
		ttl:    ttl,
		seen:   make(map[string]time.Time),
	}
}

// SignedIn runs reminder processing for the first call with sessionID.
// ran is false when the session was already handled.
func (h *SignInHook) SignedIn(ctx context.Context, userID, sessionID string) (result reminder.Result, ran bool, err error) {
	if !h.claim(ctx, sessionID) {
		return reminder.Result{}, false, nil
	}

	result, err = h.runner.Process(ctx)
	if err != nil {
		zlog.Warn("sign-in reminder processing failed", zap.String("user_id", userID), zap.Error(err))
		return reminder.Result{}, true, err
	}
	if result.Processed > 0 && h.board != nil {
		h.board.Push(userID, toast.Toast{
			Title:   "Processed overdue reminders",
			Message: fmt.Sprintf("Delivered %d pending reminder(s)", result.Processed),
			Type:    "general",
		})
	}
	return result, true, nil
}

func (h *SignInHook) claim(ctx context.Context, sessionID string) bool {
	if sessionID == "" {
		return true
	}
	if h.redis != nil {
		ok, err := h.redis.SetNX(ctx, signedInKey(sessionID), "1", h.ttl).Result()
		if err == nil {
			return ok
		}
		zlog.Warn("sign-in marker write failed", zap.String("session_id", sessionID), zap.Error(err))
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	now := time.Now()
	for id, until := range h.seen {
		if now.After(until) {
			delete(h.seen, id)
		}
	}
	if _, ok := h.seen[sessionID]; ok {
		return false
	}
	h.seen[sessionID] = now.Add(h.ttl)
	return true
}

func signedInKey(sessionID string) string {
	return fmt.Sprintf("signed_in:%s", sessionID)
}
