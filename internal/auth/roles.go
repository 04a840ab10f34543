package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Hossain-Anas/UniVerse/internal/zlog"
)

const RoleAdmin = "admin"

type RoleLookup interface {
	GetUserRole(ctx context.Context, userID pgtype.UUID) (pgtype.Text, error)
}

// Roles resolves get_user_role with an optional Redis read-through cache.
type Roles struct {
	lookup RoleLookup
	redis  *redis.Client
	ttl    time.Duration
}

func NewRoles(lookup RoleLookup, redisClient *redis.Client, ttl time.Duration) *Roles {
	return &Roles{lookup: lookup, redis: redisClient, ttl: ttl}
}

func (r *Roles) Role(ctx context.Context, userID string) (string, error) {
	parsed, err := uuid.Parse(userID)
	if err != nil {
		return "", fmt.Errorf("invalid user id: %w", err)
	}

	if r.redis != nil && r.ttl > 0 {
		cached, err := r.redis.Get(ctx, roleKey(userID)).Result()
		switch {
		case err == nil:
			return cached, nil
		case !errors.Is(err, redis.Nil):
			zlog.Warn("role cache read failed", zap.String("user_id", userID), zap.Error(err))
		}
	}

	role, err := r.lookup.GetUserRole(ctx, pgtype.UUID{Bytes: parsed, Valid: true})
	if err != nil {
		return "", err
	}
	if !role.Valid {
		return "", nil
	}

	if r.redis != nil && r.ttl > 0 {
		if err := r.redis.Set(ctx, roleKey(userID), role.String, r.ttl).Err(); err != nil {
			zlog.Warn("role cache write failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return role.String, nil
}

func (r *Roles) IsAdmin(ctx context.Context, userID string) (bool, error) {
	role, err := r.Role(ctx, userID)
	if err != nil {
		return false, err
	}
	return role == RoleAdmin, nil
}

func roleKey(userID string) string {
	return fmt.Sprintf("user_role:%s", userID)
}
