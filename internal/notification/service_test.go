package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hossain-Anas/UniVerse/internal/db"
	"github.com/Hossain-Anas/UniVerse/internal/events"
)

type fakeQueries struct {
	mu    sync.Mutex
	items []db.Notification
	err   error
}

func (f *fakeQueries) ListNotificationsByUser(_ context.Context, userID pgtype.UUID) ([]db.Notification, error) {
	return f.filter(userID, false)
}

func (f *fakeQueries) ListUnreadNotificationsByUser(_ context.Context, userID pgtype.UUID) ([]db.Notification, error) {
	return f.filter(userID, true)
}

func (f *fakeQueries) filter(userID pgtype.UUID, unreadOnly bool) ([]db.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []db.Notification{}
	for i := len(f.items) - 1; i >= 0; i-- {
		n := f.items[i]
		if n.UserID != userID || (unreadOnly && n.IsRead) {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (f *fakeQueries) CreateNotification(_ context.Context, arg db.CreateNotificationParams) (db.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return db.Notification{}, f.err
	}
	n := db.Notification{
		ID:        pgtype.UUID{Bytes: uuid.New(), Valid: true},
		UserID:    arg.UserID,
		Title:     arg.Title,
		Message:   arg.Message,
		Type:      arg.Type,
		ActionUrl: arg.ActionUrl,
		ExpiresAt: arg.ExpiresAt,
		CreatedAt: db.Time(time.Now()),
	}
	f.items = append(f.items, n)
	return n, nil
}

func (f *fakeQueries) MarkNotificationRead(_ context.Context, arg db.MarkNotificationReadParams) (db.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == arg.ID && f.items[i].UserID == arg.UserID {
			f.items[i].IsRead = true
			return f.items[i], nil
		}
	}
	return db.Notification{}, pgx.ErrNoRows
}

func (f *fakeQueries) MarkAllNotificationsRead(_ context.Context, userID pgtype.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for i := range f.items {
		if f.items[i].UserID == userID && !f.items[i].IsRead {
			f.items[i].IsRead = true
			n++
		}
	}
	return n, nil
}

func (f *fakeQueries) DeleteNotification(_ context.Context, arg db.DeleteNotificationParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.items[:0]
	for _, n := range f.items {
		if n.ID == arg.ID && n.UserID == arg.UserID {
			continue
		}
		kept = append(kept, n)
	}
	f.items = kept
	return nil
}

func (f *fakeQueries) CountUnreadNotifications(_ context.Context, userID pgtype.UUID) (int64, error) {
	items, err := f.filter(userID, true)
	return int64(len(items)), err
}

const (
	alice = "11111111-1111-1111-1111-111111111111"
	bob   = "22222222-2222-2222-2222-222222222222"
)

func TestCreatePublishesAndDefaultsType(t *testing.T) {
	bus := events.NewBus()
	var seen []events.NotificationPayload
	bus.Subscribe(events.TopicNotificationCreated, "test", func(_ context.Context, e events.Event) error {
		seen = append(seen, e.Payload.(events.NotificationPayload))
		return nil
	})
	svc := NewService(&fakeQueries{}, bus)

	created, err := svc.Create(context.Background(), alice, CreateInput{
		Title:   "Hello",
		Message: "World",
		Type:    "carrier_pigeon",
	})
	require.NoError(t, err)
	assert.Equal(t, db.NotificationTypeGeneral, created.Type)
	assert.False(t, created.ActionUrl.Valid)

	require.Len(t, seen, 1)
	assert.Equal(t, alice, seen[0].UserID)
	assert.Equal(t, "general", seen[0].Type)
}

func TestMarkReadIsOwnerScoped(t *testing.T) {
	q := &fakeQueries{}
	svc := NewService(q, nil)
	ctx := context.Background()

	n, err := svc.Create(ctx, alice, CreateInput{Title: "t", Message: "m", Type: db.NotificationTypeEvent})
	require.NoError(t, err)
	id := db.UUIDString(n.ID)

	_, err = svc.MarkRead(ctx, bob, id)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.MarkRead(ctx, alice, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := svc.MarkRead(ctx, alice, id)
	require.NoError(t, err)
	assert.True(t, updated.IsRead)

	count, err := svc.CountUnread(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestUnreadAndMarkAll(t *testing.T) {
	q := &fakeQueries{}
	svc := NewService(q, nil)
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c"} {
		_, err := svc.Create(ctx, alice, CreateInput{Title: title, Message: title})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, bob, CreateInput{Title: "other", Message: "other"})
	require.NoError(t, err)

	unread, err := svc.Unread(ctx, alice)
	require.NoError(t, err)
	require.Len(t, unread, 3)
	assert.Equal(t, "c", unread[0].Title)

	updated, err := svc.MarkAllRead(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated)

	count, err := svc.CountUnread(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestDeleteLeavesOtherUsersAlone(t *testing.T) {
	q := &fakeQueries{}
	svc := NewService(q, nil)
	ctx := context.Background()

	n, err := svc.Create(ctx, alice, CreateInput{Title: "t", Message: "m"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, bob, db.UUIDString(n.ID)))
	items, _ := svc.List(ctx, alice)
	assert.Len(t, items, 1)

	require.NoError(t, svc.Delete(ctx, alice, db.UUIDString(n.ID)))
	items, _ = svc.List(ctx, alice)
	assert.Empty(t, items)
}

func TestStoreFailuresAreWrapped(t *testing.T) {
	boom := errors.New("connection reset")
	svc := NewService(&fakeQueries{err: boom}, nil)

	_, err := svc.List(context.Background(), alice)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failed to fetch notifications")

	_, err = svc.List(context.Background(), "bogus")
	assert.Contains(t, err.Error(), "invalid user id")
}
