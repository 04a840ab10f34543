package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hossain-Anas/UniVerse/internal/events"
	"github.com/Hossain-Anas/UniVerse/internal/reminder"
	"github.com/Hossain-Anas/UniVerse/internal/toast"
)

type countingRunner struct {
	calls  int
	result reminder.Result
	err    error
}

func (c *countingRunner) Process(context.Context) (reminder.Result, error) {
	c.calls++
	return c.result, c.err
}

func TestSignedInRunsOncePerSessionWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	runner := &countingRunner{result: reminder.Result{Processed: 2, Errors: []string{}}}
	board := toast.NewBoard(5, time.Minute, nil)
	hook := NewSignInHook(runner, board, client, time.Hour)

	result, ran, err := hook.SignedIn(context.Background(), "user-1", "sid-1")
	require.NoError(t, err)
	assert.True(t, ran)
	assert.Equal(t, 2, result.Processed)

	_, ran, err = hook.SignedIn(context.Background(), "user-1", "sid-1")
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Equal(t, 1, runner.calls)
	assert.True(t, mr.Exists("signed_in:sid-1"))

	items := board.Items("user-1")
	require.Len(t, items, 1)
	assert.Equal(t, "Processed overdue reminders", items[0].Title)
	assert.Equal(t, "Delivered 2 pending reminder(s)", items[0].Message)
	assert.Equal(t, "general", items[0].Type)

	_, ran, _ = hook.SignedIn(context.Background(), "user-1", "sid-2")
	assert.True(t, ran)
	assert.Equal(t, 2, runner.calls)
}

func TestSignedInWithoutRedisAndNothingDue(t *testing.T) {
	runner := &countingRunner{result: reminder.Result{Errors: []string{}}}
	board := toast.NewBoard(5, time.Minute, nil)
	hook := NewSignInHook(runner, board, nil, time.Hour)

	_, ran, err := hook.SignedIn(context.Background(), "user-1", "sid-1")
	require.NoError(t, err)
	assert.True(t, ran)
	_, ran, _ = hook.SignedIn(context.Background(), "user-1", "sid-1")
	assert.False(t, ran)
	assert.Empty(t, board.Items("user-1"), "no toast when nothing was delivered")
}

func TestSignedInReportsProcessorFailure(t *testing.T) {
	runner := &countingRunner{err: errors.New("db down")}
	hook := NewSignInHook(runner, nil, nil, time.Hour)

	_, ran, err := hook.SignedIn(context.Background(), "user-1", "sid-1")
	assert.True(t, ran)
	assert.Error(t, err)
}

func TestNotificationsBecomeToasts(t *testing.T) {
	bus := events.NewBus()
	board := toast.NewBoard(5, time.Minute, nil)
	SubscribeToasts(bus, board)

	bus.Publish(context.Background(), events.Event{
		Topic:   events.TopicNotificationCreated,
		Payload: events.NotificationPayload{UserID: "user-9", Title: "Event Reminder: Fest", Message: "soon", Type: "event"},
	})

	items := board.Items("user-9")
	require.Len(t, items, 1)
	assert.Equal(t, "Event Reminder: Fest", items[0].Title)
}
