package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hossain-Anas/UniVerse/internal/config"
	"github.com/Hossain-Anas/UniVerse/internal/reminder"
)

type countingRunner struct {
	calls atomic.Int32
	err   error
}

func (c *countingRunner) Process(ctx context.Context) (reminder.Result, error) {
	c.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return reminder.Result{}, errors.New("expected a deadline")
	}
	return reminder.Result{Processed: 1, Errors: []string{}}, c.err
}

type countingExpirer struct {
	calls atomic.Int32
}

func (c *countingExpirer) ExpireDue(context.Context) (int, error) {
	c.calls.Add(1)
	return 2, nil
}

func TestSchedulerRunsBothJobs(t *testing.T) {
	runner := &countingRunner{}
	expirer := &countingExpirer{}
	cfg := config.Config{
		ReminderJobEnabled: true,
		ReminderJobSpec:    "@every 1s",
		ReminderJobTimeout: time.Second,
		ExpirySweepSpec:    "@every 1s",
	}
	s, err := NewScheduler(context.Background(), cfg, runner, expirer)
	require.NoError(t, err)
	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return runner.calls.Load() > 0 && expirer.calls.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)
}

func TestSchedulerSkipsDisabledReminderJob(t *testing.T) {
	runner := &countingRunner{}
	cfg := config.Config{ReminderJobEnabled: false, ReminderJobSpec: "@every 1s"}
	s, err := NewScheduler(context.Background(), cfg, runner, nil)
	require.NoError(t, err)
	assert.Empty(t, s.cron.Entries())
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	cfg := config.Config{ReminderJobEnabled: true, ReminderJobSpec: "every now and then"}
	_, err := NewScheduler(context.Background(), cfg, &countingRunner{}, nil)
	assert.Error(t, err)
}

func TestRunRemindersSurvivesFailure(t *testing.T) {
	runner := &countingRunner{err: errors.New("db down")}
	s, err := NewScheduler(context.Background(), config.Config{}, runner, nil)
	require.NoError(t, err)
	s.runReminders(runner)
	assert.Equal(t, int32(1), runner.calls.Load())
}
