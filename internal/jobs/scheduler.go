// Package jobs runs the periodic maintenance work: delivering due event
// reminders and expiring banners whose window has closed.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Hossain-Anas/UniVerse/internal/config"
	"github.com/Hossain-Anas/UniVerse/internal/metrics"
	"github.com/Hossain-Anas/UniVerse/internal/reminder"
	"github.com/Hossain-Anas/UniVerse/internal/zlog"
)

const (
	reminderJob = "reminders"
	expiryJob   = "banner_expiry"
)

type ReminderRunner interface {
	Process(ctx context.Context) (reminder.Result, error)
}

type BannerExpirer interface {
	ExpireDue(ctx context.Context) (int, error)
}

type Scheduler struct {
	cron    *cron.Cron
	ctx     context.Context
	timeout time.Duration
}

// NewScheduler registers the reminder job (when enabled) and the expiry
// sweep. Overlapping runs of the same job are skipped.
func NewScheduler(ctx context.Context, cfg config.Config, reminders ReminderRunner, banners BannerExpirer) (*Scheduler, error) {
	logger := cronLogger{}
	timeout := cfg.ReminderJobTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	s := &Scheduler{
		cron:    cron.New(cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger))),
		ctx:     ctx,
		timeout: timeout,
	}

	if cfg.ReminderJobEnabled && reminders != nil {
		if _, err := s.cron.AddFunc(cfg.ReminderJobSpec, func() { s.runReminders(reminders) }); err != nil {
			return nil, err
		}
	}
	if cfg.ExpirySweepSpec != "" && banners != nil {
		if _, err := s.cron.AddFunc(cfg.ExpirySweepSpec, func() { s.runExpiry(banners) }); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	zlog.Info("job scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop prevents new runs; the returned context is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) runReminders(reminders ReminderRunner) {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()
	result, err := reminders.Process(ctx)
	if err != nil {
		metrics.JobRuns.WithLabelValues(reminderJob, "error").Inc()
		zlog.Error("reminder job failed", zap.Error(err))
		return
	}
	metrics.JobRuns.WithLabelValues(reminderJob, "ok").Inc()
	if result.Processed > 0 || len(result.Errors) > 0 {
		zlog.Info("reminder job delivered reminders",
			zap.Int("processed", result.Processed),
			zap.Strings("errors", result.Errors),
		)
	}
}

func (s *Scheduler) runExpiry(banners BannerExpirer) {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()
	n, err := banners.ExpireDue(ctx)
	if err != nil {
		metrics.JobRuns.WithLabelValues(expiryJob, "error").Inc()
		zlog.Error("banner expiry sweep failed", zap.Error(err))
		return
	}
	metrics.JobRuns.WithLabelValues(expiryJob, "ok").Inc()
	if n > 0 {
		zlog.Info("banner expiry sweep", zap.Int("expired", n))
	}
}

// cronLogger routes cron's own messages through zlog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	zlog.L().Sugar().Debugw(msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	zlog.L().Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
