package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RemindersProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "universe_reminders_processed_total",
		Help: "Event reminders turned into notifications.",
	})
	ReminderErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "universe_reminder_errors_total",
		Help: "Event reminders that failed to deliver.",
	})
	BannerTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "universe_banner_transitions_total",
		Help: "Banner request status transitions.",
	}, []string{"status"})
	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "universe_notifications_created_total",
		Help: "Notifications created, by type.",
	}, []string{"type"})
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "universe_events_published_total",
		Help: "Domain events forwarded to the broker.",
	}, []string{"topic", "result"})
	JobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "universe_job_runs_total",
		Help: "Scheduled job runs, by job and result.",
	}, []string{"job", "result"})
	PushConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "universe_push_connections",
		Help: "Open websocket push connections.",
	})
)
