package clients

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Hossain-Anas/UniVerse/internal/reminder"
)

const TriggerTokenHeader = "X-Reminder-Token"

// Trigger calls POST /api/process-reminders on a running portal.
type Trigger struct {
	client *resty.Client
}

func NewTrigger(baseURL, token string, timeout time.Duration) *Trigger {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("Accept", "application/json")
	if token != "" {
		client.SetHeader(TriggerTokenHeader, token)
	}
	return &Trigger{client: client}
}

type errorBody struct {
	Error string `json:"error"`
}

func (t *Trigger) ProcessReminders(ctx context.Context) (reminder.Result, error) {
	var result reminder.Result
	var failure errorBody
	resp, err := t.client.R().
		SetContext(ctx).
		SetResult(&result).
		SetError(&failure).
		Post("/api/process-reminders")
	if err != nil {
		return reminder.Result{}, fmt.Errorf("trigger request failed: %w", err)
	}
	if resp.IsError() {
		if failure.Error != "" {
			return reminder.Result{}, fmt.Errorf("trigger rejected (%d): %s", resp.StatusCode(), failure.Error)
		}
		return reminder.Result{}, fmt.Errorf("trigger rejected (%d)", resp.StatusCode())
	}
	if result.Errors == nil {
		result.Errors = []string{}
	}
	return result, nil
}
