package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTriggerSendsTokenAndDecodesResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/process-reminders", r.URL.Path)
		assert.Equal(t, "s3cret", r.Header.Get(TriggerTokenHeader))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"processed":3,"errors":["reminder x: boom"]}`))
	}))
	defer srv.Close()

	result, err := NewTrigger(srv.URL, "s3cret", time.Second).ProcessReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Processed)
	assert.Equal(t, []string{"reminder x: boom"}, result.Errors)
}

func TestTriggerSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"invalid_trigger_token"}`))
	}))
	defer srv.Close()

	_, err := NewTrigger(srv.URL, "wrong", time.Second).ProcessReminders(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_trigger_token")
	assert.Contains(t, err.Error(), "403")
}

func TestNewCommandsRequiresToken(t *testing.T) {
	_, err := NewCommands(context.Background(), "127.0.0.1:1", "", time.Second)
	assert.Error(t, err)
}
