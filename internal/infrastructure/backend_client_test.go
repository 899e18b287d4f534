package infrastructure

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method string
	path   string
	token  string
	body   map[string]any
}

func newBackend(t *testing.T, status int, response string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var reqs []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{method: r.Method, path: r.URL.Path, token: r.Header.Get("X-Telegram-Token")}
		if r.Body != nil && r.Method == http.MethodPost {
			_ = json.NewDecoder(r.Body).Decode(&rec.body)
		}
		reqs = append(reqs, rec)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, &reqs
}

func TestBackendClientPosts(t *testing.T) {
	srv, reqs := newBackend(t, http.StatusOK, `{"success":true}`)
	client := NewBackendClient(srv.URL+"/", "s3cret", time.Second, nil)
	ctx := context.Background()

	require.NoError(t, client.UpdateStatus(ctx, 7, "processed"))
	require.NoError(t, client.AddNote(ctx, 7, "Processed", "Telegram Bot"))
	require.NoError(t, client.SetReminder(ctx, 7, "2024-03-11 09:00"))
	require.NoError(t, client.MarkReminderSent(ctx, 7))

	require.Len(t, *reqs, 4)
	got := *reqs
	assert.Equal(t, "/api/telegram/update-status", got[0].path)
	assert.Equal(t, map[string]any{"contact_id": float64(7), "status": "processed"}, got[0].body)
	assert.Equal(t, "/api/telegram/add-note", got[1].path)
	assert.Equal(t, "Telegram Bot", got[1].body["author"])
	assert.Equal(t, "/api/telegram/set-reminder", got[2].path)
	assert.Equal(t, "2024-03-11 09:00", got[2].body["remind_at"])
	assert.Equal(t, "/api/telegram/mark-reminder-sent", got[3].path)
	for _, r := range got {
		assert.Equal(t, http.MethodPost, r.method)
		assert.Equal(t, "s3cret", r.token)
	}
}

func TestBackendClientDueReminders(t *testing.T) {
	srv, reqs := newBackend(t, http.StatusOK, `{"reminders":[
		{"contact_id":3,"name":"Ann","phone":"+100","company":"Acme","remind_at":"11.03.2024 09:00"},
		{"contact_id":4,"name":"Bob","phone":"+200","remind_at":"11.03.2024 09:00"}]}`)
	client := NewBackendClient(srv.URL, "", time.Second, nil)

	reminders, err := client.DueReminders(context.Background())
	require.NoError(t, err)
	require.Len(t, reminders, 2)
	assert.Equal(t, int64(3), reminders[0].ContactID)
	assert.Equal(t, "Acme", reminders[0].Company)
	assert.Equal(t, "Bob", reminders[1].Name)
	assert.Equal(t, http.MethodGet, (*reqs)[0].method)
	assert.Empty(t, (*reqs)[0].token)
}

func TestBackendClientNon2xx(t *testing.T) {
	srv, _ := newBackend(t, http.StatusInternalServerError, `{"error":"db down"}`)
	client := NewBackendClient(srv.URL, "", time.Second, nil)

	err := client.UpdateStatus(context.Background(), 1, "processed")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Contains(t, se.Body, "db down")
}

func TestBackendClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	client := NewBackendClient(srv.URL, "", 50*time.Millisecond, nil)

	start := time.Now()
	_, err := client.DueReminders(context.Background())
	require.Error(t, err)
	assert.Less(t, time.Since(start), 900*time.Millisecond)
}
