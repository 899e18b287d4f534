package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"contact_relay/internal/entities"
	"contact_relay/internal/metrics"
)

const (
	endpointUpdateStatus = "/api/telegram/update-status"
	endpointAddNote      = "/api/telegram/add-note"
	endpointSetReminder  = "/api/telegram/set-reminder"
	endpointDueReminders = "/api/telegram/due-reminders"
	endpointMarkSent     = "/api/telegram/mark-reminder-sent"

	maxErrorBody = 512
)

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend %s: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// BackendClient calls the website backend's bot API. Every call is bounded
// by timeout and is attempted exactly once.
type BackendClient struct {
	baseURL    string
	secret     string
	timeout    time.Duration
	httpClient *http.Client
	metrics    *metrics.RelayMetrics
}

func NewBackendClient(baseURL, secret string, timeout time.Duration, m *metrics.RelayMetrics) *BackendClient {
	return &BackendClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		secret:     secret,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    m,
	}
}

func (b *BackendClient) UpdateStatus(ctx context.Context, contactID int64, status string) error {
	return b.post(ctx, endpointUpdateStatus, map[string]any{
		"contact_id": contactID,
		"status":     status,
	})
}

func (b *BackendClient) AddNote(ctx context.Context, contactID int64, text, author string) error {
	return b.post(ctx, endpointAddNote, map[string]any{
		"contact_id": contactID,
		"text":       text,
		"author":     author,
	})
}

// SetReminder schedules a reminder; remindAt uses the "2006-01-02 15:04" layout.
func (b *BackendClient) SetReminder(ctx context.Context, contactID int64, remindAt string) error {
	return b.post(ctx, endpointSetReminder, map[string]any{
		"contact_id": contactID,
		"remind_at":  remindAt,
	})
}

func (b *BackendClient) MarkReminderSent(ctx context.Context, contactID int64) error {
	return b.post(ctx, endpointMarkSent, map[string]any{"contact_id": contactID})
}

func (b *BackendClient) DueReminders(ctx context.Context) ([]entities.ReminderRecord, error) {
	var out struct {
		Reminders []entities.ReminderRecord `json:"reminders"`
	}
	if err := b.do(ctx, http.MethodGet, endpointDueReminders, nil, &out); err != nil {
		return nil, err
	}
	return out.Reminders, nil
}

func (b *BackendClient) post(ctx context.Context, endpoint string, payload any) error {
	return b.do(ctx, http.MethodPost, endpoint, payload, nil)
}

func (b *BackendClient) do(ctx context.Context, method, endpoint string, payload, out any) (err error) {
	defer func() { b.metrics.ObserveBackend(strings.TrimPrefix(endpoint, "/api/telegram/"), err) }()

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("backend %s: encode: %w", endpoint, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("backend %s: build request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if b.secret != "" {
		req.Header.Set("X-Telegram-Token", b.secret)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("backend %s: decode: %w", endpoint, err)
		}
	}
	return nil
}
