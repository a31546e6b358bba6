// Package notify delivers ineligibility and invalid-data events raised when a
// claim is blocked. Delivery is fire-and-forget for the caller: errors are
// returned so the host can log them, never to change the journey.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/util"
)

// Notifier receives blocked-claim events
type Notifier interface {
	SendIneligibilityEvent(ctx context.Context, event IneligibilityEvent) error
	SendInvalidDataEvent(ctx context.Context, event InvalidDataEvent) error
}

// IneligibilityEvent records a claim blocked by a timing, species or herd rule
type IneligibilityEvent struct {
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurredAt"`
	SBI        string    `json:"sbi"`
	CRN        string    `json:"crn,omitempty"`
	Reference  string    `json:"reference"`
	Page       string    `json:"page"`
	Code       string    `json:"code"`
	Exception  string    `json:"exception"`
}

// InvalidDataEvent records an answer that makes the claim invalid
type InvalidDataEvent struct {
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurredAt"`
	SessionKey string    `json:"sessionKey"`
	Reference  string    `json:"reference"`
	Page       string    `json:"page"`
	Code       string    `json:"code"`
	Exception  string    `json:"exception"`
	Field      string    `json:"field,omitempty"`
	Value      string    `json:"value,omitempty"`
}

type envelope struct {
	Type  string `json:"type"`
	Event any    `json:"event"`
}

// HTTPNotifier posts events as JSON to an events endpoint
type HTTPNotifier struct {
	url        string
	httpClient *http.Client
	now        func() time.Time
}

// NewHTTPNotifier creates a notifier posting to url through the configured proxy
func NewHTTPNotifier(url string, timeout time.Duration, backend model.BackendConfig) *HTTPNotifier {
	return &HTTPNotifier{
		url: url,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: util.NewTransport(backend.HTTPProxy, backend.HTTPSProxy, backend.NoProxy),
		},
		now: time.Now,
	}
}

// SendIneligibilityEvent posts an ineligibility event
func (n *HTTPNotifier) SendIneligibilityEvent(ctx context.Context, event IneligibilityEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = n.now().UTC()
	}
	return n.post(ctx, envelope{Type: "ineligibility", Event: event})
}

// SendInvalidDataEvent posts an invalid-data event
func (n *HTTPNotifier) SendInvalidDataEvent(ctx context.Context, event InvalidDataEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = n.now().UTC()
	}
	return n.post(ctx, envelope{Type: "invalid-data", Event: event})
}

func (n *HTTPNotifier) post(ctx context.Context, body envelope) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", body.Type, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send %s event: %w", body.Type, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("send %s event: status %d: %s", body.Type, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}

// LogNotifier writes events to a structured logger
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier that only logs
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendIneligibilityEvent(ctx context.Context, event IneligibilityEvent) error {
	n.logger.InfoContext(ctx, "claim ineligible",
		"sbi", event.SBI,
		"crn", event.CRN,
		"reference", event.Reference,
		"page", event.Page,
		"code", event.Code,
		"exception", event.Exception,
	)
	return nil
}

func (n *LogNotifier) SendInvalidDataEvent(ctx context.Context, event InvalidDataEvent) error {
	n.logger.InfoContext(ctx, "claim data invalid",
		"session", event.SessionKey,
		"reference", event.Reference,
		"page", event.Page,
		"code", event.Code,
		"exception", event.Exception,
		"field", event.Field,
		"value", event.Value,
	)
	return nil
}

// New picks the HTTP notifier when an events URL is configured, otherwise the log notifier
func New(cfg model.Config, logger *slog.Logger) Notifier {
	if cfg.Events.URL == "" {
		return NewLogNotifier(logger)
	}
	return NewHTTPNotifier(cfg.Events.URL, cfg.Events.Timeout, cfg.Backend)
}

// Recorder keeps events in memory, for tests and dry runs
type Recorder struct {
	Ineligibility []IneligibilityEvent
	InvalidData   []InvalidDataEvent
}

func (r *Recorder) SendIneligibilityEvent(_ context.Context, event IneligibilityEvent) error {
	r.Ineligibility = append(r.Ineligibility, event)
	return nil
}

func (r *Recorder) SendInvalidDataEvent(_ context.Context, event InvalidDataEvent) error {
	r.InvalidData = append(r.InvalidData, event)
	return nil
}

// Count is the number of events recorded
func (r *Recorder) Count() int {
	return len(r.Ineligibility) + len(r.InvalidData)
}
