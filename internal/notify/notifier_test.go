package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/claimcheck/internal/model"
)

type received struct {
	Type  string          `json:"type"`
	Event json.RawMessage `json:"event"`
}

func TestHTTPNotifierIneligibility(t *testing.T) {
	var got received
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %s", ct)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	n := NewHTTPNotifier(server.URL, 5*time.Second, model.BackendConfig{})
	n.now = func() time.Time { return time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC) }

	err := n.SendIneligibilityEvent(context.Background(), IneligibilityEvent{
		SBI:       "106705779",
		CRN:       "1100014934",
		Reference: "TEMP-CLAIM-AB12-CD34",
		Page:      "date-of-visit",
		Code:      "review-spacing",
		Exception: "There must be at least 10 months between your reviews.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Type != "ineligibility" {
		t.Errorf("expected ineligibility, got %s", got.Type)
	}
	var event IneligibilityEvent
	if err := json.Unmarshal(got.Event, &event); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if event.ID == "" {
		t.Errorf("expected generated event id")
	}
	if !event.OccurredAt.Equal(time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)) {
		t.Errorf("expected injected time, got %s", event.OccurredAt)
	}
	if event.Reference != "TEMP-CLAIM-AB12-CD34" || event.Code != "review-spacing" {
		t.Errorf("unexpected event: %+v", event)
	}
}

func TestHTTPNotifierInvalidDataKeepsID(t *testing.T) {
	var got received
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
	}))
	defer server.Close()

	n := NewHTTPNotifier(server.URL, 5*time.Second, model.BackendConfig{})
	err := n.SendInvalidDataEvent(context.Background(), InvalidDataEvent{
		ID:         "fixed-id",
		SessionKey: "speciesNumbers",
		Reference:  "TEMP-CLAIM-AB12-CD34",
		Field:      "speciesNumbers",
		Value:      "no",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var event InvalidDataEvent
	_ = json.Unmarshal(got.Event, &event)
	if got.Type != "invalid-data" {
		t.Errorf("expected invalid-data, got %s", got.Type)
	}
	if event.ID != "fixed-id" {
		t.Errorf("expected fixed-id, got %s", event.ID)
	}
	if event.Value != "no" {
		t.Errorf("expected value no, got %s", event.Value)
	}
}

func TestHTTPNotifierErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "queue unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	n := NewHTTPNotifier(server.URL, 5*time.Second, model.BackendConfig{})
	err := n.SendIneligibilityEvent(context.Background(), IneligibilityEvent{Reference: "TEMP-CLAIM-AB12-CD34"})
	if err == nil {
		t.Fatal("expected error for 503")
	}
	if !strings.Contains(err.Error(), "status 503") || !strings.Contains(err.Error(), "queue unavailable") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	n := NewLogNotifier(logger)

	_ = n.SendIneligibilityEvent(context.Background(), IneligibilityEvent{
		SBI:       "106705779",
		Reference: "TEMP-CLAIM-AB12-CD34",
		Code:      "no-review",
	})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON log line, got %q", buf.String())
	}
	if entry["msg"] != "claim ineligible" {
		t.Errorf("expected claim ineligible, got %v", entry["msg"])
	}
	if entry["code"] != "no-review" {
		t.Errorf("expected code no-review, got %v", entry["code"])
	}
}

func TestNewPicksNotifier(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	cfg := model.DefaultConfig()
	if _, ok := New(*cfg, logger).(*LogNotifier); !ok {
		t.Errorf("expected log notifier without events URL")
	}

	cfg.Events.URL = "http://events.internal/claims"
	if _, ok := New(*cfg, logger).(*HTTPNotifier); !ok {
		t.Errorf("expected HTTP notifier with events URL")
	}
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	_ = r.SendIneligibilityEvent(context.Background(), IneligibilityEvent{Code: "a"})
	_ = r.SendInvalidDataEvent(context.Background(), InvalidDataEvent{Code: "b"})
	if r.Count() != 2 {
		t.Errorf("expected 2 events, got %d", r.Count())
	}
}
