package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"osubot/internal/config"
	"osubot/internal/notifications"
)

type captured struct {
	title    string
	tags     string
	priority string
	body     string
}

func newCapture(t *testing.T, status int) (*config.Config, *[]captured) {
	t.Helper()
	var requests []captured
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, captured{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		})
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL + "/osubot"
	return &cfg, &requests
}

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyBatchCompleted(context.Background(), notifications.BatchReport{Attempted: 1}); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
	if err := notifications.NewService(nil).TestNotification(context.Background()); err != nil {
		t.Fatalf("expected nil config to yield a noop notifier, got %v", err)
	}
}

func TestNotifyBatchCompleted(t *testing.T) {
	tests := []struct {
		name           string
		report         notifications.BatchReport
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name:          "mixed batch",
			report:        notifications.BatchReport{Attempted: 5, Resolved: 3, Skipped: 2, Degraded: 1, AlreadyProcessed: 4, Duration: 90 * time.Second},
			expectMessage: "Resolved 3 of 5 posts, 2 skipped, 1 degraded\n4 already processed\nTook 1m30s",
			expectTags:    "osubot,batch,completed",
		},
		{
			name:           "nothing resolved",
			report:         notifications.BatchReport{Attempted: 2, Skipped: 2},
			expectMessage:  "Resolved 0 of 2 posts, 2 skipped",
			expectTags:     "osubot,batch,completed,warning",
			expectPriority: "high",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, requests := newCapture(t, http.StatusOK)
			svc := notifications.NewService(cfg)
			if err := svc.NotifyBatchCompleted(context.Background(), tc.report); err != nil {
				t.Fatalf("NotifyBatchCompleted: %v", err)
			}
			if len(*requests) != 1 {
				t.Fatalf("expected 1 request, got %d", len(*requests))
			}
			got := (*requests)[0]
			if got.title != "osubot - Batch Complete" {
				t.Fatalf("title = %q", got.title)
			}
			if got.body != tc.expectMessage {
				t.Fatalf("message = %q, want %q", got.body, tc.expectMessage)
			}
			if got.tags != tc.expectTags {
				t.Fatalf("tags = %q, want %q", got.tags, tc.expectTags)
			}
			if got.priority != tc.expectPriority {
				t.Fatalf("priority = %q, want %q", got.priority, tc.expectPriority)
			}
		})
	}
}

func TestNotifyErrorIsHighPriority(t *testing.T) {
	cfg, requests := newCapture(t, http.StatusOK)
	svc := notifications.NewService(cfg)
	if err := svc.NotifyError(context.Background(), errors.New("history locked"), "batch"); err != nil {
		t.Fatalf("NotifyError: %v", err)
	}
	got := (*requests)[0]
	if got.body != "Error during batch: history locked" || got.priority != "high" {
		t.Fatalf("unexpected error notification: %+v", got)
	}
}

func TestSendReportsHTTPFailure(t *testing.T) {
	cfg, _ := newCapture(t, http.StatusForbidden)
	err := notifications.NewService(cfg).TestNotification(context.Background())
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected status error, got %v", err)
	}
}
