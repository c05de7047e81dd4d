package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"osubot/internal/config"
)

const userAgent = "osubot/0.1.0"

// BatchReport carries the counts included in a batch-completed message.
type BatchReport struct {
	Attempted        int
	Resolved         int
	Skipped          int
	Degraded         int
	AlreadyProcessed int
	Duration         time.Duration
}

// Service defines the notification surface used by the CLI.
type Service interface {
	NotifyBatchCompleted(ctx context.Context, report BatchReport) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyBatchCompleted(ctx context.Context, report BatchReport) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Resolved %d of %d posts", report.Resolved, report.Attempted)
	if report.Skipped > 0 {
		fmt.Fprintf(&b, ", %d skipped", report.Skipped)
	}
	if report.Degraded > 0 {
		fmt.Fprintf(&b, ", %d degraded", report.Degraded)
	}
	if report.AlreadyProcessed > 0 {
		fmt.Fprintf(&b, "\n%d already processed", report.AlreadyProcessed)
	}
	if report.Duration > 0 {
		fmt.Fprintf(&b, "\nTook %s", report.Duration.Round(time.Second))
	}

	data := payload{
		title:   "osubot - Batch Complete",
		message: b.String(),
		tags:    []string{"osubot", "batch", "completed"},
	}
	if report.Attempted > 0 && report.Resolved == 0 {
		data.priority = "high"
		data.tags = append(data.tags, "warning")
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" during ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "osubot - Error",
		message:  builder.String(),
		tags:     []string{"osubot", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "osubot - Test",
		message:  "Notification system test",
		tags:     []string{"osubot", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyBatchCompleted(context.Context, BatchReport) error { return nil }
func (noopService) NotifyError(context.Context, error, string) error        { return nil }
func (noopService) TestNotification(context.Context) error                  { return nil }
