package notifications

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"fiery_print_jobs/internal/engine"

	"github.com/rs/zerolog/log"
)

// Client posts run summaries to an ntfy topic. Disabled clients are no-ops,
// and a failed post is logged and dropped; notifications never affect the
// run's outcome.
type Client struct {
	httpClient *http.Client
	baseURL    string
	topic      string
	enabled    bool
}

func NewClient(baseURL, topic string, enabled bool) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		topic:   topic,
		enabled: enabled,
	}
}

// NotifyRunSummary sends one message describing how the reconciliation pass
// went for the named printer.
func (c *Client) NotifyRunSummary(ctx context.Context, printerKey string, summary engine.Summary) {
	if !c.enabled {
		log.Debug().Msg("Notifications disabled, skipping run summary")
		return
	}

	message := formatRunSummary(printerKey, summary)
	if err := c.send(ctx, message); err != nil {
		log.Warn().Err(err).Msg("Failed to send run summary notification")
		return
	}
	log.Debug().Str("topic", c.topic).Msg("Run summary notification sent")
}

func (c *Client) send(ctx context.Context, message string) error {
	url := fmt.Sprintf("%s/%s", c.baseURL, c.topic)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBufferString(message))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("notification rejected: HTTP %d", resp.StatusCode)
	}
	return nil
}

func formatRunSummary(printerKey string, summary engine.Summary) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Print run complete on %s\n", printerKey))
	sb.WriteString(fmt.Sprintf("Printed: %d\n", summary.Printed))
	if summary.Failed > 0 {
		sb.WriteString(fmt.Sprintf("Failed: %d\n", summary.Failed))
	}
	if summary.NotFound > 0 {
		sb.WriteString(fmt.Sprintf("Not found: %d\n", summary.NotFound))
	}
	if summary.InvalidQty > 0 {
		sb.WriteString(fmt.Sprintf("Invalid quantity: %d\n", summary.InvalidQty))
	}
	if summary.ReportFails > 0 {
		sb.WriteString(fmt.Sprintf("Report write failures: %d\n", summary.ReportFails))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
