// Package webhook delivers signed retrain-completion events to a configured
// endpoint. Delivery is best effort: a failed POST is logged and dropped, it
// never fails the retrain that triggered it.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/Phucht59/Face-detect/internal/domain"
)

type Notifier struct {
	url    string
	secret string
	client *http.Client
	logger *slog.Logger
}

// NewNotifier returns nil when no URL is configured; callers treat a nil
// notifier as "webhooks disabled".
func NewNotifier(url, secret string, logger *slog.Logger) *Notifier {
	if url == "" {
		return nil
	}
	return &Notifier{
		url:    url,
		secret: secret,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// RetrainCompleted posts the new artifact's metrics, HMAC-signed.
func (n *Notifier) RetrainCompleted(ctx context.Context, metrics domain.TrainingMetrics) {
	event := EventPayload{
		Type:      EventRetrainCompleted,
		Timestamp: time.Now().UTC(),
		Data:      metrics,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("webhook payload marshal failed", slog.Any("error", err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		n.logger.Error("webhook request build failed", slog.Any("error", err))
		return
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Attendance-Signature", Sign(n.secret, payload))
	req.Header.Set("X-Attendance-Event", event.Type)
	req.Header.Set("User-Agent", "FaceAttendance-Webhook/1.0")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Warn("webhook delivery failed",
			slog.String("event", event.Type), slog.Any("error", err))
		return
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		n.logger.Warn("webhook rejected",
			slog.String("event", event.Type), slog.Int("status", resp.StatusCode))
		return
	}

	n.logger.Info("webhook delivered",
		slog.String("event", event.Type),
		slog.String("version", metrics.Version.String()))
}
