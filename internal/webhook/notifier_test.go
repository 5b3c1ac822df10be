package webhook

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Phucht59/Face-detect/internal/domain"
)

func TestNotifier_DisabledWithoutURL(t *testing.T) {
	assert.Nil(t, NewNotifier("", "secret", slog.Default()))
}

func TestNotifier_RetrainCompleted(t *testing.T) {
	secret := "shared-secret"

	var gotBody []byte
	var gotSignature, gotEvent string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotSignature = r.Header.Get("X-Attendance-Signature")
		gotEvent = r.Header.Get("X-Attendance-Event")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	metrics := domain.TrainingMetrics{
		Version:       uuid.New(),
		EmployeeCount: 3,
		SampleCount:   42,
		Components:    8,
		Threshold:     0.62,
		TrainedAt:     time.Now().UTC(),
	}

	notifier := NewNotifier(server.URL, secret, slog.Default())
	require.NotNil(t, notifier)

	notifier.RetrainCompleted(context.Background(), metrics)

	assert.Equal(t, EventRetrainCompleted, gotEvent)
	assert.True(t, Verify(secret, gotBody, gotSignature))

	var event EventPayload
	require.NoError(t, json.Unmarshal(gotBody, &event))
	assert.Equal(t, metrics.Version, event.Data.Version)
	assert.Equal(t, metrics.Threshold, event.Data.Threshold)
}

func TestNotifier_DeliveryFailureIsSwallowed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	notifier := NewNotifier(server.URL, "s", slog.Default())

	// Must not panic or block; failures are log-only.
	notifier.RetrainCompleted(context.Background(), domain.TrainingMetrics{Version: uuid.New()})
}
