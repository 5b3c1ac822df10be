package webhook

import (
	"time"

	"github.com/Phucht59/Face-detect/internal/domain"
)

const EventRetrainCompleted = "model.retrain.completed"

// EventPayload is the envelope every delivery carries.
type EventPayload struct {
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      domain.TrainingMetrics `json:"data"`
}
