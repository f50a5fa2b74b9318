package alerts

import (
	"time"

	"github.com/google/uuid"

	"vigil/internal/telemetry"
)

// Envelope wraps an Alert with delivery metadata for egress transports
type Envelope struct {
	// Unique ID for this emission
	ID string `json:"id"`

	// Monitor instance that produced the alert
	MonitorID string `json:"monitor_id"`

	// Wall-clock time of emission
	EmittedAt time.Time `json:"emitted_at"`

	Alert telemetry.Alert `json:"alert"`
}

// NewEnvelope creates an envelope for an alert
func NewEnvelope(monitorID string, alert telemetry.Alert) *Envelope {
	return &Envelope{
		ID:        uuid.New().String(),
		MonitorID: monitorID,
		EmittedAt: time.Now().UTC(),
		Alert:     alert,
	}
}
