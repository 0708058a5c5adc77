package session

import (
	"time"

	"github.com/google/uuid"
)

type LogType string

const (
	LogInfo    LogType = "info"
	LogWarning LogType = "warning"
	LogError   LogType = "error"
)

// Session is a treatment session recorded on a device, usually while it
// was offline. ClinicID is denormalized from the device's clinic at
// creation time. PatientID stays nil when the device-supplied patient
// lookup does not resolve.
type Session struct {
	ID        uuid.UUID
	DeviceID  uuid.UUID
	ClinicID  *uuid.UUID
	PatientID *uuid.UUID
	Summary   map[string]any
	StartTime time.Time
	EndedAt   *time.Time
	CreatedAt time.Time

	// ClientRef is the device-generated batch reference binding this
	// session to its logs before server IDs exist. Request-scoped, not
	// persisted.
	ClientRef string
}

type Log struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	LogType   LogType
	Message   string
	LoggedAt  time.Time
	CreatedAt time.Time

	// SessionRef points at the ClientRef of a session in the same batch.
	SessionRef string
}

// Receipt records a processed batch idempotency key so that a retried
// upload cannot duplicate telemetry.
type Receipt struct {
	ID              uuid.UUID
	DeviceID        uuid.UUID
	IdempotencyKey  string
	SessionsCreated int
	LogsCreated     int
	CreatedAt       time.Time
}
