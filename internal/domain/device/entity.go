package device

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive      Status = "active"
	StatusLocked      Status = "locked"
	StatusMaintenance Status = "maintenance"
)

// Device is a physical treatment device registered in the system.
// APIKey is the static per-device credential, immutable after creation.
type Device struct {
	ID              uuid.UUID
	SerialNumber    string
	ClinicID        *uuid.UUID
	FirmwareVersion string
	Status          Status
	LockReason      string
	LastHeartbeat   *time.Time
	LastOnline      *time.Time
	APIKey          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Authenticable reports whether the device may present its API key.
// Locked devices still authenticate so they can sync and learn they are
// locked; maintenance devices do not.
func (d *Device) Authenticable() bool {
	return d.Status == StatusActive || d.Status == StatusLocked
}
