package device

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository is the keyed lookup table for devices. Credential
// resolution goes through GetByAPIKey so the backing store can be
// swapped without touching the authentication contract.
type Repository interface {
	Create(ctx context.Context, d *Device) error
	GetByID(ctx context.Context, id uuid.UUID) (*Device, error)
	GetBySerialNumber(ctx context.Context, serial string) (*Device, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*Device, error)

	// RecordHeartbeat bumps last_heartbeat/last_online to now and, when
	// firmwareVersion is non-empty, the reported firmware version.
	// Last write wins across concurrent syncs from the same device.
	RecordHeartbeat(ctx context.Context, id uuid.UUID, firmwareVersion string, now time.Time) error

	// SetLockState flips the administrative lock axis.
	SetLockState(ctx context.Context, id uuid.UUID, locked bool, reason string) error
}
