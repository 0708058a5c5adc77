package license

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, l *License) error

	// GetByDevice returns the device's license. One active license per
	// device is expected but not database-enforced; the most recently
	// created row wins.
	GetByDevice(ctx context.Context, deviceID uuid.UUID) (*License, error)

	// GetActiveByDevice returns the device's license with active status,
	// or ErrLicenseNotFound.
	GetActiveByDevice(ctx context.Context, deviceID uuid.UUID) (*License, error)

	UpdateStatus(ctx context.Context, deviceID uuid.UUID, status Status) error
}
