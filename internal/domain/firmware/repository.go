package firmware

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, f *Firmware) error
	GetByID(ctx context.Context, id uuid.UUID) (*Firmware, error)
	ListByDevice(ctx context.Context, deviceID uuid.UUID) ([]*Firmware, error)
	ExistsVersion(ctx context.Context, deviceID uuid.UUID, version string) (bool, error)
}
