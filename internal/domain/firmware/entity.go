package firmware

import (
	"time"

	"github.com/google/uuid"
)

// Firmware is one uploaded binary for one device. (DeviceID, Version)
// is unique; Checksum is the SHA-256 hex digest of the stored binary,
// computed at upload time and re-verified on every download.
type Firmware struct {
	ID           uuid.UUID
	DeviceID     uuid.UUID
	Version      string
	FilePath     string
	Checksum     string
	ReleaseNotes string
	CreatedAt    time.Time
}
