package models

import (
	"time"

	"github.com/google/uuid"
)

type FirmwareModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	DeviceID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_firmware_device_version"`
	Version      string    `gorm:"not null;uniqueIndex:idx_firmware_device_version"`
	FilePath     string    `gorm:"not null"`
	Checksum     string    `gorm:"not null"`
	ReleaseNotes string
	CreatedAt    time.Time
}

func (FirmwareModel) TableName() string {
	return "firmwares"
}
