package models

import (
	"time"

	"github.com/google/uuid"
)

type DeviceModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	SerialNumber    string     `gorm:"uniqueIndex;not null"`
	ClinicID        *uuid.UUID `gorm:"type:uuid;index"`
	FirmwareVersion string
	Status          string `gorm:"not null;default:'active'"`
	LockReason      string
	LastHeartbeat   *time.Time
	LastOnline      *time.Time
	APIKey          string `gorm:"column:api_key;uniqueIndex;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (DeviceModel) TableName() string {
	return "devices"
}
