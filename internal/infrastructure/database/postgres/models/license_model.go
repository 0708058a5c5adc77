package models

import (
	"time"

	"github.com/google/uuid"
)

type LicenseModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	DeviceID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Status      string    `gorm:"not null;default:'active'"`
	LicenseType string    `gorm:"not null"`
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedAt   time.Time
}

func (LicenseModel) TableName() string {
	return "licenses"
}
