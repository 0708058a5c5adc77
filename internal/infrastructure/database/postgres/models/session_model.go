package models

import (
	"time"

	"github.com/google/uuid"
)

type SessionModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	DeviceID  uuid.UUID      `gorm:"type:uuid;index;not null"`
	ClinicID  *uuid.UUID     `gorm:"type:uuid;index"`
	PatientID *uuid.UUID     `gorm:"type:uuid;index"`
	Summary   map[string]any `gorm:"type:jsonb;serializer:json"`
	StartTime time.Time      `gorm:"not null"`
	EndedAt   *time.Time
	CreatedAt time.Time
}

func (SessionModel) TableName() string {
	return "sessions"
}

type SessionLogModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionID uuid.UUID `gorm:"type:uuid;index;not null"`
	LogType   string    `gorm:"not null"`
	Message   string
	LoggedAt  time.Time `gorm:"not null"`
	CreatedAt time.Time
}

func (SessionLogModel) TableName() string {
	return "session_logs"
}

type BatchReceiptModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	DeviceID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_receipt_device_key"`
	IdempotencyKey  string    `gorm:"not null;uniqueIndex:idx_receipt_device_key"`
	SessionsCreated int
	LogsCreated     int
	CreatedAt       time.Time
}

func (BatchReceiptModel) TableName() string {
	return "batch_receipts"
}
