package models

import (
	"time"

	"github.com/google/uuid"
)

type PatientModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	ClinicID uuid.UUID `gorm:"type:uuid;index;not null"`
}

func (PatientModel) TableName() string {
	return "patients"
}

type PatientTokenModel struct {
	Token     string    `gorm:"primaryKey"`
	PatientID uuid.UUID `gorm:"type:uuid;index;not null"`
	ExpiresAt time.Time `gorm:"not null"`
}

func (PatientTokenModel) TableName() string {
	return "patient_tokens"
}
