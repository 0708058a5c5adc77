package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainPatient "clinic-device-backend/internal/domain/patient"
	"clinic-device-backend/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PatientRepository gives the device protocol read-only access to
// patients and their temporary tokens; patient CRUD lives elsewhere.
type PatientRepository struct {
	db *DB
}

func NewPatientRepository(db *DB) *PatientRepository {
	return &PatientRepository{db: db}
}

func (r *PatientRepository) GetByID(ctx context.Context, id uuid.UUID) (*domainPatient.Patient, error) {
	var dbModel models.PatientModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainPatient.ErrPatientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	return &domainPatient.Patient{ID: dbModel.ID, ClinicID: dbModel.ClinicID}, nil
}

// Resolve implements patient.TokenResolver; expired tokens do not match.
func (r *PatientRepository) Resolve(ctx context.Context, token string) (*domainPatient.Patient, error) {
	var dbModel models.PatientTokenModel
	err := r.db.DB.WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, time.Now()).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainPatient.ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve patient token: %w", err)
	}

	return r.GetByID(ctx, dbModel.PatientID)
}
