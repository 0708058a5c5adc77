package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainLicense "clinic-device-backend/internal/domain/license"
	"clinic-device-backend/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LicenseRepository struct {
	db *DB
}

func NewLicenseRepository(db *DB) domainLicense.Repository {
	return &LicenseRepository{db: db}
}

func (r *LicenseRepository) Create(ctx context.Context, l *domainLicense.License) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	l.CreatedAt = time.Now()

	if err := r.db.DB.WithContext(ctx).Create(toLicenseModel(l)).Error; err != nil {
		return fmt.Errorf("failed to create license: %w", err)
	}
	return nil
}

func (r *LicenseRepository) GetByDevice(ctx context.Context, deviceID uuid.UUID) (*domainLicense.License, error) {
	var dbModel models.LicenseModel
	err := r.db.DB.WithContext(ctx).
		Where("device_id = ?", deviceID).
		Order("created_at DESC").
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainLicense.ErrLicenseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get license: %w", err)
	}

	return toLicenseEntity(&dbModel), nil
}

func (r *LicenseRepository) GetActiveByDevice(ctx context.Context, deviceID uuid.UUID) (*domainLicense.License, error) {
	var dbModel models.LicenseModel
	err := r.db.DB.WithContext(ctx).
		Where("device_id = ? AND status = ?", deviceID, string(domainLicense.StatusActive)).
		Order("created_at DESC").
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainLicense.ErrLicenseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active license: %w", err)
	}

	return toLicenseEntity(&dbModel), nil
}

func (r *LicenseRepository) UpdateStatus(ctx context.Context, deviceID uuid.UUID, status domainLicense.Status) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.LicenseModel{}).
		Where("device_id = ?", deviceID).
		Update("status", string(status))

	if result.Error != nil {
		return fmt.Errorf("failed to update license status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainLicense.ErrLicenseNotFound
	}

	return nil
}

func toLicenseModel(l *domainLicense.License) *models.LicenseModel {
	return &models.LicenseModel{
		ID:          l.ID,
		DeviceID:    l.DeviceID,
		Status:      string(l.Status),
		LicenseType: string(l.LicenseType),
		StartDate:   l.StartDate,
		EndDate:     l.EndDate,
		CreatedAt:   l.CreatedAt,
	}
}

func toLicenseEntity(m *models.LicenseModel) *domainLicense.License {
	return &domainLicense.License{
		ID:          m.ID,
		DeviceID:    m.DeviceID,
		Status:      domainLicense.Status(m.Status),
		LicenseType: domainLicense.Type(m.LicenseType),
		StartDate:   m.StartDate,
		EndDate:     m.EndDate,
		CreatedAt:   m.CreatedAt,
	}
}
