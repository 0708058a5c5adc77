package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domainFirmware "clinic-device-backend/internal/domain/firmware"
	"clinic-device-backend/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FirmwareRepository struct {
	db *DB
}

func NewFirmwareRepository(db *DB) domainFirmware.Repository {
	return &FirmwareRepository{db: db}
}

func (r *FirmwareRepository) Create(ctx context.Context, f *domainFirmware.Firmware) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	f.CreatedAt = time.Now()

	if err := r.db.DB.WithContext(ctx).Create(toFirmwareModel(f)).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key value") {
			return domainFirmware.ErrVersionExists
		}
		return fmt.Errorf("failed to create firmware: %w", err)
	}
	return nil
}

func (r *FirmwareRepository) GetByID(ctx context.Context, id uuid.UUID) (*domainFirmware.Firmware, error) {
	var dbModel models.FirmwareModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainFirmware.ErrFirmwareNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get firmware: %w", err)
	}

	return toFirmwareEntity(&dbModel), nil
}

func (r *FirmwareRepository) ListByDevice(ctx context.Context, deviceID uuid.UUID) ([]*domainFirmware.Firmware, error) {
	var dbModels []models.FirmwareModel
	err := r.db.DB.WithContext(ctx).
		Where("device_id = ?", deviceID).
		Order("created_at ASC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list firmware: %w", err)
	}

	firmwares := make([]*domainFirmware.Firmware, len(dbModels))
	for i := range dbModels {
		firmwares[i] = toFirmwareEntity(&dbModels[i])
	}
	return firmwares, nil
}

func (r *FirmwareRepository) ExistsVersion(ctx context.Context, deviceID uuid.UUID, version string) (bool, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).
		Model(&models.FirmwareModel{}).
		Where("device_id = ? AND version = ?", deviceID, version).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check firmware version: %w", err)
	}
	return count > 0, nil
}

func toFirmwareModel(f *domainFirmware.Firmware) *models.FirmwareModel {
	return &models.FirmwareModel{
		ID:           f.ID,
		DeviceID:     f.DeviceID,
		Version:      f.Version,
		FilePath:     f.FilePath,
		Checksum:     f.Checksum,
		ReleaseNotes: f.ReleaseNotes,
		CreatedAt:    f.CreatedAt,
	}
}

func toFirmwareEntity(m *models.FirmwareModel) *domainFirmware.Firmware {
	return &domainFirmware.Firmware{
		ID:           m.ID,
		DeviceID:     m.DeviceID,
		Version:      m.Version,
		FilePath:     m.FilePath,
		Checksum:     m.Checksum,
		ReleaseNotes: m.ReleaseNotes,
		CreatedAt:    m.CreatedAt,
	}
}
