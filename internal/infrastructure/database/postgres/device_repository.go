package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	domainDevice "clinic-device-backend/internal/domain/device"
	"clinic-device-backend/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeviceRepository implements domain device.Repository on gorm.
type DeviceRepository struct {
	db *DB
}

func NewDeviceRepository(db *DB) domainDevice.Repository {
	return &DeviceRepository{db: db}
}

func (r *DeviceRepository) Create(ctx context.Context, d *domainDevice.Device) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt

	dbModel := toDeviceModel(d)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key value") {
			return domainDevice.ErrDeviceAlreadyExists
		}
		return fmt.Errorf("failed to create device: %w", err)
	}

	return nil
}

func (r *DeviceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domainDevice.Device, error) {
	var dbModel models.DeviceModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainDevice.ErrDeviceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	return toDeviceEntity(&dbModel), nil
}

func (r *DeviceRepository) GetBySerialNumber(ctx context.Context, serial string) (*domainDevice.Device, error) {
	var dbModel models.DeviceModel
	err := r.db.DB.WithContext(ctx).
		Where("serial_number = ?", serial).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainDevice.ErrDeviceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	return toDeviceEntity(&dbModel), nil
}

func (r *DeviceRepository) GetByAPIKey(ctx context.Context, apiKey string) (*domainDevice.Device, error) {
	var dbModel models.DeviceModel
	err := r.db.DB.WithContext(ctx).
		Where("api_key = ?", apiKey).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainDevice.ErrInvalidAPIKey
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up device by API key: %w", err)
	}

	return toDeviceEntity(&dbModel), nil
}

func (r *DeviceRepository) RecordHeartbeat(ctx context.Context, id uuid.UUID, firmwareVersion string, now time.Time) error {
	updates := map[string]interface{}{
		"last_heartbeat": now,
		"last_online":    now,
		"updated_at":     now,
	}
	if firmwareVersion != "" {
		updates["firmware_version"] = firmwareVersion
	}

	result := r.db.DB.WithContext(ctx).
		Model(&models.DeviceModel{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to record heartbeat: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainDevice.ErrDeviceNotFound
	}

	return nil
}

func (r *DeviceRepository) SetLockState(ctx context.Context, id uuid.UUID, locked bool, reason string) error {
	status := domainDevice.StatusActive
	if locked {
		status = domainDevice.StatusLocked
	} else {
		reason = ""
	}

	result := r.db.DB.WithContext(ctx).
		Model(&models.DeviceModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      string(status),
			"lock_reason": reason,
			"updated_at":  time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to set lock state: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainDevice.ErrDeviceNotFound
	}

	return nil
}

func toDeviceModel(d *domainDevice.Device) *models.DeviceModel {
	return &models.DeviceModel{
		ID:              d.ID,
		SerialNumber:    d.SerialNumber,
		ClinicID:        d.ClinicID,
		FirmwareVersion: d.FirmwareVersion,
		Status:          string(d.Status),
		LockReason:      d.LockReason,
		LastHeartbeat:   d.LastHeartbeat,
		LastOnline:      d.LastOnline,
		APIKey:          d.APIKey,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func toDeviceEntity(m *models.DeviceModel) *domainDevice.Device {
	return &domainDevice.Device{
		ID:              m.ID,
		SerialNumber:    m.SerialNumber,
		ClinicID:        m.ClinicID,
		FirmwareVersion: m.FirmwareVersion,
		Status:          domainDevice.Status(m.Status),
		LockReason:      m.LockReason,
		LastHeartbeat:   m.LastHeartbeat,
		LastOnline:      m.LastOnline,
		APIKey:          m.APIKey,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
