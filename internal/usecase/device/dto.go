package device

import (
	"time"

	domainDevice "clinic-device-backend/internal/domain/device"

	"github.com/google/uuid"
)

type CreateDeviceRequest struct {
	SerialNumber    string     `json:"serial_number" binding:"required" validate:"required"`
	ClinicID        *uuid.UUID `json:"clinic_id"`
	FirmwareVersion string     `json:"firmware_version"`
}

type DeviceResponse struct {
	ID              uuid.UUID  `json:"id"`
	SerialNumber    string     `json:"serial_number"`
	ClinicID        *uuid.UUID `json:"clinic_id,omitempty"`
	FirmwareVersion string     `json:"firmware_version"`
	Status          string     `json:"status"`
	LockReason      string     `json:"lock_reason,omitempty"`
	LastHeartbeat   *time.Time `json:"last_heartbeat,omitempty"`
	LastOnline      *time.Time `json:"last_online,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`

	// APIKey is only populated on creation; the credential is not
	// retrievable afterwards.
	APIKey string `json:"api_key,omitempty"`
}

func ToDeviceResponse(d *domainDevice.Device) *DeviceResponse {
	return &DeviceResponse{
		ID:              d.ID,
		SerialNumber:    d.SerialNumber,
		ClinicID:        d.ClinicID,
		FirmwareVersion: d.FirmwareVersion,
		Status:          string(d.Status),
		LockReason:      d.LockReason,
		LastHeartbeat:   d.LastHeartbeat,
		LastOnline:      d.LastOnline,
		CreatedAt:       d.CreatedAt,
	}
}
