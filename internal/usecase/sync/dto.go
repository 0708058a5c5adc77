package sync

import (
	"clinic-device-backend/internal/usecase/firmware"
	"clinic-device-backend/internal/usecase/ingest"
)

// Request is the body of a device sync call. Everything is optional: an
// empty body is a plain heartbeat.
type Request struct {
	FirmwareVersion string               `json:"firmware_version"`
	Status          string               `json:"status" binding:"omitempty,oneof=active locked maintenance"`
	IdempotencyKey  string               `json:"idempotency_key"`
	Sessions        []ingest.SessionItem `json:"sessions" binding:"omitempty,dive"`
	Logs            []ingest.LogItem     `json:"logs" binding:"omitempty,dive"`
}

type DeviceConfig struct {
	SyncInterval  int             `json:"sync_interval"`
	MaxRetryCount int             `json:"max_retry_count"`
	LogLevel      string          `json:"log_level"`
	Features      map[string]bool `json:"features"`
}

// IngestSummary reports the outcome of the in-sync batch. A failed
// batch is reported here instead of failing the sync: the heartbeat,
// license, and update steps have already run and their results still
// matter to the device.
type IngestSummary struct {
	SessionsCreated int    `json:"created_sessions"`
	LogsCreated     int    `json:"created_logs"`
	Error           string `json:"error,omitempty"`
}

type Response struct {
	Status         string                     `json:"status"`
	IsLocked       bool                       `json:"is_locked"`
	LockReason     string                     `json:"lock_reason"`
	LicenseValid   bool                       `json:"license_valid"`
	DeviceConfig   DeviceConfig               `json:"device_config"`
	FirmwareUpdate *firmware.UpdateDescriptor `json:"firmware_update,omitempty"`
	Ingest         *IngestSummary             `json:"ingest,omitempty"`
}
