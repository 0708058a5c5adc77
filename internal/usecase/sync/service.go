// Package sync is the per-request protocol handler for device sync. It
// combines identity, lock evaluation, firmware update planning, and
// batch ingestion into one request/response cycle with a fixed step
// order: later steps depend on state persisted by earlier ones.
package sync

import (
	"context"
	"time"

	"clinic-device-backend/internal/config"
	domainDevice "clinic-device-backend/internal/domain/device"
	domainLicense "clinic-device-backend/internal/domain/license"
	"clinic-device-backend/internal/events"
	"clinic-device-backend/internal/logger"
	"clinic-device-backend/internal/usecase/devicelock"
	"clinic-device-backend/internal/usecase/firmware"
	"clinic-device-backend/internal/usecase/ingest"

	"go.uber.org/zap"
)

type Service struct {
	deviceRepo domainDevice.Repository
	lock       *devicelock.Service
	firmware   *firmware.Service
	ingest     *ingest.Service
	publisher  events.Publisher
	cfg        config.SyncConfig
}

func NewService(
	deviceRepo domainDevice.Repository,
	lock *devicelock.Service,
	fw *firmware.Service,
	ing *ingest.Service,
	publisher events.Publisher,
	cfg config.SyncConfig,
) *Service {
	return &Service{
		deviceRepo: deviceRepo,
		lock:       lock,
		firmware:   fw,
		ingest:     ing,
		publisher:  publisher,
		cfg:        cfg,
	}
}

// Sync runs one protocol cycle for an authenticated device:
//
//  1. heartbeat + reported firmware version (own transaction)
//  2. license validity (read-only)
//  3. firmware update availability
//  4. batch ingestion (own transaction; failure reported, not fatal)
//  5. effective lock
//  6. response assembly
//
// The heartbeat write is never rolled back by a later ingest failure.
func (s *Service) Sync(ctx context.Context, dev *domainDevice.Device, req *Request) (*Response, error) {
	now := time.Now()
	if err := s.deviceRepo.RecordHeartbeat(ctx, dev.ID, req.FirmwareVersion, now); err != nil {
		return nil, err
	}
	if req.FirmwareVersion != "" {
		dev.FirmwareVersion = req.FirmwareVersion
	}

	state, err := s.lock.Evaluate(ctx, dev)
	if err != nil {
		return nil, err
	}

	update, err := s.firmware.PlanUpdate(ctx, dev)
	if err != nil {
		// Update planning must not take down the sync; the device will
		// ask again on its next interval.
		logger.Error("Failed to plan firmware update",
			zap.String("device_id", dev.ID.String()),
			zap.Error(err),
		)
		update = nil
	}

	var summary *IngestSummary
	if len(req.Sessions) > 0 || len(req.Logs) > 0 {
		summary = &IngestSummary{}
		result, err := s.ingest.Ingest(ctx, dev, &ingest.BatchRequest{
			IdempotencyKey: req.IdempotencyKey,
			Sessions:       req.Sessions,
			Logs:           req.Logs,
		})
		if err != nil {
			logger.Error("Batch ingestion failed during sync",
				zap.String("device_id", dev.ID.String()),
				zap.Error(err),
			)
			summary.Error = err.Error()
		} else {
			summary.SessionsCreated = result.SessionsCreated
			summary.LogsCreated = result.LogsCreated
		}
	}

	resp := &Response{
		Status:         "ok",
		IsLocked:       state.EffectiveLocked,
		LicenseValid:   state.LicenseValid,
		DeviceConfig:   s.deviceConfig(state.LicenseType),
		FirmwareUpdate: update,
		Ingest:         summary,
	}
	if state.EffectiveLocked {
		resp.Status = "locked"
		resp.LockReason = state.LockReason
	}

	logger.Info("Device synced",
		zap.String("device_id", dev.ID.String()),
		zap.String("serial_number", dev.SerialNumber),
		zap.Bool("is_locked", state.EffectiveLocked),
		zap.String("reported_status", req.Status),
	)
	s.publisher.Publish("synced", map[string]any{
		"device_id": dev.ID.String(),
		"is_locked": state.EffectiveLocked,
	})

	return resp, nil
}

func (s *Service) deviceConfig(licenseType domainLicense.Type) DeviceConfig {
	features := map[string]bool{
		"auto_update":        true,
		"remote_diagnostics": true,
		"data_encryption":    true,
	}
	if licenseType == domainLicense.TypeFull {
		features["advanced_reporting"] = true
		features["multi_user"] = true
	}

	return DeviceConfig{
		SyncInterval:  s.cfg.IntervalSeconds,
		MaxRetryCount: s.cfg.MaxRetryCount,
		LogLevel:      s.cfg.LogLevel,
		Features:      features,
	}
}
