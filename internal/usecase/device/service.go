// Package device provisions devices for the administrative surface.
// Creation issues the immutable API key and a 30-day trial license.
package device

import (
	"context"
	"time"

	domainDevice "clinic-device-backend/internal/domain/device"
	domainLicense "clinic-device-backend/internal/domain/license"
	"clinic-device-backend/internal/logger"
	appErrors "clinic-device-backend/pkg/errors"
	"clinic-device-backend/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const trialLicenseDays = 30

type Service struct {
	deviceRepo  domainDevice.Repository
	licenseRepo domainLicense.Repository
}

func NewService(deviceRepo domainDevice.Repository, licenseRepo domainLicense.Repository) *Service {
	return &Service{
		deviceRepo:  deviceRepo,
		licenseRepo: licenseRepo,
	}
}

func (s *Service) CreateDevice(ctx context.Context, req *CreateDeviceRequest) (*DeviceResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	existing, _ := s.deviceRepo.GetBySerialNumber(ctx, req.SerialNumber)
	if existing != nil {
		return nil, domainDevice.ErrDeviceAlreadyExists
	}

	apiKey, err := utils.GenerateAPIKey()
	if err != nil {
		return nil, err
	}

	dev := &domainDevice.Device{
		SerialNumber:    req.SerialNumber,
		ClinicID:        req.ClinicID,
		FirmwareVersion: req.FirmwareVersion,
		Status:          domainDevice.StatusActive,
		APIKey:          apiKey,
	}
	if err := s.deviceRepo.Create(ctx, dev); err != nil {
		return nil, err
	}

	start := time.Now()
	end := start.AddDate(0, 0, trialLicenseDays)
	trial := &domainLicense.License{
		DeviceID:    dev.ID,
		Status:      domainLicense.StatusActive,
		LicenseType: domainLicense.TypeTrial,
		StartDate:   &start,
		EndDate:     &end,
	}
	if err := s.licenseRepo.Create(ctx, trial); err != nil {
		return nil, err
	}

	logger.Info("Device created",
		zap.String("device_id", dev.ID.String()),
		zap.String("serial_number", dev.SerialNumber),
	)

	resp := ToDeviceResponse(dev)
	resp.APIKey = apiKey
	return resp, nil
}

func (s *Service) GetDevice(ctx context.Context, id uuid.UUID) (*DeviceResponse, error) {
	dev, err := s.deviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToDeviceResponse(dev), nil
}
