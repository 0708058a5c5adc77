// Package devicelock derives a device's effective operational state
// from two axes: the administrative lock flag on the device row and the
// validity of its license. Effective lock is the OR of both.
package devicelock

import (
	"context"
	"errors"
	"time"

	domainDevice "clinic-device-backend/internal/domain/device"
	domainLicense "clinic-device-backend/internal/domain/license"
	"clinic-device-backend/internal/events"
	"clinic-device-backend/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultLockReason = "access restricted"

type Service struct {
	deviceRepo  domainDevice.Repository
	licenseRepo domainLicense.Repository
	publisher   events.Publisher
	now         func() time.Time
}

func NewService(deviceRepo domainDevice.Repository, licenseRepo domainLicense.Repository, publisher events.Publisher) *Service {
	return &Service{
		deviceRepo:  deviceRepo,
		licenseRepo: licenseRepo,
		publisher:   publisher,
		now:         time.Now,
	}
}

// State is the computed view of both lock axes at one point in time.
type State struct {
	DeviceLocked    bool
	LicenseValid    bool
	EffectiveLocked bool
	LockReason      string
	LicenseType     domainLicense.Type
}

// Evaluate computes the effective lock for the device. A missing
// license is a normal business state, not an error; expiry is evaluated
// lazily here rather than by a background sweep.
func (s *Service) Evaluate(ctx context.Context, d *domainDevice.Device) (*State, error) {
	state := &State{
		DeviceLocked: d.Status == domainDevice.StatusLocked,
		LockReason:   d.LockReason,
	}

	lic, err := s.licenseRepo.GetByDevice(ctx, d.ID)
	switch {
	case errors.Is(err, domainLicense.ErrLicenseNotFound):
		// no license, license axis invalid
	case err != nil:
		return nil, err
	default:
		state.LicenseType = lic.LicenseType
		state.LicenseValid = lic.ValidAt(s.now())
	}

	state.EffectiveLocked = state.DeviceLocked || !state.LicenseValid
	if state.EffectiveLocked && state.LockReason == "" {
		state.LockReason = "license invalid or expired"
	}

	return state, nil
}

// Lock sets the device axis to locked and, when a license exists,
// forces its status to locked. Idempotent.
func (s *Service) Lock(ctx context.Context, deviceID uuid.UUID, reason string) error {
	if reason == "" {
		reason = defaultLockReason
	}

	if err := s.deviceRepo.SetLockState(ctx, deviceID, true, reason); err != nil {
		return err
	}

	if err := s.licenseRepo.UpdateStatus(ctx, deviceID, domainLicense.StatusLocked); err != nil && !errors.Is(err, domainLicense.ErrLicenseNotFound) {
		return err
	}

	logger.Info("Device locked",
		zap.String("device_id", deviceID.String()),
		zap.String("reason", reason),
	)
	s.publisher.Publish("locked", map[string]any{
		"device_id": deviceID.String(),
		"reason":    reason,
	})

	return nil
}

// Unlock clears the device axis and restores the license status to
// active when one exists. It does not re-validate license dates: an
// expired license keeps the effective lock true via the license axis.
func (s *Service) Unlock(ctx context.Context, deviceID uuid.UUID) error {
	if err := s.deviceRepo.SetLockState(ctx, deviceID, false, ""); err != nil {
		return err
	}

	if err := s.licenseRepo.UpdateStatus(ctx, deviceID, domainLicense.StatusActive); err != nil && !errors.Is(err, domainLicense.ErrLicenseNotFound) {
		return err
	}

	logger.Info("Device unlocked", zap.String("device_id", deviceID.String()))
	s.publisher.Publish("unlocked", map[string]any{
		"device_id": deviceID.String(),
	})

	return nil
}
