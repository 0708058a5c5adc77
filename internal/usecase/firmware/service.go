// Package firmware is the registry for device firmware binaries:
// checksum-verified upload, update planning during sync, and access-
// controlled, integrity-checked download.
package firmware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"clinic-device-backend/internal/auth"
	domainDevice "clinic-device-backend/internal/domain/device"
	domainFirmware "clinic-device-backend/internal/domain/firmware"
	"clinic-device-backend/internal/events"
	"clinic-device-backend/internal/logger"
	"clinic-device-backend/internal/storage"
	"clinic-device-backend/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrAccessDenied     = errors.New("access denied to firmware")
	ErrChecksumMismatch = errors.New("stored firmware checksum mismatch")
)

type Service struct {
	repo      domainFirmware.Repository
	store     *storage.FirmwareStore
	signer    *utils.URLSigner
	publisher events.Publisher

	scheme    VersionScheme
	baseURL   string
	urlExpiry time.Duration
}

func NewService(
	repo domainFirmware.Repository,
	store *storage.FirmwareStore,
	signer *utils.URLSigner,
	publisher events.Publisher,
	scheme VersionScheme,
	baseURL string,
	urlExpiry time.Duration,
) *Service {
	return &Service{
		repo:      repo,
		store:     store,
		signer:    signer,
		publisher: publisher,
		scheme:    scheme,
		baseURL:   baseURL,
		urlExpiry: urlExpiry,
	}
}

// Upload stores a new firmware binary for a device, computing the
// checksum from the bytes as they are written. A duplicate
// (device, version) pair is rejected before the binary is stored.
func (s *Service) Upload(ctx context.Context, deviceID uuid.UUID, version, releaseNotes string, payload io.Reader) (*domainFirmware.Firmware, error) {
	if version == "" {
		return nil, fmt.Errorf("firmware version is required")
	}

	exists, err := s.repo.ExistsVersion(ctx, deviceID, version)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domainFirmware.ErrVersionExists
	}

	path, checksum, err := s.store.Save(deviceID, version, payload)
	if err != nil {
		return nil, err
	}

	fw := &domainFirmware.Firmware{
		DeviceID:     deviceID,
		Version:      version,
		FilePath:     path,
		Checksum:     checksum,
		ReleaseNotes: releaseNotes,
	}
	if err := s.repo.Create(ctx, fw); err != nil {
		return nil, err
	}

	logger.Info("Firmware uploaded",
		zap.String("device_id", deviceID.String()),
		zap.String("version", version),
		zap.String("checksum", checksum),
	)
	s.publisher.Publish("firmware_published", map[string]any{
		"device_id": deviceID.String(),
		"version":   version,
	})

	return fw, nil
}

// UpdateDescriptor is the firmware-update block of a sync response.
type UpdateDescriptor struct {
	Version      string `json:"version"`
	URL          string `json:"url"`
	Checksum     string `json:"checksum"`
	ReleaseNotes string `json:"release_notes"`
	Mandatory    bool   `json:"mandatory"`
}

// PlanUpdate picks the greatest stored version strictly greater than
// the device's current one under the configured scheme, or nil when the
// device is up to date. The download URL is presigned so the link in a
// sync response expires on its own.
func (s *Service) PlanUpdate(ctx context.Context, d *domainDevice.Device) (*UpdateDescriptor, error) {
	firmwares, err := s.repo.ListByDevice(ctx, d.ID)
	if err != nil {
		return nil, err
	}

	var best *domainFirmware.Firmware
	for _, fw := range firmwares {
		if CompareVersions(fw.Version, d.FirmwareVersion, s.scheme) <= 0 {
			continue
		}
		if best == nil || CompareVersions(fw.Version, best.Version, s.scheme) > 0 {
			best = fw
		}
	}
	if best == nil {
		return nil, nil
	}

	query, err := s.signer.SignedQuery(best.ID.String(), s.urlExpiry)
	if err != nil {
		return nil, err
	}

	return &UpdateDescriptor{
		Version:      best.Version,
		URL:          fmt.Sprintf("%s/api/v1/devices/firmware/download/%s?%s", s.baseURL, best.ID, query),
		Checksum:     best.Checksum,
		ReleaseNotes: best.ReleaseNotes,
		Mandatory:    true,
	}, nil
}

// Download is an open stream over a verified firmware binary.
type Download struct {
	Reader   io.ReadSeekCloser
	Size     int64
	Filename string
	Checksum string
}

// SignedParams are the presigned query parameters attached to download
// URLs issued by PlanUpdate. Empty params skip signature verification;
// the caller is still authenticated and ownership-checked.
type SignedParams struct {
	Exp   string
	Nonce string
	Sig   string
}

func (p SignedParams) present() bool {
	return p.Exp != "" || p.Nonce != "" || p.Sig != ""
}

// OpenDownload verifies that the caller is the owning device, that the
// binary still exists, and that its recomputed checksum matches the
// stored one before handing out a stream. A mismatch is a data-
// integrity fault and must never be served.
func (s *Service) OpenDownload(ctx context.Context, actor auth.Actor, firmwareID uuid.UUID, params SignedParams) (*Download, error) {
	fw, err := s.repo.GetByID(ctx, firmwareID)
	if err != nil {
		return nil, err
	}

	dev, ok := actor.(auth.DeviceActor)
	if !ok || dev.DeviceID != fw.DeviceID {
		logger.Warn("Unauthorized firmware access attempt",
			zap.String("firmware_id", firmwareID.String()),
		)
		return nil, ErrAccessDenied
	}

	if params.present() {
		if err := s.signer.Validate(fw.ID.String(), params.Exp, params.Nonce, params.Sig); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}
	}

	actual, err := s.store.Checksum(fw.FilePath)
	if err != nil {
		return nil, err
	}
	if actual != fw.Checksum {
		logger.Error("Firmware checksum mismatch",
			zap.String("firmware_id", fw.ID.String()),
			zap.String("stored", fw.Checksum),
			zap.String("actual", actual),
		)
		return nil, ErrChecksumMismatch
	}

	reader, size, err := s.store.Open(fw.FilePath)
	if err != nil {
		return nil, err
	}

	return &Download{
		Reader:   reader,
		Size:     size,
		Filename: fmt.Sprintf("%s-%s.bin", fw.DeviceID, fw.Version),
		Checksum: fw.Checksum,
	}, nil
}
