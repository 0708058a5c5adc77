package sync

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"clinic-device-backend/internal/config"
	domainDevice "clinic-device-backend/internal/domain/device"
	domainFirmware "clinic-device-backend/internal/domain/firmware"
	domainLicense "clinic-device-backend/internal/domain/license"
	domainPatient "clinic-device-backend/internal/domain/patient"
	domainSession "clinic-device-backend/internal/domain/session"
	"clinic-device-backend/internal/events"
	"clinic-device-backend/internal/logger"
	"clinic-device-backend/internal/storage"
	"clinic-device-backend/internal/usecase/devicelock"
	"clinic-device-backend/internal/usecase/firmware"
	"clinic-device-backend/internal/usecase/ingest"
	"clinic-device-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

func TestMain(m *testing.M) {
	if err := logger.Init("development"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fakeDeviceRepo struct {
	devices    map[uuid.UUID]*domainDevice.Device
	heartbeats int
}

func newFakeDeviceRepo() *fakeDeviceRepo {
	return &fakeDeviceRepo{devices: make(map[uuid.UUID]*domainDevice.Device)}
}

func (r *fakeDeviceRepo) Create(_ context.Context, d *domainDevice.Device) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.devices[d.ID] = d
	return nil
}

func (r *fakeDeviceRepo) GetByID(_ context.Context, id uuid.UUID) (*domainDevice.Device, error) {
	d, ok := r.devices[id]
	if !ok {
		return nil, domainDevice.ErrDeviceNotFound
	}
	return d, nil
}

func (r *fakeDeviceRepo) GetBySerialNumber(_ context.Context, serial string) (*domainDevice.Device, error) {
	for _, d := range r.devices {
		if d.SerialNumber == serial {
			return d, nil
		}
	}
	return nil, domainDevice.ErrDeviceNotFound
}

func (r *fakeDeviceRepo) GetByAPIKey(_ context.Context, apiKey string) (*domainDevice.Device, error) {
	for _, d := range r.devices {
		if d.APIKey == apiKey {
			return d, nil
		}
	}
	return nil, domainDevice.ErrInvalidAPIKey
}

func (r *fakeDeviceRepo) RecordHeartbeat(_ context.Context, id uuid.UUID, firmwareVersion string, now time.Time) error {
	d, ok := r.devices[id]
	if !ok {
		return domainDevice.ErrDeviceNotFound
	}
	r.heartbeats++
	d.LastHeartbeat = &now
	d.LastOnline = &now
	if firmwareVersion != "" {
		d.FirmwareVersion = firmwareVersion
	}
	return nil
}

func (r *fakeDeviceRepo) SetLockState(_ context.Context, id uuid.UUID, locked bool, reason string) error {
	d, ok := r.devices[id]
	if !ok {
		return domainDevice.ErrDeviceNotFound
	}
	if locked {
		d.Status = domainDevice.StatusLocked
		d.LockReason = reason
	} else {
		d.Status = domainDevice.StatusActive
		d.LockReason = ""
	}
	return nil
}

type fakeLicenseRepo struct {
	licenses map[uuid.UUID]*domainLicense.License
}

func newFakeLicenseRepo() *fakeLicenseRepo {
	return &fakeLicenseRepo{licenses: make(map[uuid.UUID]*domainLicense.License)}
}

func (r *fakeLicenseRepo) Create(_ context.Context, l *domainLicense.License) error {
	r.licenses[l.DeviceID] = l
	return nil
}

func (r *fakeLicenseRepo) GetByDevice(_ context.Context, deviceID uuid.UUID) (*domainLicense.License, error) {
	l, ok := r.licenses[deviceID]
	if !ok {
		return nil, domainLicense.ErrLicenseNotFound
	}
	return l, nil
}

func (r *fakeLicenseRepo) GetActiveByDevice(ctx context.Context, deviceID uuid.UUID) (*domainLicense.License, error) {
	l, err := r.GetByDevice(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if l.Status != domainLicense.StatusActive {
		return nil, domainLicense.ErrLicenseNotFound
	}
	return l, nil
}

func (r *fakeLicenseRepo) UpdateStatus(_ context.Context, deviceID uuid.UUID, status domainLicense.Status) error {
	l, ok := r.licenses[deviceID]
	if !ok {
		return domainLicense.ErrLicenseNotFound
	}
	l.Status = status
	return nil
}

type fakeFirmwareRepo struct {
	firmwares map[uuid.UUID]*domainFirmware.Firmware
}

func newFakeFirmwareRepo() *fakeFirmwareRepo {
	return &fakeFirmwareRepo{firmwares: make(map[uuid.UUID]*domainFirmware.Firmware)}
}

func (r *fakeFirmwareRepo) Create(_ context.Context, f *domainFirmware.Firmware) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	r.firmwares[f.ID] = f
	return nil
}

func (r *fakeFirmwareRepo) GetByID(_ context.Context, id uuid.UUID) (*domainFirmware.Firmware, error) {
	f, ok := r.firmwares[id]
	if !ok {
		return nil, domainFirmware.ErrFirmwareNotFound
	}
	return f, nil
}

func (r *fakeFirmwareRepo) ListByDevice(_ context.Context, deviceID uuid.UUID) ([]*domainFirmware.Firmware, error) {
	var out []*domainFirmware.Firmware
	for _, f := range r.firmwares {
		if f.DeviceID == deviceID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *fakeFirmwareRepo) ExistsVersion(_ context.Context, deviceID uuid.UUID, version string) (bool, error) {
	for _, f := range r.firmwares {
		if f.DeviceID == deviceID && f.Version == version {
			return true, nil
		}
	}
	return false, nil
}

type fakeSessionRepo struct {
	sessions []*domainSession.Session
	logs     []*domainSession.Log
	receipts map[string]*domainSession.Receipt
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{receipts: make(map[string]*domainSession.Receipt)}
}

func (r *fakeSessionRepo) CommitBatch(_ context.Context, sessions []*domainSession.Session, logs []*domainSession.Log, receipt *domainSession.Receipt) error {
	idByRef := make(map[string]uuid.UUID, len(sessions))
	for _, s := range sessions {
		s.ID = uuid.New()
		idByRef[s.ClientRef] = s.ID
	}
	for _, l := range logs {
		id, ok := idByRef[l.SessionRef]
		if !ok {
			return domainSession.ErrUnknownSessionRef
		}
		l.SessionID = id
	}
	if receipt != nil {
		k := receipt.DeviceID.String() + "/" + receipt.IdempotencyKey
		if _, exists := r.receipts[k]; exists {
			return domainSession.ErrDuplicateBatch
		}
		r.receipts[k] = receipt
	}
	r.sessions = append(r.sessions, sessions...)
	r.logs = append(r.logs, logs...)
	return nil
}

func (r *fakeSessionRepo) GetReceipt(_ context.Context, deviceID uuid.UUID, key string) (*domainSession.Receipt, error) {
	return r.receipts[deviceID.String()+"/"+key], nil
}

type fakePatientRepo struct{}

func (fakePatientRepo) GetByID(_ context.Context, _ uuid.UUID) (*domainPatient.Patient, error) {
	return nil, domainPatient.ErrPatientNotFound
}

func (fakePatientRepo) Resolve(_ context.Context, _ string) (*domainPatient.Patient, error) {
	return nil, domainPatient.ErrTokenNotFound
}

type syncEnv struct {
	devices  *fakeDeviceRepo
	licenses *fakeLicenseRepo
	firmware *firmware.Service
	sessions *fakeSessionRepo
	service  *Service
	device   *domainDevice.Device
}

func newSyncEnv(t *testing.T) *syncEnv {
	t.Helper()

	devices := newFakeDeviceRepo()
	licenses := newFakeLicenseRepo()
	firmwares := newFakeFirmwareRepo()
	sessions := newFakeSessionRepo()

	store := storage.NewFirmwareStore(afero.NewMemMapFs(), "firmware")
	fwService := firmware.NewService(
		firmwares,
		store,
		utils.NewURLSigner("test-secret"),
		events.NewNoop(),
		firmware.SchemeOrdinal,
		"https://api.example.com",
		5*time.Minute,
	)
	lockService := devicelock.NewService(devices, licenses, events.NewNoop())
	ingestService := ingest.NewService(sessions, fakePatientRepo{}, fakePatientRepo{})

	svc := NewService(devices, lockService, fwService, ingestService, events.NewNoop(), config.SyncConfig{
		IntervalSeconds: 300,
		MaxRetryCount:   3,
		LogLevel:        "info",
	})

	dev := &domainDevice.Device{
		SerialNumber:    "SN-42",
		Status:          domainDevice.StatusActive,
		FirmwareVersion: "1.2.0",
		APIKey:          "key-42",
	}
	_ = devices.Create(context.Background(), dev)

	return &syncEnv{
		devices:  devices,
		licenses: licenses,
		firmware: fwService,
		sessions: sessions,
		service:  svc,
		device:   dev,
	}
}

func (e *syncEnv) grantLicense(licenseType domainLicense.Type, days int) {
	end := time.Now().AddDate(0, 0, days)
	_ = e.licenses.Create(context.Background(), &domainLicense.License{
		DeviceID:    e.device.ID,
		Status:      domainLicense.StatusActive,
		LicenseType: licenseType,
		EndDate:     &end,
	})
}

// A device with no license gets a locked sync response, but the sync
// itself succeeds and the heartbeat is recorded.
func TestSync_NoLicense(t *testing.T) {
	e := newSyncEnv(t)

	resp, err := e.service.Sync(context.Background(), e.device, &Request{})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if resp.Status != "locked" {
		t.Errorf("status = %q, want locked", resp.Status)
	}
	if resp.LicenseValid {
		t.Error("license_valid = true, want false")
	}
	if !resp.IsLocked {
		t.Error("is_locked = false, want true")
	}
	if resp.LockReason == "" {
		t.Error("lock_reason is empty, want a fallback reason")
	}
	if e.devices.heartbeats != 1 {
		t.Errorf("heartbeats = %d, want 1", e.devices.heartbeats)
	}
	if e.device.LastHeartbeat == nil {
		t.Error("LastHeartbeat not set")
	}
}

func TestSync_ValidLicense(t *testing.T) {
	e := newSyncEnv(t)
	e.grantLicense(domainLicense.TypeFull, 30)

	resp, err := e.service.Sync(context.Background(), e.device, &Request{})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}

	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
	if !resp.LicenseValid || resp.IsLocked {
		t.Errorf("license_valid = %t, is_locked = %t, want true and false", resp.LicenseValid, resp.IsLocked)
	}
	if resp.FirmwareUpdate != nil {
		t.Errorf("firmware_update = %+v, want nil with no uploads", resp.FirmwareUpdate)
	}
	if resp.Ingest != nil {
		t.Errorf("ingest = %+v, want nil for a plain heartbeat", resp.Ingest)
	}
}

func TestSync_DeviceConfigByLicenseType(t *testing.T) {
	e := newSyncEnv(t)
	e.grantLicense(domainLicense.TypeTrial, 30)

	resp, err := e.service.Sync(context.Background(), e.device, &Request{})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}

	cfg := resp.DeviceConfig
	if cfg.SyncInterval != 300 || cfg.MaxRetryCount != 3 || cfg.LogLevel != "info" {
		t.Errorf("device_config = %+v, want interval 300, retries 3, level info", cfg)
	}
	for _, f := range []string{"auto_update", "remote_diagnostics", "data_encryption"} {
		if !cfg.Features[f] {
			t.Errorf("feature %q = false, want true for every license", f)
		}
	}
	if cfg.Features["advanced_reporting"] || cfg.Features["multi_user"] {
		t.Error("trial license got full-license features")
	}

	e2 := newSyncEnv(t)
	e2.grantLicense(domainLicense.TypeFull, 30)
	resp2, err := e2.service.Sync(context.Background(), e2.device, &Request{})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if !resp2.DeviceConfig.Features["advanced_reporting"] || !resp2.DeviceConfig.Features["multi_user"] {
		t.Error("full license missing advanced_reporting or multi_user")
	}
}

func TestSync_ReportedFirmwareVersion(t *testing.T) {
	e := newSyncEnv(t)
	e.grantLicense(domainLicense.TypeFull, 30)

	_, err := e.service.Sync(context.Background(), e.device, &Request{FirmwareVersion: "1.3.0"})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if e.device.FirmwareVersion != "1.3.0" {
		t.Errorf("firmware version = %q, want 1.3.0", e.device.FirmwareVersion)
	}
}

func TestSync_FirmwareUpdateOffered(t *testing.T) {
	e := newSyncEnv(t)
	e.grantLicense(domainLicense.TypeFull, 30)

	if _, err := e.firmware.Upload(context.Background(), e.device.ID, "1.3.0", "fixes", strings.NewReader("fw")); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	resp, err := e.service.Sync(context.Background(), e.device, &Request{FirmwareVersion: "1.2.0"})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if resp.FirmwareUpdate == nil {
		t.Fatal("firmware_update is nil, want an update to 1.3.0")
	}
	if resp.FirmwareUpdate.Version != "1.3.0" {
		t.Errorf("update version = %q, want 1.3.0", resp.FirmwareUpdate.Version)
	}

	// The update the device just reported installing is not re-offered.
	resp, err = e.service.Sync(context.Background(), e.device, &Request{FirmwareVersion: "1.3.0"})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if resp.FirmwareUpdate != nil {
		t.Errorf("firmware_update = %+v, want nil once installed", resp.FirmwareUpdate)
	}
}

func TestSync_WithBatch(t *testing.T) {
	e := newSyncEnv(t)
	e.grantLicense(domainLicense.TypeFull, 30)

	req := &Request{
		Sessions: []ingest.SessionItem{{
			Reference: "s1",
			StartTime: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		}},
		Logs: []ingest.LogItem{{
			SessionReference: "s1",
			LogType:          "info",
			Message:          "session complete",
			LoggedAt:         time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		}},
	}

	resp, err := e.service.Sync(context.Background(), e.device, req)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if resp.Ingest == nil {
		t.Fatal("ingest summary is nil, want counts")
	}
	if resp.Ingest.SessionsCreated != 1 || resp.Ingest.LogsCreated != 1 {
		t.Errorf("ingest = %+v, want 1 session and 1 log", resp.Ingest)
	}
	if resp.Ingest.Error != "" {
		t.Errorf("ingest error = %q, want empty", resp.Ingest.Error)
	}
	if len(e.sessions.sessions) != 1 {
		t.Errorf("committed %d sessions, want 1", len(e.sessions.sessions))
	}
}

// A failed batch is reported in the ingest summary; the sync response
// and the heartbeat still stand.
func TestSync_IngestFailureIsNotFatal(t *testing.T) {
	e := newSyncEnv(t)
	e.grantLicense(domainLicense.TypeFull, 30)

	req := &Request{
		Sessions: []ingest.SessionItem{{
			Reference: "s1",
			StartTime: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		}},
		Logs: []ingest.LogItem{{
			SessionReference: "missing-ref",
			LogType:          "error",
			Message:          "orphan",
			LoggedAt:         time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		}},
	}

	resp, err := e.service.Sync(context.Background(), e.device, req)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok despite failed ingest", resp.Status)
	}
	if resp.Ingest == nil || resp.Ingest.Error == "" {
		t.Fatalf("ingest = %+v, want an error in the summary", resp.Ingest)
	}
	if resp.Ingest.SessionsCreated != 0 {
		t.Errorf("created_sessions = %d, want 0", resp.Ingest.SessionsCreated)
	}
	if len(e.sessions.sessions) != 0 {
		t.Errorf("committed %d sessions, want 0", len(e.sessions.sessions))
	}
	if e.devices.heartbeats != 1 {
		t.Errorf("heartbeats = %d, want 1: ingest failure must not roll back the heartbeat", e.devices.heartbeats)
	}
}

func TestSync_AdminLockedDevice(t *testing.T) {
	e := newSyncEnv(t)
	e.grantLicense(domainLicense.TypeFull, 30)
	e.device.Status = domainDevice.StatusLocked
	e.device.LockReason = "payment overdue"

	resp, err := e.service.Sync(context.Background(), e.device, &Request{})
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if resp.Status != "locked" || !resp.IsLocked {
		t.Errorf("status = %q, is_locked = %t, want locked/true", resp.Status, resp.IsLocked)
	}
	if resp.LockReason != "payment overdue" {
		t.Errorf("lock_reason = %q, want %q", resp.LockReason, "payment overdue")
	}
	if !resp.LicenseValid {
		t.Error("license_valid = false, want true: the license axis is independent")
	}
}
