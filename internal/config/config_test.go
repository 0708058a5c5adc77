package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Sync.IntervalSeconds != 300 {
		t.Errorf("Sync.IntervalSeconds = %d, want 300", cfg.Sync.IntervalSeconds)
	}
	if cfg.Sync.MaxRetryCount != 3 {
		t.Errorf("Sync.MaxRetryCount = %d, want 3", cfg.Sync.MaxRetryCount)
	}
	if cfg.Sync.LogLevel != "info" {
		t.Errorf("Sync.LogLevel = %q, want info", cfg.Sync.LogLevel)
	}
	if cfg.Firmware.VersionScheme != "ordinal" {
		t.Errorf("Firmware.VersionScheme = %q, want ordinal", cfg.Firmware.VersionScheme)
	}
	if cfg.Firmware.DownloadURLExpiry != 300 {
		t.Errorf("Firmware.DownloadURLExpiry = %d, want 300", cfg.Firmware.DownloadURLExpiry)
	}
	if cfg.Database.MaxOpenConns != 25 || cfg.Database.MaxIdleConns != 5 {
		t.Errorf("pool = %d/%d, want 25/5", cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DEVICE_SYNC_INTERVAL", "60")
	t.Setenv("FIRMWARE_VERSION_SCHEME", "numeric")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Sync.IntervalSeconds != 60 {
		t.Errorf("Sync.IntervalSeconds = %d, want env override 60", cfg.Sync.IntervalSeconds)
	}
	if cfg.Firmware.VersionScheme != "numeric" {
		t.Errorf("Firmware.VersionScheme = %q, want env override numeric", cfg.Firmware.VersionScheme)
	}
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{
		Host:     "localhost",
		Port:     "5432",
		User:     "app",
		Password: "secret",
		DBName:   "clinic",
		SSLMode:  "disable",
	}

	want := "host=localhost port=5432 user=app password=secret dbname=clinic sslmode=disable"
	if got := db.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
