// Package storage keeps firmware binaries on an afero filesystem so the
// production store (OsFs) and the test store (MemMapFs) share one code
// path. Checksums are SHA-256 hex digests of the stored bytes.
package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

var ErrFileMissing = errors.New("firmware file missing from storage")

type FirmwareStore struct {
	fs      afero.Fs
	baseDir string
}

func NewFirmwareStore(fs afero.Fs, baseDir string) *FirmwareStore {
	return &FirmwareStore{fs: fs, baseDir: baseDir}
}

// Save writes the binary under <base>/<device>/<version>.bin and returns
// the relative path and the checksum of the bytes written.
func (s *FirmwareStore) Save(deviceID uuid.UUID, version string, r io.Reader) (string, string, error) {
	relPath := filepath.Join(deviceID.String(), version+".bin")
	fullPath := filepath.Join(s.baseDir, relPath)

	if err := s.fs.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create firmware directory: %w", err)
	}

	f, err := s.fs.Create(fullPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to create firmware file: %w", err)
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.Copy(io.MultiWriter(f, hasher), r); err != nil {
		return "", "", fmt.Errorf("failed to write firmware file: %w", err)
	}

	return relPath, hex.EncodeToString(hasher.Sum(nil)), nil
}

// Open returns a reader over the stored binary along with its size.
func (s *FirmwareStore) Open(relPath string) (io.ReadSeekCloser, int64, error) {
	fullPath := filepath.Join(s.baseDir, relPath)

	info, err := s.fs.Stat(fullPath)
	if err != nil {
		return nil, 0, ErrFileMissing
	}

	f, err := s.fs.Open(fullPath)
	if err != nil {
		return nil, 0, ErrFileMissing
	}

	return f, info.Size(), nil
}

// Checksum recomputes the digest of the stored binary.
func (s *FirmwareStore) Checksum(relPath string) (string, error) {
	f, _, err := s.Open(relPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", fmt.Errorf("failed to hash firmware file: %w", err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
