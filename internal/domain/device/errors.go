package device

import "errors"

var (
	ErrDeviceNotFound      = errors.New("device not found")
	ErrDeviceAlreadyExists = errors.New("device with this serial number already exists")
	ErrInvalidAPIKey       = errors.New("invalid or inactive device API key")
)
