package firmware

import "errors"

var (
	ErrFirmwareNotFound = errors.New("firmware not found")
	ErrVersionExists    = errors.New("firmware version already exists for device")
)
