package license

import "errors"

var ErrLicenseNotFound = errors.New("no license found for device")
