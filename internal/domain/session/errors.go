package session

import "errors"

var (
	ErrUnknownSessionRef = errors.New("log references unknown session reference")
	ErrDuplicateBatch    = errors.New("batch with this idempotency key already processed")
)
