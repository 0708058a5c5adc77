package session

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists device-originated telemetry batches.
type Repository interface {
	// CommitBatch persists all sessions, binds each log to the session
	// created from the same client reference, and records the receipt
	// when non-nil. The whole batch commits atomically or not at all.
	// Every log's SessionRef must match a session's ClientRef; the
	// caller validates this before persisting anything.
	CommitBatch(ctx context.Context, sessions []*Session, logs []*Log, receipt *Receipt) error

	// GetReceipt returns the receipt for a previously processed
	// idempotency key, or nil when the key is unseen.
	GetReceipt(ctx context.Context, deviceID uuid.UUID, key string) (*Receipt, error)
}
