package license

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
	StatusLocked  Status = "locked"
)

type Type string

const (
	TypeTrial Type = "trial"
	TypeFull  Type = "full"
)

type License struct {
	ID          uuid.UUID
	DeviceID    uuid.UUID
	Status      Status
	LicenseType Type
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedAt   time.Time
}

// ValidAt reports whether the license is usable on the given day:
// active status and an end date on or after it. Expiry is a computed
// view; the stored status is not flipped by the passage of time.
func (l *License) ValidAt(day time.Time) bool {
	if l.Status != StatusActive || l.EndDate == nil {
		return false
	}
	y1, m1, d1 := l.EndDate.Date()
	y2, m2, d2 := day.Date()
	end := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	today := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return !end.Before(today)
}
