package license

import (
	"testing"
	"time"
)

func TestValidAt(t *testing.T) {
	day := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)
	date := func(y int, m time.Month, d int) *time.Time {
		v := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &v
	}

	tests := []struct {
		name    string
		status  Status
		endDate *time.Time
		want    bool
	}{
		{"active future", StatusActive, date(2026, 4, 1), true},
		{"active same day", StatusActive, date(2026, 3, 15), true},
		{"active past", StatusActive, date(2026, 3, 14), false},
		{"locked future", StatusLocked, date(2026, 4, 1), false},
		{"expired status", StatusExpired, date(2026, 4, 1), false},
		{"no end date", StatusActive, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &License{Status: tt.status, EndDate: tt.endDate}
			if got := l.ValidAt(day); got != tt.want {
				t.Errorf("ValidAt() = %t, want %t", got, tt.want)
			}
		})
	}
}

// Validity is date-granular: a license expiring today stays valid for
// the whole day regardless of the end date's stored clock time.
func TestValidAt_DateGranularity(t *testing.T) {
	end := time.Date(2026, 3, 15, 0, 0, 1, 0, time.UTC)
	l := &License{Status: StatusActive, EndDate: &end}

	lateSameDay := time.Date(2026, 3, 15, 23, 59, 0, 0, time.UTC)
	if !l.ValidAt(lateSameDay) {
		t.Error("ValidAt(end of same day) = false, want true")
	}
}
