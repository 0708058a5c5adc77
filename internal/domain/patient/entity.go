// Package patient exposes the slice of the patient subsystem the device
// protocol needs: identity lookup and temporary token resolution. The
// patient CRUD itself belongs to an external collaborator.
package patient

import (
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	ID       uuid.UUID
	ClinicID uuid.UUID
}

// Token is a short-lived patient self-service token (QR code flow).
type Token struct {
	Token     string
	PatientID uuid.UUID
	ExpiresAt time.Time
}
