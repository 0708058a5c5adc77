package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrTokenNotFound   = errors.New("patient token not found or expired")
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
}

// TokenResolver resolves an unexpired patient token to its patient.
type TokenResolver interface {
	Resolve(ctx context.Context, token string) (*Patient, error)
}
