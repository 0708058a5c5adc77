// Package auth models the authenticated caller of a request.
//
// The caller is resolved exactly once at the middleware boundary into a
// tagged Actor value; downstream code switches on the concrete type
// instead of probing for attributes.
package auth

import "github.com/google/uuid"

type Actor interface {
	isActor()
}

// DeviceActor is a physical device authenticated by its API key.
type DeviceActor struct {
	DeviceID uuid.UUID
}

// HumanActor is a human user authenticated by the external identity
// service. Only the claims needed for ownership checks are carried.
type HumanActor struct {
	UserID   string
	Role     string
	ClinicID *uuid.UUID
}

func (DeviceActor) isActor() {}
func (HumanActor) isActor()  {}
