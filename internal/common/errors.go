// Package common contains shared constants and sentinel errors used across
// PharmTrack client components. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Recovery-specific errors.
	ErrNoRecoveryData     = errors.New("no recovery data on this device")
	ErrPinMismatch        = errors.New("incorrect PIN")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrRecoveryNotStarted = errors.New("recovery not started for this user")
	ErrPinNotVerified     = errors.New("recovery PIN not verified")
)
