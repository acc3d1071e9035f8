package domain

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound covers absent rooms, customers, bookings and accounts.
	ErrNotFound = errors.New("not found")

	// ErrRoomUnavailable is returned when booking a room whose status is occupied.
	ErrRoomUnavailable = errors.New("room unavailable")

	// ErrConflict signals a uniqueness violation (duplicate booking id, taken username).
	ErrConflict = errors.New("conflict")

	// ErrInvalidCredentials is returned on login for both unknown usernames and
	// wrong passwords, so the two cases are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports malformed input, one message per violated rule.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

func Validation(violations ...string) error {
	return &ValidationError{Violations: violations}
}
