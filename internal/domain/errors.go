package domain

import "errors"

// Sentinel errors shared across services. Controllers translate these into
// HTTP status codes; services pass them through unwrapped.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict on write")

	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")
)

// Admission validation errors. Each precondition of request submission and
// moderation fails with its own error so callers can report the exact rule
// that was violated.
var (
	ErrDuplicateRequest  = errors.New("request already exists for this event")
	ErrSelfParticipation = errors.New("initiator cannot request own event")
	ErrEventNotPublished = errors.New("event is not published")
	ErrCapacityExceeded  = errors.New("participant limit is reached")
	ErrNotOwner          = errors.New("request belongs to another user")
)
