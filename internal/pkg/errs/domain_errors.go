package errs

import (
	"fmt"

	"github.com/google/uuid"
)

// Error taxonomy shared by every layer. Specific errors are marked with one
// of these so transports can map them without knowing the concrete cause.
var (
	ErrValidation          = New("validation failed")
	ErrResourceUnavailable = New("resource unavailable")
	ErrDuplicateRequest    = New("duplicate request")
	ErrNotFound            = New("not found")
	ErrForbidden           = New("forbidden")
	ErrInvalidTransition   = New("invalid state transition")
)

// DuplicateRequestError is returned when a live idempotency record exists for
// the key. The prior outcome is authoritative and travels with the error.
type DuplicateRequestError struct {
	Scope    string
	Key      string
	Outcome  string
	EntityID uuid.UUID
}

func (e *DuplicateRequestError) Error() string {
	return fmt.Sprintf("duplicate request for %s key %q (prior outcome %s, entity %s)", e.Scope, e.Key, e.Outcome, e.EntityID)
}

func (e *DuplicateRequestError) Is(target error) bool {
	return target == ErrDuplicateRequest
}
