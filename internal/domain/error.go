package domain

import (
	"errors"
	"fmt"
)

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrAlreadyExists   = errors.New("entity already exists")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnauthorized    = errors.New("missing or invalid credentials")
	ErrForbidden       = errors.New("caller does not own this entity")

	// Activation rejections. Each maps to its own stable status signal in the
	// web layer and is never collapsed into a generic error.
	ErrPromoNotActive     = errors.New("promo is switched off")
	ErrPromoOutsideWindow = errors.New("promo is outside its activation window")
	ErrPromoExhausted     = errors.New("promo capacity exhausted")
	ErrAlreadyRedeemed    = errors.New("promo already redeemed by this user")
	ErrNotEligible        = errors.New("user does not match promo target")
	ErrCodeMismatch       = errors.New("requested code is not in the pool")

	// Patch rejections
	ErrImmutableField = errors.New("field is immutable after creation")

	// Infra errors
	ErrInvalidExecContext = errors.New("invalid executor context")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
)

// ValidationError reports the first field of an input that failed structural
// validation. It is never persisted and never partially applied.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Invalid builds a ValidationError for a single field.
func Invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
