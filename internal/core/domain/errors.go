package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRecordInUse indicates a record cannot be deleted because cases reference it.
	ErrRecordInUse = errors.New("record is referenced by one or more cases")

	// ErrProviderUnavailable indicates the relevance or advisory provider is not configured.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrSuperseded indicates a newer request for the same case replaced this one.
	// The superseded request has no effect.
	ErrSuperseded = errors.New("superseded by a newer request")

	// ErrInconsistentSnapshot indicates a snapshot broke one of its invariants.
	ErrInconsistentSnapshot = errors.New("inconsistent snapshot")
)

// ValidationError reports malformed draft input.
// Message is meant to be shown to the operator as-is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError creates a ValidationError for a field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ProviderError reports a failed, timed-out or malformed call to an external
// relevance or advisory provider.
type ProviderError struct {
	// Op names the boundary call, e.g. "rank" or "advise".
	Op string

	// CaseID is the case the call was made for, if any.
	CaseID string

	Err error
}

func (e *ProviderError) Error() string {
	if e.CaseID == "" {
		return fmt.Sprintf("provider %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("provider %s for case %s: %v", e.Op, e.CaseID, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ConsistencyViolation reports a broken snapshot invariant.
// It signals a programming error, never a recoverable runtime case.
type ConsistencyViolation struct {
	RecordID string
	Reason   string
}

func (e *ConsistencyViolation) Error() string {
	return fmt.Sprintf("consistency violation for record %s: %s", e.RecordID, e.Reason)
}

func (e *ConsistencyViolation) Unwrap() error {
	return ErrInconsistentSnapshot
}

// RecordInUseError blocks deletion of a record still referenced by cases.
type RecordInUseError struct {
	RecordID  string
	CaseCount int
}

func (e *RecordInUseError) Error() string {
	return fmt.Sprintf("record %s is included in %d case(s) and cannot be deleted", e.RecordID, e.CaseCount)
}

func (e *RecordInUseError) Unwrap() error {
	return ErrRecordInUse
}
