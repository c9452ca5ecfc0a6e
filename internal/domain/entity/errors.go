package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an indent, bookmark, session or user
	// does not exist
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied is returned when the actor does not own the
	// record it is trying to mutate
	ErrPermissionDenied = errors.New("permission denied")

	// ErrToolNotFound is returned when a tool call names an unregistered tool
	ErrToolNotFound = errors.New("tool not found")

	// ErrUpstreamTimeout is returned when a model or tool call exceeds its
	// deadline; the turn fails with no status mutation
	ErrUpstreamTimeout = errors.New("upstream call timed out")
)

// DuplicateTripMessage is the user-facing remediation message for duplicate
// submissions.
const DuplicateTripMessage = "You already have a request for the same route and dates. Please update the existing ticket instead of creating a duplicate."

// PolicyViolationMessage is surfaced verbatim when an HR action is attempted
// before manager approval.
const PolicyViolationMessage = "Manager approval required before HR can approve or book this ticket."

// ValidationError reports malformed input. Never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for a single field
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// DuplicateTripError reports that an active duplicate indent already exists
// for the same employee, route and dates.
type DuplicateTripError struct {
	ExistingIndentID string
}

func (e *DuplicateTripError) Error() string {
	return DuplicateTripMessage
}

// InvalidStateError reports a transition or edit not permitted from the
// record's current status.
type InvalidStateError struct {
	Reason string
}

func (e *InvalidStateError) Error() string {
	return e.Reason
}

// PolicyViolationError reports an HR action attempted before manager
// approval.
type PolicyViolationError struct{}

func (e *PolicyViolationError) Error() string {
	return PolicyViolationMessage
}

// IsDuplicateTrip reports whether err is a DuplicateTripError
func IsDuplicateTrip(err error) bool {
	var dup *DuplicateTripError
	return errors.As(err, &dup)
}

// IsPolicyViolation reports whether err is a PolicyViolationError
func IsPolicyViolation(err error) bool {
	var pv *PolicyViolationError
	return errors.As(err, &pv)
}

// IsInvalidState reports whether err is an InvalidStateError
func IsInvalidState(err error) bool {
	var is *InvalidStateError
	return errors.As(err, &is)
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
