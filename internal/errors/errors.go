// internal/errors/errors.go
package errors

import (
	stderrors "errors"
	"fmt"
)

// Sentinel errors shared by the stores, the GitHub client and the sync orchestrator.
// Callers match them with errors.Is; the typed errors below wrap them.
var (
	ErrNotFound      = stderrors.New("not found")
	ErrAuthFailure   = stderrors.New("authentication failed")
	ErrRemote        = stderrors.New("remote error")
	ErrLimitExceeded = stderrors.New("limit exceeded")
	ErrAlreadyPinned = stderrors.New("already pinned")
	ErrValidation    = stderrors.New("validation error")
)

// RemoteError describes a failed call against the GitHub API.
// Kind is one of ErrNotFound, ErrAuthFailure or ErrRemote.
type RemoteError struct {
	Op      string
	Status  int
	Message string
	Kind    error
}

func (e *RemoteError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("github %s: %s (status %d)", e.Op, e.Message, e.Status)
	}
	return fmt.Sprintf("github %s: %s", e.Op, e.Message)
}

func (e *RemoteError) Unwrap() error {
	if e.Kind == nil {
		return ErrRemote
	}
	return e.Kind
}

// ValidationError is returned when caller input is malformed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid is shorthand for building a *ValidationError.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NotFound reports a missing local record, e.g. an unknown identity.
func NotFound(resource, id string) error {
	return fmt.Errorf("%s %q: %w", resource, id, ErrNotFound)
}

// PinLimitError is returned when an identity already holds the maximum number of pins.
type PinLimitError struct {
	Limit int
}

func (e *PinLimitError) Error() string {
	return fmt.Sprintf("maximum %d repositories can be pinned", e.Limit)
}

func (e *PinLimitError) Unwrap() error { return ErrLimitExceeded }

// AlreadyPinnedError is returned for a duplicate pin of the same item.
type AlreadyPinnedError struct {
	ItemID string
}

func (e *AlreadyPinnedError) Error() string {
	return fmt.Sprintf("repository %q is already pinned", e.ItemID)
}

func (e *AlreadyPinnedError) Unwrap() error { return ErrAlreadyPinned }
