package contracts

import (
	"errors"
	"fmt"
)

// Sentinel errors for the three failure categories the service
// distinguishes. Handlers map them to HTTP status codes with errors.Is,
// so wrapped errors must keep these in their chains.
var (
	// ErrValidation marks client input that failed validation (400).
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a lookup that matched nothing (404).
	ErrNotFound = errors.New("not found")

	// ErrStore marks a storage backend failure (500).
	ErrStore = errors.New("store failure")
)

// ValidationError reports a single invalid request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError reports a miss for one (kind, sign, date) key.
type NotFoundError struct {
	Kind   Kind
	SignID int
	Date   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s horoscope for sign %d on %s", e.Kind, e.SignID, e.Date)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFoundError builds a NotFoundError for the given key.
func NewNotFoundError(kind Kind, signID int, date string) error {
	return &NotFoundError{Kind: kind, SignID: signID, Date: date}
}

// StoreError wraps a backend failure with the operation that hit it.
// Unwrapping yields both ErrStore and the underlying cause.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() []error { return []error{ErrStore, e.Err} }

// NewStoreError wraps err as a StoreError for operation op.
func NewStoreError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
