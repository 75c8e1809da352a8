package amocrm

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by errors.Is for every lookup that yields no
	// record.
	ErrNotFound = errors.New("amocrm: object not found")

	// ErrUnknownOperation is returned when an operation name is not present in
	// the manager's registry.
	ErrUnknownOperation = errors.New("amocrm: unknown operation")

	// ErrResponsibleUserNotFound is returned when the configured responsible
	// user cannot be matched against the account's users.
	ErrResponsibleUserNotFound = errors.New("amocrm: can not get responsible user id")
)

// NotFoundError is returned by Manager.Get when no object matches the id.
type NotFoundError struct {
	Entity string
	ID     any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("amocrm: %s with id %v not found", e.Entity, e.ID)
}

// Is reports ErrNotFound as the error's kind.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AuthenticationError is returned when the API rejects the session
// credentials. It is never retried.
type AuthenticationError struct {
	StatusCode int
	Message    string
}

func (e *AuthenticationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("amocrm: unauthorized (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("amocrm: unauthorized (status %d): %s", e.StatusCode, e.Message)
}

// PermissionError is returned when the authenticated user is not allowed to
// perform the request.
type PermissionError struct {
	StatusCode int
	Message    string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("amocrm: permission denied (status %d): %s", e.StatusCode, e.Message)
}

// PaymentRequiredError is returned when the account's plan does not include
// the requested feature.
type PaymentRequiredError struct {
	Message string
}

func (e *PaymentRequiredError) Error() string {
	return fmt.Sprintf("amocrm: payment required: %s", e.Message)
}

// APIError is returned for any other unexpected HTTP status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("amocrm: wrong status %d (%s)", e.StatusCode, e.Body)
}

// TransportError wraps connection-level failures, kept distinct from
// HTTP-level failures.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("amocrm: %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
