package models

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an entity does not exist or is soft-deleted.
var ErrNotFound = errors.New("not found")

// ValidationError rejects a malformed or incomplete payload before any
// storage access happens.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// ForbiddenError is returned when the caller's role is not in the
// operation's allow-list.
type ForbiddenError struct {
	Role string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("access denied. Role '%s' is not authorized", e.Role)
}

// ConflictError is returned on a unique-name collision.
type ConflictError struct {
	Entity string
	Name   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("a %s with the name '%s' already exists", e.Entity, e.Name)
}

// AuthServiceError carries a non-2xx response from the identity service.
// Its status code is propagated verbatim to the caller.
type AuthServiceError struct {
	StatusCode int
	Body       string
}

func (e *AuthServiceError) Error() string {
	return fmt.Sprintf("authentication service error: %s", e.Body)
}

// UpstreamError carries a non-2xx response from the product catalog.
type UpstreamError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s service returned an error: status %d - %s", e.Service, e.StatusCode, e.Body)
}

// UnavailableError wraps a network-level failure reaching an external service.
type UnavailableError struct {
	Service string
	Err     error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s service is unavailable: %v", e.Service, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }
