// Package domain holds the error taxonomy and small value types shared by all
// aggregates of the care service.
package domain

import (
	"errors"
	"fmt"
)

// ValidationError reports input that violates a business rule.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NewValidationError creates a ValidationError.
func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

// NotFoundError reports a missing resource.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// NewNotFoundError creates a NotFoundError for the given resource and identifier.
func NewNotFoundError(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// ForbiddenError reports that the caller may not act on a resource.
type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string { return e.Msg }

// NewForbiddenError creates a ForbiddenError.
func NewForbiddenError(msg string) error {
	return &ForbiddenError{Msg: msg}
}

// ConflictError reports a concurrent modification or a uniqueness clash.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// NewConflictError creates a ConflictError.
func NewConflictError(msg string) error {
	return &ConflictError{Msg: msg}
}

// InvalidStateError reports an operation that the aggregate's state does not allow.
type InvalidStateError struct {
	Current string
	Target  string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.Current, e.Target)
}

// NewInvalidStateError creates an InvalidStateError.
func NewInvalidStateError(current, target string) error {
	return &InvalidStateError{Current: current, Target: target}
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsForbidden(err error) bool {
	var target *ForbiddenError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

func IsInvalidState(err error) bool {
	var target *InvalidStateError
	return errors.As(err, &target)
}
