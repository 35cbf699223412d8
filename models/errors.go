package models

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError carries field-level messages for malformed input.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], ", ")))
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, "; "))
}

func (e *ValidationError) Add(field, message string) *ValidationError {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], message)
	return e
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) != 0
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func NewFieldError(field, message string) *ValidationError {
	return NewValidationError("The given data was invalid.").Add(field, message)
}

// NotVisibleError is returned when the record exists but the caller may not see it.
type NotVisibleError struct {
	Message string
}

func (e *NotVisibleError) Error() string {
	return e.Message
}

func NewNotVisibleError(message string) *NotVisibleError {
	if message == "" {
		message = "Travel order not found."
	}
	return &NotVisibleError{Message: message}
}

// InvalidTransitionError is returned when the order state does not allow the operation.
type InvalidTransitionError struct {
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	return e.Reason
}

func NewInvalidTransitionError(reason string) *InvalidTransitionError {
	return &InvalidTransitionError{Reason: reason}
}

// InvalidStepError is returned when the action does not match the approval step.
type InvalidStepError struct {
	Reason string
}

func (e *InvalidStepError) Error() string {
	return e.Reason
}

// ForbiddenError is returned when the caller role may not use the operation at all.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

func NewForbiddenError(message string) *ForbiddenError {
	if message == "" {
		message = "Forbidden."
	}
	return &ForbiddenError{Message: message}
}

// ExtensionUnavailableError means a required rendering capability is missing at runtime.
type ExtensionUnavailableError struct {
	Capability string
	Message    string
}

func (e *ExtensionUnavailableError) Error() string {
	return fmt.Sprintf("%s: %s", e.Capability, e.Message)
}

// UnauthorizedError is returned on bad credentials.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

// AccountInactiveError is returned when an inactive account tries to log in.
type AccountInactiveError struct {
	Reason string
}

func (e *AccountInactiveError) Error() string {
	return "Your account has been deactivated."
}
