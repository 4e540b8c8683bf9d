package models

import (
	"errors"
	"fmt"
	"strings"
)

// Common error types
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrConflict      = errors.New("operation conflicts with current state")
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// AppError represents an application-level error with context
type AppError struct {
	Code    string
	Message string
	Fields  []FieldError
	Err     error
}

func (e *AppError) Error() string {
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Reason))
		}
		return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, "; "))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ErrInvalidInput creates a validation error
func ErrInvalidInput(message string) error {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
	}
}

// ErrValidation creates a validation error carrying every failing field,
// not just the first one encountered.
func ErrValidation(fields []FieldError) error {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: "validation failed",
		Fields:  fields,
	}
}

// ErrCustomerNotFound creates a referential-lookup error identifying the
// missing customer. Distinct from generic NOT_FOUND so clients can render
// a specific message.
func ErrCustomerNotFound(id int64) error {
	return &AppError{
		Code:    "CUSTOMER_NOT_FOUND",
		Message: fmt.Sprintf("customer with ID %d not found", id),
		Err:     ErrNotFound,
	}
}

// ErrNotFoundWithMsg creates a not found error with custom message
func ErrNotFoundWithMsg(message string) error {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: message,
		Err:     ErrNotFound,
	}
}

// ErrConflictWithMsg creates a conflict error with custom message
func ErrConflictWithMsg(message string) error {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
		Err:     ErrConflict,
	}
}

// ErrUnauthorized creates an authentication error
func ErrUnauthorized(message string) error {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
	}
}
