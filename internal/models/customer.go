package models

import (
	"net/mail"
	"time"
)

// Customer represents a customer in the system
type Customer struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Code     string    `json:"code"`
	Email    string    `json:"email,omitempty"`
	Phone    string    `json:"phone"`
	Location string    `json:"location,omitempty"`
	JoinedAt time.Time `json:"joined_at"`
}

// CustomerFilter holds filtering options for listing customers
type CustomerFilter struct {
	Phone    string
	Location string
	Page     int
	PageSize int
}

// Validate checks customer fields against the data-model invariants and
// reports every failing field. Phone format is checked separately by the
// phone package before storage.
func (c *Customer) Validate() error {
	var fields []FieldError

	if c.Name == "" {
		fields = append(fields, FieldError{Field: "name", Reason: "name is required"})
	}
	if len(c.Code) < 3 {
		fields = append(fields, FieldError{Field: "code", Reason: "code must be at least 3 characters"})
	}
	if c.Phone == "" {
		fields = append(fields, FieldError{Field: "phone", Reason: "phone is required"})
	}
	if c.Email != "" {
		if _, err := mail.ParseAddress(c.Email); err != nil {
			fields = append(fields, FieldError{Field: "email", Reason: "email is not a valid address"})
		}
	}

	if len(fields) > 0 {
		return ErrValidation(fields)
	}
	return nil
}
