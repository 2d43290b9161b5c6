package queue

import (
	"fmt"
	"strings"
)

// AddInput is what staff type in to queue a new party.
type AddInput struct {
	CustomerName string
	Phone        string
	PartySize    int
	Type         Type
}

// ValidationError reports input rejected before any request was made.
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

// Normalize trims free-text fields.
func (in AddInput) Normalize() AddInput {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.Phone = strings.TrimSpace(in.Phone)
	return in
}

// Validate checks the required fields in form order and returns the first
// problem found.
func (in AddInput) Validate() error {
	in = in.Normalize()
	switch {
	case in.CustomerName == "":
		return &ValidationError{Field: "name", Message: "customer name is required"}
	case in.Phone == "":
		return &ValidationError{Field: "phone", Message: "phone number is required"}
	case in.PartySize <= 0:
		return &ValidationError{Field: "party size", Message: "party size must be at least 1"}
	case !in.Type.Valid():
		return &ValidationError{Field: "type", Message: "choose Table or Takeaway"}
	}
	return nil
}
