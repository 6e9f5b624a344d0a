package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Validation error
//
// Commands rejected at issue time (insufficient funds, limit exceeded, wrong queue type)
// return a ValidationError and leave all state untouched.

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// InsufficientFundsError is a ValidationError raised when prepayment cannot be covered
type InsufficientFundsError struct {
	*ValidationError
	Required  int
	Available int
}

func NewInsufficientFundsError(required, available int) *InsufficientFundsError {
	return &InsufficientFundsError{
		ValidationError: NewValidationError("funds", fmt.Sprintf("insufficient funds: need %d, have %d", required, available)),
		Required:        required,
		Available:       available,
	}
}

// InvalidStateError reports an operation attempted from a state that does not allow it
type InvalidStateError struct {
	*DomainError
	Operation string
	State     string
}

func NewInvalidStateError(operation, state string) *InvalidStateError {
	return &InvalidStateError{
		DomainError: NewDomainError(fmt.Sprintf("cannot %s in %s state", operation, state)),
		Operation:   operation,
		State:       state,
	}
}
