package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrEmailRequired      = errors.New("email is required")
	ErrCartEmpty          = errors.New("cart is empty")
	ErrShippingIncomplete = errors.New("shipping address is incomplete")
	ErrInvalidPostalCode  = errors.New("enter a valid 6-digit PIN")
	ErrAlreadySubmitted   = errors.New("checkout already submitted")
)

// ValidationError names the form field that failed.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// SubmitError is returned when the order sink fails. The cart is left intact
// and the caller may retry.
type SubmitError struct {
	Err error
}

func (e *SubmitError) Error() string {
	return "order submission failed: " + e.Err.Error()
}

func (e *SubmitError) Unwrap() error { return e.Err }

// Retryable is always true: the cart is kept and the shopper may resubmit.
func (e *SubmitError) Retryable() bool { return true }
