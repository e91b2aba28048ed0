// Package services implements the recognition core: composing the
// notification text, building the recognition record, updating the receiver's
// aggregate and orchestrating the three for one submission. This file
// centralizes the service-level error values.
//
// Translation into HTTP status codes happens in the handler layer; callers
// match these values with errors.Is.
package services

import (
	"errors"
	"fmt"
)

// Input validation errors. Each specific error wraps ErrInvalidInput.
var (
	// ErrInvalidInput marks a submission missing a required field.
	ErrInvalidInput = errors.New("invalid input")

	ErrMissingMessage  = fmt.Errorf("%w: message is required", ErrInvalidInput)
	ErrMissingUser     = fmt.Errorf("%w: user is required", ErrInvalidInput)
	ErrMissingReceiver = fmt.Errorf("%w: receiver is required", ErrInvalidInput)
	ErrMissingCategory = fmt.Errorf("%w: kudo_value is required", ErrInvalidInput)
)

var (
	// ErrComposition is returned when the message composer is handed
	// arguments outside its contract, such as an unknown category.
	ErrComposition = errors.New("cannot compose recognition message")

	// ErrUserNotFound indicates that no aggregate exists for the requested user.
	ErrUserNotFound = errors.New("user not found")
)
