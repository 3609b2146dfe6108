package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownServiceType is returned when the requested service type has no rule entry
	ErrUnknownServiceType = errors.New("unknown service type")

	// ErrUnknownOption is returned when a duration, complexity or extra has no rule entry
	ErrUnknownOption = errors.New("unknown configuration option")

	// ErrMissingSignature is returned when a submission carries no signature image
	ErrMissingSignature = errors.New("signature is required")

	// ErrTermsNotAccepted is returned when a submission arrives without accepted terms
	ErrTermsNotAccepted = errors.New("terms must be accepted")

	// ErrEmptyCorrection is returned when a correction changes no fields
	ErrEmptyCorrection = errors.New("correction contains no field changes")

	// ErrUncorrectableField is returned when a correction touches a frozen field
	ErrUncorrectableField = errors.New("field cannot be corrected")
)
