package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")

	// Phone verification lifecycle.
	ErrValidation        = errors.New("validation failed")
	ErrAlreadyRegistered = errors.New("phone number already registered")
	ErrDispatch          = errors.New("sms dispatch failed")
	ErrCodeExpired       = errors.New("verification code expired")
	ErrAttemptsExhausted = errors.New("too many failed attempts")
	ErrCodeInvalid       = errors.New("invalid verification code")
)
