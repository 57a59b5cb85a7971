package services

import (
	"errors"

	"sadhna-backend/internal/repositories"
)

// Error kinds. Handlers map each to an HTTP status with errors.Is.
var (
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("access denied")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrDataIntegrity = errors.New("data integrity error")
)

// TOTP specific failures, all reported as 401 or 400 by the handler.
var (
	ErrTooManyAttempts = &Error{Kind: ErrUnauthorized, Message: "Too many failed attempts. Please try again later."}
	ErrInvalidTOTPCode = &Error{Kind: ErrUnauthorized, Message: "Invalid verification code"}
	ErrNoTOTPSecret    = &Error{Kind: ErrValidation, Message: "2FA setup has not been started"}
	ErrTOTPNotEnabled  = &Error{Kind: ErrValidation, Message: "2FA is not enabled"}
)

// Error carries a client-facing message alongside its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Kind }

func validation(msg string) error  { return &Error{Kind: ErrValidation, Message: msg} }
func unauthorized(msg string) error { return &Error{Kind: ErrUnauthorized, Message: msg} }
func forbidden(msg string) error   { return &Error{Kind: ErrForbidden, Message: msg} }
func notFound(msg string) error    { return &Error{Kind: ErrNotFound, Message: msg} }
func conflict(msg string) error    { return &Error{Kind: ErrConflict, Message: msg} }
func integrity(msg string) error   { return &Error{Kind: ErrDataIntegrity, Message: msg} }

// notFoundOr turns a repository miss into a not-found error with msg.
func notFoundOr(err error, msg string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return notFound(msg)
	}
	return err
}
