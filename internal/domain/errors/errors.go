package errors

import (
	"errors"
	"fmt"
	"time"
)

var (
	// General errors
	ErrInternal       = errors.New("internal server error")
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("resource not found")
	ErrForbidden      = errors.New("forbidden")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMFANotConfigured   = errors.New("mfa not configured for this user")
	ErrInvalidMFACode     = errors.New("invalid mfa code")

	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")

	// Registration errors
	ErrRegistrationNotFound = errors.New("pending registration not found")
	ErrRegistrationExpired  = errors.New("pending registration expired")

	// Verification code errors
	ErrCodeNotFound     = errors.New("verification code not found")
	ErrCodeMismatch     = errors.New("verification code mismatch")
	ErrCodeTypeMismatch = errors.New("verification code type mismatch")
	ErrCodeExpired      = errors.New("verification code expired")

	// Reservation errors
	ErrReservationNotFound    = errors.New("reservation not found")
	ErrAlreadyReservedBySelf  = errors.New("book already reserved by requester")
	ErrAlreadyReservedByOther = errors.New("book already reserved by another user")
	ErrReservationExpired     = errors.New("reservation already expired")
	ErrNotReservationOwner    = errors.New("reservation belongs to another user")
	ErrBookNotReserved        = errors.New("book is not currently reserved")
	ErrOwnReservation         = errors.New("requester already holds this reservation")
	ErrAlreadyOnWaitlist      = errors.New("already on the waiting list for this book")
	ErrNotOnWaitlist          = errors.New("not on the waiting list for this book")
)

// ReservedByOtherError reports a title held by someone else, carrying the
// instant the hold lapses so callers can surface it.
type ReservedByOtherError struct {
	ReservedUntil time.Time
}

func (e *ReservedByOtherError) Error() string {
	return ErrAlreadyReservedByOther.Error()
}

// Is makes errors.Is(err, ErrAlreadyReservedByOther) match.
func (e *ReservedByOtherError) Is(target error) bool {
	return target == ErrAlreadyReservedByOther
}

// AppError carries an error with a user-facing message and HTTP status code.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error.
func NewAppError(err error, message string, statusCode int) *AppError {
	return &AppError{Err: err, Message: message, StatusCode: statusCode}
}

// IsNotFound reports whether err maps to a 404 condition.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrReservationNotFound) ||
		errors.Is(err, ErrBookNotReserved) ||
		errors.Is(err, ErrNotOnWaitlist)
}

// IsConflict reports whether err is a state-precondition violation.
func IsConflict(err error) bool {
	return errors.Is(err, ErrEmailTaken) ||
		errors.Is(err, ErrAlreadyReservedBySelf) ||
		errors.Is(err, ErrAlreadyReservedByOther) ||
		errors.Is(err, ErrAlreadyOnWaitlist) ||
		errors.Is(err, ErrOwnReservation)
}

// IsAuthFailure reports whether err is an authentication or code-validation failure.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrInvalidMFACode) ||
		errors.Is(err, ErrCodeNotFound) ||
		errors.Is(err, ErrCodeMismatch) ||
		errors.Is(err, ErrCodeTypeMismatch) ||
		errors.Is(err, ErrCodeExpired)
}
