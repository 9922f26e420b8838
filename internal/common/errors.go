package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound        = errors.New("requested resource not found")
	ErrUnauthorized    = errors.New("unauthorized access")
	ErrForbidden       = errors.New("forbidden access")
	ErrBadRequest      = errors.New("bad request")
	ErrConflict        = errors.New("resource conflict") // e.g., email already registered
	ErrInternalServer  = errors.New("internal server error")
	ErrValidation      = errors.New("validation failed")
	ErrTooManyRequests = errors.New("too many requests")
)

// Error is a classified failure whose Message is safe to show to API clients.
type Error struct {
	Kind    error
	Message string
	Details any
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func NotFound(message string) *Error   { return NewError(ErrNotFound, message) }
func Forbidden(message string) *Error  { return NewError(ErrForbidden, message) }
func BadRequest(message string) *Error { return NewError(ErrBadRequest, message) }

// ValidationError carries per-field messages in Details.
func ValidationError(message string, fields map[string]string) *Error {
	return &Error{Kind: ErrValidation, Message: message, Details: fields}
}

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrValidation) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrConflict) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrTooManyRequests) {
		return http.StatusTooManyRequests
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return http.StatusConflict
		case "23503", "23514": // foreign_key_violation, check_violation
			return http.StatusBadRequest
		}
	}

	return http.StatusInternalServerError
}

var defaultMessages = map[int]string{
	http.StatusNotFound:        "Resource not found",
	http.StatusUnauthorized:    "Unauthorized",
	http.StatusForbidden:       "Access denied",
	http.StatusBadRequest:      "Invalid request",
	http.StatusConflict:        "Resource already exists",
	http.StatusTooManyRequests: "Too many requests. Please try again later.",
}

// PublicMessage returns the client-facing message and details for err.
func PublicMessage(err error) (string, any) {
	var e *Error
	if errors.As(err, &e) {
		return e.Message, e.Details
	}
	status := HTTPStatusFromError(err)
	if msg, ok := defaultMessages[status]; ok {
		return msg, nil
	}
	return "Server error", nil
}

// Errorf creates a new error with formatting, useful for wrapping.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
