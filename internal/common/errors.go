package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrTooLarge          = errors.New("input too large")
	ErrInternal          = errors.New("internal error")
	ErrValidation        = errors.New("validation failed")
)

// Error codes carried by AppError.Code.
const (
	CodeInvalidInput      = "INVALID_INPUT"
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeTooLarge          = "TOO_LARGE"
	CodeValidation        = "VALIDATION"
	CodeInternal          = "INTERNAL"
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func InvalidInputError(message string) error {
	return NewAppError(CodeInvalidInput, message, ErrInvalidInput)
}

func UnsupportedFormatError(message string) error {
	return NewAppError(CodeUnsupportedFormat, message, ErrUnsupportedFormat)
}

func TooLargeError(message string) error {
	return NewAppError(CodeTooLarge, message, ErrTooLarge)
}

// InvalidInputCause keeps cause in the chain next to ErrInvalidInput.
func InvalidInputCause(message string, cause error) error {
	if cause == nil {
		return InvalidInputError(message)
	}
	return NewAppError(CodeInvalidInput, message, fmt.Errorf("%w: %w", ErrInvalidInput, cause))
}

func InvalidInputErrorf(format string, args ...interface{}) error {
	return InvalidInputError(fmt.Sprintf(format, args...))
}

func UnsupportedFormatErrorf(format string, args ...interface{}) error {
	return UnsupportedFormatError(fmt.Sprintf(format, args...))
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// HTTPStatus maps an error chain onto a response status.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the text safe to show a client: the message of the
// outermost AppError, or a generic one.
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return ErrInternal.Error()
}
