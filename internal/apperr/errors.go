package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeUnauthorized      Code = "UNAUTHORIZED"
	CodeForbidden         Code = "FORBIDDEN"
	CodeInvalidRequest    Code = "INVALID_REQUEST"
	CodeNotFound          Code = "NOT_FOUND"
	CodeNotBookable       Code = "NOT_BOOKABLE"
	CodeInsufficientSeats Code = "INSUFFICIENT_SEATS"
	CodeInvalidState      Code = "INVALID_STATE"
	CodeStoreUnavailable  Code = "STORE_UNAVAILABLE"
	CodeInternalFailure   Code = "INTERNAL_FAILURE"
)

// AppError is a failure the HTTP layer can render directly.
type AppError struct {
	Status  int    `json:"-"`
	Code    Code   `json:"code"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any *AppError with the same code, so sentinels below work with errors.Is.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

var (
	ErrUnauthorized      = New(CodeUnauthorized, "authentication required")
	ErrForbidden         = New(CodeForbidden, "not allowed")
	ErrNotFound          = New(CodeNotFound, "resource not found")
	ErrNotBookable       = New(CodeNotBookable, "flight is not open for booking")
	ErrInsufficientSeats = New(CodeInsufficientSeats, "not enough seats available")
	ErrInvalidState      = New(CodeInvalidState, "operation not allowed in current state")
)

func New(code Code, message string) *AppError {
	return &AppError{Status: StatusFor(code), Code: code, Message: message}
}

func Newf(code Code, format string, args ...any) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

func Wrap(code Code, err error, message string) *AppError {
	return &AppError{Status: StatusFor(code), Code: code, Message: message, Err: err}
}

func InvalidRequest(format string, args ...any) *AppError {
	return Newf(CodeInvalidRequest, format, args...)
}

func NotFound(format string, args ...any) *AppError {
	return Newf(CodeNotFound, format, args...)
}

// Unavailable marks a persistence failure the caller may retry.
func Unavailable(err error, op string) *AppError {
	return Wrap(CodeStoreUnavailable, err, op+" failed")
}

// CodeOf returns the code carried by err, or CodeInternalFailure for foreign errors.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternalFailure
}

func StatusFor(code Code) int {
	switch code {
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeInvalidRequest:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeNotBookable, CodeInsufficientSeats, CodeInvalidState:
		return http.StatusConflict
	case CodeStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
