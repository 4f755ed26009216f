package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is an error that knows how it should be reported over HTTP.
type AppError struct {
	Status  int
	Code    string
	Message string
	Err     error
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

// NewAppError builds an AppError.
func NewAppError(status int, code, message string) *AppError {
	return &AppError{Status: status, Code: code, Message: message}
}

// NotFound reports a missing resource, e.g. NotFound("device").
func NotFound(resource string) *AppError {
	return NewAppError(http.StatusNotFound, "NOT_FOUND", resource+" not found")
}

// BadRequest reports an invalid request.
func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, "INVALID_REQUEST", message)
}

// Conflict reports a request that clashes with stored state.
func Conflict(code, message string, err error) *AppError {
	return &AppError{Status: http.StatusConflict, Code: code, Message: message, Err: err}
}

// Common application errors used across services.
var (
	ErrInvalidCredentials = NewAppError(http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials")
	ErrAccountInactive    = NewAppError(http.StatusUnauthorized, "ACCOUNT_INACTIVE", "account is inactive")
	ErrUnauthorized       = NewAppError(http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid authorization header")
	ErrTooManyAttempts    = NewAppError(http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "too many invalid authentication attempts")
	ErrNoAccountAvailable = NewAppError(http.StatusConflict, "NO_ACCOUNT_AVAILABLE", "no product account available for this variant")
	ErrNoOpenBatch        = NewAppError(http.StatusConflict, "NO_OPEN_BATCH", "product account has no open batch")
	ErrBatchFull          = NewAppError(http.StatusConflict, "BATCH_FULL", "product account batch is full")
	ErrInvalidToken       = errors.New("INVALID_TOKEN")
)

// AsAppError unwraps err into an *AppError when possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
