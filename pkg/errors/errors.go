// Package errors provides coded, structured errors for modorg.
//
// Every failure that leaves a package boundary carries an ErrorCode so callers
// and tests can branch on the kind of failure without matching on messages.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Version parsing errors
	ErrMissingMajorField   ErrorCode = "MISSING_MAJOR_FIELD"
	ErrInvalidIntegerField ErrorCode = "INVALID_INTEGER_FIELD"

	// Install errors
	ErrFileAlreadyExists ErrorCode = "FILE_ALREADY_EXISTS"
	ErrFileNotFound      ErrorCode = "FILE_NOT_FOUND"
	ErrFileIO            ErrorCode = "FILE_IO"
	ErrPathPrefix        ErrorCode = "PATH_PREFIX"

	// Manifest errors
	ErrManifestFetch ErrorCode = "MANIFEST_FETCH"
	ErrManifestParse ErrorCode = "MANIFEST_PARSE"

	// Registry errors
	ErrRegistryEmpty ErrorCode = "REGISTRY_EMPTY"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Scan errors
	ErrScan ErrorCode = "SCAN"
)

// ModError represents a structured error with code and details
type ModError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ModError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ModError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *ModError) Is(target error) bool {
	var targetErr *ModError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ModError with the given code and message
func New(code ErrorCode, message string) *ModError {
	return &ModError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ModError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ModError {
	return &ModError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a ModError
func Wrap(err error, code ErrorCode, message string) *ModError {
	if err == nil {
		return nil
	}
	return &ModError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ModError {
	if err == nil {
		return nil
	}
	return &ModError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *ModError) WithDetail(key string, value interface{}) *ModError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var modErr *ModError
	if errors.As(err, &modErr) {
		return modErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a ModError
func GetErrorCode(err error) ErrorCode {
	var modErr *ModError
	if errors.As(err, &modErr) {
		return modErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a ModError
func GetErrorDetails(err error) map[string]interface{} {
	var modErr *ModError
	if errors.As(err, &modErr) {
		return modErr.Details
	}
	return nil
}
