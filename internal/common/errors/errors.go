// Package errors provides standardized error handling for the research
// simulation pipeline.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Configuration errors are always recovered locally via defaults and
	// never surface past the resolver.
	ErrCodeConfigurationInvalid ErrorCode = "CONFIGURATION_INVALID"

	// Provider errors, transient vs permanent.
	ErrCodeProviderUnavailable   ErrorCode = "PROVIDER_UNAVAILABLE"
	ErrCodeProviderTimeout       ErrorCode = "PROVIDER_TIMEOUT"
	ErrCodeProviderUnauthorized  ErrorCode = "PROVIDER_UNAUTHORIZED"
	ErrCodeProviderQuotaExceeded ErrorCode = "PROVIDER_QUOTA_EXCEEDED"

	// Structured-output parse failures.
	ErrCodeResponseParseFailed ErrorCode = "RESPONSE_PARSE_FAILED"

	// The only condition allowed to surface as a hard failure.
	ErrCodeFallbackExhausted ErrorCode = "FALLBACK_EXHAUSTED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// ==========================
// 2. Error Constructors
// ==========================

// NewConfigurationInvalidError creates a non-retryable configuration error.
func NewConfigurationInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigurationInvalid,
		Message:   "Request could not be resolved into a runnable configuration",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderUnavailableError creates a retryable provider error.
func NewProviderUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderUnavailable,
		Message:   "Text-generation provider call failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewProviderTimeoutError creates a retryable provider timeout error.
func NewProviderTimeoutError(operation string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderTimeout,
		Message:   "Text-generation provider call timed out",
		Details:   fmt.Sprintf("operation: %s", operation),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderUnauthorizedError creates a non-retryable authorization error.
func NewProviderUnauthorizedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderUnauthorized,
		Message:   "Text-generation provider rejected the credential",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewProviderQuotaExceededError creates a non-retryable quota error.
func NewProviderQuotaExceededError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderQuotaExceeded,
		Message:   "Text-generation provider quota exhausted",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewResponseParseFailedError creates a non-retryable parse error.
func NewResponseParseFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeResponseParseFailed,
		Message:   "Provider response did not match the expected structure",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewFallbackExhaustedError creates the sole hard-failure error. Only
// possible when the fallback path itself cannot run.
func NewFallbackExhaustedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFallbackExhausted,
		Message:   "Fallback pipeline could not produce a result",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Classification Helpers
// ==========================

// CodeOf returns the ErrorCode carried by err, or an empty code.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsProviderError reports whether err is any provider-side failure.
func IsProviderError(err error) bool {
	switch CodeOf(err) {
	case ErrCodeProviderUnavailable, ErrCodeProviderTimeout,
		ErrCodeProviderUnauthorized, ErrCodeProviderQuotaExceeded:
		return true
	}
	return false
}

// IsParseError reports whether err is a structured-output parse failure.
func IsParseError(err error) bool {
	return CodeOf(err) == ErrCodeResponseParseFailed
}

// IsFallbackExhausted reports whether err is the hard-failure condition.
func IsFallbackExhausted(err error) bool {
	return CodeOf(err) == ErrCodeFallbackExhausted
}

// IsRetryable reports whether err is worth retrying. Unknown errors are
// treated as retryable so transient transport faults get another chance.
func IsRetryable(err error) bool {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Retryable
	}
	return true
}
