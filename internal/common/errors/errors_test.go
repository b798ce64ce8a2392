package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardError_Unwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NewProviderUnavailableError(cause)

	assert.True(t, stderrors.Is(err, cause))

	var se *StandardError
	require.True(t, stderrors.As(fmt.Errorf("wrapped: %w", err), &se))
	assert.Equal(t, ErrCodeProviderUnavailable, se.Code)
}

func TestClassificationHelpers(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		isProvider bool
		isParse    bool
		retryable  bool
	}{
		{
			name:       "unavailable is retryable provider error",
			err:        NewProviderUnavailableError(stderrors.New("boom")),
			isProvider: true,
			retryable:  true,
		},
		{
			name:       "timeout is retryable provider error",
			err:        NewProviderTimeoutError("synthesis"),
			isProvider: true,
			retryable:  true,
		},
		{
			name:       "unauthorized is permanent provider error",
			err:        NewProviderUnauthorizedError(stderrors.New("401")),
			isProvider: true,
			retryable:  false,
		},
		{
			name:       "quota exceeded is permanent provider error",
			err:        NewProviderQuotaExceededError(stderrors.New("429")),
			isProvider: true,
			retryable:  false,
		},
		{
			name:      "parse failure is not a provider error",
			err:       NewResponseParseFailedError("personas", stderrors.New("bad json")),
			isParse:   true,
			retryable: false,
		},
		{
			name:      "unknown errors default to retryable",
			err:       stderrors.New("dial tcp: i/o timeout"),
			retryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isProvider, IsProviderError(tt.err))
			assert.Equal(t, tt.isParse, IsParseError(tt.err))
			assert.Equal(t, tt.retryable, IsRetryable(tt.err))
		})
	}
}

func TestIsFallbackExhausted(t *testing.T) {
	err := NewFallbackExhaustedError("no runnable configuration")
	assert.True(t, IsFallbackExhausted(err))
	assert.False(t, IsFallbackExhausted(NewProviderTimeoutError("personas")))
	assert.False(t, IsFallbackExhausted(nil))
}
