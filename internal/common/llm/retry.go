package llm

import (
	"context"
	"time"

	stderrors "uxr-engine/internal/common/errors"
	"uxr-engine/internal/common/logger"
	"uxr-engine/internal/common/metrics"
)

// RetryingCompleter decorates a Completer with per-call timeout and
// bounded retry with exponential backoff. Permanent provider errors
// (authorization, quota) are surfaced immediately.
type RetryingCompleter struct {
	inner          Completer
	callTimeout    time.Duration
	maxRetries     int
	initialBackoff time.Duration
	logger         logger.Logger
}

func NewRetryingCompleter(inner Completer, callTimeout time.Duration, maxRetries int, initialBackoff time.Duration, log logger.Logger) *RetryingCompleter {
	return &RetryingCompleter{
		inner:          inner,
		callTimeout:    callTimeout,
		maxRetries:     maxRetries,
		initialBackoff: initialBackoff,
		logger:         log.WithFields(map[string]interface{}{"component": "llm-retry"}),
	}
}

func (r *RetryingCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	delay := r.initialBackoff

	for attempt := 1; attempt <= r.maxRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
		text, err := r.inner.Complete(callCtx, prompt)
		cancel()

		if err == nil {
			metrics.ProviderCallsTotal.WithLabelValues("success").Inc()
			return text, nil
		}
		metrics.ProviderCallsTotal.WithLabelValues("failure").Inc()
		lastErr = err

		if !stderrors.IsRetryable(err) {
			r.logger.WithError(err).Warn("provider call failed permanently", map[string]interface{}{
				"attempt": attempt,
			})
			return "", err
		}

		if attempt < r.maxRetries {
			r.logger.WithError(err).Warn("provider call failed, retrying", map[string]interface{}{
				"attempt":     attempt,
				"maxRetries":  r.maxRetries,
				"nextRetryIn": delay.String(),
			})
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", stderrors.NewProviderTimeoutError("retry wait")
			}
			delay *= 2
		}
	}

	return "", lastErr
}
