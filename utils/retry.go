package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
)

// APIError is a structured error carrying an HTTP-style status code,
// used to decide whether a failure is worth retrying.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d - %s", e.StatusCode, e.Message)
}

// Retry runs fn with exponential backoff, retrying only temporary errors.
// This is reserved for the LLM transport path; the safe fetcher (C3) must
// never be wrapped in it — a single fetch call opens at most
// 1+max_redirects connections and never retries on its own.
func Retry[T any](ctx context.Context, logger *zap.Logger, maxAttempts int, initialBackoff time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var result T
	backoff := initialBackoff

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		res, err := fn(ctx)
		if err == nil {
			return res, nil
		}

		if IsTemporaryError(err) && attempt < maxAttempts {
			logger.Warn("temporary error, retrying",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", maxAttempts),
				zap.Error(err),
				zap.Duration("backoff", backoff))
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			continue
		}

		logger.Error("giving up after error", zap.Int("attempt", attempt), zap.Error(err))
		return result, err
	}

	return result, fmt.Errorf("failed after %d attempts", maxAttempts)
}

// IsTemporaryError reports whether err (possibly wrapped) looks safe to retry:
// network timeouts, HTTP 429, or 5xx.
func IsTemporaryError(err error) bool {
	for err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return true
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return apiErr.StatusCode == 429 || (apiErr.StatusCode >= 500 && apiErr.StatusCode < 600)
		}
		err = errors.Unwrap(err)
	}
	return false
}
