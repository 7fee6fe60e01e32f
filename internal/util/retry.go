package util

import (
	"context"
	"strings"
	"time"
)

// RetryConfig configures retry behavior for best-effort network calls.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts (default: 3).
	MaxAttempts int

	// Delay is the pause between attempts (default: 500ms).
	Delay time.Duration

	// IsRetryable determines if an error should be retried.
	// If nil, uses IsTransient.
	IsRetryable func(error) bool
}

// DefaultRetryConfig returns sensible defaults for one-shot downloads.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		Delay:       500 * time.Millisecond,
		IsRetryable: IsTransient,
	}
}

// transientErrorPatterns are substrings indicating failure modes worth
// a retry for plain HTTP GETs.
var transientErrorPatterns = []string{
	"connection refused",
	"connection reset",
	"timeout",
	"temporary failure",
	"try again",
	"EOF",
}

// IsTransient reports whether err looks like a transient network error.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, pattern := range transientErrorPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// Retry runs fn up to cfg.MaxAttempts times, pausing cfg.Delay between
// attempts. Non-retryable errors and context cancellation stop the
// loop immediately. Returns the last error when all attempts fail.
func Retry(ctx context.Context, cfg RetryConfig, fn func() error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Delay <= 0 {
		cfg.Delay = 500 * time.Millisecond
	}
	retryable := cfg.IsRetryable
	if retryable == nil {
		retryable = IsTransient
	}

	var err error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !retryable(err) || attempt == cfg.MaxAttempts {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(cfg.Delay):
		}
	}
	return err
}
