package history

import (
	"errors"
	"math/rand/v2"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// RetryConfig controls how SQLite writes retry while another process holds
// the database lock.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	MaxAttempts int

	// InitialBackoff is the starting backoff duration.
	InitialBackoff time.Duration

	// MaxBackoff is the maximum backoff duration.
	MaxBackoff time.Duration

	// BackoffFactor is the multiplier applied to backoff after each attempt.
	BackoffFactor float64

	// Jitter is the random jitter factor (0.0-1.0).
	Jitter float64

	// RetryableFunc optionally overrides the default busy check.
	RetryableFunc func(error) bool
}

// DefaultRetry suits a few CLI processes sharing one database file.
var DefaultRetry = RetryConfig{
	MaxAttempts:    5,
	InitialBackoff: 10 * time.Millisecond,
	MaxBackoff:     250 * time.Millisecond,
	BackoffFactor:  2.0,
	Jitter:         0.1,
}

// NoRetry disables retries.
var NoRetry = RetryConfig{
	MaxAttempts: 1,
}

// WithRetry sets how SQLite writes retry on a busy database.
// The memory store ignores it.
func WithRetry(cfg RetryConfig) Option {
	return func(o *storeOptions) {
		o.retry = cfg
	}
}

// run calls fn until it succeeds, fails with a non-retryable error, or
// MaxAttempts is reached. It returns the last error and the attempt count.
func (c RetryConfig) run(fn func() error) (int, error) {
	attempts := max(c.MaxAttempts, 1)
	retryable := c.RetryableFunc
	if retryable == nil {
		retryable = isBusy
	}

	backoff := c.InitialBackoff
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || attempt >= attempts || !retryable(err) {
			return attempt, err
		}

		time.Sleep(calculateBackoff(backoff, c.Jitter))

		backoff = time.Duration(float64(backoff) * c.BackoffFactor)
		if c.MaxBackoff > 0 && backoff > c.MaxBackoff {
			backoff = c.MaxBackoff
		}
	}
}

// calculateBackoff returns the backoff duration with jitter applied.
func calculateBackoff(base time.Duration, jitter float64) time.Duration {
	if jitter <= 0 || base <= 0 {
		return base
	}
	jitterAmount := float64(base) * jitter * (rand.Float64()*2 - 1)
	return time.Duration(float64(base) + jitterAmount)
}

// isBusy reports whether err is SQLITE_BUSY or SQLITE_LOCKED, including
// their extended codes.
func isBusy(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return true
	}
	return false
}
