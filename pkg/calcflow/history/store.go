// Package history stores per-session calculation history.
package history

import (
	"errors"
	"fmt"
	"time"
)

// Store persists history entries, one ordered list per session.
// Implementations must be safe for concurrent use.
type Store interface {
	// Append adds an entry to the end of a session's history.
	Append(session, expression string) error

	// List returns a session's entries, oldest first.
	// Returns an empty slice (not error) for an unknown session.
	List(session string) ([]string, error)

	// ListEntries returns entries with metadata, oldest first.
	ListEntries(session string) ([]Entry, error)

	// Clear removes every entry of a session.
	// Returns nil if the session has no entries.
	Clear(session string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Entry is one history line with metadata.
type Entry struct {
	Session    string
	Sequence   int
	Expression string
	Timestamp  time.Time
}

// Sentinel errors for history operations.
var (
	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("history store closed")

	// ErrUnknownDriver indicates Open was given an unsupported driver.
	ErrUnknownDriver = errors.New("unknown history driver")
)

type storeOptions struct {
	maxEntries int
	retry      RetryConfig
}

// Option configures a Store.
type Option func(*storeOptions)

// WithMaxEntries caps each session at n entries, trimming the oldest.
// Zero or negative means unbounded.
func WithMaxEntries(n int) Option {
	return func(o *storeOptions) {
		if n > 0 {
			o.maxEntries = n
		}
	}
}

func buildOptions(opts []Option) storeOptions {
	o := storeOptions{retry: DefaultRetry}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Open creates a store for driver ("memory" or "sqlite").
func Open(driver, path string, opts ...Option) (Store, error) {
	switch driver {
	case "", "memory":
		return NewMemoryStore(opts...), nil
	case "sqlite":
		return NewSQLiteStore(path, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

func expressions(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Expression
	}
	return out
}
