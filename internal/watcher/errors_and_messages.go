package watcher

import (
	"errors"
	"fmt"
	"time"
)

// All log messages, error singletons, and error constructors for this package should be collected here,
// except for debug logging.

const (
	logMsgWatchStarted  = "Watching for changes on key %q"
	logMsgWatchFailed   = "Watch on key %q failed; will retry in %s (error: %s)"
	logMsgBadBase64     = "Value of key %q is not valid base64; ignoring it (error: %s)"
	logMsgWatchStopped  = "Stopped watching key %q"
	logMsgEmptyResponse = "Key %q has no value at index %d"
)

var (
	// ErrNilClient is returned by NewChangeWatcher if the client is nil.
	ErrNilClient = errors.New("watch client must not be nil")

	// ErrNilCallback is returned by NewChangeWatcher if the update callback is nil.
	ErrNilCallback = errors.New("update callback must not be nil")

	// ErrEmptyKey is returned by NewChangeWatcher if the key is empty.
	ErrEmptyKey = errors.New("watched key must not be empty")

	// ErrInvalidWaitTime is returned by NewChangeWatcher if Options.WaitTime is negative.
	ErrInvalidWaitTime = errors.New("watch wait time must be positive")

	// ErrInvalidRetryDelay is returned by NewChangeWatcher if Options.RetryDelay is negative.
	ErrInvalidRetryDelay = errors.New("watch retry delay must not be negative")
)

func errInvalidDuration(sentinel error, value time.Duration) error {
	return fmt.Errorf("%w; got %s", sentinel, value)
}

func errNilFailure() error {
	return errors.New("watch failed with no error information")
}
