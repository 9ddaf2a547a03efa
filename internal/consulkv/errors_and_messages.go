package consulkv

import (
	"errors"
	"fmt"
)

// All log messages, error singletons, and error constructors for this package should be collected here,
// except for debug logging.

const (
	logMsgBadFlagData   = "Found invalid flag data at key %q; skipping it (error: %s)"
	logMsgKeyMismatch   = "Flag at key %q has uid %q; expected %q"
	logMsgLoadedFlags   = "Loaded %d flag(s) from Consul with prefix %q"
	logMsgPublishedFlag = "Published flag %q to key %q"
)

// ErrClientClosed is passed to WatchCallback.OnFailure for a watch that was issued after Close.
var ErrClientClosed = errors.New("Consul watch client has been closed") //nolint:stylecheck

func errCreatingClient(err error) error {
	return fmt.Errorf("unable to configure Consul client: %w", err)
}

func errListFailed(prefix string, err error) error {
	return fmt.Errorf("list failed for prefix %q: %w", prefix, err)
}

func errPutFailed(key string, err error) error {
	return fmt.Errorf("unable to write key %q: %w", key, err)
}
