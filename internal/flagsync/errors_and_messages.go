package flagsync

import "errors"

// All log messages, error singletons, and error constructors for this package should be collected here,
// except for debug logging.

const (
	logMsgWatchingFlag      = "Watching for updates on feature flag %q"
	logMsgFlagUpdated       = "Feature flag %q was updated (enabled=%t)"
	logMsgDecodeFailed      = "Failed to deserialize a feature flag; the cache will not be updated (error: %s). Payload was: %s"
	logMsgUpdateForUncached = "Received an update for feature flag %q, which is not in the cache; ignoring it"
	logMsgWatchNotStarted   = "Unable to watch feature flag %q: %s"
	logMsgClosed            = "Stopped all flag watches"
)

var (
	// ErrNilClient is returned by NewSyncCacheManager if the watch client is nil.
	ErrNilClient = errors.New("watch client must not be nil")

	// ErrNilCache is returned by NewSyncCacheManager if the cache is nil.
	ErrNilCache = errors.New("cache must not be nil")

	// ErrEmptyFlagID is returned by StoreFlag if the flag has no ID.
	ErrEmptyFlagID = errors.New("flag ID must not be empty")

	// ErrClosed is returned by StoreFlag after Close has been called.
	ErrClosed = errors.New("sync cache manager has been closed")
)
