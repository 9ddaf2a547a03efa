package watcher

import "time"

// InitialIndex is the index used for the first request on a key, meaning that there is no prior state and
// the request should return immediately.
const InitialIndex uint64 = 0

// QueryOptions describes a single long-poll request.
type QueryOptions struct {
	// WaitTime is the maximum time the server should block before responding if nothing changes.
	WaitTime time.Duration

	// WaitIndex is the last index that the caller has seen. The server blocks until the key's index is
	// different from this value.
	WaitIndex uint64
}

// WatchValue is the stored value of a key, as returned by the transport.
type WatchValue struct {
	// Key is the full key path.
	Key string

	// Base64 is the stored value in base64 encoding, which is how Consul represents values over HTTP.
	Base64 string
}

// WatchResponse is the result of a successful watch request.
type WatchResponse struct {
	// Value is the current value of the key, or nil if the key does not exist.
	Value *WatchValue

	// Index is the index of the data that was returned.
	Index uint64
}

// WatchCallback receives the outcome of one watch request. Exactly one of its functions is called, once.
type WatchCallback struct {
	OnSuccess func(WatchResponse)
	OnFailure func(error)
}

// KVWatchClient is the transport that a ChangeWatcher uses to issue long-poll requests.
//
// IssueWatch must not block waiting for the result. It may call the callback from any goroutine,
// including (for test implementations) synchronously before returning.
type KVWatchClient interface {
	IssueWatch(key string, options QueryOptions, callback WatchCallback)
}
