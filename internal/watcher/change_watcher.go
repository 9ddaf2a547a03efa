package watcher

import (
	"encoding/base64"
	"sync"
	"sync/atomic"
	"time"

	"github.com/launchdarkly/ld-flagsync/internal/metrics"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

const (
	// DefaultWaitTime is the default value for Options.WaitTime.
	DefaultWaitTime = 100 * time.Second

	// DefaultRetryDelay is the default value for Options.RetryDelay.
	DefaultRetryDelay = time.Second
)

// UpdateFunc receives the decoded value of a watched key each time it changes.
type UpdateFunc func(rawPayload string)

// Options contains optional parameters for NewChangeWatcher.
type Options struct {
	// WaitTime is the maximum duration of each long-poll request. Zero means DefaultWaitTime.
	WaitTime time.Duration

	// RetryDelay is how long to wait before re-arming after a failed request, or after a response
	// saying that the key has no value. Zero means DefaultRetryDelay.
	RetryDelay time.Duration
}

// Validate returns an error if either duration is negative.
func (o Options) Validate() error {
	if o.WaitTime < 0 {
		return errInvalidDuration(ErrInvalidWaitTime, o.WaitTime)
	}
	if o.RetryDelay < 0 {
		return errInvalidDuration(ErrInvalidRetryDelay, o.RetryDelay)
	}
	return nil
}

// ChangeWatcher keeps one key under continuous observation.
//
// It issues a long-poll request for the key, passes any new value to its UpdateFunc, and then issues the
// next request with the latest index, for as long as it is open. Requests that fail are retried with the
// last known index; failures are logged but never returned to the caller.
//
// The requests for a key are issued one at a time from a single goroutine, so the UpdateFunc is never
// called concurrently for the same watcher. It can be called concurrently with other watchers' callbacks.
//
// A value returned again at the index already seen, which is what Consul does when a wait times out, is
// not passed to the UpdateFunc a second time.
//
// A response with no value (the key is missing) keeps the previous index and is followed by a pause of
// RetryDelay. For a key that has never existed the index stays at 0, so such a key is polled once per
// RetryDelay rather than held in a blocking query.
type ChangeWatcher struct {
	client     KVWatchClient
	key        string
	onUpdate   UpdateFunc
	waitTime   time.Duration
	retryDelay time.Duration
	loggers    ldlog.Loggers
	lastIndex  atomic.Uint64
	resultCh   chan watchResult
	closeCh    chan struct{}
	doneCh     chan struct{}
	closeOnce  sync.Once
}

type watchResult struct {
	response WatchResponse
	err      error
}

// NewChangeWatcher validates its parameters and starts watching the key immediately.
//
// The first request uses InitialIndex. The watcher runs until Close is called.
func NewChangeWatcher(
	client KVWatchClient,
	key string,
	onUpdate UpdateFunc,
	options Options,
	loggers ldlog.Loggers,
) (*ChangeWatcher, error) {
	switch {
	case client == nil:
		return nil, ErrNilClient
	case onUpdate == nil:
		return nil, ErrNilCallback
	case key == "":
		return nil, ErrEmptyKey
	}
	if err := options.Validate(); err != nil {
		return nil, err
	}

	w := &ChangeWatcher{
		client:     client,
		key:        key,
		onUpdate:   onUpdate,
		waitTime:   options.WaitTime,
		retryDelay: options.RetryDelay,
		loggers:    loggers,
		resultCh:   make(chan watchResult, 1),
		closeCh:    make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
	if w.waitTime == 0 {
		w.waitTime = DefaultWaitTime
	}
	if w.retryDelay == 0 {
		w.retryDelay = DefaultRetryDelay
	}
	w.loggers.SetPrefix("[ChangeWatcher]")
	w.loggers.Infof(logMsgWatchStarted, key)

	go w.run()
	return w, nil
}

// Key returns the full key path being watched.
func (w *ChangeWatcher) Key() string {
	return w.key
}

// LastIndex returns the index of the last value that was passed to the UpdateFunc, or InitialIndex if
// there has not been one.
func (w *ChangeWatcher) LastIndex() uint64 {
	return w.lastIndex.Load()
}

// Close stops the watcher. No more requests are issued after the current one, and the result of the
// current one is discarded. It is safe to call Close more than once.
func (w *ChangeWatcher) Close() {
	w.closeOnce.Do(func() {
		close(w.closeCh)
	})
}

// Done returns a channel that is closed once the watcher has stopped after Close.
func (w *ChangeWatcher) Done() <-chan struct{} {
	return w.doneCh
}

func (w *ChangeWatcher) run() {
	defer close(w.doneCh)
	index := InitialIndex
	for {
		w.client.IssueWatch(w.key, QueryOptions{WaitTime: w.waitTime, WaitIndex: index}, w.makeCallback())

		var result watchResult
		select {
		case <-w.closeCh:
			w.loggers.Infof(logMsgWatchStopped, w.key)
			return
		case result = <-w.resultCh:
		}

		var delay time.Duration
		index, delay = w.handleResult(index, result)

		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-w.closeCh:
				timer.Stop()
				w.loggers.Infof(logMsgWatchStopped, w.key)
				return
			case <-timer.C:
			}
		}
	}
}

// makeCallback returns the callback for a single request. Whichever of its functions is called first
// delivers the result to the run loop; any later call is ignored, so a misbehaving transport cannot
// confuse the loop about which request a result belongs to.
func (w *ChangeWatcher) makeCallback() WatchCallback {
	var delivered atomic.Bool
	deliver := func(result watchResult) {
		if !delivered.CompareAndSwap(false, true) {
			return
		}
		select {
		case w.resultCh <- result:
		case <-w.closeCh:
		}
	}
	return WatchCallback{
		OnSuccess: func(response WatchResponse) {
			deliver(watchResult{response: response})
		},
		OnFailure: func(err error) {
			if err == nil {
				err = errNilFailure()
			}
			deliver(watchResult{err: err})
		},
	}
}

// handleResult returns the index to use for the next request, and how long to wait before issuing it.
func (w *ChangeWatcher) handleResult(index uint64, result watchResult) (uint64, time.Duration) {
	if result.err != nil {
		metrics.RecordWatchResult(metrics.WatchFailure)
		w.loggers.Warnf(logMsgWatchFailed, w.key, w.retryDelay, result.err)
		return index, w.retryDelay
	}

	response := result.response
	if response.Value == nil {
		// The key doesn't exist. Keep the same index; the delay keeps us from spinning if the server
		// answers immediately.
		metrics.RecordWatchResult(metrics.WatchEmpty)
		w.loggers.Debugf(logMsgEmptyResponse, w.key, response.Index)
		return index, w.retryDelay
	}

	if index != InitialIndex && response.Index == index {
		// The wait time elapsed with no change; the server has returned the value we already have.
		metrics.RecordWatchResult(metrics.WatchSuccess)
		w.loggers.Debugf("Key %q unchanged at index %d", w.key, index)
		return index, 0
	}

	payload, err := base64.StdEncoding.DecodeString(response.Value.Base64)
	if err != nil {
		metrics.RecordWatchResult(metrics.WatchFailure)
		w.loggers.Errorf(logMsgBadBase64, w.key, err)
		return index, w.retryDelay
	}

	metrics.RecordWatchResult(metrics.WatchSuccess)
	w.onUpdate(string(payload))
	w.lastIndex.Store(response.Index)
	return response.Index, 0
}
