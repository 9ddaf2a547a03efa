package flagsync

import (
	"sort"
	"sync"

	"github.com/launchdarkly/ld-flagsync/internal/cachestore"
	"github.com/launchdarkly/ld-flagsync/internal/flagmodel"
	"github.com/launchdarkly/ld-flagsync/internal/metrics"
	"github.com/launchdarkly/ld-flagsync/internal/watcher"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// ProviderName is the name that SyncCacheManager reports for itself.
const ProviderName = "Consul"

// SyncCacheManager combines a local flag cache with watch-driven refresh.
//
// Every flag stored through the manager is written to the cache and then watched at the key
// prefix+flagID. When the watch delivers a new value, the manager decodes it and replaces the cached
// entry. If the value cannot be decoded, the cached entry is left as it was.
//
// There is at most one watch per flag ID; storing a flag whose ID is already watched only updates the
// cache. Close stops all watches.
type SyncCacheManager struct {
	client   watcher.KVWatchClient
	cache    cachestore.Cache
	prefix   string
	options  watcher.Options
	loggers  ldlog.Loggers
	watchers map[string]*watcher.ChangeWatcher
	closed   bool
	lock     sync.Mutex
}

// NewSyncCacheManager creates a SyncCacheManager. The prefix is prepended as-is to each flag ID to get
// the watched key. The options are passed to every ChangeWatcher the manager starts.
func NewSyncCacheManager(
	client watcher.KVWatchClient,
	cache cachestore.Cache,
	prefix string,
	options watcher.Options,
	loggers ldlog.Loggers,
) (*SyncCacheManager, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	if cache == nil {
		return nil, ErrNilCache
	}
	if err := options.Validate(); err != nil {
		return nil, err
	}
	m := &SyncCacheManager{
		client:   client,
		cache:    cache,
		prefix:   prefix,
		options:  options,
		loggers:  loggers,
		watchers: make(map[string]*watcher.ChangeWatcher),
	}
	m.loggers.SetPrefix("[FlagSync]")
	return m, nil
}

// ProviderName returns a fixed name identifying the backing store, for display purposes.
func (m *SyncCacheManager) ProviderName() string {
	return ProviderName
}

// StoreFlag writes the flag to the cache, overwriting any existing entry, and starts watching its key
// if it is not already being watched.
//
// The cache write is visible as soon as StoreFlag returns; the watch runs in the background.
func (m *SyncCacheManager) StoreFlag(flag flagmodel.FlagRecord) error {
	if flag.ID == "" {
		return ErrEmptyFlagID
	}

	m.lock.Lock()
	defer m.lock.Unlock()
	if m.closed {
		return ErrClosed
	}

	m.cache.Put(flag)

	if _, ok := m.watchers[flag.ID]; ok {
		return nil
	}
	w, err := watcher.NewChangeWatcher(m.client, m.KeyForFlag(flag.ID), m.onWatchUpdate, m.options, m.loggers)
	if err != nil {
		// The options were validated up front, so this can only be a bad key
		m.loggers.Errorf(logMsgWatchNotStarted, flag.ID, err)
		return err
	}
	m.watchers[flag.ID] = w
	m.loggers.Infof(logMsgWatchingFlag, flag.ID)
	return nil
}

// GetFlag returns the cached flag with the given ID.
func (m *SyncCacheManager) GetFlag(id string) (flagmodel.FlagRecord, bool) {
	entry, ok := m.cache.Get(id)
	return entry.Flag, ok
}

// ListFlagIDs returns the IDs of all cached flags, sorted.
func (m *SyncCacheManager) ListFlagIDs() []string {
	return m.cache.ListIDs()
}

// Cache returns the underlying cache.
func (m *SyncCacheManager) Cache() cachestore.Cache {
	return m.cache
}

// KeyForFlag returns the watched key for a flag ID.
func (m *SyncCacheManager) KeyForFlag(id string) string {
	return m.prefix + id
}

// WatchedKeys returns the keys that currently have a watch, sorted.
func (m *SyncCacheManager) WatchedKeys() []string {
	m.lock.Lock()
	ret := make([]string, 0, len(m.watchers))
	for _, w := range m.watchers {
		ret = append(ret, w.Key())
	}
	m.lock.Unlock()
	sort.Strings(ret)
	return ret
}

// Close stops all watches and waits for them to exit. The cache contents are not affected. Calling
// Close more than once has no additional effect.
func (m *SyncCacheManager) Close() {
	m.lock.Lock()
	if m.closed {
		m.lock.Unlock()
		return
	}
	m.closed = true
	watchers := m.watchers
	m.watchers = make(map[string]*watcher.ChangeWatcher)
	m.lock.Unlock()

	for _, w := range watchers {
		w.Close()
	}
	for _, w := range watchers {
		<-w.Done()
	}
	m.loggers.Info(logMsgClosed)
}

// onWatchUpdate is called by a ChangeWatcher, on the watcher's own goroutine, with the new value of a
// key. It must not panic and has no caller to report errors to, so failures are only logged.
func (m *SyncCacheManager) onWatchUpdate(rawPayload string) {
	flag, err := flagmodel.DecodeFlag(rawPayload)
	if err != nil {
		metrics.RecordCacheUpdate(metrics.UpdateDecodeError)
		m.loggers.Errorf(logMsgDecodeFailed, err, rawPayload)
		return
	}
	if !m.cache.Replace(flag) {
		metrics.RecordCacheUpdate(metrics.UpdateNotCached)
		m.loggers.Warnf(logMsgUpdateForUncached, flag.ID)
		return
	}
	metrics.RecordCacheUpdate(metrics.UpdateApplied)
	m.loggers.Infof(logMsgFlagUpdated, flag.ID, flag.Enabled)
}
