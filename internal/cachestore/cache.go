// Package cachestore contains the in-memory cache of feature flag records.
package cachestore

import (
	"sort"
	"sync"

	"github.com/launchdarkly/ld-flagsync/internal/flagmodel"

	"github.com/launchdarkly/go-sdk-common/v3/ldtime"
)

// Cache is the abstraction that the sync manager uses for local flag storage.
//
// Implementations must be safe for concurrent use. Each write must replace an entry as a single step,
// so that a reader sees either the old entry or the new one and never a mixture of the two.
type Cache interface {
	// Put inserts the flag, or overwrites an existing entry with the same ID.
	Put(flag flagmodel.FlagRecord)

	// Get returns the entry for a flag ID, if present.
	Get(id string) (CacheEntry, bool)

	// List returns all entries, sorted by flag ID.
	List() []CacheEntry

	// ListIDs returns all flag IDs, sorted.
	ListIDs() []string

	// Replace overwrites the entry with the same ID, only if one already exists. It returns false if
	// there was no such entry, in which case nothing is stored.
	Replace(flag flagmodel.FlagRecord) bool

	// Len returns the number of entries.
	Len() int
}

// CacheEntry is a cached flag plus bookkeeping about when it was written.
type CacheEntry struct {
	// Flag is the cached record.
	Flag flagmodel.FlagRecord

	// InsertedAt is the time when this entry was written.
	InsertedAt ldtime.UnixMillisecondTime

	// Revision increases by one for every write to the store, so a later write always has a higher
	// Revision than an earlier one.
	Revision uint64
}

// FlagCacheStore is the default Cache implementation.
//
// All writers take a single exclusive lock and all readers a shared one. Writes to a key are therefore
// serialized, and every entry is swapped in as a whole value.
type FlagCacheStore struct {
	entries  map[string]CacheEntry
	revision uint64
	lock     sync.RWMutex
}

// NewFlagCacheStore creates an empty FlagCacheStore.
func NewFlagCacheStore() *FlagCacheStore {
	return &FlagCacheStore{entries: make(map[string]CacheEntry)}
}

// Put stores a flag, overwriting any existing entry with the same ID.
func (s *FlagCacheStore) Put(flag flagmodel.FlagRecord) {
	s.lock.Lock()
	s.entries[flag.ID] = s.newEntry(flag)
	s.lock.Unlock()
}

// Replace overwrites an existing entry. It does nothing and returns false if the ID is not cached.
func (s *FlagCacheStore) Replace(flag flagmodel.FlagRecord) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.entries[flag.ID]; !ok {
		return false
	}
	s.entries[flag.ID] = s.newEntry(flag)
	return true
}

// Get returns the entry for a flag ID.
func (s *FlagCacheStore) Get(id string) (CacheEntry, bool) {
	s.lock.RLock()
	entry, ok := s.entries[id]
	s.lock.RUnlock()
	return entry, ok
}

// List returns a snapshot of all entries, sorted by flag ID.
func (s *FlagCacheStore) List() []CacheEntry {
	s.lock.RLock()
	ret := make([]CacheEntry, 0, len(s.entries))
	for _, e := range s.entries {
		ret = append(ret, e)
	}
	s.lock.RUnlock()
	sort.Slice(ret, func(i, j int) bool { return ret[i].Flag.ID < ret[j].Flag.ID })
	return ret
}

// ListIDs returns all cached flag IDs, sorted.
func (s *FlagCacheStore) ListIDs() []string {
	s.lock.RLock()
	ret := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ret = append(ret, id)
	}
	s.lock.RUnlock()
	sort.Strings(ret)
	return ret
}

// Len returns the number of cached flags.
func (s *FlagCacheStore) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.entries)
}

// must be called while holding the write lock
func (s *FlagCacheStore) newEntry(flag flagmodel.FlagRecord) CacheEntry {
	s.revision++
	return CacheEntry{Flag: flag, InsertedAt: ldtime.UnixMillisNow(), Revision: s.revision}
}
