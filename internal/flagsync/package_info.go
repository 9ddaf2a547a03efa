// Package flagsync contains SyncCacheManager, which keeps a local cache of feature flags up to date by
// watching each cached flag's key in a key-value store.
package flagsync
