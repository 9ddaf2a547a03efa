// Package consulkv connects ld-flagsync to Consul's key-value store.
//
// Flags are stored as individual keys named "{prefix}{flag-id}", each containing the JSON payload
// produced by flagmodel.EncodeFlag. ConsulWatchClient implements watcher.KVWatchClient with Consul
// blocking queries, and FlagSource reads and writes whole sets of flags.
package consulkv
