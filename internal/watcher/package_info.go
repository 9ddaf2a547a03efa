// Package watcher contains the logic for keeping a single key under continuous observation through a
// long-polling key-value client, such as a Consul blocking query.
//
// The transport itself is abstracted by the KVWatchClient interface; see the consulkv package for the
// Consul implementation.
package watcher
