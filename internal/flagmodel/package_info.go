// Package flagmodel contains the feature flag record that ld-flagsync caches, and the logic for
// converting it to and from the JSON payload that is stored in Consul.
package flagmodel
