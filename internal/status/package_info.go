// Package status implements read-only HTTP endpoints that report the state of the flag cache.
package status
