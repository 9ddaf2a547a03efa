// Package config contains ld-flagsync's configuration model, and functions for loading it from a file or
// from environment variables.
package config
