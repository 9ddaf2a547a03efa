// Package version contains the ld-flagsync version string.
package version

// Version is the package version.
const Version = "1.0.0"
