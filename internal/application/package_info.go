// Package application contains the command-line and HTTP server startup logic used by the ld-flagsync
// command.
package application
