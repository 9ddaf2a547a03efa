// Package middleware contains helpers for adding standard behavior like request logging and metrics
// to the HTTP endpoints.
package middleware
