package middleware

import (
	"net/http"

	"github.com/launchdarkly/ld-flagsync/internal/metrics"

	"github.com/gorilla/mux"
)

// Chain combines a series of middleware functions that will be applied in the same order.
func Chain(middlewares ...mux.MiddlewareFunc) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		handler := next
		for i := len(middlewares) - 1; i >= 0; i-- {
			handler = middlewares[i](handler)
		}
		return handler
	}
}

// RequestCount is a middleware function that counts each request by its route template and method.
func RequestCount() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			route := "unknown"
			if r := mux.CurrentRoute(req); r != nil {
				// Ignoring internal routing error that would have been ignored anyway
				if template, err := r.GetPathTemplate(); err == nil {
					route = template
				}
			}
			metrics.RecordRequest(route, req.Method)
			next.ServeHTTP(w, req)
		})
	}
}
