package middleware

import (
	"net/http"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/gorilla/mux"
)

// RequestLogger decorates a Handler with debug-level logging of all requests.
func RequestLogger(loggers ldlog.Loggers) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			wrappedWriter := loggingHTTPResponseWriter{writer: w}
			next.ServeHTTP(&wrappedWriter, req)
			if wrappedWriter.statusCode == 0 {
				wrappedWriter.statusCode = http.StatusOK
			}
			loggers.Debugf("Request: method=%s url=%s status=%d bytes=%d",
				req.Method,
				req.URL,
				wrappedWriter.statusCode,
				wrappedWriter.bytesWritten,
			)
		})
	}
}

type loggingHTTPResponseWriter struct {
	writer       http.ResponseWriter
	statusCode   int
	bytesWritten uint64
}

func (w *loggingHTTPResponseWriter) Header() http.Header {
	return w.writer.Header()
}

func (w *loggingHTTPResponseWriter) Write(data []byte) (int, error) {
	if w.statusCode == 0 {
		w.WriteHeader(http.StatusOK)
	}
	w.bytesWritten += uint64(len(data))
	return w.writer.Write(data)
}

func (w *loggingHTTPResponseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.writer.WriteHeader(statusCode)
}
