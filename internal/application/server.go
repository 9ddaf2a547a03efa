package application

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

const readHeaderTimeout = 10 * time.Second

// StartHTTPServer starts the server on a separate goroutine and returns immediately. If the server fails
// to start, or stops for any reason other than Shutdown, the error is sent to the returned channel. The
// channel is closed once the server has stopped.
func StartHTTPServer(
	port int,
	handler http.Handler,
	loggers ldlog.Loggers,
) (*http.Server, <-chan error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		loggers.Infof("Starting server listening on port %d", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	return srv, errCh
}
