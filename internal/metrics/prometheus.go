package metrics

import (
	"fmt"
	"net/http"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"contrib.go.opencensus.io/exporter/prometheus"
	"go.opencensus.io/stats/view"
)

// PrometheusExporter serves ld-flagsync's metrics in Prometheus format.
type PrometheusExporter struct {
	exporter *prometheus.Exporter
}

// NewPrometheusExporter registers the views and a Prometheus exporter for them. The returned value is
// an http.Handler that should be mounted at /metrics. If prefix is empty, "ld_flagsync" is used as the
// metric namespace.
func NewPrometheusExporter(prefix string, loggers ldlog.Loggers) (*PrometheusExporter, error) {
	if err := RegisterViews(); err != nil {
		return nil, err
	}
	if prefix == "" {
		prefix = defaultMetricsPrefix
	}

	logPrometheusError := func(e error) {
		loggers.Errorf(logMsgPrometheusError, e)
	}

	exporter, err := prometheus.NewExporter(prometheus.Options{
		Namespace: prefix,
		OnError:   logPrometheusError,
	})
	// The current implementation of prometheus.NewExporter() apparently can never return a non-nil error,
	// but in case it does in the future, we should check it
	if err != nil {
		return nil, fmt.Errorf("unable to create Prometheus exporter: %w", err)
	}
	view.RegisterExporter(exporter)
	return &PrometheusExporter{exporter: exporter}, nil
}

func (p *PrometheusExporter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.exporter.ServeHTTP(w, r)
}

// Close unregisters the exporter.
func (p *PrometheusExporter) Close() {
	view.UnregisterExporter(p.exporter)
}
