package metrics

import "fmt"

const (
	logMsgPrometheusError = "Prometheus exporter error: %s"
)

func errRegisteringViews(err error) error {
	return fmt.Errorf("error registering metrics views: %w", err)
}
