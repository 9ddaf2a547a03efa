package config

import (
	"time"

	ct "github.com/launchdarkly/go-configtypes"
)

const (
	// DefaultPort is the port that the status endpoints listen on if Main.Port is not set.
	DefaultPort = 8040

	// DefaultConsulHost is the Consul agent address that is used if Consul.Host is not set.
	DefaultConsulHost = "localhost:8500"

	// DefaultConsulPrefix is the key prefix that is used if Consul.Prefix is not set.
	DefaultConsulPrefix = "ff4j/features/"

	// DefaultWaitTime is the maximum duration of each Consul blocking query if Consul.WaitTime is not set.
	DefaultWaitTime = 100 * time.Second

	// DefaultRetryDelay is the delay before re-arming a failed watch if Consul.RetryDelay is not set.
	DefaultRetryDelay = time.Second

	// Consul silently caps blocking queries at this duration.
	maxConsulWaitTime = 10 * time.Minute
)

// Config describes all of ld-flagsync's settings.
//
// The fields of each section can be set from a configuration file (using the section and field names
// below) or from the environment variables named in the field tags.
type Config struct {
	Main       MainConfig
	Consul     ConsulConfig
	Prometheus PrometheusConfig
}

// MainConfig contains global settings.
//
// This corresponds to the [Main] section in the configuration file.
type MainConfig struct {
	Port     ct.OptIntGreaterThanZero `conf:"PORT"`
	LogLevel OptLogLevel              `conf:"LOG_LEVEL"`
}

// ConsulConfig describes how to connect to Consul and where the flags are stored.
//
// This corresponds to the [Consul] section in the configuration file.
type ConsulConfig struct {
	Host       string         `conf:"CONSUL_HOST"`
	Token      string         `conf:"CONSUL_TOKEN"`
	TokenFile  string         `conf:"CONSUL_TOKEN_FILE"`
	Prefix     string         `conf:"CONSUL_PREFIX"`
	WaitTime   ct.OptDuration `conf:"CONSUL_WAIT_TIME"`
	RetryDelay ct.OptDuration `conf:"CONSUL_RETRY_DELAY"`
}

// PrometheusConfig enables the /metrics endpoint.
//
// This corresponds to the [Prometheus] section in the configuration file.
type PrometheusConfig struct {
	Enabled bool   `conf:"USE_PROMETHEUS"`
	Prefix  string `conf:"PROMETHEUS_PREFIX"`
}

// DefaultConfig contains the default values for fields that are not optional types. Callers should start
// from a copy of this before loading a file or environment variables.
var DefaultConfig = Config{ //nolint:gochecknoglobals
	Consul: ConsulConfig{
		Host:   DefaultConsulHost,
		Prefix: DefaultConsulPrefix,
	},
}
