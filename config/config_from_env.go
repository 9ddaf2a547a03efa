package config

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	ct "github.com/launchdarkly/go-configtypes"
)

// LoadConfigFromEnvironment sets parameters in a Config struct from environment variables.
//
// The Config parameter should be initialized with default values first. Variables that are not set
// leave the corresponding fields unchanged.
func LoadConfigFromEnvironment(c *Config, loggers ldlog.Loggers) error {
	reader := ct.NewVarReaderFromEnvironment()

	reader.ReadStruct(&c.Main, false)
	reader.ReadStruct(&c.Consul, false)
	reader.ReadStruct(&c.Prometheus, false)

	if !reader.Result().OK() {
		return reader.Result().GetError()
	}
	return ValidateConfig(c, loggers)
}
