package config

import (
	"errors"
	"os"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	ct "github.com/launchdarkly/go-configtypes"
)

var (
	errConsulTokenAndTokenFile   = errors.New("Consul token must be specified as either an inline value or a file, but not both") //nolint:stylecheck
	errConsulTokenFileNotFound   = errors.New("Consul token file not found")                                                      //nolint:stylecheck
	errConsulWaitTimeNotPositive = errors.New("Consul wait time must be greater than zero")                                       //nolint:stylecheck
	errConsulRetryDelayNegative  = errors.New("Consul retry delay must not be negative")                                          //nolint:stylecheck
)

const warnConsulWaitTimeTooLong = "Consul wait time %s is longer than Consul allows; Consul will use %s instead"

// ValidateConfig ensures that the configuration does not contain contradictory properties.
//
// This method covers validation rules that can't be enforced on a per-field basis (for instance, if
// either field A or field B can be specified but it's invalid to specify both). LoadConfigFromEnvironment
// and LoadConfigFile both call it as a last step.
func ValidateConfig(c *Config, loggers ldlog.Loggers) error {
	var result ct.ValidationResult

	validateConfigConsul(&result, c, loggers)

	return result.GetError()
}

func validateConfigConsul(result *ct.ValidationResult, c *Config, loggers ldlog.Loggers) {
	switch {
	case c.Consul.Token != "" && c.Consul.TokenFile != "":
		result.AddError(nil, errConsulTokenAndTokenFile)
	case c.Consul.TokenFile != "":
		if _, err := os.Stat(c.Consul.TokenFile); os.IsNotExist(err) {
			result.AddError(nil, errConsulTokenFileNotFound)
		}
	}

	if c.Consul.WaitTime.IsDefined() {
		waitTime := c.Consul.WaitTime.GetOrElse(0)
		switch {
		case waitTime <= 0:
			result.AddError(nil, errConsulWaitTimeNotPositive)
		case waitTime > maxConsulWaitTime:
			loggers.Warnf(warnConsulWaitTimeTooLong, waitTime, maxConsulWaitTime)
		}
	}
	if c.Consul.RetryDelay.GetOrElse(0) < 0 {
		result.AddError(nil, errConsulRetryDelayNegative)
	}
}
