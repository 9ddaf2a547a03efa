package config

import (
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	ct "github.com/launchdarkly/go-configtypes"
)

type testDataValidConfig struct {
	name        string
	makeConfig  func(c *Config)
	envVars     map[string]string
	fileContent string
}

type testDataInvalidConfig struct {
	name         string
	envVarsError string
	fileError    string
	envVars      map[string]string
	fileContent  string
}

func mustOptIntGreaterThanZero(n int) ct.OptIntGreaterThanZero {
	o, err := ct.NewOptIntGreaterThanZero(n)
	if err != nil {
		panic(err)
	}
	return o
}

func makeValidConfigs() []testDataValidConfig {
	return []testDataValidConfig{
		makeValidConfigEmpty(),
		makeValidConfigAllProperties(),
		makeValidConfigConsulTokenOnly(),
		makeValidConfigLogLevelNone(),
	}
}

func makeInvalidConfigs() []testDataInvalidConfig {
	return []testDataInvalidConfig{
		makeInvalidConfigBadPort(),
		makeInvalidConfigBadLogLevel(),
		makeInvalidConfigBadWaitTime(),
		makeInvalidConfigZeroWaitTime(),
		makeInvalidConfigBadBoolean(),
		makeInvalidConfigTokenAndTokenFile(),
		makeInvalidConfigTokenFileNotFound(),
		makeInvalidConfigUnknownSection(),
	}
}

func makeValidConfigEmpty() testDataValidConfig {
	c := testDataValidConfig{name: "no properties"}
	c.makeConfig = func(c *Config) {}
	c.envVars = map[string]string{}
	c.fileContent = ``
	return c
}

func makeValidConfigAllProperties() testDataValidConfig {
	c := testDataValidConfig{name: "all properties"}
	c.makeConfig = func(c *Config) {
		c.Main = MainConfig{
			Port:     mustOptIntGreaterThanZero(8333),
			LogLevel: NewOptLogLevel(ldlog.Warn),
		}
		c.Consul = ConsulConfig{
			Host:       "consul.example.com:8500",
			Prefix:     "flags/",
			WaitTime:   ct.NewOptDuration(30 * time.Second),
			RetryDelay: ct.NewOptDuration(500 * time.Millisecond),
		}
		c.Prometheus = PrometheusConfig{
			Enabled: true,
			Prefix:  "myprefix",
		}
	}
	c.envVars = map[string]string{
		"PORT":               "8333",
		"LOG_LEVEL":          "warn",
		"CONSUL_HOST":        "consul.example.com:8500",
		"CONSUL_PREFIX":      "flags/",
		"CONSUL_WAIT_TIME":   "30s",
		"CONSUL_RETRY_DELAY": "500ms",
		"USE_PROMETHEUS":     "1",
		"PROMETHEUS_PREFIX":  "myprefix",
	}
	c.fileContent = `
[Main]
Port = 8333
LogLevel = "warn"

[Consul]
Host = "consul.example.com:8500"
Prefix = "flags/"
WaitTime = 30s
RetryDelay = 500ms

[Prometheus]
Enabled = true
Prefix = "myprefix"
`
	return c
}

func makeValidConfigConsulTokenOnly() testDataValidConfig {
	c := testDataValidConfig{name: "Consul token"}
	c.makeConfig = func(c *Config) {
		c.Consul.Token = "abc"
	}
	c.envVars = map[string]string{
		"CONSUL_TOKEN": "abc",
	}
	c.fileContent = `
[Consul]
Token = "abc"
`
	return c
}

func makeValidConfigLogLevelNone() testDataValidConfig {
	c := testDataValidConfig{name: "log level none"}
	c.makeConfig = func(c *Config) {
		c.Main.LogLevel = NewOptLogLevel(ldlog.None)
	}
	c.envVars = map[string]string{
		"LOG_LEVEL": "NONE",
	}
	c.fileContent = `
[Main]
LogLevel = "none"
`
	return c
}

func makeInvalidConfigBadPort() testDataInvalidConfig {
	c := testDataInvalidConfig{name: "port is not a number"}
	c.envVarsError = "PORT: not a valid integer"
	c.envVars = map[string]string{
		"PORT": "x",
	}
	c.fileError = "failed to read configuration file"
	c.fileContent = `
[Main]
Port = x
`
	return c
}

func makeInvalidConfigBadLogLevel() testDataInvalidConfig {
	c := testDataInvalidConfig{name: "unknown log level"}
	c.envVarsError = `"loud" is not a valid log level`
	c.envVars = map[string]string{
		"LOG_LEVEL": "loud",
	}
	c.fileError = "failed to read configuration file"
	c.fileContent = `
[Main]
LogLevel = "loud"
`
	return c
}

func makeInvalidConfigBadWaitTime() testDataInvalidConfig {
	c := testDataInvalidConfig{name: "wait time is not a duration"}
	c.envVarsError = "CONSUL_WAIT_TIME:"
	c.envVars = map[string]string{
		"CONSUL_WAIT_TIME": "soon",
	}
	c.fileError = "failed to read configuration file"
	c.fileContent = `
[Consul]
WaitTime = soon
`
	return c
}

func makeInvalidConfigZeroWaitTime() testDataInvalidConfig {
	c := testDataInvalidConfig{name: "wait time is zero"}
	c.envVarsError = errConsulWaitTimeNotPositive.Error()
	c.envVars = map[string]string{
		"CONSUL_WAIT_TIME": "0s",
	}
	c.fileContent = `
[Consul]
WaitTime = 0s
`
	return c
}

func makeInvalidConfigBadBoolean() testDataInvalidConfig {
	c := testDataInvalidConfig{name: "Prometheus enabled flag is not a boolean"}
	c.envVarsError = "not a valid boolean value"
	c.envVars = map[string]string{
		"USE_PROMETHEUS": "maybe",
	}
	return c
}

func makeInvalidConfigTokenAndTokenFile() testDataInvalidConfig {
	c := testDataInvalidConfig{name: "Consul token and token file"}
	c.envVarsError = errConsulTokenAndTokenFile.Error()
	c.envVars = map[string]string{
		"CONSUL_TOKEN":      "abc",
		"CONSUL_TOKEN_FILE": "/tmp/token",
	}
	c.fileContent = `
[Consul]
Token = "abc"
TokenFile = "/tmp/token"
`
	return c
}

func makeInvalidConfigTokenFileNotFound() testDataInvalidConfig {
	c := testDataInvalidConfig{name: "Consul token file not found"}
	c.envVarsError = errConsulTokenFileNotFound.Error()
	c.envVars = map[string]string{
		"CONSUL_TOKEN_FILE": "/no/such/token/file",
	}
	c.fileContent = `
[Consul]
TokenFile = "/no/such/token/file"
`
	return c
}

func makeInvalidConfigUnknownSection() testDataInvalidConfig {
	c := testDataInvalidConfig{name: "unknown section"}
	c.fileError = "unsupported or misspelled"
	c.fileContent = `
[Redis]
Host = "localhost"
`
	return c
}
