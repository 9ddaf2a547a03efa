package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"gopkg.in/gcfg.v1"
)

// supportedSections is appended to gcfg's error for an unknown section or variable.
const supportedSections = "[Main], [Consul], [Prometheus]"

func errLoadingConfigFile(path string, err error) error {
	return fmt.Errorf("failed to read configuration file %q: %w", path, err)
}

// LoadConfigFile reads a configuration file into a Config struct and performs basic validation.
//
// The Config parameter should be initialized with default values first. A relative Consul.TokenFile
// is resolved against the directory of the configuration file, and a Consul.Prefix set in the file
// is given a trailing slash if it lacks one.
func LoadConfigFile(c *Config, path string, loggers ldlog.Loggers) error {
	if err := gcfg.ReadFileInto(c, path); err != nil {
		return errLoadingConfigFile(path, FilterGcfgError(err))
	}

	if c.Consul.TokenFile != "" && !filepath.IsAbs(c.Consul.TokenFile) {
		c.Consul.TokenFile = filepath.Join(filepath.Dir(path), c.Consul.TokenFile)
	}
	if c.Consul.Prefix != "" && !strings.HasSuffix(c.Consul.Prefix, "/") {
		c.Consul.Prefix += "/"
	}

	return ValidateConfig(c, loggers)
}

// FilterGcfgError rewrites gcfg's message for unknown sections or fields so that it names the
// sections this file format supports.
func FilterGcfgError(err error) error {
	gcfgExtraDataErrPhrase := "can't store data at"
	if err != nil && strings.Contains(err.Error(), gcfgExtraDataErrPhrase) {
		msg := strings.Replace(err.Error(), gcfgExtraDataErrPhrase, "unsupported or misspelled", 1)
		return errors.New(msg + "; supported sections are " + supportedSections)
	}
	return err
}
