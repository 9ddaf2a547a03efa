package consulkv

import (
	"strings"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	c "github.com/hashicorp/consul/api"
)

const (
	// DefaultPrefix is the default key prefix for flags, which matches the layout used by FF4J's Consul store.
	DefaultPrefix = "ff4j/features/"
)

// ClientConfig describes how to connect to Consul.
type ClientConfig struct {
	// Address is the host:port of the Consul agent. If empty, the Consul client library's default is used.
	Address string

	// Token is an ACL token to send with each request.
	Token string

	// TokenFile is a file containing an ACL token. It must not be set if Token is set.
	TokenFile string
}

// NewClient creates a Consul API client.
func NewClient(config ClientConfig, loggers ldlog.Loggers) (*c.Client, error) {
	consulConfig := c.DefaultConfig()
	if config.Token != "" {
		consulConfig.Token = config.Token
	} else if config.TokenFile != "" {
		consulConfig.TokenFile = config.TokenFile
	}
	if config.Address != "" {
		consulConfig.Address = config.Address
	}
	loggers.Infof("Using Consul at %s", consulConfig.Address)

	client, err := c.NewClient(consulConfig)
	if err != nil {
		return nil, errCreatingClient(err)
	}
	return client, nil
}

// NormalizePrefix returns the prefix with a trailing slash, or DefaultPrefix if it is empty.
func NormalizePrefix(prefix string) string {
	if prefix == "" {
		return DefaultPrefix
	}
	if !strings.HasSuffix(prefix, "/") {
		return prefix + "/"
	}
	return prefix
}
