package network

import (
	"chatwarden/sources/configuration"
)

type ProxyConfig struct {
	Enabled        bool
	ProxyAddress   string
	ProxyUser      string
	ProxyPass      string
	TimeoutSeconds int
}

func NewProxyConfig(config *configuration.Config) *ProxyConfig {
	cfg := &ProxyConfig{
		Enabled:        config.Proxy.Enabled,
		ProxyAddress:   config.Proxy.Address,
		ProxyUser:      config.Proxy.User,
		ProxyPass:      config.Proxy.Password,
		TimeoutSeconds: config.Proxy.TimeoutSeconds,
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 60
	}
	return cfg
}
