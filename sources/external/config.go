package external

import (
	"chatwarden/sources/configuration"
)

type OutsidersConfig struct {
	StartupPort            int
	SystemMetricsPort      int
	ApplicationMetricsPort int
}

func NewOutsidersConfig(config *configuration.Config) *OutsidersConfig {
	cfg := &OutsidersConfig{
		StartupPort:            config.Service.StartupPort,
		SystemMetricsPort:      config.Service.SystemMetricsPort,
		ApplicationMetricsPort: config.Service.ApplicationMetricsPort,
	}
	if cfg.StartupPort == 0 {
		cfg.StartupPort = 10000
	}
	if cfg.SystemMetricsPort == 0 {
		cfg.SystemMetricsPort = 10001
	}
	if cfg.ApplicationMetricsPort == 0 {
		cfg.ApplicationMetricsPort = 10002
	}
	return cfg
}
