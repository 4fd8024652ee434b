package features

import (
	"chatwarden/sources/configuration"
)

type FeatureConfig struct {
	UnleashAPIURL     string
	UnleashInstanceID string
	UnleashAppName    string
	RefreshInterval   int
}

func NewFeatureConfig(config *configuration.Config) *FeatureConfig {
	cfg := &FeatureConfig{
		UnleashAPIURL:     config.Features.UnleashAPIURL,
		UnleashInstanceID: config.Features.UnleashInstanceID,
		UnleashAppName:    config.Features.UnleashAppName,
		RefreshInterval:   config.Features.RefreshInterval,
	}
	if cfg.UnleashAppName == "" {
		cfg.UnleashAppName = "chatwarden"
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = 5
	}
	return cfg
}
