package throttler

import (
	"time"

	"chatwarden/sources/configuration"
)

type ThrottlerConfig struct {
	Limit time.Duration
}

func NewThrottlerConfig(config *configuration.Config) *ThrottlerConfig {
	limit := config.Throttler.Limit
	if limit <= 0 {
		limit = 5 * time.Second
	}
	return &ThrottlerConfig{Limit: limit}
}
