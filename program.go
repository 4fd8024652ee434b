package main

import (
	"context"

	"chatwarden/sources/configuration"
	"chatwarden/sources/external"
	"chatwarden/sources/features"
	"chatwarden/sources/localization"
	"chatwarden/sources/metrics"
	"chatwarden/sources/network"
	"chatwarden/sources/persistence"
	"chatwarden/sources/repository"
	"chatwarden/sources/telegram"
	"chatwarden/sources/throttler"
	"chatwarden/sources/tracing"

	"go.uber.org/fx"
)

var (
	version   = "0.0.0"
	buildTime = "1970-01-01"
)

func main() {
	fx.New(
		tracing.Module,
		configuration.Module,
		external.Module,
		network.Module,
		persistence.Module,
		repository.Module,
		throttler.Module,
		features.Module,
		localization.Module,
		metrics.Module,
		telegram.Module,

		fx.Invoke(func(lc fx.Lifecycle, log *tracing.Logger) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					log.I("Chat Warden started successfully", "version", version, "build_time", buildTime)
					return nil
				},
				OnStop: func(ctx context.Context) error {
					log.I("Chat Warden stopped", "version", version, "build_time", buildTime)
					return nil
				},
			})
		}),
	).Run()
}
