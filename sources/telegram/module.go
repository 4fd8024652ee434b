package telegram

import (
	"context"

	"chatwarden/sources/menu"
	"chatwarden/sources/moderation"
	"chatwarden/sources/repository"
	"chatwarden/sources/tracing"

	"go.uber.org/fx"
)

var Module = fx.Module("telegram",
	fx.Provide(
		NewBotAPI,
		NewDiplomatConfig,
		NewPollerConfig,
		NewDiplomat,
		NewSequencer,
		NewMenuDirectory,
		NewExecutor,
		NewTelegramHandler,
		NewPoller,
	),

	fx.Provide(func(users *repository.UsersRepository) *moderation.Resolver {
		return moderation.NewResolver(users)
	}),

	fx.Provide(func(sessions *repository.SessionsRepository) *menu.AliasFlow {
		return menu.NewAliasFlow(sessions, moderation.AliasCommands)
	}),

	fx.Invoke(func(lc fx.Lifecycle, poller *Poller, log *tracing.Logger) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				go poller.Start()
				log.I("Telegram poller started")
				return nil
			},
			OnStop: func(ctx context.Context) error {
				poller.Stop()
				log.I("Telegram poller stopped")
				return nil
			},
		})
	}),
)
