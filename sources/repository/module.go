package repository

import "go.uber.org/fx"

var Module = fx.Module("repository",
	fx.Provide(NewUsersRepository),
	fx.Provide(NewChatsRepository),
	fx.Provide(NewRightsRepository),
	fx.Provide(NewSettingsRepository),
	fx.Provide(NewSessionsRepository),
	fx.Provide(NewNavigationRepository),
)
