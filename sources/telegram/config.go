package telegram

import (
	"chatwarden/sources/configuration"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type DiplomatConfig struct {
	ChunkSize int
}

type PollerConfig struct {
	Timeout        int
	AllowedUpdates []string
}

func NewDiplomatConfig(config *configuration.Config) *DiplomatConfig {
	size := config.Telegram.DiplomatChunkSize
	if size <= 0 {
		size = 4096
	}
	return &DiplomatConfig{ChunkSize: size}
}

func NewPollerConfig(config *configuration.Config) *PollerConfig {
	timeout := config.Telegram.PollerTimeout
	if timeout <= 0 {
		timeout = 120
	}
	allowed := config.Telegram.AllowedUpdates
	if len(allowed) == 0 {
		allowed = []string{tgbotapi.UpdateTypeMessage, tgbotapi.UpdateTypeEditedMessage, tgbotapi.UpdateTypeCallbackQuery}
	}
	return &PollerConfig{Timeout: timeout, AllowedUpdates: allowed}
}
