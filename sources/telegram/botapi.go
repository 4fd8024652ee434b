package telegram

import (
	"net/http"

	"chatwarden/sources/configuration"
	"chatwarden/sources/network"
	"chatwarden/sources/tracing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func NewBotAPI(log *tracing.Logger, config *configuration.Config, proxyConfig *network.ProxyConfig, client *http.Client) *tgbotapi.BotAPI {
	endpoint := config.Telegram.APIEndpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	var bot *tgbotapi.BotAPI
	var err error

	if proxyConfig.Enabled {
		bot, err = tgbotapi.NewBotAPIWithClient(config.Telegram.BotToken, endpoint, client)
	} else {
		bot, err = tgbotapi.NewBotAPIWithAPIEndpoint(config.Telegram.BotToken, endpoint)
	}
	if err != nil {
		log.F("Failed to initialize telegram bot", tracing.InnerError, err)
	}

	log.I("Telegram bot initialized", "account", bot.Self.UserName, "proxied", proxyConfig.Enabled)
	return bot
}
