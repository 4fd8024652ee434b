package telegram

import (
	"chatwarden/sources/metrics"
	"chatwarden/sources/tracing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Poller struct {
	bot     *tgbotapi.BotAPI
	log     *tracing.Logger
	config  *PollerConfig
	handler *TelegramHandler
	metrics *metrics.MetricsService
}

func NewPoller(bot *tgbotapi.BotAPI, log *tracing.Logger, config *PollerConfig, handler *TelegramHandler, metrics *metrics.MetricsService) *Poller {
	return &Poller{bot: bot, log: log, config: config, handler: handler, metrics: metrics}
}

func (x *Poller) Start() {
	update := tgbotapi.NewUpdate(0)
	update.Timeout = x.config.Timeout
	update.AllowedUpdates = x.config.AllowedUpdates

	for update := range x.bot.GetUpdatesChan(update) {
		switch {
		case update.Message != nil, update.EditedMessage != nil:
			msg := update.Message
			if msg == nil {
				msg = update.EditedMessage
			}
			user, ok := senderOf(update)
			if !ok {
				x.log.W("Message update without a sender, skipping", tracing.ChatId, msg.Chat.ID)
				continue
			}

			log := x.log.With(
				tracing.UserId, user.ID,
				tracing.UserName, user.UserName,
				tracing.ChatType, msg.Chat.Type,
				tracing.ChatId, msg.Chat.ID,
				tracing.MessageId, msg.MessageID,
				tracing.MessageDate, msg.Date,
			)

			if err := x.handler.HandleMessage(log, msg); err != nil {
				x.metrics.RecordMessageHandled("error")
				continue
			}
			x.metrics.RecordMessageHandled("success")
			log.I("Message handled")

		case update.CallbackQuery != nil:
			query := update.CallbackQuery

			log := x.log.With(
				tracing.UserId, query.From.ID,
				tracing.UserName, query.From.UserName,
			)

			if err := x.handler.HandleCallback(log, query); err != nil {
				x.metrics.RecordMessageHandled("error")
				continue
			}
			x.metrics.RecordMessageHandled("success")
		}
	}
}

func (x *Poller) Stop() {
	x.bot.StopReceivingUpdates()
}

// senderOf resolves the human author of an update. Anonymous channel posts
// carry no sender user and are skipped.
func senderOf(update tgbotapi.Update) (*tgbotapi.User, bool) {
	user := update.SentFrom()
	return user, user != nil
}
