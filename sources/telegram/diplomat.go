package telegram

import (
	"chatwarden/sources/menu"
	"chatwarden/sources/metrics"
	"chatwarden/sources/texting/transform"
	"chatwarden/sources/tracing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Diplomat owns all outbound Telegram traffic: replies, menu renders and
// callback answers. Everything goes out as plain text.
type Diplomat struct {
	bot     *tgbotapi.BotAPI
	config  *DiplomatConfig
	metrics *metrics.MetricsService
}

func NewDiplomat(bot *tgbotapi.BotAPI, config *DiplomatConfig, metrics *metrics.MetricsService) *Diplomat {
	return &Diplomat{bot: bot, config: config, metrics: metrics}
}

func (x *Diplomat) Reply(logger *tracing.Logger, msg *tgbotapi.Message, text string) {
	defer tracing.ProfilePoint(logger, "Diplomat reply completed", "diplomat.reply")()

	for _, chunk := range transform.Chunks(text, x.config.ChunkSize) {
		chattable := tgbotapi.NewMessage(msg.Chat.ID, chunk)
		chattable.ReplyToMessageID = msg.MessageID

		if _, err := x.bot.Send(chattable); err != nil {
			logger.E("Message chunk sending error", tracing.InnerError, err)
			x.metrics.RecordMessageSent("error")
			return
		}
		x.metrics.RecordMessageSent("success")
	}
}

func (x *Diplomat) SendText(logger *tracing.Logger, chatID int64, text string) error {
	defer tracing.ProfilePoint(logger, "Diplomat send text completed", "diplomat.send_text")()

	for _, chunk := range transform.Chunks(text, x.config.ChunkSize) {
		msg := tgbotapi.NewMessage(chatID, chunk)

		if _, err := x.bot.Send(msg); err != nil {
			logger.E("Message chunk sending error", tracing.InnerError, err)
			x.metrics.RecordMessageSent("error")
			return err
		}
		x.metrics.RecordMessageSent("success")
	}
	return nil
}

// RenderMenu sends a fresh menu message and returns its message id, which
// becomes part of the surface identity.
func (x *Diplomat) RenderMenu(logger *tracing.Logger, chatID int64, title string, rows [][]menu.Control) (int, error) {
	defer tracing.ProfilePoint(logger, "Diplomat render menu completed", "diplomat.render_menu")()

	msg := tgbotapi.NewMessage(chatID, title)
	msg.ReplyMarkup = keyboardOf(rows)

	sent, err := x.bot.Send(msg)
	if err != nil {
		logger.E("Menu sending error", tracing.InnerError, err)
		x.metrics.RecordMessageSent("error")
		return 0, err
	}
	x.metrics.RecordMessageSent("success")
	return sent.MessageID, nil
}

// EditMenu replaces the text and keyboard of an existing menu message in
// place, keeping the surface identity stable across navigation.
func (x *Diplomat) EditMenu(logger *tracing.Logger, chatID int64, messageID int, title string, rows [][]menu.Control) error {
	defer tracing.ProfilePoint(logger, "Diplomat edit menu completed", "diplomat.edit_menu")()

	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, title, keyboardOf(rows))
	if _, err := x.bot.Request(edit); err != nil {
		logger.E("Menu edit error", tracing.InnerError, err)
		return err
	}
	return nil
}

func (x *Diplomat) DeleteMessage(logger *tracing.Logger, chatID int64, messageID int) {
	del := tgbotapi.NewDeleteMessage(chatID, messageID)
	if _, err := x.bot.Request(del); err != nil {
		logger.W("Failed to delete message", tracing.InnerError, err)
	}
}

func (x *Diplomat) AnswerCallback(logger *tracing.Logger, callbackID, text string) {
	callback := tgbotapi.NewCallback(callbackID, text)
	if _, err := x.bot.Request(callback); err != nil {
		logger.E("Failed to answer callback", tracing.InnerError, err)
	}
}

func keyboardOf(rows [][]menu.Control) tgbotapi.InlineKeyboardMarkup {
	keyboard := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, control := range row {
			if control.URL != "" {
				buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonURL(control.Label, control.URL))
				continue
			}
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(control.Label, control.Payload))
		}
		keyboard = append(keyboard, buttons)
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: keyboard}
}
