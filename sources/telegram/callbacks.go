package telegram

import (
	"errors"
	"strconv"
	"strings"

	"chatwarden/sources/features"
	"chatwarden/sources/menu"
	"chatwarden/sources/persistence/entities"
	"chatwarden/sources/platform"
	"chatwarden/sources/repository"
	"chatwarden/sources/tracing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (x *TelegramHandler) HandleCallback(log *tracing.Logger, query *tgbotapi.CallbackQuery) error {
	defer tracing.ProfilePoint(log, "Telegram handler callback completed", "telegram.handler.callback")()

	msg := query.Message
	if msg == nil {
		x.diplomat.AnswerCallback(log, query.ID, "")
		return nil
	}

	surface := surfaceOf(msg.Chat.ID, msg.MessageID)
	unlock := x.sequencer.Lock(surface)
	defer unlock()

	log = log.With(tracing.SurfaceId, surface, tracing.CallbackPayload, query.Data)
	log.I("Got callback")

	user, err := x.user(log, query.From)
	if err != nil {
		log.E("Error getting or creating user", tracing.InnerError, err)
		x.diplomat.AnswerCallback(log, query.ID, "")
		return err
	}

	lang := x.langOf(user, nil)
	ownerID := msg.Chat.ID
	data := query.Data

	switch {
	case data == PayloadBack:
		x.callbackBack(log, query, lang, surface, ownerID)

	case strings.HasPrefix(data, PrefixStatistic):
		x.callbackStatistic(log, query, lang, surface, ownerID, strings.TrimPrefix(data, PrefixStatistic))

	case data == PayloadAddStickerAlias:
		x.callbackAddAlias(log, query, lang, NodeSticker, menu.KeyKindSticker)

	case data == PayloadAddTextAlias:
		x.callbackAddAlias(log, query, lang, NodeText, menu.KeyKindText)

	case strings.HasPrefix(data, PrefixDeleteAlias):
		x.callbackDeleteAlias(log, query, lang, surface, ownerID, strings.TrimPrefix(data, PrefixDeleteAlias))

	case strings.HasPrefix(data, PrefixChangeLang):
		x.callbackChangeLang(log, query, user, surface, ownerID, strings.TrimPrefix(data, PrefixChangeLang))

	default:
		x.callbackEnter(log, query, lang, surface, ownerID, data)
	}

	return nil
}

func (x *TelegramHandler) callbackEnter(log *tracing.Logger, query *tgbotapi.CallbackQuery, lang, surface string, ownerID int64, key string) {
	nav := x.menus.For(lang)

	node, err := nav.Enter(log, surface, key)
	if errors.Is(err, menu.ErrUnknownSelection) {
		log.W("Callback for a selection the current node does not offer")
		x.diplomat.AnswerCallback(log, query.ID, "")
		return
	}
	if err != nil {
		log.E("Menu enter failed", tracing.InnerError, err)
		x.diplomat.AnswerCallback(log, query.ID, x.t(lang, "error.internal"))
		return
	}

	x.metrics.RecordMenuNavigation("enter")
	x.renderNode(log, query, lang, node, ownerID)
	x.diplomat.AnswerCallback(log, query.ID, "")
}

func (x *TelegramHandler) callbackBack(log *tracing.Logger, query *tgbotapi.CallbackQuery, lang, surface string, ownerID int64) {
	nav := x.menus.For(lang)

	node, err := nav.Back(log, surface)
	if errors.Is(err, menu.ErrBackUnderflow) {
		x.diplomat.AnswerCallback(log, query.ID, x.t(lang, "error.back.underflow"))
		return
	}
	if err != nil {
		log.E("Menu back failed", tracing.InnerError, err)
		x.diplomat.AnswerCallback(log, query.ID, x.t(lang, "error.internal"))
		return
	}

	x.metrics.RecordMenuNavigation("back")
	x.renderNode(log, query, lang, node, ownerID)
	x.diplomat.AnswerCallback(log, query.ID, "")
}

func (x *TelegramHandler) callbackStatistic(log *tracing.Logger, query *tgbotapi.CallbackQuery, lang, surface string, ownerID int64, raw string) {
	level, err := strconv.Atoi(raw)
	if err != nil {
		log.W("Malformed statistic payload")
		x.diplomat.AnswerCallback(log, query.ID, "")
		return
	}

	if err := x.settings.Set(log, ownerID, NodeStatistic, level); err != nil {
		x.diplomat.AnswerCallback(log, query.ID, x.t(lang, "error.internal"))
		return
	}

	x.metrics.RecordMenuNavigation("edit")
	x.rerenderCurrent(log, query, lang, surface, ownerID)
	x.diplomat.AnswerCallback(log, query.ID, "")
}

func (x *TelegramHandler) callbackAddAlias(log *tracing.Logger, query *tgbotapi.CallbackQuery, lang, originKey string, kind menu.KeyKind) {
	if !x.features.IsEnabledDefault(features.FeatureAliasFlows, true) {
		x.diplomat.AnswerCallback(log, query.ID, x.t(lang, "alias.disabled"))
		return
	}

	flowSurface := strconv.FormatInt(query.Message.Chat.ID, 10)
	originSurface := surfaceOf(query.Message.Chat.ID, query.Message.MessageID)
	if err := x.aliasFlow.Start(log, flowSurface, originKey, originSurface, kind); err != nil {
		if errors.Is(err, menu.ErrFlowActive) {
			x.diplomat.AnswerCallback(log, query.ID, x.t(lang, "error.flow.active"))
			return
		}
		log.E("Failed to start alias flow", tracing.InnerError, err)
		x.diplomat.AnswerCallback(log, query.ID, x.t(lang, "error.internal"))
		return
	}

	x.metrics.RecordAliasFlow("started")

	prompt := "alias.prompt.key.text"
	if kind == menu.KeyKindSticker {
		prompt = "alias.prompt.key.sticker"
	}
	if err := x.diplomat.SendText(log, query.Message.Chat.ID, x.t(lang, prompt)); err != nil {
		log.E("Failed to prompt for alias key", tracing.InnerError, err)
	}
	x.diplomat.AnswerCallback(log, query.ID, "")
}

func (x *TelegramHandler) callbackDeleteAlias(log *tracing.Logger, query *tgbotapi.CallbackQuery, lang, surface string, ownerID int64, raw string) {
	// payload tail is kind:alias, the alias may itself contain colons
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		log.W("Malformed delete alias payload")
		x.diplomat.AnswerCallback(log, query.ID, "")
		return
	}

	mapKey := repository.TextAliasKey
	if parts[0] == "sticker" {
		mapKey = repository.StickerAliasKey
	}

	if err := x.settings.DeleteAliasEntry(log, ownerID, mapKey, parts[1]); err != nil {
		x.diplomat.AnswerCallback(log, query.ID, x.t(lang, "error.internal"))
		return
	}

	x.metrics.RecordMenuNavigation("edit")
	x.rerenderCurrent(log, query, lang, surface, ownerID)
	x.diplomat.AnswerCallback(log, query.ID, x.t(lang, "alias.deleted"))
}

func (x *TelegramHandler) callbackChangeLang(log *tracing.Logger, query *tgbotapi.CallbackQuery, user *entities.User, surface string, ownerID int64, code string) {
	if err := x.users.SetLanguage(log, user.UserID, code); err != nil {
		x.diplomat.AnswerCallback(log, query.ID, x.t(code, "error.internal"))
		return
	}
	user.Language = platform.StringPtr(code)

	// same node keys across languages, so the surface stays where it was
	x.metrics.RecordMenuNavigation("edit")
	x.rerenderCurrent(log, query, code, surface, ownerID)
	x.diplomat.AnswerCallback(log, query.ID, x.t(code, "lang.changed"))
}

func (x *TelegramHandler) rerenderCurrent(log *tracing.Logger, query *tgbotapi.CallbackQuery, lang, surface string, ownerID int64) {
	node, err := x.menus.For(lang).Current(log, surface)
	if err != nil {
		log.E("Failed to resolve current node", tracing.InnerError, err)
		return
	}
	x.renderNode(log, query, lang, node, ownerID)
}

func (x *TelegramHandler) renderNode(log *tracing.Logger, query *tgbotapi.CallbackQuery, lang string, node menu.Node, ownerID int64) {
	values := x.valuesFor(log, lang, ownerID)

	if err := x.diplomat.EditMenu(log, query.Message.Chat.ID, query.Message.MessageID, node.Title(values), x.nodeRows(lang, node, values)); err != nil {
		log.E("Failed to render menu node", tracing.MenuNode, node.Key(), tracing.InnerError, err)
	}
}

func (x *TelegramHandler) nodeRows(lang string, node menu.Node, values menu.Values) [][]menu.Control {
	rows := node.Keyboard(values)
	if node.Undoable() {
		rows = append(rows, []menu.Control{x.menus.BackControl(lang)})
	}
	return rows
}

// rerenderOrigin repaints the menu message an alias flow was started from,
// so the surface reflects the outcome without the user navigating.
func (x *TelegramHandler) rerenderOrigin(log *tracing.Logger, lang, originKey, originSurface string, ownerID int64) {
	chatID, messageID, ok := splitSurface(originSurface)
	if !ok {
		log.W("Flow carries no renderable origin surface", tracing.SurfaceId, originSurface)
		return
	}
	node := x.menus.For(lang).Node(originKey)
	if node == nil {
		log.W("Flow origin node is gone from the tree", tracing.MenuNode, originKey)
		return
	}

	values := x.valuesFor(log, lang, ownerID)
	if err := x.diplomat.EditMenu(log, chatID, messageID, node.Title(values), x.nodeRows(lang, node, values)); err != nil {
		log.E("Failed to re-render origin menu", tracing.MenuNode, originKey, tracing.InnerError, err)
	}
}
