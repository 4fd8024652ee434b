package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"chatwarden/sources/features"
	"chatwarden/sources/localization"
	"chatwarden/sources/menu"
	"chatwarden/sources/metrics"
	"chatwarden/sources/moderation"
	"chatwarden/sources/persistence/entities"
	"chatwarden/sources/platform"
	"chatwarden/sources/repository"
	"chatwarden/sources/texting"
	"chatwarden/sources/throttler"
	"chatwarden/sources/tracing"

	"github.com/alecthomas/kong"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type TelegramHandler struct {
	diplomat     *Diplomat
	users        *repository.UsersRepository
	chats        *repository.ChatsRepository
	rights       *repository.RightsRepository
	settings     *repository.SettingsRepository
	throttler    *throttler.Throttler
	features     *features.FeatureManager
	localization *localization.LocalizationManager
	locConfig    *localization.LocalizationConfig
	resolver     *moderation.Resolver
	aliasFlow    *menu.AliasFlow
	menus        *MenuDirectory
	sequencer    *Sequencer
	executor     *Executor
	metrics      *metrics.MetricsService
}

func NewTelegramHandler(
	diplomat *Diplomat,
	users *repository.UsersRepository,
	chats *repository.ChatsRepository,
	rights *repository.RightsRepository,
	settings *repository.SettingsRepository,
	throttler *throttler.Throttler,
	fm *features.FeatureManager,
	localization *localization.LocalizationManager,
	locConfig *localization.LocalizationConfig,
	resolver *moderation.Resolver,
	aliasFlow *menu.AliasFlow,
	menus *MenuDirectory,
	sequencer *Sequencer,
	executor *Executor,
	metrics *metrics.MetricsService,
) *TelegramHandler {
	return &TelegramHandler{
		diplomat:     diplomat,
		users:        users,
		chats:        chats,
		rights:       rights,
		settings:     settings,
		throttler:    throttler,
		features:     fm,
		localization: localization,
		locConfig:    locConfig,
		resolver:     resolver,
		aliasFlow:    aliasFlow,
		menus:        menus,
		sequencer:    sequencer,
		executor:     executor,
		metrics:      metrics,
	}
}

func (x *TelegramHandler) HandleMessage(log *tracing.Logger, msg *tgbotapi.Message) error {
	defer tracing.ProfilePoint(log, "Telegram handler message completed", "telegram.handler.message")()
	started := time.Now()
	defer func() { x.metrics.RecordMessageProcessingDuration(time.Since(started)) }()
	log.I("Got message")

	user, err := x.user(log, msg.From)
	if err != nil {
		log.E("Error getting or creating user", tracing.InnerError, err)
		return err
	}

	if !platform.BoolValue(user.IsActive, true) {
		log.I("Ignoring message from inactive user")
		x.metrics.RecordMessageIgnored("inactive_user")
		return nil
	}

	if !msg.Chat.IsPrivate() {
		title := msg.Chat.Title
		if _, err := x.chats.UpsertChat(log, msg.Chat.ID, &title, user.UserID); err != nil {
			log.E("Error upserting chat", tracing.InnerError, err)
		}
	}

	lang := x.langOf(user, msg)

	if msg.IsCommand() && msg.Command() == "cancel" {
		x.HandleCancelCommand(log, msg, lang)
		return nil
	}

	flowSurface := strconv.FormatInt(msg.Chat.ID, 10)
	if x.aliasFlow.Active(log, flowSurface) {
		x.offerToFlow(log, msg, lang, flowSurface)
		return nil
	}

	if msg.Sticker != nil {
		x.handleStickerMessage(log, user, msg, lang)
		return nil
	}

	if msg.IsCommand() {
		if !x.throttler.IsAllowed(user.UserID) {
			log.W("Command throttled")
			x.diplomat.Reply(log, msg, x.t(lang, "error.throttled"))
			return nil
		}

		log = log.With(tracing.CommandIssued, msg.Command())
		x.metrics.RecordCommandUsed(msg.Command())

		switch command := msg.Command(); {
		case command == "start":
			x.diplomat.Reply(log, msg, x.t(lang, "start.welcome"))
		case command == "help":
			x.diplomat.Reply(log, msg, x.t(lang, "help.text"))
		case command == "settings":
			x.HandleSettingsCommand(log, msg, lang)
		case command == "rights":
			x.HandleRightsCommand(log, user, msg, lang)
		case moderation.IsModerationCommand(command):
			x.handleModeration(log, user, msg, lang)
		default:
			log.I("Ignoring unknown command")
			x.metrics.RecordMessageIgnored("unknown_command")
			if msg.Chat.IsPrivate() {
				x.diplomat.Reply(log, msg, x.t(lang, "error.no.intent"))
			}
		}
		return nil
	}

	if verb, ok := x.settings.ResolveAlias(log, msg.Chat.ID, repository.TextAliasKey, strings.TrimSpace(msg.Text)); ok {
		x.handleAliasHit(log, user, msg, lang, "text", verb)
		return nil
	}

	x.metrics.RecordMessageIgnored("chatter")
	return nil
}

func (x *TelegramHandler) handleStickerMessage(log *tracing.Logger, user *entities.User, msg *tgbotapi.Message, lang string) {
	verb, ok := x.settings.ResolveAlias(log, msg.Chat.ID, repository.StickerAliasKey, msg.Sticker.FileUniqueID)
	if !ok {
		x.metrics.RecordMessageIgnored("sticker")
		return
	}
	x.handleAliasHit(log, user, msg, lang, "sticker", verb)
}

// handleAliasHit executes the verb an alias is bound to against the author
// of the message the alias was sent in reply to.
func (x *TelegramHandler) handleAliasHit(log *tracing.Logger, user *entities.User, msg *tgbotapi.Message, lang, kind, verb string) {
	log = log.With(tracing.CommandIssued, verb, tracing.CommandAction, "alias/"+kind)

	if !x.features.IsEnabledDefault(features.FeatureAliasFlows, true) {
		log.I("Alias hit ignored, aliases disabled")
		x.metrics.RecordMessageIgnored("alias_disabled")
		return
	}
	if msg.ReplyToMessage == nil || msg.ReplyToMessage.From == nil {
		log.I("Alias hit without a reply target, ignoring")
		x.metrics.RecordMessageIgnored("alias_no_target")
		return
	}
	if !x.isPrivileged(log, msg.Chat.ID, user) {
		x.diplomat.Reply(log, msg, x.t(lang, "error.access.denied"))
		return
	}
	if !x.throttler.IsAllowed(user.UserID) {
		x.diplomat.Reply(log, msg, x.t(lang, "error.throttled"))
		return
	}

	x.metrics.RecordAliasHit(kind)

	target, err := x.actorFrom(log, msg.ReplyToMessage.From)
	if err != nil {
		x.diplomat.Reply(log, msg, x.t(lang, "error.user.not.found"))
		return
	}

	now := time.Now()
	intent := &moderation.Intent{
		Command:   verb,
		Targets:   []*moderation.Actor{target},
		IssuedAt:  now,
		ExpiresAt: now,
		Reason:    x.t(lang, "moderation.reason.default"),
	}
	x.execute(log, msg, lang, intent)
}

func (x *TelegramHandler) handleModeration(log *tracing.Logger, user *entities.User, msg *tgbotapi.Message, lang string) {
	if !x.isPrivileged(log, msg.Chat.ID, user) {
		x.diplomat.Reply(log, msg, x.t(lang, "error.access.denied"))
		return
	}

	var mentions []moderation.Mention
	for _, entity := range msg.Entities {
		if entity.Type == "text_mention" && entity.User != nil {
			if _, err := x.user(log, entity.User); err != nil {
				log.E("Error upserting mentioned user", tracing.InnerError, err)
				continue
			}
			mentions = append(mentions, moderation.Mention{UserID: entity.User.ID})
		}
	}

	intent, err := x.resolver.Resolve(log, moderation.ParseRequest{
		Text:          msg.Text,
		Mentions:      mentions,
		Now:           time.Now(),
		DefaultReason: x.t(lang, "moderation.reason.default"),
		DedupMentions: x.features.IsEnabledDefault(features.FeatureMentionDedup, false),
	})
	switch {
	case errors.Is(err, moderation.ErrNoIntent):
		x.metrics.RecordParseFailure("no_intent")
		x.diplomat.Reply(log, msg, x.t(lang, "error.no.intent"))
		return
	case errors.Is(err, moderation.ErrActorNotFound):
		x.metrics.RecordParseFailure("target_unresolved")
		x.diplomat.Reply(log, msg, x.t(lang, "error.user.not.found"))
		return
	case err != nil:
		log.E("Intent resolution failed", tracing.InnerError, err)
		x.diplomat.Reply(log, msg, x.t(lang, "error.internal"))
		return
	}

	if msg.ReplyToMessage != nil && msg.ReplyToMessage.From != nil {
		if target, err := x.actorFrom(log, msg.ReplyToMessage.From); err == nil && !hasActor(intent.Targets, target.ID) {
			intent.Targets = append(intent.Targets, target)
		}
	}

	if len(intent.Targets) == 0 {
		x.metrics.RecordParseFailure("no_target")
		x.diplomat.Reply(log, msg, x.t(lang, "error.no.intent"))
		return
	}

	x.execute(log, msg, lang, intent)
}

func (x *TelegramHandler) execute(log *tracing.Logger, msg *tgbotapi.Message, lang string, intent *moderation.Intent) {
	log = log.With(tracing.CommandAction, intent.Command)

	if intent.ExpiryAdvisory {
		x.metrics.RecordExpiryAdvisory()
		x.diplomat.Reply(log, msg, x.t(lang, "advisory.expiry"))
	}

	if err := x.executor.Apply(log, msg.Chat.ID, intent); err != nil {
		x.diplomat.Reply(log, msg, x.t(lang, "error.internal"))
		return
	}

	data := map[string]interface{}{
		"Action":  intent.Command,
		"Targets": intent.TargetLinks(),
		"Reason":  intent.Reason,
	}
	if intent.Permanent() {
		x.diplomat.Reply(log, msg, x.td(lang, "moderation.applied.permanent", data))
		return
	}
	data["Until"] = intent.Until()
	x.diplomat.Reply(log, msg, x.td(lang, "moderation.applied", data))
}

func (x *TelegramHandler) HandleSettingsCommand(log *tracing.Logger, msg *tgbotapi.Message, lang string) {
	nav := x.menus.For(lang)
	node := nav.Root()
	values := x.valuesFor(log, lang, msg.Chat.ID)

	if _, err := x.diplomat.RenderMenu(log, msg.Chat.ID, node.Title(values), node.Keyboard(values)); err != nil {
		x.diplomat.Reply(log, msg, x.t(lang, "error.internal"))
		return
	}
	x.metrics.RecordMenuNavigation("open")
}

func (x *TelegramHandler) HandleCancelCommand(log *tracing.Logger, msg *tgbotapi.Message, lang string) {
	flowSurface := strconv.FormatInt(msg.Chat.ID, 10)

	state, err := x.aliasFlow.Cancel(log, flowSurface)
	if err != nil {
		x.diplomat.Reply(log, msg, x.t(lang, "error.no.active.flow"))
		return
	}
	x.metrics.RecordAliasFlow("cancelled")
	x.diplomat.Reply(log, msg, x.t(lang, "alias.cancelled"))
	x.rerenderOrigin(log, lang, state.OriginKey, state.OriginSurface, msg.Chat.ID)
}

func (x *TelegramHandler) HandleRightsCommand(log *tracing.Logger, user *entities.User, msg *tgbotapi.Message, lang string) {
	if !x.rights.IsUserHasRight(log, user, repository.RightManageRights) {
		x.diplomat.Reply(log, msg, x.t(lang, "error.access.denied"))
		return
	}

	var cmd RightsCmd
	ctx, err := x.parseKongCommand(log, msg, &cmd)
	if err != nil {
		x.diplomat.Reply(log, msg, x.t(lang, "rights.usage"))
		return
	}

	switch ctx.Command() {
	case "grant <username> <right>":
		x.shiftRights(log, msg, lang, cmd.Grant.Username, cmd.Grant.Right, true)
	case "revoke <username> <right>":
		x.shiftRights(log, msg, lang, cmd.Revoke.Username, cmd.Revoke.Right, false)
	default:
		log.W("Unknown rights subcommand", tracing.CommandIssued, ctx.Command())
		x.diplomat.Reply(log, msg, x.t(lang, "rights.usage"))
	}
}

func (x *TelegramHandler) shiftRights(log *tracing.Logger, msg *tgbotapi.Message, lang, username, right string, grant bool) {
	target, err := x.users.GetUserByName(log, username)
	if err != nil {
		x.diplomat.Reply(log, msg, x.t(lang, "error.user.not.found"))
		return
	}

	if grant {
		err = x.rights.GrantRight(log, target, right)
	} else {
		err = x.rights.RevokeRight(log, target, right)
	}
	if err != nil {
		x.diplomat.Reply(log, msg, x.t(lang, "error.internal"))
		return
	}

	id := "rights.revoked"
	if grant {
		id = "rights.granted"
	}
	x.diplomat.Reply(log, msg, x.td(lang, id, map[string]interface{}{
		"User":  "@" + strings.TrimPrefix(username, "@"),
		"Right": right,
	}))
}

// offerToFlow feeds one message into the active alias capture. A stray input
// deletes the message and drops the whole flow.
func (x *TelegramHandler) offerToFlow(log *tracing.Logger, msg *tgbotapi.Message, lang, flowSurface string) {
	result, err := x.aliasFlow.Offer(log, flowSurface, inputOf(msg))
	if errors.Is(err, menu.ErrUnexpectedInput) {
		x.metrics.RecordAliasFlow("aborted")
		x.diplomat.DeleteMessage(log, msg.Chat.ID, msg.MessageID)
		if err := x.diplomat.SendText(log, msg.Chat.ID, x.t(lang, "error.unexpected.input")); err != nil {
			log.E("Failed to report aborted flow", tracing.InnerError, err)
		}
		return
	}
	if err != nil {
		log.E("Alias flow offer failed", tracing.InnerError, err)
		return
	}

	if !result.Done {
		if err := x.diplomat.SendText(log, msg.Chat.ID, x.t(lang, "alias.prompt.value")); err != nil {
			log.E("Failed to prompt for alias value", tracing.InnerError, err)
		}
		return
	}

	if err := x.settings.SetAliasEntry(log, msg.Chat.ID, result.OriginKey, result.Key, result.Value); err != nil {
		x.diplomat.Reply(log, msg, x.t(lang, "error.internal"))
		return
	}
	x.metrics.RecordAliasFlow("completed")
	x.diplomat.Reply(log, msg, x.td(lang, "alias.saved", map[string]interface{}{"Verb": result.Value}))
	x.rerenderOrigin(log, lang, result.OriginKey, result.OriginSurface, msg.Chat.ID)
}

func (x *TelegramHandler) user(log *tracing.Logger, from *tgbotapi.User) (*entities.User, error) {
	uname := from.UserName
	fullname := strings.TrimSpace(from.FirstName + " " + from.LastName)
	return x.users.UpsertUser(log, from.ID, &uname, &fullname)
}

func (x *TelegramHandler) actorFrom(log *tracing.Logger, from *tgbotapi.User) (*moderation.Actor, error) {
	if _, err := x.user(log, from); err != nil {
		return nil, err
	}
	return x.users.ByID(log, from.ID)
}

// isPrivileged allows moderation for users with the internal right, chat
// administrators and anyone in a private chat with the bot.
func (x *TelegramHandler) isPrivileged(log *tracing.Logger, chatID int64, user *entities.User) bool {
	if chatID == user.UserID {
		return true
	}
	if x.rights.IsUserHasRight(log, user, repository.RightModerate) {
		return true
	}

	member, err := x.diplomat.bot.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{ChatID: chatID, UserID: user.UserID},
	})
	if err != nil {
		log.E("Failed to get chat member", tracing.InnerError, err)
		return false
	}
	return member.Status == "administrator" || member.Status == "creator"
}

func (x *TelegramHandler) langOf(user *entities.User, msg *tgbotapi.Message) string {
	if stored := platform.StringValue(user.Language, ""); stored != "" {
		return stored
	}
	if msg != nil {
		return x.localization.ResolveLanguage(msg)
	}
	return x.locConfig.DefaultLanguage
}

func (x *TelegramHandler) t(lang, messageID string) string {
	return x.localization.Localize(x.localization.ForLanguage(lang), messageID)
}

func (x *TelegramHandler) td(lang, messageID string, data map[string]interface{}) string {
	return x.localization.LocalizeTd(x.localization.ForLanguage(lang), messageID, data)
}

// valuesFor loads the owner's settings and massages them for rendering: the
// statistic level becomes its localized label, alias maps stay as maps for
// element expansion.
func (x *TelegramHandler) valuesFor(log *tracing.Logger, lang string, ownerID int64) menu.Values {
	values := menu.Values{}
	stored, err := x.settings.GetAll(log, ownerID)
	if err != nil {
		log.E("Failed to load settings for render", tracing.InnerError, err)
		stored = map[string]any{}
	}
	for key, value := range stored {
		values[key] = value
	}

	level := 0
	if raw, ok := values[NodeStatistic].(float64); ok {
		level = int(raw)
	}
	label := x.statisticLabel(lang, level)
	values[NodeStatistic] = label
	values[NodeMyStatistic] = label

	return values
}

func (x *TelegramHandler) statisticLabel(lang string, level int) string {
	switch level {
	case 1:
		return x.t(lang, "menu.statistic.basic")
	case 2:
		return x.t(lang, "menu.statistic.full")
	default:
		return x.t(lang, "menu.statistic.off")
	}
}

func (x *TelegramHandler) parseKongCommand(log *tracing.Logger, msg *tgbotapi.Message, cmd interface{}) (*kong.Context, error) {
	args := msg.CommandArguments()
	if args == "" {
		return nil, errors.New("command arguments are empty")
	}

	parser, err := kong.New(cmd)
	if err != nil {
		return nil, err
	}

	ctx, err := parser.Parse(texting.ParseCmdArgs(args))
	if err != nil {
		log.W("Error parsing command", tracing.InnerError, err)
		return nil, err
	}
	return ctx, nil
}

func inputOf(msg *tgbotapi.Message) menu.Input {
	switch {
	case msg.Sticker != nil:
		return menu.Input{Kind: menu.InputSticker, StickerID: msg.Sticker.FileUniqueID}
	case strings.TrimSpace(msg.Text) != "":
		return menu.Input{Kind: menu.InputText, Text: strings.TrimSpace(msg.Text)}
	default:
		return menu.Input{Kind: menu.InputOther}
	}
}

func hasActor(actors []*moderation.Actor, id int64) bool {
	for _, actor := range actors {
		if actor.ID == id {
			return true
		}
	}
	return false
}

func surfaceOf(chatID int64, messageID int) string {
	return fmt.Sprintf("%d:%d", chatID, messageID)
}

func splitSurface(surface string) (int64, int, bool) {
	chat, msg, ok := strings.Cut(surface, ":")
	if !ok {
		return 0, 0, false
	}
	chatID, chatErr := strconv.ParseInt(chat, 10, 64)
	messageID, msgErr := strconv.Atoi(msg)
	if chatErr != nil || msgErr != nil {
		return 0, 0, false
	}
	return chatID, messageID, true
}
