package telegram

import (
	"fmt"

	"chatwarden/sources/metrics"
	"chatwarden/sources/moderation"
	"chatwarden/sources/repository"
	"chatwarden/sources/tracing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var mutedPermissions = tgbotapi.ChatPermissions{}

var unmutedPermissions = tgbotapi.ChatPermissions{
	CanSendMessages:       true,
	CanSendMediaMessages:  true,
	CanSendPolls:          true,
	CanSendOtherMessages:  true,
	CanAddWebPagePreviews: true,
	CanInviteUsers:        true,
}

// Executor turns a resolved intent into Telegram API calls, one per target.
// Warn bookkeeping lives in the settings mapping instead of the platform.
type Executor struct {
	bot      *tgbotapi.BotAPI
	settings *repository.SettingsRepository
	metrics  *metrics.MetricsService
}

func NewExecutor(bot *tgbotapi.BotAPI, settings *repository.SettingsRepository, metrics *metrics.MetricsService) *Executor {
	return &Executor{bot: bot, settings: settings, metrics: metrics}
}

func (x *Executor) Apply(log *tracing.Logger, chatID int64, intent *moderation.Intent) error {
	defer tracing.ProfilePoint(log, "Intent execution completed", "telegram.executor.apply", tracing.CommandAction, intent.Command)()

	var until int64
	if !intent.Permanent() {
		until = intent.ExpiresAt.Unix()
	}

	for _, target := range intent.Targets {
		if err := x.applyOne(log, chatID, target, intent.Command, until); err != nil {
			x.metrics.RecordRestriction(intent.Command, "error")
			return err
		}
		x.metrics.RecordRestriction(intent.Command, "success")
	}
	return nil
}

func (x *Executor) applyOne(log *tracing.Logger, chatID int64, target *moderation.Actor, action string, until int64) error {
	member := tgbotapi.ChatMemberConfig{ChatID: chatID, UserID: target.ID}

	switch action {
	case "ban":
		return x.request(log, tgbotapi.BanChatMemberConfig{ChatMemberConfig: member, UntilDate: until})
	case "unban":
		return x.request(log, tgbotapi.UnbanChatMemberConfig{ChatMemberConfig: member, OnlyIfBanned: true})
	case "mute":
		return x.request(log, tgbotapi.RestrictChatMemberConfig{ChatMemberConfig: member, UntilDate: until, Permissions: &mutedPermissions})
	case "unmute":
		return x.request(log, tgbotapi.RestrictChatMemberConfig{ChatMemberConfig: member, Permissions: &unmutedPermissions})
	case "kick":
		// a kick is a ban immediately lifted
		if err := x.request(log, tgbotapi.BanChatMemberConfig{ChatMemberConfig: member}); err != nil {
			return err
		}
		return x.request(log, tgbotapi.UnbanChatMemberConfig{ChatMemberConfig: member, OnlyIfBanned: true})
	case "warn":
		return x.shiftWarns(log, chatID, target.ID, 1)
	case "unwarn":
		return x.shiftWarns(log, chatID, target.ID, -1)
	default:
		return fmt.Errorf("unknown moderation action %q", action)
	}
}

func (x *Executor) request(log *tracing.Logger, chattable tgbotapi.Chattable) error {
	if _, err := x.bot.Request(chattable); err != nil {
		log.E("Moderation request failed", tracing.InnerError, err)
		return err
	}
	return nil
}

func (x *Executor) shiftWarns(log *tracing.Logger, chatID, userID int64, delta int) error {
	key := fmt.Sprintf("warns:%d", userID)

	current := 0
	if value, err := x.settings.Get(log, chatID, key); err == nil {
		if count, ok := value.(float64); ok {
			current = int(count)
		}
	}

	current += delta
	if current < 0 {
		current = 0
	}
	return x.settings.Set(log, chatID, key, current)
}
