package localization

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"chatwarden/sources/tracing"

	"github.com/BurntSushi/toml"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localesFS embed.FS

type LocalizationManager struct {
	bundle   *i18n.Bundle
	detector *LanguageDetector
	config   *LocalizationConfig
	log      *tracing.Logger
	locbuff  sync.Map
}

func NewLocalizationManager(
	config *LocalizationConfig,
	detector *LanguageDetector,
	log *tracing.Logger,
) (*LocalizationManager, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, lang := range config.SupportedLanguages {
		filename := fmt.Sprintf("locales/active.%s.toml", lang)

		data, err := localesFS.ReadFile(filename)
		if err != nil {
			log.E("Failed to read locale file", "filename", filename, tracing.InnerError, err)
			return nil, fmt.Errorf("failed to read locale file %s: %w", filename, err)
		}

		if _, err := bundle.ParseMessageFileBytes(data, filename); err != nil {
			log.E("Failed to parse locale file", "filename", filename, tracing.InnerError, err)
			return nil, fmt.Errorf("failed to parse locale file %s: %w", filename, err)
		}

		log.I("Loaded locale file", "filename", filename)
	}

	log.I("LocalizationManager initialized successfully")
	return &LocalizationManager{bundle: bundle, detector: detector, config: config, log: log}, nil
}

// ForLanguage builds a localizer pinned to an explicit language code, used
// when the preference is already persisted on the user row.
func (x *LocalizationManager) ForLanguage(lang string) *i18n.Localizer {
	return i18n.NewLocalizer(x.bundle, lang, x.config.DefaultLanguage)
}

func (x *LocalizationManager) Localize(localizer *i18n.Localizer, messageID string) string {
	return x.LocalizeTd(localizer, messageID, nil)
}

func (x *LocalizationManager) LocalizeTd(localizer *i18n.Localizer, messageID string, templateData map[string]interface{}) string {
	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: messageID, TemplateData: templateData})
	if err != nil {
		x.log.E("Failed to localize message", "message_id", messageID, tracing.InnerError, err)
		return messageID
	}

	return msg
}

func (x *LocalizationManager) LocalizeBy(msg *tgbotapi.Message, messageID string) string {
	return x.LocalizeByTd(msg, messageID, nil)
}

func (x *LocalizationManager) LocalizeByTd(msg *tgbotapi.Message, messageID string, templateData map[string]interface{}) string {
	return x.LocalizeTd(x.ForLanguage(x.ResolveLanguage(msg)), messageID, templateData)
}

// ResolveLanguage picks the language for a message: detect from the text
// when there is enough of it, fall back to the last detected value for the
// user, then to the Telegram client language, then to the default.
func (x *LocalizationManager) ResolveLanguage(msg *tgbotapi.Message) string {
	userText := msg.Text
	if userText == "" && msg.Caption != "" {
		userText = msg.Caption
	}

	cleanText := strings.TrimSpace(userText)
	userId := msg.From.ID

	if cleanText != "" {
		detected := x.detector.DetectLanguage(cleanText)
		x.locbuff.Store(userId, detected)
		x.log.D("Locale detected from text and cached", tracing.UserId, userId, "locale", detected)
		return detected
	}

	if cached, ok := x.locbuff.Load(userId); ok {
		return cached.(string)
	}
	if msg.From.LanguageCode != "" {
		return x.mapTelegramLanguageCode(msg.From.LanguageCode)
	}
	return x.config.DefaultLanguage
}

func (x *LocalizationManager) mapTelegramLanguageCode(telegramCode string) string {
	lowerCode := strings.ToLower(telegramCode)

	switch {
	case strings.HasPrefix(lowerCode, "ru"), strings.HasPrefix(lowerCode, "uk"), strings.HasPrefix(lowerCode, "be"):
		return "ru"
	case strings.HasPrefix(lowerCode, "zh"):
		return "zh"
	case strings.HasPrefix(lowerCode, "en"):
		return "en"
	default:
		return x.config.DefaultLanguage
	}
}
