package localization

import (
	"chatwarden/sources/configuration"
)

type LocalizationConfig struct {
	DefaultLanguage    string
	SupportedLanguages []string
}

func NewLocalizationConfig(config *configuration.Config) *LocalizationConfig {
	cfg := &LocalizationConfig{
		DefaultLanguage:    config.Localization.DefaultLanguage,
		SupportedLanguages: config.Localization.SupportedLanguages,
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "en"
	}
	if len(cfg.SupportedLanguages) == 0 {
		cfg.SupportedLanguages = []string{"en", "ru", "zh"}
	}
	return cfg
}
