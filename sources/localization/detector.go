package localization

import (
	"strings"

	"chatwarden/sources/features"
	"chatwarden/sources/texting/transform"
	"chatwarden/sources/tracing"

	"github.com/pemistahl/lingua-go"
)

const (
	MinTextLengthForDetection = 7
	MaxTextLengthForDetection = 256
)

type LanguageDetector struct {
	detector lingua.LanguageDetector
	features *features.FeatureManager
	config   *LocalizationConfig
	log      *tracing.Logger
}

func NewLanguageDetector(features *features.FeatureManager, config *LocalizationConfig, log *tracing.Logger) *LanguageDetector {
	languages := []lingua.Language{lingua.Russian, lingua.English, lingua.Chinese, lingua.Ukrainian, lingua.Belarusian}
	detector := lingua.NewLanguageDetectorBuilder().FromLanguages(languages...).WithPreloadedLanguageModels().Build()

	log.I("Language detector initialized")
	return &LanguageDetector{detector: detector, features: features, config: config, log: log}
}

func (x *LanguageDetector) DetectLanguage(text string) string {
	defer tracing.ProfilePoint(x.log, "Language detection completed", "language.detect", "text_length", len(text))()

	if !x.features.IsEnabledDefault(features.FeatureLanguageDetection, true) {
		x.log.D("Language detection disabled by feature flag")
		return x.config.DefaultLanguage
	}

	cleanText := strings.TrimSpace(text)

	if len(cleanText) < MinTextLengthForDetection {
		x.log.D("Text too short for detection, using default", "text_length", len(cleanText), "min_length", MinTextLengthForDetection)
		return x.config.DefaultLanguage
	}

	truncatedText := transform.SmartTruncate(cleanText, MaxTextLengthForDetection)

	if language, exists := x.detector.DetectLanguageOf(truncatedText); exists {
		langCode := x.linguaToCode(language)
		x.log.D("Language detected", "detected_language", langCode)
		return langCode
	}

	x.log.D("Could not detect language, using default")
	return x.config.DefaultLanguage
}

func (x *LanguageDetector) linguaToCode(lang lingua.Language) string {
	switch lang {
	case lingua.Russian, lingua.Ukrainian, lingua.Belarusian:
		return "ru"
	case lingua.English:
		return "en"
	case lingua.Chinese:
		return "zh"
	default:
		return x.config.DefaultLanguage
	}
}
