package telegram

import (
	"chatwarden/sources/localization"
	"chatwarden/sources/menu"
	"chatwarden/sources/repository"
	"chatwarden/sources/tracing"
)

// Node keys and callback payloads of the settings tree. Keys are language
// independent so one shared history store serves every language's tree.
const (
	NodeSettings  = "settings"
	NodeChat      = "chat_settings"
	NodePrivate   = "private_settings"
	NodeStatistic = "statistic"
	NodeSticker   = "sticker_alias"
	NodeText      = "text_alias"
	NodeLanguage  = "change_lang"

	// the personal statistic mirrors the chat one but needs its own tree key
	NodeMyStatistic = "my_statistic"

	PayloadBack            = "back"
	PayloadAddStickerAlias = "add_alias:sticker"
	PayloadAddTextAlias    = "add_alias:text"
	PrefixStatistic        = "statistic:"
	PrefixDeleteAlias      = "delete_alias:"
	PrefixChangeLang       = "change_lang:"
)

// MenuDirectory holds one immutable settings tree per supported language.
// All trees share the same node keys and the same history store, so a
// surface can switch languages mid-navigation without losing its place.
type MenuDirectory struct {
	navigators  map[string]*menu.Navigator
	backLabels  map[string]string
	defaultLang string
}

func NewMenuDirectory(
	manager *localization.LocalizationManager,
	config *localization.LocalizationConfig,
	history *repository.NavigationRepository,
	log *tracing.Logger,
) (*MenuDirectory, error) {
	directory := &MenuDirectory{
		navigators:  make(map[string]*menu.Navigator, len(config.SupportedLanguages)),
		backLabels:  make(map[string]string, len(config.SupportedLanguages)),
		defaultLang: config.DefaultLanguage,
	}

	for _, lang := range config.SupportedLanguages {
		localizer := manager.ForLanguage(lang)
		t := func(id string) string { return manager.Localize(localizer, id) }

		navigator, err := menu.NewNavigator(buildSettingsTree(t, config.SupportedLanguages), history)
		if err != nil {
			return nil, err
		}
		directory.navigators[lang] = navigator
		directory.backLabels[lang] = t("menu.back")
		log.I("Settings tree built", "lang", lang)
	}

	return directory, nil
}

// For returns the navigator for lang, falling back to the default language.
func (x *MenuDirectory) For(lang string) *menu.Navigator {
	if navigator, ok := x.navigators[lang]; ok {
		return navigator
	}
	return x.navigators[x.defaultLang]
}

// BackControl renders the localized back button appended to undoable nodes.
func (x *MenuDirectory) BackControl(lang string) menu.Control {
	label, ok := x.backLabels[lang]
	if !ok {
		label = x.backLabels[x.defaultLang]
	}
	return menu.Control{Label: label, Payload: PayloadBack}
}

func buildSettingsTree(t func(string) string, languages []string) menu.Node {
	statisticOf := func(key string) *menu.Property {
		return menu.NewProperty(key, t("menu.statistic.label"), t("menu.statistic.title"), 3).WithUndo().Add(
			menu.NewButton(t("menu.statistic.off"), PrefixStatistic+"0"),
			menu.NewButton(t("menu.statistic.basic"), PrefixStatistic+"1"),
			menu.NewButton(t("menu.statistic.full"), PrefixStatistic+"2"),
		)
	}
	statistic := statisticOf(NodeStatistic)

	stickerAliases := menu.NewProperty(NodeSticker, t("menu.sticker.label"), t("menu.sticker.title"), 1).WithUndo().Add(
		menu.NewButton(t("menu.add.alias"), PayloadAddStickerAlias),
		menu.NewElements("❌ {k} → /{v}", PrefixDeleteAlias+"sticker:{k}"),
	)

	textAliases := menu.NewProperty(NodeText, t("menu.text.label"), t("menu.text.title"), 1).WithUndo().Add(
		menu.NewButton(t("menu.add.alias"), PayloadAddTextAlias),
		menu.NewElements("❌ {k} → /{v}", PrefixDeleteAlias+"text:{k}"),
	)

	chat := menu.NewSubmenu(NodeChat, t("menu.chat.label"), t("menu.chat.title"), 1).WithUndo()
	chat.Add(statistic, stickerAliases, textAliases)

	languageButtons := make([]menu.Node, 0, len(languages))
	for _, lang := range languages {
		languageButtons = append(languageButtons, menu.NewButton(languageLabel(lang), PrefixChangeLang+lang))
	}
	changeLang := menu.NewSubmenu(NodeLanguage, t("menu.change.lang.label"), t("menu.change.lang.title"), 3).WithUndo()
	changeLang.Add(languageButtons...)

	private := menu.NewSubmenu(NodePrivate, t("menu.private.label"), t("menu.private.title"), 1).WithUndo()
	private.Add(changeLang, statisticOf(NodeMyStatistic))

	return menu.NewMenu(NodeSettings, t("menu.settings.title"), 2).Add(chat, private)
}

func languageLabel(lang string) string {
	switch lang {
	case "en":
		return "English"
	case "ru":
		return "Русский"
	case "zh":
		return "中文"
	default:
		return lang
	}
}
