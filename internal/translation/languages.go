package translation

import (
	"sort"
	"strings"

	"github.com/caglayanfaruk/isildar-web-design-sub002/internal/language"
)

type LanguageOption struct {
	Code   string `json:"code"`
	Label  string `json:"label"`
	Native string `json:"native,omitempty"`
}

type languageLabel struct {
	english string
	native  string
}

var translationLanguageLabels = map[string]languageLabel{
	"ar": {english: "Arabic", native: "العربية"},
	"az": {english: "Azerbaijani", native: "Azərbaycan dili"},
	"de": {english: "German", native: "Deutsch"},
	"en": {english: "English", native: "English"},
	"es": {english: "Spanish", native: "Español"},
	"fa": {english: "Persian", native: "فارسی"},
	"fr": {english: "French", native: "Français"},
	"it": {english: "Italian", native: "Italiano"},
	"nl": {english: "Dutch", native: "Nederlands"},
	"pl": {english: "Polish", native: "Polski"},
	"pt": {english: "Portuguese", native: "Português"},
	"ro": {english: "Romanian", native: "Română"},
	"ru": {english: "Russian", native: "Русский"},
	"tr": {english: "Turkish", native: "Türkçe"},
	"uk": {english: "Ukrainian", native: "Українська"},
	"zh": {english: "Chinese", native: "中文"},
}

func SupportedTranslationLanguageCodes() []string {
	codes := make([]string, 0, len(translationLanguageLabels))
	for code := range translationLanguageLabels {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// TranslationLanguageOptions lists every language known to the label table or
// to any registered provider, sorted by code.
func TranslationLanguageOptions(registry *Registry) []LanguageOption {
	supported := map[string]struct{}{}

	for code := range translationLanguageLabels {
		supported[code] = struct{}{}
	}

	if registry != nil {
		for _, provider := range registry.providers {
			for _, code := range provider.SupportedLanguages() {
				normalized := normalizeLangCode(code)
				if normalized == "" {
					continue
				}
				supported[normalized] = struct{}{}
			}
		}
	}

	codes := make([]string, 0, len(supported))
	for code := range supported {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	options := make([]LanguageOption, 0, len(codes))
	for _, code := range codes {
		options = append(options, LanguageOptionFor(code))
	}
	return options
}

// LanguageOptionFor returns the labels of one code, falling back to the upper-cased code.
func LanguageOptionFor(code string) LanguageOption {
	normalized := normalizeLangCode(code)
	if labels, ok := translationLanguageLabels[normalized]; ok {
		return LanguageOption{Code: normalized, Label: labels.english, Native: labels.native}
	}
	return LanguageOption{Code: normalized, Label: strings.ToUpper(normalized)}
}

func languageLabelFor(lang string) languageLabel {
	normalized := normalizeLangCode(lang)
	if labels, ok := translationLanguageLabels[normalized]; ok {
		return labels
	}
	fallback := strings.TrimSpace(lang)
	if fallback == "" {
		fallback = "English"
	}
	return languageLabel{english: fallback, native: fallback}
}

func normalizeLangCode(raw string) string {
	return language.NormalizeCode(raw)
}
