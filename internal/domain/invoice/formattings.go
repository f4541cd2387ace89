package invoice

import (
	"sort"

	"golang.org/x/text/language"
)

// LanguageFormat formatos de presentación para un idioma.
// Date y Time usan layouts de Go; Duration admite %h, %m y %s.
type LanguageFormat struct {
	Date     string `mapstructure:"date"`
	Duration string `mapstructure:"duration"`
	Time     string `mapstructure:"time"`
}

// DefaultLanguageFormats formatos incluidos cuando la configuración no trae otros.
func DefaultLanguageFormats() map[string]LanguageFormat {
	return map[string]LanguageFormat{
		"en": {Date: "01/02/2006", Duration: "%h:%m h", Time: "3:04 PM"},
		"de": {Date: "02.01.2006", Duration: "%h:%m h", Time: "15:04"},
		"es": {Date: "02/01/2006", Duration: "%h:%m h", Time: "15:04"},
	}
}

// LanguageFormattings resuelve formatos por idioma con fallback al idioma por defecto.
type LanguageFormattings struct {
	formats         map[string]LanguageFormat
	defaultLanguage string
	tags            []language.Tag
	matcher         language.Matcher
}

// NewLanguageFormattings normaliza las claves como etiquetas BCP-47.
// Si defaultLanguage está vacío se usa "en" cuando existe, si no la primera clave.
func NewLanguageFormattings(formats map[string]LanguageFormat, defaultLanguage string) *LanguageFormattings {
	lf := &LanguageFormattings{formats: make(map[string]LanguageFormat, len(formats))}
	for key, f := range formats {
		lf.formats[normalizeLanguage(key)] = f
	}

	keys := lf.Languages()
	switch {
	case defaultLanguage != "":
		lf.defaultLanguage = normalizeLanguage(defaultLanguage)
	case lf.Has("en") || len(keys) == 0:
		lf.defaultLanguage = "en"
	default:
		lf.defaultLanguage = keys[0]
	}

	// el primer tag es el fallback del matcher
	lf.tags = append(lf.tags, language.Make(lf.defaultLanguage))
	for _, k := range keys {
		if k != lf.defaultLanguage {
			lf.tags = append(lf.tags, language.Make(k))
		}
	}
	lf.matcher = language.NewMatcher(lf.tags)
	return lf
}

// DefaultLanguage idioma usado cuando la plantilla no define uno.
func (lf *LanguageFormattings) DefaultLanguage() string { return lf.defaultLanguage }

// Languages idiomas configurados, ordenados.
func (lf *LanguageFormattings) Languages() []string {
	keys := make([]string, 0, len(lf.formats))
	for k := range lf.formats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has indica si existe configuración exacta para el idioma.
func (lf *LanguageFormattings) Has(lang string) bool {
	_, ok := lf.formats[normalizeLanguage(lang)]
	return ok
}

// Format devuelve los formatos del idioma, del más cercano o del idioma por defecto.
func (lf *LanguageFormattings) Format(lang string) LanguageFormat {
	key := normalizeLanguage(lang)
	if f, ok := lf.formats[key]; ok {
		return f
	}
	tag, err := language.Parse(key)
	if err == nil {
		if _, idx, conf := lf.matcher.Match(tag); conf != language.No {
			if f, ok := lf.formats[lf.tags[idx].String()]; ok {
				return f
			}
		}
	}
	if f, ok := lf.formats[lf.defaultLanguage]; ok {
		return f
	}
	return DefaultLanguageFormats()["en"]
}

// DateFormat layout de fecha para el idioma.
func (lf *LanguageFormattings) DateFormat(lang string) string { return lf.Format(lang).Date }

// TimeFormat layout de hora para el idioma.
func (lf *LanguageFormattings) TimeFormat(lang string) string { return lf.Format(lang).Time }

// DurationFormat patrón de duración para el idioma.
func (lf *LanguageFormattings) DurationFormat(lang string) string { return lf.Format(lang).Duration }

func normalizeLanguage(lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		return lang
	}
	return tag.String()
}
