// Package i18n loads the UI message catalogs and resolves the user's language.
package i18n

import (
	"embed"
	"fmt"
	"os"
	"strings"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var locales embed.FS

var supported = []string{"en", "de"}

// Translator renders message IDs in one language
type Translator struct {
	localizer *goi18n.Localizer
	tag       language.Tag
}

// NewBundle loads every embedded catalog; English is the fallback
func NewBundle() (*goi18n.Bundle, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	for _, lang := range supported {
		path := fmt.Sprintf("locales/active.%s.toml", lang)
		if _, err := bundle.LoadMessageFileFS(locales, path); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return bundle, nil
}

// New creates a translator for lang. An empty lang falls back to the
// environment (LC_ALL, LC_MESSAGES, LANG) and then to English.
func New(lang string) (*Translator, error) {
	bundle, err := NewBundle()
	if err != nil {
		return nil, err
	}
	if lang == "" {
		lang = FromEnv()
	}

	matcher := language.NewMatcher(bundle.LanguageTags())
	tag := language.English
	if lang != "" {
		if parsed, err := language.Parse(lang); err == nil {
			tag, _, _ = matcher.Match(parsed)
		} else {
			log.Warn().Str("lang", lang).Msg("Unknown language, using English")
		}
	}
	base, _ := tag.Base()
	return &Translator{
		localizer: goi18n.NewLocalizer(bundle, base.String()),
		tag:       tag,
	}, nil
}

// MustNew is New for the embedded catalogs, which always load
func MustNew(lang string) *Translator {
	t, err := New(lang)
	if err != nil {
		panic(err)
	}
	return t
}

// FromEnv returns the POSIX locale of the process as a BCP 47 tag
func FromEnv() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return normalizeLocale(v)
		}
	}
	return ""
}

// normalizeLocale turns "de_DE.UTF-8" into "de-DE"
func normalizeLocale(v string) string {
	if i := strings.IndexAny(v, ".@"); i >= 0 {
		v = v[:i]
	}
	if v == "C" || v == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(v, "_", "-")
}

// Language returns the matched language
func (t *Translator) Language() language.Tag {
	base, _ := t.tag.Base()
	return language.Make(base.String())
}

// T renders a message, returning the ID when it cannot be resolved
func (t *Translator) T(id string, data ...map[string]any) string {
	cfg := &goi18n.LocalizeConfig{MessageID: id}
	if len(data) > 0 {
		cfg.TemplateData = data[0]
	}
	msg, err := t.localizer.Localize(cfg)
	if err != nil {
		log.Debug().Err(err).Str("id", id).Msg("Missing translation")
		return id
	}
	return msg
}
