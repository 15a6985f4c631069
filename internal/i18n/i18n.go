// Package i18n localizes rootmind's user-facing strings.
//
// Every call site carries its English text, so an untranslated or unknown
// message still renders:
//
//	i18n.Init(i18n.ResolveLocale(cfg.Language))
//	i18n.T("chat.thinking", "Thinking…")
//	i18n.Tf("upload.info", "Chunks indexed: %d", n)
//	i18n.Tn("plan.count", "{{.Count}} section", "{{.Count}} sections", n)
package i18n

import (
	"embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// EnvLang overrides every other language source.
const EnvLang = "ROOTMIND_LANG"

//go:embed locales/*.toml
var localeFS embed.FS

var (
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	active    string
	mu        sync.RWMutex
)

// Init selects lang for all later lookups, falling back to English for
// missing languages and messages. Safe to call again after a config change.
func Init(lang string) {
	b := newBundle()

	mu.Lock()
	defer mu.Unlock()
	bundle = b
	localizer = i18n.NewLocalizer(b, lang, "en")
	active = lang
}

// newBundle loads every embedded locale file.
func newBundle() *i18n.Bundle {
	b := i18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, _ := localeFS.ReadDir("locales")
	for _, e := range entries {
		_, _ = b.LoadMessageFileFS(localeFS, "locales/"+e.Name())
	}
	return b
}

// Language returns the tag passed to the last Init, or "" before Init.
func Language() string {
	mu.RLock()
	defer mu.RUnlock()
	return active
}

// Available returns the languages with an embedded locale file.
func Available() []string {
	entries, _ := localeFS.ReadDir("locales")
	var out []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".toml"); ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func current() *i18n.Localizer {
	mu.RLock()
	defer mu.RUnlock()
	return localizer
}

// T returns the localized string for id, or defaultMsg.
func T(id string, defaultMsg string) string {
	l := current()
	if l == nil {
		return defaultMsg
	}

	s, err := l.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{ID: id, Other: defaultMsg},
	})
	if err != nil {
		return defaultMsg
	}
	return s
}

// Tf is T followed by fmt.Sprintf.
func Tf(id string, defaultMsg string, args ...any) string {
	return fmt.Sprintf(T(id, defaultMsg), args...)
}

// Tn returns a pluralized string. one and other are templates that may
// reference {{.Count}}.
func Tn(id string, one string, other string, count int) string {
	msg := &i18n.Message{ID: id, One: one, Other: other}
	data := map[string]int{"Count": count}

	l := current()
	if l == nil {
		l = i18n.NewLocalizer(i18n.NewBundle(language.English), "en")
	}
	s, err := l.Localize(&i18n.LocalizeConfig{
		DefaultMessage: msg,
		PluralCount:    count,
		TemplateData:   data,
	})
	if err != nil {
		tmpl := other
		if count == 1 {
			tmpl = one
		}
		return strings.ReplaceAll(tmpl, "{{.Count}}", fmt.Sprint(count))
	}
	return s
}

// ResolveLocale picks the UI language.
// Priority: ROOTMIND_LANG > configLang > LC_ALL > LANG > "en".
func ResolveLocale(configLang string) string {
	if v := os.Getenv(EnvLang); v != "" {
		return v
	}
	if configLang != "" {
		return configLang
	}
	for _, env := range []string{"LC_ALL", "LANG"} {
		if v := os.Getenv(env); v != "" && v != "C" && v != "POSIX" {
			return normalizeLocale(v)
		}
	}
	return "en"
}

// normalizeLocale converts a POSIX locale to BCP 47:
// "es_MX.UTF-8" becomes "es-MX".
func normalizeLocale(posix string) string {
	if i := strings.IndexAny(posix, ".@"); i >= 0 {
		posix = posix[:i]
	}
	return strings.ReplaceAll(posix, "_", "-")
}
