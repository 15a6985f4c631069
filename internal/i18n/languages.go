package i18n

import (
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// LangInfo describes an available UI language.
type LangInfo struct {
	Tag         string // BCP 47 tag, e.g. "es"
	Name        string // name in the language itself, e.g. "español"
	EnglishName string // e.g. "Spanish"
	Active      bool
}

// AvailableLanguages lists the embedded languages, marking the one that
// matches activeTag.
func AvailableLanguages(activeTag string) []LangInfo {
	active := matchAvailable(activeTag)
	var out []LangInfo
	for _, tag := range Available() {
		t := language.Make(tag)
		info := LangInfo{
			Tag:         tag,
			Name:        display.Self.Name(t),
			EnglishName: display.English.Languages().Name(t),
			Active:      tag == active,
		}
		if info.Name == "" {
			info.Name = tag
		}
		if info.EnglishName == "" {
			info.EnglishName = info.Name
		}
		out = append(out, info)
	}
	return out
}

// matchAvailable returns the embedded language closest to tag, or "en".
func matchAvailable(tag string) string {
	avail := Available()
	if len(avail) == 0 || tag == "" {
		return "en"
	}
	tags := make([]language.Tag, len(avail))
	for i, a := range avail {
		tags[i] = language.Make(a)
	}
	_, idx, conf := language.NewMatcher(tags).Match(language.Make(tag))
	if conf == language.No {
		return "en"
	}
	return avail[idx]
}

// previewKeys are shown by the language picker, in order.
var previewKeys = [][2]string{
	{"upload.title", "Upload PDF"},
	{"upload.processing", "Processing…"},
	{"plan.title", "Study Plan"},
	{"chat.you", "You"},
	{"chat.thinking", "Thinking…"},
	{"chat.noAnswer", "No answer"},
	{"chat.notReady", "Upload a PDF to enable chat."},
}

// PreviewKeys returns the message ids and English defaults used for previews.
func PreviewKeys() [][2]string {
	out := make([][2]string, len(previewKeys))
	copy(out, previewKeys)
	return out
}

// PreviewStrings localizes the preview messages into tag without changing
// the active language.
func PreviewStrings(tag string) map[string]string {
	l := i18n.NewLocalizer(newBundle(), tag, "en")

	out := make(map[string]string, len(previewKeys))
	for _, kv := range previewKeys {
		s, err := l.Localize(&i18n.LocalizeConfig{
			DefaultMessage: &i18n.Message{ID: kv[0], Other: kv[1]},
		})
		if err != nil {
			s = kv[1]
		}
		out[kv[0]] = s
	}
	return out
}
