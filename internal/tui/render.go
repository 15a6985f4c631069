package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/x/ansi"

	"github.com/rootmind/go-rootmind/internal/cli"
	"github.com/rootmind/go-rootmind/internal/i18n"
	"github.com/rootmind/go-rootmind/internal/study"
	"github.com/rootmind/go-rootmind/internal/tuilog"
)

// markdownRenderer renders assistant answers, rebuilding the glamour
// renderer only when the width changes.
type markdownRenderer struct {
	style    string
	width    int
	renderer *glamour.TermRenderer
}

func (r *markdownRenderer) render(text string, width int) string {
	if r.renderer == nil || r.width != width {
		tr, err := glamour.NewTermRenderer(
			glamour.WithStylePath(r.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			tuilog.Log.Warn("markdown renderer unavailable", "style", r.style, "error", err)
			return ansi.Wordwrap(text, width, " ")
		}
		r.renderer, r.width = tr, width
	}

	out, err := r.renderer.Render(text)
	if err != nil {
		return ansi.Wordwrap(text, width, " ")
	}
	return strings.Trim(out, "\n")
}

// renderTranscript renders the chat history for the viewport.
func renderTranscript(msgs []study.Message, width int, styles *Styles, md *markdownRenderer) string {
	width = max(10, width)
	var b strings.Builder
	for i, m := range msgs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch m.Role {
		case study.RoleUser:
			b.WriteString(styles.UserLabel.Render(i18n.T("chat.you", "You")))
			b.WriteString("\n")
			b.WriteString(styles.UserBlock.Render(ansi.Wordwrap(m.Content, width-2, " ")))
		case study.RoleAssistant:
			b.WriteString(styles.AssistantLabel.Render(i18n.T("chat.assistant", "RootMind")))
			b.WriteString("\n")
			b.WriteString(md.render(m.Content, width))
			if line := cli.SourcesLine(m.Sources); line != "" {
				b.WriteString("\n")
				b.WriteString(styles.Source.Render(ansi.Wordwrap(line, width, " ")))
			}
		}
	}
	return b.String()
}
