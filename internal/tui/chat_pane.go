package tui

import (
	"context"
	"errors"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	"github.com/rootmind/go-rootmind/internal/i18n"
	"github.com/rootmind/go-rootmind/internal/study"
	"github.com/rootmind/go-rootmind/internal/tuilog"
)

// chatPane shows the transcript and the question input.
type chatPane struct {
	ctx      context.Context
	client   study.Client
	chat     *study.Chat
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	styles   *Styles
	md       *markdownRenderer

	snap    study.Snapshot
	width   int
	height  int
	focused bool
}

func newChatPane(ctx context.Context, client study.Client, styles *Styles, markdownStyle string) chatPane {
	ti := textinput.New()
	ti.CharLimit = 2000
	ti.Prompt = "› "

	p := chatPane{
		ctx:      ctx,
		client:   client,
		chat:     study.NewChat(study.WithFallbackAnswer(i18n.T("chat.noAnswer", "No answer"))),
		input:    ti,
		viewport: viewport.New(),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Accent)),
		styles:   styles,
		md:       &markdownRenderer{style: "dark"},
	}
	if markdownStyle != "" {
		p.md.style = markdownStyle
	}
	p.syncInput()
	return p
}

// setSnapshot updates the document session the pane depends on.
func (p *chatPane) setSnapshot(snap study.Snapshot) {
	p.snap = snap
	p.syncInput()
}

// interactable reports whether the input accepts questions.
func (p chatPane) interactable() bool {
	return p.chat.Interactable(p.snap)
}

// syncInput reflects readiness and loading in the input's placeholder and
// focus.
func (p *chatPane) syncInput() {
	switch {
	case !p.snap.Ready:
		p.input.Placeholder = i18n.T("chat.notReady", "Upload a PDF to enable chat.")
	case p.chat.Loading():
		p.input.Placeholder = i18n.T("chat.waiting", "Waiting for the answer…")
	default:
		p.input.Placeholder = i18n.T("chat.placeholder", "Ask about the document…")
	}
	if !p.interactable() || !p.focused {
		p.input.Blur()
	}
}

func (p *chatPane) focus() tea.Cmd {
	p.focused = true
	if p.interactable() {
		return p.input.Focus()
	}
	p.syncInput()
	return nil
}

func (p *chatPane) blur() {
	p.focused = false
	p.input.Blur()
}

func (p *chatPane) setSize(width, height int) {
	p.width, p.height = width, height
	inner := max(1, width-4)
	p.input.SetWidth(max(1, inner-2))
	// Title, status line, input and border.
	p.viewport.SetWidth(inner)
	p.viewport.SetHeight(max(1, height-6))
	p.refresh()
}

// refresh re-renders the transcript and scrolls to the newest message.
func (p *chatPane) refresh() {
	p.viewport.SetContent(renderTranscript(p.chat.Transcript(), p.viewport.Width(), p.styles, p.md))
	p.viewport.GotoBottom()
}

// submit sends the input as a question. Rejected submissions change
// nothing.
func (p *chatPane) submit() tea.Cmd {
	req, err := p.chat.Submit(p.input.Value(), p.snap)
	if err != nil {
		if !errors.Is(err, study.ErrEmptyQuestion) {
			tuilog.Log.Debug("question rejected", "reason", err)
		}
		return nil
	}

	// The question is in the transcript before the request leaves.
	p.input.Reset()
	p.syncInput()
	p.refresh()

	ctx, client := p.ctx, p.client
	ask := func() tea.Msg {
		defer tuilog.Log.Timed("ask")()
		ans, err := client.AskQuestion(ctx, req.DocumentID, req.Question)
		return answerMsg{seq: req.Seq, answer: ans, err: err}
	}
	return tea.Batch(ask, p.spinner.Tick)
}

func (p chatPane) Update(msg tea.Msg) (chatPane, tea.Cmd) {
	switch msg := msg.(type) {
	case answerMsg:
		if !p.chat.Resolve(msg.seq, msg.answer, msg.err) {
			return p, nil
		}
		if msg.err != nil {
			tuilog.Log.Warn("ask failed", "error", msg.err)
		}
		p.refresh()
		var cmd tea.Cmd
		if p.focused {
			cmd = p.focus()
		}
		p.syncInput()
		return p, cmd

	case spinner.TickMsg:
		if !p.chat.Loading() {
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd

	case tea.KeyPressMsg:
		if !p.focused {
			return p, nil
		}
		switch msg.String() {
		case "enter":
			return p, p.submit()
		case "pgup", "pgdown", "up", "down":
			var cmd tea.Cmd
			p.viewport, cmd = p.viewport.Update(msg)
			return p, cmd
		}
		if !p.interactable() {
			return p, nil
		}
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return p, cmd

	case tea.MouseWheelMsg:
		var cmd tea.Cmd
		p.viewport, cmd = p.viewport.Update(msg)
		return p, cmd
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p chatPane) statusLine() string {
	switch {
	case p.chat.Loading():
		return p.spinner.View() + " " + p.styles.Info.Render(i18n.T("chat.thinking", "Thinking…"))
	case p.chat.Err() != nil:
		return p.styles.Error.Render(i18n.Tf("chat.error", "Error: %s", p.chat.Err().Error()))
	case !p.snap.Ready:
		return p.styles.Muted.Render(i18n.T("chat.notReady", "Upload a PDF to enable chat."))
	}
	return ""
}

func (p chatPane) View() string {
	title := p.styles.PaneTitle.Render(i18n.T("chat.title", "Chat"))
	body := strings.Join([]string{
		title,
		p.viewport.View(),
		p.statusLine(),
		p.input.View(),
	}, "\n")

	border := p.styles.InactiveBorder
	if p.focused {
		border = p.styles.ActiveBorder
	}
	return boxed(border, p.width, p.height, body)
}
