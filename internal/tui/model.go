package tui

import (
	"context"
	"errors"
	"os"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"

	"github.com/rootmind/go-rootmind/internal/cli"
	"github.com/rootmind/go-rootmind/internal/i18n"
	"github.com/rootmind/go-rootmind/internal/study"
	"github.com/rootmind/go-rootmind/internal/tui/theme"
	"github.com/rootmind/go-rootmind/internal/tuilog"
)

// pane identifies which pane has focus.
type pane int

const (
	paneUpload pane = iota
	panePlan
	paneChat
)

// Options configures the interactive session.
type Options struct {
	Client      study.Client
	Theme       theme.Theme
	StartDir    string // directory the file picker opens in
	InitialPath string // uploaded on start when set
}

// Model is the top-level bubbletea model. It owns the session coordinator
// and routes its snapshot to the panes.
type Model struct {
	coord *study.Coordinator
	snap  study.Snapshot

	upload uploadPane
	plan   planPane
	chat   chatPane

	styles   *Styles
	keys     keyMap
	help     help.Model
	focus    pane
	initial  string
	width    int
	height   int
	quitting bool
}

// NewModel creates the model. ctx bounds every request the session makes.
func NewModel(ctx context.Context, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	st := newStyles(opts.Theme)
	styles := &st

	h := help.New()
	h.Styles.ShortKey = styles.Accent
	h.Styles.ShortDesc = styles.Muted
	h.Styles.FullKey = styles.Accent
	h.Styles.FullDesc = styles.Muted

	m := Model{
		coord:   study.NewCoordinator(cli.ReadyInfo),
		upload:  newUploadPane(ctx, opts.Client, opts.StartDir, styles),
		plan:    newPlanPane(styles),
		chat:    newChatPane(ctx, opts.Client, styles, opts.Theme.GetMarkdown()),
		styles:  styles,
		keys:    defaultKeyMap(),
		help:    h,
		initial: opts.InitialPath,
	}
	m.snap = m.coord.Snapshot()
	m.upload.focused = true
	return m
}

// Snapshot returns the current document session.
func (m Model) Snapshot() study.Snapshot { return m.snap }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.upload.Init()}
	if m.initial != "" {
		path := m.initial
		cmds = append(cmds, func() tea.Msg { return SelectFileMsg{Path: path} })
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, m.updateSizes()

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case SelectFileMsg:
		return m, m.upload.start(msg.Path)

	case DocumentReadyMsg:
		return m.applyReady(msg.Ready)

	case ingestDoneMsg, metadataDoneMsg:
		var cmd tea.Cmd
		m.upload, cmd = m.upload.Update(msg)
		return m, cmd

	case answerMsg:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		var c1, c2 tea.Cmd
		m.upload, c1 = m.upload.Update(msg)
		m.chat, c2 = m.chat.Update(msg)
		return m, tea.Batch(c1, c2)
	}

	// Picker directory reads and cursor blinks carry their own ids.
	var c1, c2 tea.Cmd
	m.upload, c1 = m.upload.Update(msg)
	m.chat, c2 = m.chat.Update(msg)
	return m, tea.Batch(c1, c2)
}

// applyReady hands a finished upload to the coordinator and propagates the
// new snapshot. The transcript is kept.
func (m Model) applyReady(r study.Ready) (tea.Model, tea.Cmd) {
	m.snap = m.coord.Apply(r)
	tuilog.Log.Info("document ready", "document", m.snap.DocumentID, "title", m.snap.Title, "items", len(m.snap.StudyPlan))

	m.upload.info = m.snap.LastInfo
	m.plan.setItems(m.snap.StudyPlan)
	m.chat.setSnapshot(m.snap)

	sizeCmd := m.updateSizes()
	focusCmd := m.setFocus(paneChat)
	return m, tea.Batch(sizeCmd, focusCmd)
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextPane):
		return m, m.setFocus(m.nextPane(1))
	case key.Matches(msg, m.keys.PrevPane):
		return m, m.setFocus(m.nextPane(-1))
	case key.Matches(msg, m.keys.TogglePlan):
		if m.plan.visible() {
			m.plan.plan.Toggle()
			return m, m.updateSizes()
		}
		return m, nil
	case key.Matches(msg, m.keys.Help) && m.focus != paneChat:
		m.help.ShowAll = !m.help.ShowAll
		return m, m.updateSizes()
	}

	var cmd tea.Cmd
	switch m.focus {
	case paneUpload:
		m.upload, cmd = m.upload.Update(msg)
	case panePlan:
		m.plan, cmd = m.plan.Update(msg)
		return m, tea.Batch(cmd, m.updateSizes())
	case paneChat:
		m.chat, cmd = m.chat.Update(msg)
	}
	return m, cmd
}

// nextPane returns the pane dir steps away from the focused one, skipping
// the plan while it is hidden.
func (m Model) nextPane(dir int) pane {
	order := []pane{paneUpload, panePlan, paneChat}
	idx := 0
	for i, p := range order {
		if p == m.focus {
			idx = i
		}
	}
	for range order {
		idx = (idx + dir + len(order)) % len(order)
		if order[idx] != panePlan || m.plan.visible() {
			return order[idx]
		}
	}
	return m.focus
}

func (m *Model) setFocus(p pane) tea.Cmd {
	m.focus = p
	m.upload.focused = p == paneUpload
	m.plan.focused = p == panePlan
	if p == paneChat {
		return m.chat.focus()
	}
	m.chat.blur()
	return nil
}

func (m Model) helpHeight() int {
	return lipgloss.Height(m.help.View(m.keys))
}

// columns returns the widths of the left and right columns.
func (m Model) columns() (int, int) {
	left := max(30, m.width*2/5)
	right := max(30, m.width-left)
	return left, right
}

func (m *Model) updateSizes() tea.Cmd {
	if m.width == 0 || m.height == 0 {
		return nil
	}
	m.help.SetWidth(m.width)
	bodyH := max(6, m.height-1-m.helpHeight())
	left, right := m.columns()

	planH := 0
	if m.plan.visible() {
		m.plan.setSize(left, bodyH/2)
		planH = min(m.plan.wantHeight(), bodyH/2)
	}
	m.plan.setSize(left, planH)
	m.chat.setSize(right, bodyH)
	return m.upload.setSize(left, bodyH-planH)
}

func (m Model) headerView() string {
	text := i18n.T("tui.appName", "RootMind")
	if m.snap.Title != "" {
		text += " · " + m.snap.Title
	}
	w := max(1, m.width)
	return m.styles.Header.Width(w).Render(ansi.Truncate(text, max(1, w-2), "…"))
}

// View implements tea.Model.
func (m Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}
	if m.width == 0 || m.height == 0 {
		v := tea.NewView(i18n.T("common.loading", "Loading..."))
		v.AltScreen = true
		return v
	}

	leftParts := []string{m.upload.View()}
	if plan := m.plan.View(); plan != "" {
		leftParts = append(leftParts, plan)
	}
	leftCol := lipgloss.JoinVertical(lipgloss.Left, leftParts...)
	body := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, m.chat.View())

	content := lipgloss.JoinVertical(lipgloss.Left, m.headerView(), body, m.help.View(m.keys))
	v := tea.NewView(content)
	v.AltScreen = true
	return v
}

// termSizeOpts returns tea.WithWindowSize when the terminal size can be
// detected, so the first frame renders at the right size.
func termSizeOpts() []tea.ProgramOption {
	var opts []tea.ProgramOption
	for _, fd := range []int{int(os.Stdout.Fd()), int(os.Stdin.Fd()), int(os.Stderr.Fd())} {
		if term.IsTerminal(fd) {
			w, h, err := term.GetSize(fd)
			if err == nil && w > 0 && h > 0 {
				opts = append(opts, tea.WithWindowSize(w, h))
				break
			}
		}
	}
	return opts
}

// Run starts the interactive session and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, opts Options) error {
	if opts.Client == nil {
		return errors.New("tui: no client configured")
	}
	m := NewModel(ctx, opts)
	p := tea.NewProgram(m, append(termSizeOpts(), tea.WithContext(ctx))...)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
