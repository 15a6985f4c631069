package tui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/rootmind/go-rootmind/internal/api"
	"github.com/rootmind/go-rootmind/internal/i18n"
	"github.com/rootmind/go-rootmind/internal/study"
)

// planPane is the collapsible study plan. It renders nothing until it has
// items.
type planPane struct {
	plan    study.Plan
	styles  *Styles
	width   int
	height  int
	focused bool
}

func newPlanPane(styles *Styles) planPane {
	return planPane{plan: study.NewPlan(nil), styles: styles}
}

func (p *planPane) setItems(items []api.StudyItem) {
	p.plan.SetItems(items)
}

func (p *planPane) setSize(width, height int) {
	p.width, p.height = width, height
}

func (p planPane) visible() bool { return p.plan.Visible() }

// wantHeight is the height the pane needs to show its content, including the
// border.
func (p planPane) wantHeight() int {
	if !p.visible() {
		return 0
	}
	return strings.Count(p.body(), "\n") + 1 + p.styles.InactiveBorder.GetVerticalFrameSize()
}

func (p planPane) Update(msg tea.Msg) (planPane, tea.Cmd) {
	if msg, ok := msg.(tea.KeyPressMsg); ok && p.focused && msg.String() == "enter" {
		p.plan.Toggle()
	}
	return p, nil
}

func (p planPane) header() string {
	arrow := "▸"
	if p.plan.Expanded() {
		arrow = "▾"
	}
	title := i18n.T("plan.title", "Study Plan")
	return p.styles.PaneTitle.Render(fmt.Sprintf("%s %s (%d)", arrow, title, p.plan.Len()))
}

func (p planPane) body() string {
	lines := []string{p.header()}
	if !p.plan.Expanded() {
		return lines[0]
	}
	inner := max(10, p.width-4)
	for _, e := range p.plan.Entries() {
		num := fmt.Sprintf("%d. ", e.Ordinal)
		lines = append(lines, num+p.styles.PlanSection.Render(ansi.Truncate(e.Section, inner-len(num), "…")))
		if e.Objective != "" {
			indent := strings.Repeat(" ", len(num))
			wrapped := ansi.Wordwrap(e.Objective, inner-len(num), " ")
			for _, l := range strings.Split(wrapped, "\n") {
				lines = append(lines, indent+p.styles.PlanObjective.Render(l))
			}
		}
	}
	return strings.Join(lines, "\n")
}

func (p planPane) View() string {
	if !p.visible() {
		return ""
	}
	border := p.styles.InactiveBorder
	if p.focused {
		border = p.styles.ActiveBorder
	}
	return boxed(border, p.width, p.height, p.body())
}
