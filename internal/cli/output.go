// Package cli provides CLI output formatting utilities.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/rootmind/go-rootmind/internal/api"
	"github.com/rootmind/go-rootmind/internal/i18n"
	"github.com/rootmind/go-rootmind/internal/study"
)

var (
	titleColor   = color.New(color.FgGreen, color.Bold)
	sectionColor = color.New(color.Bold)
	mutedColor   = color.New(color.FgHiBlack)
	userColor    = color.New(color.FgCyan, color.Bold)
	botColor     = color.New(color.FgGreen, color.Bold)
	sourceColor  = color.New(color.FgMagenta)
	errorColor   = color.New(color.FgRed)
)

// Printer writes line-mode output for the study commands.
type Printer struct {
	w io.Writer
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Spinner returns an indeterminate progress indicator on w.
func Spinner(w io.Writer, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
	)
}

// PhaseLabel is the progress text for an upload phase.
func PhaseLabel(p study.UploadPhase) string {
	if p == study.PhaseMetadata {
		return " " + i18n.T("upload.generatingPlan", "Generating study plan…")
	}
	return " " + i18n.T("upload.processing", "Processing…")
}

// ReadyInfo is the localized diagnostic line for a finished upload.
func ReadyInfo(r study.Ready) string {
	return i18n.Tf("upload.info", "Chunks indexed: %d", r.ChunksAdded)
}

// Ready prints the outcome of an upload.
func (p *Printer) Ready(snap study.Snapshot) {
	titleColor.Fprintf(p.w, "✓ %s\n", snap.Title)
	mutedColor.Fprintf(p.w, "%s\n", snap.LastInfo)
	mutedColor.Fprintf(p.w, "%s\n", i18n.Tf("upload.document", "Document: %s", snap.DocumentID))
	if len(snap.StudyPlan) > 0 {
		fmt.Fprintln(p.w)
		p.Plan(snap.StudyPlan)
	}
}

// Plan prints a study plan with 1-based ordinals.
func (p *Printer) Plan(items []api.StudyItem) {
	plan := study.NewPlan(items)
	if !plan.Visible() {
		mutedColor.Fprintln(p.w, i18n.T("plan.empty", "No study plan."))
		return
	}
	sectionColor.Fprintf(p.w, "%s (%s)\n", i18n.T("plan.title", "Study Plan"),
		i18n.Tn("plan.count", "{{.Count}} section", "{{.Count}} sections", plan.Len()))
	for _, e := range plan.Entries() {
		sectionColor.Fprintf(p.w, "%2d. %s\n", e.Ordinal, e.Section)
		if e.Objective != "" {
			fmt.Fprintf(p.w, "    %s\n", e.Objective)
		}
	}
}

// Question echoes a user question.
func (p *Printer) Question(q string) {
	userColor.Fprintf(p.w, "%s: ", i18n.T("chat.you", "You"))
	fmt.Fprintln(p.w, q)
}

// Answer prints an assistant message and its page references.
func (p *Printer) Answer(m study.Message) {
	botColor.Fprintf(p.w, "%s: ", i18n.T("chat.assistant", "RootMind"))
	fmt.Fprintln(p.w, strings.TrimSpace(m.Content))
	if line := SourcesLine(m.Sources); line != "" {
		sourceColor.Fprintf(p.w, "  %s\n", line)
	}
}

// Error prints a failure without aborting a loop.
func (p *Printer) Error(err error) {
	errorColor.Fprintln(p.w, i18n.Tf("chat.error", "Error: %s", err.Error()))
}

// Health prints a backend health report.
func (p *Printer) Health(baseURL string, h api.Health) {
	titleColor.Fprintf(p.w, "%s %s\n", baseURL, h.Status)
	if h.Model != "" {
		fmt.Fprintf(p.w, "  model: %s\n", h.Model)
	}
	if h.Store != "" {
		fmt.Fprintf(p.w, "  store: %s\n", h.Store)
	}
}

// JSON writes v as indented JSON.
func (p *Printer) JSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// SourcesLine formats page references in order: "p. 4 · p. 2".
func SourcesLine(sources []api.Source) string {
	if len(sources) == 0 {
		return ""
	}
	prefix := i18n.T("chat.pagePrefix", "p.")
	parts := make([]string, 0, len(sources))
	for _, s := range sources {
		page := s.Page.String()
		if page == "" {
			page = "?"
		}
		parts = append(parts, prefix+" "+page)
	}
	return strings.Join(parts, " · ")
}
