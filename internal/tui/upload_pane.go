package tui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"charm.land/bubbles/v2/filepicker"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/rootmind/go-rootmind/internal/i18n"
	"github.com/rootmind/go-rootmind/internal/study"
	"github.com/rootmind/go-rootmind/internal/tuilog"
)

// uploadPane lets the user pick a PDF and runs the upload pipeline for it.
type uploadPane struct {
	ctx      context.Context
	run      context.Context    // context of the attempt in flight
	cancel   context.CancelFunc // cancels run
	client   study.Client
	uploader *study.Uploader
	picker   filepicker.Model
	spinner  spinner.Model
	styles   *Styles

	info    string // diagnostics of the last successful upload
	width   int
	height  int
	focused bool
}

func newUploadPane(ctx context.Context, client study.Client, startDir string, styles *Styles) uploadPane {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".pdf"}
	fp.AutoHeight = false
	if startDir != "" {
		fp.CurrentDirectory = startDir
	}

	return uploadPane{
		ctx:      ctx,
		client:   client,
		uploader: study.NewUploader(),
		picker:   fp,
		spinner:  spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(styles.Accent)),
		styles:   styles,
	}
}

func (p uploadPane) Init() tea.Cmd {
	return p.picker.Init()
}

func (p *uploadPane) setSize(width, height int) tea.Cmd {
	p.width, p.height = width, height
	// Title, file name, status line, blank line and the border.
	p.picker.SetHeight(max(3, height-7))
	return nil
}

// start begins a new attempt for path, cancelling the one in flight.
func (p *uploadPane) start(path string) tea.Cmd {
	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithCancel(p.ctx)
	p.run, p.cancel = ctx, cancel

	req := p.uploader.Select(path)
	tuilog.Log.Info("upload started", "attempt", req.Attempt, "path", path)

	client := p.client
	ingest := func() tea.Msg {
		defer tuilog.Log.Timed("ingest")()
		res, err := client.UploadDocument(ctx, req.Path)
		return ingestDoneMsg{attempt: req.Attempt, result: res, err: err}
	}
	return tea.Batch(ingest, p.spinner.Tick)
}

func (p uploadPane) Update(msg tea.Msg) (uploadPane, tea.Cmd) {
	switch msg := msg.(type) {
	case ingestDoneMsg:
		mreq, ok := p.uploader.IngestDone(msg.attempt, msg.result, msg.err)
		if !ok {
			p.logOutcome(msg.attempt)
			return p, nil
		}
		tuilog.Log.Info("document ingested", "attempt", msg.attempt, "chunks", msg.result.ChunksAdded, "document", mreq.DocumentID)

		ctx, client := p.run, p.client
		return p, func() tea.Msg {
			defer tuilog.Log.Timed("metadata")()
			meta, err := client.GenerateStudyMetadata(ctx, mreq.DocumentID)
			return metadataDoneMsg{attempt: mreq.Attempt, meta: meta, err: err}
		}

	case metadataDoneMsg:
		ready, ok := p.uploader.MetadataDone(msg.attempt, msg.meta, msg.err)
		if !ok {
			p.logOutcome(msg.attempt)
			return p, nil
		}
		p.finishAttempt()
		return p, func() tea.Msg { return DocumentReadyMsg{Ready: ready} }

	case spinner.TickMsg:
		if p.uploader.Status() != study.UploadUploading {
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd

	case tea.KeyPressMsg:
		if !p.focused {
			return p, nil
		}
	}

	var cmd tea.Cmd
	p.picker, cmd = p.picker.Update(msg)
	if ok, path := p.picker.DidSelectFile(msg); ok {
		return p, tea.Batch(cmd, p.start(path))
	}
	return p, cmd
}

func (p *uploadPane) finishAttempt() {
	if p.cancel != nil {
		p.cancel()
	}
	p.run, p.cancel = nil, nil
}

func (p *uploadPane) logOutcome(attempt int) {
	if attempt != p.uploader.Attempt() {
		tuilog.Log.Debug("stale upload outcome ignored", "attempt", attempt, "current", p.uploader.Attempt())
		return
	}
	if err := p.uploader.Err(); err != nil {
		var step string
		var uf *study.UploadFailure
		if errors.As(err, &uf) {
			step = uf.Step
		}
		tuilog.Log.Warn("upload failed", "attempt", attempt, "step", step, "error", err)
		p.finishAttempt()
	}
}

func (p uploadPane) statusLine() string {
	switch p.uploader.Status() {
	case study.UploadUploading:
		label := i18n.T("upload.processing", "Processing…")
		if p.uploader.Phase() == study.PhaseMetadata {
			label = i18n.T("upload.generatingPlan", "Generating study plan…")
		}
		return p.spinner.View() + " " + p.styles.Info.Render(label)
	case study.UploadError:
		return p.styles.Error.Render(p.uploader.Err().Error())
	case study.UploadDone:
		return p.styles.Info.Render(p.info)
	}
	return p.styles.Muted.Render(i18n.T("upload.hint", "Pick a PDF and press enter."))
}

func (p uploadPane) View() string {
	inner := max(1, p.width-4)
	title := p.styles.PaneTitle.Render(i18n.T("upload.title", "Upload PDF"))

	var lines []string
	lines = append(lines, title)
	if path := p.uploader.Path(); path != "" {
		lines = append(lines, p.styles.Secondary.Render(ansi.Truncate(filepath.Base(path), inner, "…")))
	}
	lines = append(lines, p.statusLine(), "")
	if p.uploader.Status() != study.UploadUploading {
		lines = append(lines, p.picker.View())
	}

	border := p.styles.InactiveBorder
	if p.focused {
		border = p.styles.ActiveBorder
	}
	return boxed(border, p.width, p.height, strings.Join(lines, "\n"))
}
