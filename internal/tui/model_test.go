package tui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/rootmind/go-rootmind/internal/api"
	"github.com/rootmind/go-rootmind/internal/cli"
	"github.com/rootmind/go-rootmind/internal/study"
	"github.com/rootmind/go-rootmind/internal/tui/theme"
)

// fakeClient serves canned responses. Documents are named after the file, so
// "/tmp/thermo.pdf" becomes "doc-thermo" titled "Thermo".
type fakeClient struct {
	mu        sync.Mutex
	uploadErr error
	metaErr   error
	answer    api.Answer
	askErr    error
	plan      []api.StudyItem

	uploads []string
	metas   []string
	asks    []string
}

func (f *fakeClient) UploadDocument(ctx context.Context, path string) (api.UploadResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return api.UploadResult{}, err
	}
	f.uploads = append(f.uploads, path)
	if f.uploadErr != nil {
		return api.UploadResult{}, f.uploadErr
	}
	return api.UploadResult{ChunksAdded: 12, PersistDir: "doc-" + stem(path)}, nil
}

func (f *fakeClient) GenerateStudyMetadata(ctx context.Context, documentID string) (api.StudyMetadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return api.StudyMetadata{}, err
	}
	f.metas = append(f.metas, documentID)
	if f.metaErr != nil {
		return api.StudyMetadata{}, f.metaErr
	}
	name := strings.TrimPrefix(documentID, "doc-")
	return api.StudyMetadata{Title: strings.ToUpper(name[:1]) + name[1:], StudyPlan: f.plan}, nil
}

func (f *fakeClient) AskQuestion(ctx context.Context, documentID, question string) (api.Answer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.asks = append(f.asks, documentID+"|"+question)
	return f.answer, f.askErr
}

func (f *fakeClient) counts() (int, int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads), len(f.metas), len(f.asks)
}

func stem(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

var errBoom = errors.New("boom")

func thermoPlan() []api.StudyItem {
	return []api.StudyItem{
		{Section: "Ch.1", Objective: "Define entropy"},
		{Section: "Ch.2", Objective: "Apply the second law"},
	}
}

func newTestModel(t *testing.T, client *fakeClient) Model {
	t.Helper()
	m := NewModel(context.Background(), Options{Client: client, Theme: theme.DefaultTheme(), StartDir: t.TempDir()})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model)
}

// collect runs cmd and returns the messages the model itself produces.
// Timers such as spinner ticks and cursor blinks are cut off.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-ch:
	case <-time.After(50 * time.Millisecond):
		return nil
	}

	switch msg := msg.(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, sub := range msg {
			out = append(out, collect(sub)...)
		}
		return out
	case SelectFileMsg, ingestDoneMsg, metadataDoneMsg, DocumentReadyMsg, answerMsg:
		return []tea.Msg{msg}
	}
	return nil
}

// drive delivers msg and every message it causes, in order.
func drive(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	queue := []tea.Msg{msg}
	for i := 0; len(queue) > 0; i++ {
		if i > 50 {
			t.Fatal("message loop did not settle")
		}
		next, cmd := m.Update(queue[0])
		m = next.(Model)
		queue = append(queue[1:], collect(cmd)...)
	}
	return m
}

func press(t *testing.T, m Model, keys ...tea.KeyPressMsg) Model {
	t.Helper()
	for _, k := range keys {
		m = drive(t, m, k)
	}
	return m
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m = press(t, m, tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	return m
}

var (
	enterKey = tea.KeyPressMsg{Code: tea.KeyEnter}
	tabKey   = tea.KeyPressMsg{Code: tea.KeyTab}
	ctrlP    = tea.KeyPressMsg{Code: 'p', Mod: tea.ModCtrl}
)

func uploaded(t *testing.T, client *fakeClient, path string) Model {
	t.Helper()
	m := newTestModel(t, client)
	return drive(t, m, SelectFileMsg{Path: path})
}

func TestUploadSuccess(t *testing.T) {
	client := &fakeClient{plan: thermoPlan()}
	m := uploaded(t, client, "/tmp/thermodynamics.pdf")

	snap := m.Snapshot()
	if !snap.Ready {
		t.Fatal("expected session to be ready")
	}
	if snap.Title != "Thermodynamics" || snap.DocumentID != "doc-thermodynamics" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if len(snap.StudyPlan) != 2 {
		t.Fatalf("expected 2 plan items, got %d", len(snap.StudyPlan))
	}
	if m.upload.uploader.Status() != study.UploadDone {
		t.Fatalf("expected done, got %v", m.upload.uploader.Status())
	}
	if m.focus != paneChat {
		t.Fatalf("expected chat to take focus, got %v", m.focus)
	}
	if !strings.Contains(m.upload.View(), "Chunks indexed: 12") {
		t.Fatalf("expected chunk count in upload pane, got:\n%s", m.upload.View())
	}
	if !strings.Contains(m.headerView(), "Thermodynamics") {
		t.Fatalf("expected title in header, got %q", m.headerView())
	}
}

func TestUploadIngestFailure(t *testing.T) {
	client := &fakeClient{uploadErr: errBoom}
	m := uploaded(t, client, "/tmp/a.pdf")

	if m.Snapshot().Ready {
		t.Fatal("failed upload must not make the session ready")
	}
	if m.upload.uploader.Status() != study.UploadError {
		t.Fatalf("expected error status, got %v", m.upload.uploader.Status())
	}
	if _, metas, _ := client.counts(); metas != 0 {
		t.Fatalf("metadata must not be requested after a failed ingest, got %d calls", metas)
	}
	if !strings.Contains(m.upload.View(), "boom") {
		t.Fatalf("expected error in upload pane, got:\n%s", m.upload.View())
	}
}

func TestUploadMetadataFailure(t *testing.T) {
	client := &fakeClient{metaErr: errBoom}
	m := uploaded(t, client, "/tmp/a.pdf")

	if m.Snapshot().Ready {
		t.Fatal("metadata failure must not make the session ready")
	}
	if m.upload.uploader.Status() != study.UploadError {
		t.Fatalf("expected error status, got %v", m.upload.uploader.Status())
	}
	if m.plan.visible() {
		t.Fatal("plan must stay hidden")
	}
}

func TestAskBeforeReadyIsNoop(t *testing.T) {
	client := &fakeClient{}
	m := newTestModel(t, client)
	m.setFocus(paneChat)
	m = typeText(t, m, "hello")
	m = press(t, m, enterKey)

	if got := len(m.chat.chat.Transcript()); got != 0 {
		t.Fatalf("expected empty transcript, got %d messages", got)
	}
	if _, _, asks := client.counts(); asks != 0 {
		t.Fatalf("expected no ask calls, got %d", asks)
	}
	if !strings.Contains(m.chat.View(), "Upload a PDF to enable chat.") {
		t.Fatalf("expected not-ready hint, got:\n%s", m.chat.View())
	}
}

func TestAskRoundTrip(t *testing.T) {
	client := &fakeClient{
		plan: thermoPlan(),
		answer: api.Answer{
			Text:    "Entropy measures disorder.",
			Sources: []api.Source{{File: "t.pdf", Page: "4"}, {File: "t.pdf", Page: "2"}},
		},
	}
	m := uploaded(t, client, "/tmp/thermo.pdf")
	m = typeText(t, m, "  what is entropy?  ")
	m = press(t, m, enterKey)

	tr := m.chat.chat.Transcript()
	if len(tr) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(tr))
	}
	if tr[0].Role != study.RoleUser || tr[0].Content != "what is entropy?" {
		t.Fatalf("unexpected user message: %+v", tr[0])
	}
	if tr[1].Role != study.RoleAssistant || tr[1].Content != "Entropy measures disorder." {
		t.Fatalf("unexpected assistant message: %+v", tr[1])
	}
	if client.asks[0] != "doc-thermo|what is entropy?" {
		t.Fatalf("unexpected ask call %q", client.asks[0])
	}
	if m.chat.chat.Loading() {
		t.Fatal("loading must be cleared")
	}
	if m.chat.input.Value() != "" {
		t.Fatalf("input must be cleared, got %q", m.chat.input.Value())
	}
	if got := cli.SourcesLine(tr[1].Sources); got != "p. 4 · p. 2" {
		t.Fatalf("unexpected sources line %q", got)
	}
}

func TestAskWhitespaceIsNoop(t *testing.T) {
	client := &fakeClient{}
	m := uploaded(t, client, "/tmp/thermo.pdf")
	m = typeText(t, m, "   ")
	m = press(t, m, enterKey)

	if got := len(m.chat.chat.Transcript()); got != 0 {
		t.Fatalf("expected empty transcript, got %d", got)
	}
	if _, _, asks := client.counts(); asks != 0 {
		t.Fatalf("expected no ask calls, got %d", asks)
	}
}

func TestAskWhileLoadingIsNoop(t *testing.T) {
	client := &fakeClient{}
	m := uploaded(t, client, "/tmp/thermo.pdf")
	m = typeText(t, m, "first")

	// Submit without running the request so the question stays in flight.
	next, _ := m.Update(enterKey)
	m = next.(Model)
	if !m.chat.chat.Loading() {
		t.Fatal("expected loading after submit")
	}

	m.chat.input.SetValue("second")
	next, cmd := m.Update(enterKey)
	m = next.(Model)
	if cmd != nil {
		t.Fatal("second submit must not issue a request")
	}
	if got := len(m.chat.chat.Transcript()); got != 1 {
		t.Fatalf("expected only the first question, got %d messages", got)
	}
	if !strings.Contains(m.chat.View(), "Thinking…") {
		t.Fatalf("expected thinking indicator, got:\n%s", m.chat.View())
	}
}

func TestAskEmptyAnswerFallback(t *testing.T) {
	client := &fakeClient{answer: api.Answer{Text: ""}}
	m := uploaded(t, client, "/tmp/thermo.pdf")
	m = typeText(t, m, "anything?")
	m = press(t, m, enterKey)

	tr := m.chat.chat.Transcript()
	if len(tr) != 2 || tr[1].Content != "No answer" {
		t.Fatalf("expected fallback answer, got %+v", tr)
	}
}

func TestAskFailureKeepsQuestion(t *testing.T) {
	client := &fakeClient{askErr: errBoom}
	m := uploaded(t, client, "/tmp/thermo.pdf")
	m = typeText(t, m, "why?")
	m = press(t, m, enterKey)

	tr := m.chat.chat.Transcript()
	if len(tr) != 1 || tr[0].Content != "why?" {
		t.Fatalf("expected the question to stay, got %+v", tr)
	}
	if m.chat.chat.Loading() {
		t.Fatal("loading must be cleared after failure")
	}
	if !strings.Contains(m.chat.View(), "boom") {
		t.Fatalf("expected error in chat pane, got:\n%s", m.chat.View())
	}
}

func TestPlanHiddenWhenEmpty(t *testing.T) {
	client := &fakeClient{}
	m := uploaded(t, client, "/tmp/thermo.pdf")

	if m.plan.View() != "" {
		t.Fatalf("expected empty plan view, got %q", m.plan.View())
	}
	m.setFocus(paneUpload)
	if got := m.nextPane(1); got != paneChat {
		t.Fatalf("expected focus to skip hidden plan, got %v", got)
	}
}

func TestPlanToggle(t *testing.T) {
	client := &fakeClient{plan: thermoPlan()}
	m := uploaded(t, client, "/tmp/thermo.pdf")

	view := m.plan.View()
	for _, want := range []string{"Study Plan", "1. ", "Ch.1", "2. ", "Define entropy"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in plan view:\n%s", want, view)
		}
	}

	m = press(t, m, ctrlP)
	if m.plan.plan.Expanded() {
		t.Fatal("expected collapsed plan")
	}
	if strings.Contains(m.plan.View(), "Ch.1") {
		t.Fatal("collapsed plan must hide items")
	}
	m = press(t, m, ctrlP)
	if !m.plan.plan.Expanded() {
		t.Fatal("toggling twice must restore the plan")
	}
	if got := m.plan.View(); got != view {
		t.Fatalf("plan after two toggles differs from the original:\nbefore:\n%s\nafter:\n%s", view, got)
	}
}

func TestPlanToggleWithEnter(t *testing.T) {
	client := &fakeClient{plan: thermoPlan()}
	m := uploaded(t, client, "/tmp/thermo.pdf")
	m.setFocus(panePlan)
	m = press(t, m, enterKey)
	if m.plan.plan.Expanded() {
		t.Fatal("enter on focused plan must collapse it")
	}
}

func TestSupersededUploadIsIgnored(t *testing.T) {
	client := &fakeClient{plan: thermoPlan()}
	m := newTestModel(t, client)

	next, first := m.Update(SelectFileMsg{Path: "/tmp/old.pdf"})
	m = next.(Model)
	firstBatch, _ := first().(tea.BatchMsg)

	m = drive(t, m, SelectFileMsg{Path: "/tmp/new.pdf"})
	if m.Snapshot().Title != "New" {
		t.Fatalf("expected new document, got %+v", m.Snapshot())
	}

	// The first attempt's context was cancelled; its outcome is dropped.
	for _, cmd := range firstBatch {
		for _, msg := range collect(cmd) {
			m = drive(t, m, msg)
		}
	}
	if got := m.Snapshot().Title; got != "New" {
		t.Fatalf("stale upload overwrote the session: %q", got)
	}
	if m.upload.uploader.Status() != study.UploadDone {
		t.Fatalf("expected done, got %v", m.upload.uploader.Status())
	}
}

func TestLastUploadWinsAndHistoryPersists(t *testing.T) {
	client := &fakeClient{answer: api.Answer{Text: "yes"}}
	m := uploaded(t, client, "/tmp/first.pdf")
	m = typeText(t, m, "q1")
	m = press(t, m, enterKey)

	m = drive(t, m, SelectFileMsg{Path: "/tmp/second.pdf"})
	if got := m.Snapshot().DocumentID; got != "doc-second" {
		t.Fatalf("expected second document, got %q", got)
	}
	if got := len(m.chat.chat.Transcript()); got != 2 {
		t.Fatalf("history must persist across uploads, got %d messages", got)
	}

	m = typeText(t, m, "q2")
	m = press(t, m, enterKey)
	if last := client.asks[len(client.asks)-1]; last != "doc-second|q2" {
		t.Fatalf("expected question scoped to the new document, got %q", last)
	}
}

func TestTabCyclesFocus(t *testing.T) {
	client := &fakeClient{plan: thermoPlan()}
	m := uploaded(t, client, "/tmp/thermo.pdf")
	if m.focus != paneChat {
		t.Fatalf("expected chat focus, got %v", m.focus)
	}
	m = press(t, m, tabKey)
	if m.focus != paneUpload {
		t.Fatalf("expected upload focus, got %v", m.focus)
	}
	m = press(t, m, tabKey)
	if m.focus != panePlan {
		t.Fatalf("expected plan focus, got %v", m.focus)
	}
}

func TestViewBeforeSize(t *testing.T) {
	m := NewModel(context.Background(), Options{Client: &fakeClient{}, Theme: theme.DefaultTheme()})
	if got := m.View().Content; !strings.Contains(got, "Loading") {
		t.Fatalf("expected loading view, got %q", got)
	}
}
