package study

import (
	"context"
	"strings"

	"github.com/rootmind/go-rootmind/internal/api"
)

// DefaultFallbackAnswer replaces an empty answer in the transcript.
const DefaultFallbackAnswer = "No answer"

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the transcript.
type Message struct {
	Role    Role         `json:"role"`
	Content string       `json:"content"`
	Sources []api.Source `json:"sources,omitempty"`
}

// AskRequest asks the caller to send Question about DocumentID.
type AskRequest struct {
	Seq        int
	DocumentID string
	Question   string
}

// Chat owns the transcript and the single in-flight question.
//
// The user message is appended when a question is submitted, before any
// network call, so it always precedes its answer. At most one question is
// outstanding; the loading flag is cleared by Resolve on both success and
// failure.
type Chat struct {
	transcript []Message
	pending    string
	loading    bool
	err        error
	seq        int
	fallback   string
}

// ChatOption configures a Chat.
type ChatOption func(*Chat)

// WithFallbackAnswer sets the text used when the backend returns no answer.
func WithFallbackAnswer(text string) ChatOption {
	return func(c *Chat) {
		if text != "" {
			c.fallback = text
		}
	}
}

// NewChat returns an empty Chat.
func NewChat(opts ...ChatOption) *Chat {
	c := &Chat{fallback: DefaultFallbackAnswer}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Transcript returns a copy of the messages in append order.
func (c *Chat) Transcript() []Message {
	out := make([]Message, len(c.transcript))
	copy(out, c.transcript)
	return out
}

// Len returns the number of messages in the transcript.
func (c *Chat) Len() int { return len(c.transcript) }

// Loading reports whether a question is outstanding.
func (c *Chat) Loading() bool { return c.loading }

// Pending returns the outstanding question, or "".
func (c *Chat) Pending() string { return c.pending }

// Err returns the failure of the last question, if it failed.
func (c *Chat) Err() error { return c.err }

// Interactable reports whether input may be submitted under snap.
func (c *Chat) Interactable(snap Snapshot) bool {
	return snap.Ready && !c.loading
}

// Submit validates raw and, if accepted, appends the user message and returns
// the request to send. A rejected submission leaves the Chat untouched and
// reports why: ErrEmptyQuestion, ErrBusy or ErrNotReady.
func (c *Chat) Submit(raw string, snap Snapshot) (AskRequest, error) {
	q := strings.TrimSpace(raw)
	switch {
	case q == "":
		return AskRequest{}, ErrEmptyQuestion
	case c.loading:
		return AskRequest{}, ErrBusy
	case !snap.Ready:
		return AskRequest{}, ErrNotReady
	}

	c.transcript = append(c.transcript, Message{Role: RoleUser, Content: q})
	c.seq++
	c.pending = q
	c.loading = true
	c.err = nil
	return AskRequest{Seq: c.seq, DocumentID: snap.DocumentID, Question: q}, nil
}

// Resolve reports the outcome of the request with the given sequence number.
// It returns false and does nothing if that request is not the outstanding
// one.
func (c *Chat) Resolve(seq int, ans api.Answer, err error) bool {
	if !c.loading || seq != c.seq {
		return false
	}
	question := c.pending
	c.loading = false
	c.pending = ""

	if err != nil {
		c.err = &AskFailure{Question: question, Err: err}
		return true
	}

	// Only an empty or absent answer falls back; whitespace is kept as sent.
	text := ans.Text
	if text == "" {
		text = c.fallback
	}
	var sources []api.Source
	if len(ans.Sources) > 0 {
		sources = make([]api.Source, len(ans.Sources))
		copy(sources, ans.Sources)
	}
	c.transcript = append(c.transcript, Message{Role: RoleAssistant, Content: text, Sources: sources})
	return true
}

// Ask submits raw and waits for the answer inline. It returns the assistant
// message on success. Rejections are returned unchanged; a failed request is
// returned as *AskFailure.
func (c *Chat) Ask(ctx context.Context, client Client, raw string, snap Snapshot) (Message, error) {
	req, err := c.Submit(raw, snap)
	if err != nil {
		return Message{}, err
	}
	ans, err := client.AskQuestion(ctx, req.DocumentID, req.Question)
	c.Resolve(req.Seq, ans, err)
	if c.err != nil {
		return Message{}, c.err
	}
	return c.transcript[len(c.transcript)-1], nil
}
