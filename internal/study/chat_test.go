package study

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rootmind/go-rootmind/internal/api"
)

func TestChatSubmitRejections(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		snap    Snapshot
		loading bool
		want    error
	}{
		{name: "empty", raw: "", snap: readySnap, want: ErrEmptyQuestion},
		{name: "whitespace", raw: " \t\n ", snap: readySnap, want: ErrEmptyQuestion},
		{name: "whitespace not ready", raw: "   ", snap: Snapshot{}, want: ErrEmptyQuestion},
		{name: "not ready", raw: "What is entropy?", snap: Snapshot{}, want: ErrNotReady},
		{name: "loading", raw: "second", snap: readySnap, loading: true, want: ErrBusy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChat()
			if tt.loading {
				if _, err := c.Submit("first", readySnap); err != nil {
					t.Fatalf("priming submit: %v", err)
				}
			}
			before := c.Len()

			_, err := c.Submit(tt.raw, tt.snap)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Submit error = %v, want %v", err, tt.want)
			}
			if c.Len() != before {
				t.Fatalf("transcript changed from %d to %d", before, c.Len())
			}
		})
	}
}

func TestChatNotReadyNeverGrowsTranscript(t *testing.T) {
	c := NewChat()
	for _, q := range []string{"a", "b", "  c  ", "", "d"} {
		_, _ = c.Submit(q, Snapshot{})
	}
	if c.Len() != 0 {
		t.Fatalf("transcript length = %d, want 0", c.Len())
	}
}

func TestChatSubmitAppendsUserMessageFirst(t *testing.T) {
	c := NewChat()
	req, err := c.Submit("  What is entropy?  ", readySnap)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if req.Question != "What is entropy?" || req.DocumentID != "doc-7" {
		t.Fatalf("request = %#v", req)
	}

	// Visible before the answer arrives.
	msgs := c.Transcript()
	if len(msgs) != 1 || msgs[0].Role != RoleUser || msgs[0].Content != "What is entropy?" {
		t.Fatalf("transcript = %#v", msgs)
	}
	if !c.Loading() || c.Pending() != "What is entropy?" {
		t.Fatalf("loading=%v pending=%q", c.Loading(), c.Pending())
	}
	if c.Interactable(readySnap) {
		t.Fatal("chat interactable while loading")
	}

	ok := c.Resolve(req.Seq, api.Answer{
		Text: "Entropy measures disorder.",
		Sources: []api.Source{
			{File: "thermo.pdf", Page: "4"},
			{File: "thermo.pdf", Page: "2"},
			{File: "thermo.pdf", Page: "4"},
		},
	}, nil)
	if !ok {
		t.Fatal("Resolve rejected the outstanding request")
	}

	msgs = c.Transcript()
	if len(msgs) != 2 {
		t.Fatalf("transcript length = %d, want 2", len(msgs))
	}
	if msgs[0].Role != RoleUser || msgs[1].Role != RoleAssistant {
		t.Fatalf("roles = %s, %s", msgs[0].Role, msgs[1].Role)
	}
	var pages []string
	for _, s := range msgs[1].Sources {
		pages = append(pages, s.Page.String())
	}
	if len(pages) != 3 || pages[0] != "4" || pages[1] != "2" || pages[2] != "4" {
		t.Fatalf("sources reordered or deduplicated: %v", pages)
	}
	if c.Loading() {
		t.Fatal("loading not cleared after success")
	}
}

func TestChatEmptyAnswerUsesFallback(t *testing.T) {
	c := NewChat()
	req, _ := c.Submit("What is entropy?", readySnap)
	c.Resolve(req.Seq, api.Answer{Text: "", Sources: []api.Source{}}, nil)

	msgs := c.Transcript()
	if len(msgs) != 2 {
		t.Fatalf("transcript length = %d", len(msgs))
	}
	if msgs[1].Content != DefaultFallbackAnswer {
		t.Fatalf("content = %q, want %q", msgs[1].Content, DefaultFallbackAnswer)
	}
	if len(msgs[1].Sources) != 0 {
		t.Fatalf("sources = %#v, want none", msgs[1].Sources)
	}
}

func TestChatWhitespaceAnswerIsKept(t *testing.T) {
	c := NewChat()
	req, _ := c.Submit("What is entropy?", readySnap)
	c.Resolve(req.Seq, api.Answer{Text: "  "}, nil)
	if got := c.Transcript()[1].Content; got != "  " {
		t.Fatalf("content = %q, want the answer unchanged", got)
	}
}

func TestMessageJSONNames(t *testing.T) {
	data, err := json.Marshal(Message{Role: RoleAssistant, Content: "hi", Sources: []api.Source{{File: "a.pdf", Page: "2"}}})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"role":"assistant","content":"hi","sources":[{"file":"a.pdf","page":2}]}`
	if string(data) != want {
		t.Fatalf("json = %s, want %s", data, want)
	}

	data, err = json.Marshal(Message{Role: RoleUser, Content: "q"})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"role":"user","content":"q"}` {
		t.Fatalf("json = %s", data)
	}
}

func TestChatFallbackOption(t *testing.T) {
	c := NewChat(WithFallbackAnswer("Sin respuesta"))
	req, _ := c.Submit("hola", readySnap)
	c.Resolve(req.Seq, api.Answer{}, nil)
	if got := c.Transcript()[1].Content; got != "Sin respuesta" {
		t.Fatalf("content = %q", got)
	}
}

func TestChatFailureKeepsQuestion(t *testing.T) {
	c := NewChat()
	req, _ := c.Submit("What is entropy?", readySnap)
	c.Resolve(req.Seq, api.Answer{}, errBoom)

	if c.Len() != 1 {
		t.Fatalf("transcript length = %d, want 1", c.Len())
	}
	if c.Loading() {
		t.Fatal("loading not cleared after failure")
	}
	var af *AskFailure
	if !errors.As(c.Err(), &af) || af.Question != "What is entropy?" {
		t.Fatalf("Err = %#v", c.Err())
	}
	if c.Err().Error() != "boom" {
		t.Fatalf("message = %q", c.Err().Error())
	}

	// Recovers: the next question clears the error.
	if _, err := c.Submit("again", readySnap); err != nil {
		t.Fatalf("retry rejected: %v", err)
	}
	if c.Err() != nil {
		t.Fatal("error not cleared by new submission")
	}
}

func TestChatResolveIgnoresStaleSequence(t *testing.T) {
	c := NewChat()
	req, _ := c.Submit("one", readySnap)
	if c.Resolve(req.Seq+1, api.Answer{Text: "x"}, nil) {
		t.Fatal("resolved with wrong sequence")
	}
	if !c.Resolve(req.Seq, api.Answer{Text: "x"}, nil) {
		t.Fatal("did not resolve current sequence")
	}
	if c.Resolve(req.Seq, api.Answer{Text: "again"}, nil) {
		t.Fatal("resolved twice")
	}
	if c.Len() != 2 {
		t.Fatalf("transcript length = %d, want 2", c.Len())
	}
}

func TestChatAskInline(t *testing.T) {
	client := &fakeClient{answer: api.Answer{Text: "Because."}}
	c := NewChat()

	msg, err := c.Ask(context.Background(), client, "Why?", readySnap)
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if msg.Content != "Because." || msg.Role != RoleAssistant {
		t.Fatalf("msg = %#v", msg)
	}
	if len(client.askCalls) != 1 || client.askCalls[0] != "doc-7|Why?" {
		t.Fatalf("ask calls = %v", client.askCalls)
	}

	if _, err := c.Ask(context.Background(), client, "  ", readySnap); !errors.Is(err, ErrEmptyQuestion) {
		t.Fatalf("blank Ask error = %v", err)
	}
	if len(client.askCalls) != 1 {
		t.Fatal("blank question reached the backend")
	}

	client.askErr = errBoom
	if _, err := c.Ask(context.Background(), client, "Again?", readySnap); err == nil || err.Error() != "boom" {
		t.Fatalf("failed Ask error = %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("transcript length = %d, want 3", c.Len())
	}
}
