// Package study holds the client-side session logic of a document study
// session: the upload pipeline, the chat loop, the study plan panel state
// and the coordinator that ties them together.
//
// The types here do no I/O of their own. Each state machine hands out a
// request value describing the network call to make, and is told the outcome
// later. The TUI runs those calls as tea.Cmds; the line-mode commands run
// them inline through the Run/Ask helpers. None of the types are safe for
// concurrent use; callers serialize access the way an event loop does.
package study

import (
	"context"

	"github.com/rootmind/go-rootmind/internal/api"
)

// Client is the backend surface a study session needs.
// *api.Client implements it.
type Client interface {
	UploadDocument(ctx context.Context, path string) (api.UploadResult, error)
	GenerateStudyMetadata(ctx context.Context, documentID string) (api.StudyMetadata, error)
	AskQuestion(ctx context.Context, documentID, question string) (api.Answer, error)
}

var _ Client = (*api.Client)(nil)

// Ready is the composite event emitted once a document has been ingested and
// its study metadata derived.
type Ready struct {
	ChunksAdded int
	DocumentID  string
	Title       string
	StudyPlan   []api.StudyItem
}

// Snapshot is an immutable view of the document session handed to the
// components that depend on it.
type Snapshot struct {
	Ready      bool
	DocumentID string
	Title      string
	StudyPlan  []api.StudyItem
	LastInfo   string
}

func cloneItems(items []api.StudyItem) []api.StudyItem {
	if items == nil {
		return nil
	}
	out := make([]api.StudyItem, len(items))
	copy(out, items)
	return out
}
