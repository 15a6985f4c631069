package study

import (
	"context"
	"errors"

	"github.com/rootmind/go-rootmind/internal/api"
)

// fakeClient records calls and returns canned results.
type fakeClient struct {
	upload    api.UploadResult
	uploadErr error
	meta      api.StudyMetadata
	metaErr   error
	answer    api.Answer
	askErr    error

	uploadCalls []string
	metaCalls   []string
	askCalls    []string
}

func (f *fakeClient) UploadDocument(_ context.Context, path string) (api.UploadResult, error) {
	f.uploadCalls = append(f.uploadCalls, path)
	return f.upload, f.uploadErr
}

func (f *fakeClient) GenerateStudyMetadata(_ context.Context, documentID string) (api.StudyMetadata, error) {
	f.metaCalls = append(f.metaCalls, documentID)
	return f.meta, f.metaErr
}

func (f *fakeClient) AskQuestion(_ context.Context, documentID, question string) (api.Answer, error) {
	f.askCalls = append(f.askCalls, documentID+"|"+question)
	return f.answer, f.askErr
}

var errBoom = errors.New("boom")

func thermoClient() *fakeClient {
	return &fakeClient{
		upload: api.UploadResult{ChunksAdded: 12, PersistDir: "doc-7"},
		meta: api.StudyMetadata{
			Title:     "Thermodynamics",
			StudyPlan: []api.StudyItem{{Section: "Ch.1", Objective: "Define entropy"}},
		},
	}
}

var readySnap = Snapshot{Ready: true, DocumentID: "doc-7", Title: "Thermodynamics"}
