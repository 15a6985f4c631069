package tui

import (
	"github.com/rootmind/go-rootmind/internal/api"
	"github.com/rootmind/go-rootmind/internal/study"
)

// SelectFileMsg starts uploading Path, as if it had been picked in the
// file picker.
type SelectFileMsg struct {
	Path string
}

// DocumentReadyMsg is emitted once per successful upload attempt, after both
// ingest and metadata generation succeeded.
type DocumentReadyMsg struct {
	Ready study.Ready
}

// ingestDoneMsg reports the outcome of the upload request.
type ingestDoneMsg struct {
	attempt int
	result  api.UploadResult
	err     error
}

// metadataDoneMsg reports the outcome of the metadata request.
type metadataDoneMsg struct {
	attempt int
	meta    api.StudyMetadata
	err     error
}

// answerMsg reports the outcome of an ask request.
type answerMsg struct {
	seq    int
	answer api.Answer
	err    error
}
