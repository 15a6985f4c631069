package study

import "errors"

// Upload steps, recorded on UploadFailure for logs. The user-facing message
// does not distinguish them.
const (
	StepIngest   = "ingest"
	StepMetadata = "metadata"
)

// Reasons a chat submission is rejected. A rejected submission changes
// nothing.
var (
	ErrEmptyQuestion = errors.New("question is empty")
	ErrBusy          = errors.New("a question is already being answered")
	ErrNotReady      = errors.New("no document is ready yet")
)

// UploadFailure is the failure of either upload step.
type UploadFailure struct {
	Step string
	Err  error
}

func (e *UploadFailure) Error() string {
	return e.Err.Error()
}

func (e *UploadFailure) Unwrap() error {
	return e.Err
}

// AskFailure is a question that did not get an answer.
type AskFailure struct {
	Question string
	Err      error
}

func (e *AskFailure) Error() string {
	return e.Err.Error()
}

func (e *AskFailure) Unwrap() error {
	return e.Err
}
