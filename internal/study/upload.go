package study

import (
	"context"
	"fmt"

	"github.com/rootmind/go-rootmind/internal/api"
)

// UploadStatus is the state of the current upload attempt.
type UploadStatus int

const (
	UploadIdle UploadStatus = iota
	UploadUploading
	UploadDone
	UploadError
)

func (s UploadStatus) String() string {
	switch s {
	case UploadIdle:
		return "idle"
	case UploadUploading:
		return "uploading"
	case UploadDone:
		return "done"
	case UploadError:
		return "error"
	}
	return fmt.Sprintf("UploadStatus(%d)", int(s))
}

// UploadPhase refines UploadUploading into its two network steps.
type UploadPhase int

const (
	PhaseNone UploadPhase = iota
	PhaseIngest
	PhaseMetadata
)

func (p UploadPhase) String() string {
	switch p {
	case PhaseIngest:
		return StepIngest
	case PhaseMetadata:
		return StepMetadata
	}
	return "none"
}

// IngestRequest asks the caller to upload the file at Path.
type IngestRequest struct {
	Attempt int
	Path    string
}

// MetadataRequest asks the caller to generate study metadata for DocumentID.
type MetadataRequest struct {
	Attempt    int
	DocumentID string
}

// Uploader sequences ingest then metadata generation for one file at a time.
//
// Every Select starts a new attempt and supersedes the previous one; outcomes
// reported for an older attempt are ignored. A successful attempt yields
// exactly one Ready and no error; a failed one yields an error and no Ready.
type Uploader struct {
	status  UploadStatus
	phase   UploadPhase
	attempt int
	path    string
	upload  api.UploadResult
	err     error
}

// NewUploader returns an idle Uploader.
func NewUploader() *Uploader {
	return &Uploader{}
}

// Status returns the state of the current attempt.
func (u *Uploader) Status() UploadStatus { return u.status }

// Phase returns the step in flight while uploading.
func (u *Uploader) Phase() UploadPhase { return u.phase }

// Attempt returns the number of the current attempt, 0 before any.
func (u *Uploader) Attempt() int { return u.attempt }

// Path returns the file of the current attempt.
func (u *Uploader) Path() string { return u.path }

// Err returns the failure of the current attempt, if it failed.
func (u *Uploader) Err() error { return u.err }

// ChunksAdded returns the chunk count of the last successful ingest of the
// current attempt.
func (u *Uploader) ChunksAdded() int { return u.upload.ChunksAdded }

// Select starts a new attempt for path. Any attempt still in flight is
// superseded.
func (u *Uploader) Select(path string) IngestRequest {
	u.attempt++
	u.status = UploadUploading
	u.phase = PhaseIngest
	u.path = path
	u.upload = api.UploadResult{}
	u.err = nil
	return IngestRequest{Attempt: u.attempt, Path: path}
}

func (u *Uploader) current(attempt int, phase UploadPhase) bool {
	return attempt == u.attempt && u.status == UploadUploading && u.phase == phase
}

// IngestDone reports the outcome of an IngestRequest. It returns the follow-up
// metadata request and true when the caller should proceed. On failure the
// attempt moves to UploadError and no metadata request is issued.
func (u *Uploader) IngestDone(attempt int, res api.UploadResult, err error) (MetadataRequest, bool) {
	if !u.current(attempt, PhaseIngest) {
		return MetadataRequest{}, false
	}
	if err != nil {
		u.fail(StepIngest, err)
		return MetadataRequest{}, false
	}
	u.upload = res
	u.phase = PhaseMetadata
	return MetadataRequest{Attempt: attempt, DocumentID: res.DocumentID()}, true
}

// MetadataDone reports the outcome of a MetadataRequest. It returns the
// composite Ready event and true on success. A metadata failure fails the
// whole attempt even though the document was ingested.
func (u *Uploader) MetadataDone(attempt int, meta api.StudyMetadata, err error) (Ready, bool) {
	if !u.current(attempt, PhaseMetadata) {
		return Ready{}, false
	}
	if err != nil {
		u.fail(StepMetadata, err)
		return Ready{}, false
	}
	u.status = UploadDone
	u.phase = PhaseNone
	return Ready{
		ChunksAdded: u.upload.ChunksAdded,
		DocumentID:  u.upload.DocumentID(),
		Title:       meta.Title,
		StudyPlan:   cloneItems(meta.StudyPlan),
	}, true
}

func (u *Uploader) fail(step string, err error) {
	u.status = UploadError
	u.phase = PhaseNone
	u.err = &UploadFailure{Step: step, Err: err}
}

// Run performs a whole attempt inline. progress, if non-nil, is called as each
// phase starts.
func (u *Uploader) Run(ctx context.Context, c Client, path string, progress func(UploadPhase)) (Ready, error) {
	req := u.Select(path)
	if progress != nil {
		progress(PhaseIngest)
	}
	res, err := c.UploadDocument(ctx, req.Path)
	mreq, ok := u.IngestDone(req.Attempt, res, err)
	if !ok {
		return Ready{}, u.err
	}

	if progress != nil {
		progress(PhaseMetadata)
	}
	meta, err := c.GenerateStudyMetadata(ctx, mreq.DocumentID)
	ready, ok := u.MetadataDone(mreq.Attempt, meta, err)
	if !ok {
		return Ready{}, u.err
	}
	return ready, nil
}
