// Package api is the HTTP client for the rootmind study backend.
//
// The backend ingests a PDF, derives a study plan for it and answers questions
// scoped to it. This package only speaks the wire protocol; it keeps no state
// between calls and never retries.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// UploadResult is the response of the upload operation.
type UploadResult struct {
	ChunksAdded int    `json:"chunks_added"`
	PersistDir  string `json:"persist_dir"`
}

// DocumentID returns the handle later calls use to address this document.
func (r UploadResult) DocumentID() string {
	return r.PersistDir
}

// StudyItem is one step of a study plan.
type StudyItem struct {
	Section   string `json:"section"`
	Objective string `json:"objective"`
}

// StudyMetadata is the derived title and study plan of a document.
type StudyMetadata struct {
	Title     string      `json:"title"`
	StudyPlan []StudyItem `json:"study_plan"`
}

// AskRequest is the body of the ask operation.
type AskRequest struct {
	Question   string `json:"question"`
	DocumentID string `json:"document_id,omitempty"`
}

// Answer is the response of the ask operation. Text may be empty.
type Answer struct {
	Text    string   `json:"answer"`
	Sources []Source `json:"sources,omitempty"`
}

// Source is a citation attached to an answer.
type Source struct {
	File string `json:"file"`
	Page Page   `json:"page"`
}

// Page is a page reference. The backend sends either a number or a string,
// so the raw form is kept as text.
type Page string

// UnmarshalJSON accepts a JSON number, string or null.
func (p *Page) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Page(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("page: expected number or string, got %s", data)
	}
	*p = Page(n.String())
	return nil
}

// MarshalJSON writes pages in canonical integer form as numbers and
// everything else, such as "007" or "+3", as strings.
func (p Page) MarshalJSON() ([]byte, error) {
	if n, err := strconv.Atoi(string(p)); err == nil && strconv.Itoa(n) == string(p) {
		return []byte(p), nil
	}
	return json.Marshal(string(p))
}

func (p Page) String() string {
	return string(p)
}

// Health is the backend health report.
type Health struct {
	Status string `json:"status"`
	Model  string `json:"model,omitempty"`
	Store  string `json:"store,omitempty"`
}

// errorBody is the FastAPI-style error envelope.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}
