package devserver

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/rootmind/go-rootmind/internal/api"
	"github.com/rootmind/go-rootmind/internal/tuilog"
)

// maxUploadBytes bounds a single upload.
const maxUploadBytes = 64 << 20

// Error details, matching the backend's wording in English.
const (
	detailNotPDF      = "Only PDF files are accepted."
	detailNoDocuments = "No documents indexed yet. Upload a PDF first."
	detailNoMetadata  = "Study context has not been generated yet. Upload a PDF first."
	detailUnknownDoc  = "Unknown document."
	detailTooLarge    = "File too large."
)

var acceptedTypes = map[string]bool{
	"application/pdf":          true,
	"application/octet-stream": true,
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDetail writes a FastAPI-style {"detail": "..."} error.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

type validationIssue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// writeValidation writes a 422 with a list-form detail.
func writeValidation(w http.ResponseWriter, issues ...validationIssue) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": issues})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	store := s.latest
	s.mu.Unlock()
	if store == "" {
		store = "memory"
	}
	writeJSON(w, http.StatusOK, api.Health{Status: "ok", Model: s.config.Model, Store: store})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeDetail(w, http.StatusRequestEntityTooLarge, detailTooLarge)
			return
		}
		writeValidation(w, validationIssue{Loc: []string{"body", "file"}, Msg: "Field required", Type: "missing"})
		return
	}
	defer file.Close()

	if !acceptedUpload(header.Header.Get("Content-Type")) {
		writeDetail(w, http.StatusBadRequest, detailNotPDF)
		return
	}

	size, err := io.Copy(io.Discard, file)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "Error processing the PDF: "+err.Error())
		return
	}

	doc := newDocument("doc-"+uuid.NewString(), header.Filename, size, s.config.ChunkSize)

	s.mu.Lock()
	s.docs[doc.id] = doc
	s.latest = doc.id
	s.mu.Unlock()

	uploadsTotal.Inc()
	tuilog.Log.Info("document ingested", "id", doc.id, "file", doc.filename, "bytes", size, "chunks", doc.chunks)

	writeJSON(w, http.StatusOK, api.UploadResult{ChunksAdded: doc.chunks, PersistDir: doc.id})
}

func acceptedUpload(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return acceptedTypes[strings.ToLower(mediaType)]
}

// lookup resolves the document addressed by id, or the latest one when id
// is empty.
func (s *Server) lookup(id string) (*document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		id = s.latest
	}
	doc, ok := s.docs[id]
	return doc, ok
}

func (s *Server) handleGenerateMetadata(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(api.HeaderDocumentID)
	doc, ok := s.lookup(id)
	if !ok {
		if id != "" {
			writeDetail(w, http.StatusNotFound, detailUnknownDoc)
			return
		}
		writeDetail(w, http.StatusBadRequest, detailNoDocuments)
		return
	}

	s.mu.Lock()
	doc.meta = doc.deriveMetadata()
	meta := doc.meta
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, meta)
}

func (s *Server) handleGetMetadata(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(api.HeaderDocumentID)
	doc, ok := s.lookup(id)

	s.mu.Lock()
	var meta *api.StudyMetadata
	if ok {
		meta = doc.meta
	}
	s.mu.Unlock()

	if meta == nil || len(meta.StudyPlan) == 0 {
		writeDetail(w, http.StatusBadRequest, detailNoMetadata)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req api.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidation(w, validationIssue{Loc: []string{"body"}, Msg: "JSON decode error", Type: "json_invalid"})
		return
	}
	if req.DocumentID == "" {
		req.DocumentID = r.Header.Get(api.HeaderDocumentID)
	}

	doc, ok := s.lookup(req.DocumentID)
	if !ok {
		if req.DocumentID != "" {
			writeDetail(w, http.StatusNotFound, detailUnknownDoc)
			return
		}
		writeDetail(w, http.StatusBadRequest, detailNoDocuments)
		return
	}

	asksTotal.Inc()
	writeJSON(w, http.StatusOK, doc.answer(req.Question))
}
