package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rootmind/go-rootmind/internal/tuilog"
)

const (
	// DefaultBaseURL is where the backend listens in local development.
	DefaultBaseURL = "http://localhost:8000"
	// DefaultTimeout bounds a single request. Metadata generation and answers
	// go through an LLM, so this is generous.
	DefaultTimeout = 120 * time.Second

	// HeaderDocumentID carries the document handle on calls without a body.
	HeaderDocumentID = "X-Document-ID"
	// HeaderRequestID tags every request for log correlation.
	HeaderRequestID = "X-Request-ID"

	// maxErrorBody limits how much of an error response is read.
	maxErrorBody = 64 * 1024
)

// Operation names, used in errors, logs and metrics.
const (
	OpUpload   = "upload"
	OpMetadata = "study metadata"
	OpAsk      = "ask"
	OpHealth   = "health"
)

// Client talks to the study backend. It is safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client

	timeout    time.Duration
	timeoutSet bool
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout. Zero disables it. A client
// passed to WithHTTPClient is copied, never modified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
		c.timeoutSet = true
	}
}

// WithAPIKey sends the key as a bearer token.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// New creates a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeoutSet && c.http.Timeout != c.timeout {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

// BaseURL returns the backend root URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// UploadDocument reads the file at path and uploads it.
func (c *Client) UploadDocument(ctx context.Context, path string) (UploadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return UploadResult{}, &TransportError{Op: OpUpload, Message: err.Error(), Err: err}
	}
	defer f.Close()
	return c.Upload(ctx, filepath.Base(path), f)
}

// Upload sends a document body as multipart form field "file".
// The content is opaque to the client.
func (c *Client) Upload(ctx context.Context, name string, body io.Reader) (UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	h.Set("Content-Type", "application/pdf")
	part, err := mw.CreatePart(h)
	if err != nil {
		return UploadResult{}, networkError(OpUpload, err)
	}
	if _, err := io.Copy(part, body); err != nil {
		return UploadResult{}, &TransportError{Op: OpUpload, Message: err.Error(), Err: err}
	}
	if err := mw.Close(); err != nil {
		return UploadResult{}, networkError(OpUpload, err)
	}

	var out UploadResult
	err = c.do(ctx, OpUpload, http.MethodPost, "/upload", mw.FormDataContentType(), &buf, nil, &out)
	return out, err
}

// GenerateStudyMetadata asks the backend to derive a title and study plan for
// the document. An empty documentID addresses the most recent upload.
func (c *Client) GenerateStudyMetadata(ctx context.Context, documentID string) (StudyMetadata, error) {
	var out StudyMetadata
	err := c.do(ctx, OpMetadata, http.MethodPost, "/study/metadata", "", nil, documentHeader(documentID), &out)
	return out, err
}

// CurrentStudyMetadata fetches previously generated metadata without
// regenerating it.
func (c *Client) CurrentStudyMetadata(ctx context.Context, documentID string) (StudyMetadata, error) {
	var out StudyMetadata
	err := c.do(ctx, OpMetadata, http.MethodGet, "/study/metadata", "", nil, documentHeader(documentID), &out)
	return out, err
}

// AskQuestion asks a question about the document. A missing or empty answer
// is not an error.
func (c *Client) AskQuestion(ctx context.Context, documentID, question string) (Answer, error) {
	body, err := json.Marshal(AskRequest{Question: question, DocumentID: documentID})
	if err != nil {
		return Answer{}, networkError(OpAsk, err)
	}
	var out Answer
	err = c.do(ctx, OpAsk, http.MethodPost, "/ask", "application/json", bytes.NewReader(body), documentHeader(documentID), &out)
	return out, err
}

// Health reports backend status.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var out Health
	err := c.do(ctx, OpHealth, http.MethodGet, "/health", "", nil, nil, &out)
	return out, err
}

func documentHeader(documentID string) http.Header {
	if documentID == "" {
		return nil
	}
	h := make(http.Header)
	h.Set(HeaderDocumentID, documentID)
	return h
}

// do performs one request/response exchange and decodes a JSON success body
// into out. There are no retries.
func (c *Client) do(ctx context.Context, op, method, path, contentType string, body io.Reader, extra http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return networkError(op, err)
	}

	requestID := uuid.NewString()
	req.Header.Set(HeaderRequestID, requestID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	for k, vs := range extra {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	requestDurationSeconds.WithLabelValues(op).Observe(elapsed.Seconds())
	if err != nil {
		requestsTotal.WithLabelValues(op, "network_error").Inc()
		tuilog.Log.Warn("api request failed", "op", op, "request_id", requestID, "error", err, "duration", elapsed)
		return networkError(op, err)
	}
	defer resp.Body.Close()

	requestsTotal.WithLabelValues(op, strconv.Itoa(resp.StatusCode)).Inc()
	tuilog.Log.Debug("api request", "op", op, "request_id", requestID, "status", resp.StatusCode, "duration", elapsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return statusError(op, resp.StatusCode, data)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("%s: invalid response: %v", op, err),
			Err:        err,
		}
	}
	return nil
}
