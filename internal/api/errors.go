package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// TransportError is returned for any network failure or non-2xx response.
// Error returns a message meant to be shown to the user as is.
type TransportError struct {
	Op         string // operation name, e.g. "upload"
	StatusCode int    // 0 when no response was received
	Message    string
	Err        error // underlying network error, if any
}

func (e *TransportError) Error() string {
	return e.Message
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// networkError wraps a failure that happened before a response arrived.
func networkError(op string, err error) *TransportError {
	return &TransportError{
		Op:      op,
		Message: fmt.Sprintf("%s: %v", op, err),
		Err:     err,
	}
}

// statusError builds a TransportError from an unsuccessful response body.
func statusError(op string, status int, body []byte) *TransportError {
	return &TransportError{
		Op:         op,
		StatusCode: status,
		Message:    errorMessage(status, body),
	}
}

// errorMessage extracts the most useful human-readable text from an error body:
// the FastAPI "detail" field, then the raw body, then the status text.
func errorMessage(status int, body []byte) string {
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil && len(eb.Detail) > 0 {
		var s string
		if json.Unmarshal(eb.Detail, &s) == nil && s != "" {
			return s
		}
		// Validation errors come back as a list of objects.
		var items []struct {
			Msg string `json:"msg"`
		}
		if json.Unmarshal(eb.Detail, &items) == nil {
			var msgs []string
			for _, it := range items {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}

	if text := strings.TrimSpace(string(body)); text != "" && !strings.HasPrefix(text, "<") {
		return text
	}
	return fmt.Sprintf("request failed: %d %s", status, http.StatusText(status))
}
