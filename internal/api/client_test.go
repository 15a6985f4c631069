package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return New(ts.URL + "/")
}

func TestUploadWireFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "thermo.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 body"), 0644))

	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/upload", r.URL.Path)

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "thermo.pdf", hdr.Filename)
		assert.Equal(t, "application/pdf", hdr.Header.Get("Content-Type"))
		data, _ := io.ReadAll(f)
		assert.Equal(t, "%PDF-1.4 body", string(data))

		_, err = uuid.Parse(r.Header.Get(HeaderRequestID))
		assert.NoError(t, err, "request id must be a uuid")

		w.Write([]byte(`{"chunks_added": 12, "persist_dir": "doc-7"}`))
	})

	res, err := c.UploadDocument(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 12, res.ChunksAdded)
	assert.Equal(t, "doc-7", res.DocumentID())
}

func TestUploadMissingFile(t *testing.T) {
	c := New("http://127.0.0.1:1")
	_, err := c.UploadDocument(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"))

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, OpUpload, te.Op)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestMetadataSendsDocumentHeader(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/study/metadata", r.URL.Path)
		assert.Equal(t, "doc-7", r.Header.Get(HeaderDocumentID))
		w.Write([]byte(`{"title":"Thermodynamics","study_plan":[{"section":"Ch.1","objective":"Define entropy"}]}`))
	})

	meta, err := c.GenerateStudyMetadata(context.Background(), "doc-7")
	require.NoError(t, err)
	assert.Equal(t, "Thermodynamics", meta.Title)
	assert.Equal(t, []StudyItem{{Section: "Ch.1", Objective: "Define entropy"}}, meta.StudyPlan)
}

func TestMetadataWithoutDocument(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get(HeaderDocumentID))
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`{"title":"T","study_plan":[]}`))
	})

	meta, err := c.CurrentStudyMetadata(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "T", meta.Title)
	assert.Empty(t, meta.StudyPlan)
}

func TestAskWireFormat(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ask", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "What is entropy?", body["question"])
		assert.Equal(t, "doc-7", body["document_id"])

		w.Write([]byte(`{"answer":"Disorder.","sources":[{"file":"thermo.pdf","page":4},{"file":"thermo.pdf","page":"iv"},{"file":"thermo.pdf","page":null}]}`))
	})

	ans, err := c.AskQuestion(context.Background(), "doc-7", "What is entropy?")
	require.NoError(t, err)
	assert.Equal(t, "Disorder.", ans.Text)
	require.Len(t, ans.Sources, 3)
	assert.Equal(t, Page("4"), ans.Sources[0].Page)
	assert.Equal(t, Page("iv"), ans.Sources[1].Page)
	assert.Equal(t, Page(""), ans.Sources[2].Page)
}

func TestAskOmitsEmptyDocumentID(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"question":"q"}`, string(data))
		w.Write([]byte(`{"answer":"a"}`))
	})
	_, err := c.AskQuestion(context.Background(), "", "q")
	require.NoError(t, err)
}

func TestAskEmptyAnswerIsNotAnError(t *testing.T) {
	for _, body := range []string{`{"answer":"","sources":[]}`, `{}`, `{"answer":null}`} {
		c := serve(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})
		ans, err := c.AskQuestion(context.Background(), "d", "q")
		require.NoError(t, err, body)
		assert.Empty(t, ans.Text, body)
		assert.Empty(t, ans.Sources, body)
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"detail string", 400, `{"detail":"Only PDF files are accepted."}`, "Only PDF files are accepted."},
		{"detail list", 422, `{"detail":[{"loc":["body","file"],"msg":"Field required"},{"msg":"Too big"}]}`, "Field required; Too big"},
		{"plain text", 502, "upstream down\n", "upstream down"},
		{"html", 500, "<html><body>oops</body></html>", "request failed: 500 Internal Server Error"},
		{"empty", 503, "", "request failed: 503 Service Unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := serve(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := c.AskQuestion(context.Background(), "", "q")
			var te *TransportError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, tt.want, err.Error())
			assert.Equal(t, tt.status, te.StatusCode)
			assert.Equal(t, OpAsk, te.Op)
		})
	}
}

func TestInvalidJSONResponse(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})
	_, err := c.Health(context.Background())

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusOK, te.StatusCode)
	assert.Contains(t, err.Error(), "invalid response")
}

func TestNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := New(url).GenerateStudyMetadata(context.Background(), "d")
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Zero(t, te.StatusCode)
	assert.True(t, strings.HasPrefix(err.Error(), OpMetadata+": "), err.Error())
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(ts.Close)
	t.Cleanup(func() { close(release) })

	c := New(ts.URL, WithTimeout(50*time.Millisecond))
	_, err := c.Health(context.Background())
	require.Error(t, err)
}

func TestContextCancel(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(ts.Close)
	t.Cleanup(func() { close(release) })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(ts.URL).Health(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestAPIKey(t *testing.T) {
	c := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer k3y", r.Header.Get("Authorization"))
		w.Write([]byte(`{"status":"ok","model":"m","store":"s"}`))
	})
	c = New(c.BaseURL(), WithAPIKey("k3y"))

	h, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Health{Status: "ok", Model: "m", Store: "s"}, h)
}

func TestNewDefaults(t *testing.T) {
	c := New("")
	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.Equal(t, DefaultTimeout, c.http.Timeout)

	hc := &http.Client{}
	c = New("http://x/", WithHTTPClient(hc), WithTimeout(0))
	assert.Equal(t, "http://x", c.BaseURL())
	assert.Same(t, hc, c.http)
	assert.Zero(t, hc.Timeout)
}

func TestTimeoutOptionOrder(t *testing.T) {
	tests := []struct {
		name string
		opts func(hc *http.Client) []Option
	}{
		{"timeout after client", func(hc *http.Client) []Option {
			return []Option{WithHTTPClient(hc), WithTimeout(3 * time.Second)}
		}},
		{"timeout before client", func(hc *http.Client) []Option {
			return []Option{WithTimeout(3 * time.Second), WithHTTPClient(hc)}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := &http.Client{Timeout: time.Minute}
			c := New("http://x", tt.opts(hc)...)
			assert.Equal(t, 3*time.Second, c.http.Timeout)
			assert.Equal(t, time.Minute, hc.Timeout, "caller's client must not change")
		})
	}

	hc := &http.Client{Timeout: time.Minute}
	c := New("http://x", WithHTTPClient(hc))
	assert.Same(t, hc, c.http)
}

func TestPageMarshal(t *testing.T) {
	data, err := json.Marshal([]Source{{File: "a", Page: "3"}, {File: "b", Page: "iv"}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"file":"a","page":3},{"file":"b","page":"iv"}]`, string(data))

	for _, raw := range []string{`"007"`, `"+3"`, `"-0"`, `" 4"`} {
		var src Source
		require.NoError(t, json.Unmarshal([]byte(`{"file":"a","page":`+raw+`}`), &src))
		out, err := json.Marshal(src)
		require.NoError(t, err, raw)
		assert.JSONEq(t, `{"file":"a","page":`+raw+`}`, string(out))
	}

	var num Source
	require.NoError(t, json.Unmarshal([]byte(`{"file":"a","page":-2}`), &num))
	out, err := json.Marshal(num)
	require.NoError(t, err)
	assert.JSONEq(t, `{"file":"a","page":-2}`, string(out))

	var p Page
	assert.Error(t, json.Unmarshal([]byte(`true`), &p))
}
