package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"invoice-rag/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type llamaServer struct {
	statuses   []string
	polls      atomic.Int32
	resultType string
	uploaded   atomic.Value
}

func (s *llamaServer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer llx-test", r.Header.Get("Authorization"))

		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		body, _ := io.ReadAll(file)
		s.uploaded.Store(header.Filename + ":" + string(body))

		_ = json.NewEncoder(w).Encode(map[string]string{"id": "job-1", "status": "PENDING"})
	})

	mux.HandleFunc("/job/job-1", func(w http.ResponseWriter, r *http.Request) {
		n := int(s.polls.Add(1)) - 1
		status := s.statuses[min(n, len(s.statuses)-1)]
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "job-1", "status": status, "error_message": "bad pdf"})
	})

	mux.HandleFunc("/job/job-1/result/"+s.resultType, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			s.resultType: "  Fecha factura: 20/11/2018\nTotal: 85,46 €  ",
			"job_metadata": map[string]int{"credits_used": 1},
		})
	})

	return mux
}

func newTestLlamaParser(t *testing.T, baseURL, resultType string) *LlamaParser {
	return NewLlamaParser(&config.LlamaParseConfig{
		APIKey:       "llx-test",
		BaseURL:      baseURL + "/",
		ResultType:   resultType,
		PollInterval: 5 * time.Millisecond,
	}, zaptest.NewLogger(t))
}

func samplePDF(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "factura.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))
	return path
}

func TestLlamaParser_Parse(t *testing.T) {
	ls := &llamaServer{statuses: []string{"PENDING", "PENDING", "SUCCESS"}, resultType: "text"}
	srv := httptest.NewServer(ls.handler(t))
	defer srv.Close()

	p := newTestLlamaParser(t, srv.URL, "text")
	text, err := p.Parse(context.Background(), samplePDF(t))
	require.NoError(t, err)

	assert.Equal(t, "Fecha factura: 20/11/2018\nTotal: 85,46 €", text)
	assert.Equal(t, "factura.pdf:%PDF-1.4", ls.uploaded.Load())
	assert.EqualValues(t, 3, ls.polls.Load())
}

func TestLlamaParser_Markdown(t *testing.T) {
	ls := &llamaServer{statuses: []string{"SUCCESS"}, resultType: "markdown"}
	srv := httptest.NewServer(ls.handler(t))
	defer srv.Close()

	text, err := newTestLlamaParser(t, srv.URL, "markdown").Parse(context.Background(), samplePDF(t))
	require.NoError(t, err)
	assert.Contains(t, text, "Fecha factura")
}

func TestLlamaParser_JobError(t *testing.T) {
	ls := &llamaServer{statuses: []string{"PENDING", "ERROR"}, resultType: "text"}
	srv := httptest.NewServer(ls.handler(t))
	defer srv.Close()

	_, err := newTestLlamaParser(t, srv.URL, "text").Parse(context.Background(), samplePDF(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ERROR")
	assert.Contains(t, err.Error(), "bad pdf")
}

func TestLlamaParser_ContextCancelled(t *testing.T) {
	ls := &llamaServer{statuses: []string{"PENDING"}, resultType: "text"}
	srv := httptest.NewServer(ls.handler(t))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestLlamaParser(t, srv.URL, "text").Parse(ctx, samplePDF(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLlamaParser_UploadRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Invalid API key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestLlamaParser(t, srv.URL, "text").Parse(context.Background(), samplePDF(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestLlamaParser_MissingFile(t *testing.T) {
	p := newTestLlamaParser(t, "http://127.0.0.1:0", "text")

	_, err := p.Parse(context.Background(), filepath.Join(t.TempDir(), "nope.pdf"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
