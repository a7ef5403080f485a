package ocr

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/receiptiq/receiptiq/constants"
	"github.com/receiptiq/receiptiq/internal/common"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestClient(endpoint string, maxRetries int) *Client {
	return NewClient(common.OCRConfig{
		Endpoint:   endpoint,
		Language:   "eng",
		Timeout:    5 * time.Second,
		MaxRetries: maxRetries,
	}, testLogger())
}

func TestClient_Extract_TextFile(t *testing.T) {
	path := writeTempFile(t, "receipt.txt", "Shell\nTotal: $55.23\n03/15/2024")

	c := newTestClient("http://unused.invalid", 0)
	res, err := c.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Shell\nTotal: $55.23\n03/15/2024", res.Text)
	assert.Equal(t, constants.TXT, res.SourceType)
	assert.Equal(t, "text-file", res.Method)
	assert.Greater(t, res.Confidence, float32(0.2))
}

func TestClient_Extract_TextFileEmpty(t *testing.T) {
	path := writeTempFile(t, "blank.txt", "   \n\t\n")

	c := newTestClient("http://unused.invalid", 0)
	_, err := c.Extract(context.Background(), path)
	assert.ErrorIs(t, err, common.ErrNoText)
}

func TestClient_Extract_Remote(t *testing.T) {
	var gotLanguage, gotFile string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1 << 20))
		gotLanguage = r.FormValue("language")
		_, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		gotFile = hdr.Filename
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ParsedResults":[{"ParsedText":"Shell\nFuel: $55.23","FileParseExitCode":1}],"OCRExitCode":1,"IsErroredOnProcessing":false}`))
	}))
	defer srv.Close()

	path := writeTempFile(t, "receipt.png", "not-a-real-png")

	c := newTestClient(srv.URL, 0)
	res, err := c.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Shell\nFuel: $55.23", res.Text)
	assert.Equal(t, constants.IMAGE, res.SourceType)
	assert.Equal(t, "remote-ocr", res.Method)
	assert.Equal(t, "eng", res.Language)
	assert.Equal(t, "eng", gotLanguage)
	assert.Equal(t, "receipt.png", gotFile)
}

func TestClient_Extract_RetriesTransientFailure(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"ParsedResults":[{"ParsedText":"Total: $10.00"}]}`))
	}))
	defer srv.Close()

	path := writeTempFile(t, "receipt.pdf", "%PDF-1.4")

	c := newTestClient(srv.URL, 2)
	res, err := c.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Total: $10.00", res.Text)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestClient_Extract_ClientErrorNotRetried(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	path := writeTempFile(t, "receipt.jpg", "jpeg-bytes")

	c := newTestClient(srv.URL, 3)
	_, err := c.Extract(context.Background(), path)
	require.Error(t, err)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestClient_Extract_ProcessingErrorNotRetried(t *testing.T) {
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		_, _ = w.Write([]byte(`{"IsErroredOnProcessing":true,"ErrorMessage":["Unable to recognize the file type"]}`))
	}))
	defer srv.Close()

	path := writeTempFile(t, "receipt.png", "junk")

	c := newTestClient(srv.URL, 3)
	_, err := c.Extract(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unable to recognize the file type")
	assert.Equal(t, int32(1), attempts.Load())
}

func TestClient_Extract_EmptyRemoteText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ParsedResults":[{"ParsedText":"  \n "}]}`))
	}))
	defer srv.Close()

	path := writeTempFile(t, "receipt.png", "junk")

	c := newTestClient(srv.URL, 0)
	_, err := c.Extract(context.Background(), path)
	assert.ErrorIs(t, err, common.ErrNoText)
}

func TestClient_Extract_UnsupportedExtension(t *testing.T) {
	path := writeTempFile(t, "receipt.docx", "word")

	c := newTestClient("http://unused.invalid", 0)
	_, err := c.Extract(context.Background(), path)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}
