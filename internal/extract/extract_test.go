package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("raw episode notes"), 0644))

	got, err := Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "raw episode notes", got)
}

func TestExtractMissingFile(t *testing.T) {
	_, err := Extract(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

func TestExtractPlainTextURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("fetched content"))
	}))
	defer srv.Close()

	got, err := Extract(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "fetched content", got)
}

func TestExtractHTMLURL(t *testing.T) {
	page := `<html><head>
<style>body { color: red; }</style>
<script>var tracking = true;</script>
</head><body>
<h1>Big &amp; Bold</h1>
<p>First paragraph.</p>
<p>Second paragraph.</p>
</body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(page))
	}))
	defer srv.Close()

	got, err := Extract(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Contains(t, got, "Big & Bold")
	assert.Contains(t, got, "First paragraph.")
	assert.Contains(t, got, "Second paragraph.")
	assert.NotContains(t, got, "tracking")
	assert.NotContains(t, got, "color: red")
	assert.NotContains(t, got, "<p>")
}

func TestExtractURLErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := Extract(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
