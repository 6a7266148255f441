// pkg/download/download_test.go
package download

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	body := make([]byte, 3<<20)
	for i := range body {
		body[i] = byte(i)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer server.Close()

	d := New(nil)
	dest := filepath.Join(t.TempDir(), "artifacts", "archive.tar.gz")

	require.NoError(t, d.Fetch(context.Background(), server.URL+"/archive.tar.gz", dest))

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, body, got)

	// Staging file must not survive a successful transfer
	_, err = os.Stat(dest + ".part")
	assert.True(t, os.IsNotExist(err))
}

func TestFetchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	d := New(nil)
	dest := filepath.Join(t.TempDir(), "archive.tar.gz")

	err := d.Fetch(context.Background(), server.URL+"/missing", dest)
	require.Error(t, err)

	var de *DownloadError
	require.True(t, errors.As(err, &de))
	assert.Contains(t, de.URL, "/missing")

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(dest + ".part")
	assert.True(t, os.IsNotExist(statErr))
}

func TestFetchCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("data"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := New(nil)
	dest := filepath.Join(t.TempDir(), "archive.tar.gz")

	err := d.Fetch(ctx, server.URL, dest)
	require.Error(t, err)

	var de *DownloadError
	assert.True(t, errors.As(err, &de))
}
