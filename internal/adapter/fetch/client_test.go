package fetch

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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFetch(t *testing.T) {
	t.Run("downloads to dest", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "Category,Date\nTHEFT,06/08/2014\n")
		}))
		defer srv.Close()

		dest := filepath.Join(t.TempDir(), "data", "incidents.csv")
		err := New(discardLogger()).Fetch(context.Background(), srv.URL, dest, false)

		require.NoError(t, err)
		body, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Contains(t, string(body), "THEFT")
	})

	t.Run("skips existing file", func(t *testing.T) {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			io.WriteString(w, "fresh")
		}))
		defer srv.Close()

		dest := filepath.Join(t.TempDir(), "incidents.csv")
		require.NoError(t, os.WriteFile(dest, []byte("cached"), 0o644))

		err := New(discardLogger()).Fetch(context.Background(), srv.URL, dest, false)

		require.NoError(t, err)
		assert.Equal(t, int32(0), hits.Load())
		body, _ := os.ReadFile(dest)
		assert.Equal(t, "cached", string(body))
	})

	t.Run("force redownloads", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "fresh")
		}))
		defer srv.Close()

		dest := filepath.Join(t.TempDir(), "incidents.csv")
		require.NoError(t, os.WriteFile(dest, []byte("cached"), 0o644))

		err := New(discardLogger()).Fetch(context.Background(), srv.URL, dest, true)

		require.NoError(t, err)
		body, _ := os.ReadFile(dest)
		assert.Equal(t, "fresh", string(body))
	})

	t.Run("bad status leaves no file behind", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		dest := filepath.Join(t.TempDir(), "incidents.csv")
		err := New(discardLogger()).Fetch(context.Background(), srv.URL, dest, false)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
		_, statErr := os.Stat(dest)
		assert.True(t, os.IsNotExist(statErr))
	})
}
