//nolint:testpackage // adjusts the client clock for cache freshness tests
package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opendatamd/regcrawl/internal/logger"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	return New(Config{
		CacheDir:  t.TempDir(),
		CacheDays: 1,
		UserAgent: "regcrawl-test",
		Timeout:   5 * time.Second,
	}, logger.NewNoOp())
}

func TestFetchResource(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "regcrawl-test", r.Header.Get("User-Agent"))
		w.Write([]byte("file body"))
	}))
	defer server.Close()

	client := newTestClient(t)
	ctx := context.Background()

	path, err := client.FetchResource(ctx, "data.xlsx", server.URL+"/data.xlsx")
	require.NoError(t, err)
	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "file body", string(body))

	// A second fetch within the freshness window is served from cache.
	_, err = client.FetchResource(ctx, "data.xlsx", server.URL+"/data.xlsx")
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestFetchResourceExpiredCache(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("file body"))
	}))
	defer server.Close()

	client := newTestClient(t)
	ctx := context.Background()

	_, err := client.FetchResource(ctx, "data.xlsx", server.URL+"/data.xlsx")
	require.NoError(t, err)

	// Move the clock past the freshness window.
	client.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	_, err = client.FetchResource(ctx, "data.xlsx", server.URL+"/data.xlsx")
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestFetchResourceErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := newTestClient(t)
	_, err := client.FetchResource(context.Background(), "data.xlsx", server.URL+"/missing.xlsx")
	assert.Error(t, err)
}

func TestFetchHTML(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`<html><body><h1 id="title">Registrul de stat</h1></body></html>`))
	}))
	defer server.Close()

	client := newTestClient(t)
	ctx := context.Background()

	doc, err := client.FetchHTML(ctx, server.URL+"/page", 1)
	require.NoError(t, err)
	assert.Equal(t, "Registrul de stat", doc.Find("#title").Text())

	// The cached page is reused within the freshness window.
	_, err = client.FetchHTML(ctx, server.URL+"/page", 1)
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
}
