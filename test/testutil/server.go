// Package testutil holds shared fixtures for exercising downloads against
// local files and throwaway HTTP servers.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cperrin88/assetfetch/pkg/manifest"
)

// ServeAssets starts a test server that serves the given path->body map and
// returns 404 for everything else. The server is shut down with the test.
func ServeAssets(t *testing.T, files map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// WriteFile writes content under dir and returns the absolute path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// NewOwner builds an owner with one asset per entry of hrefs, keyed by the
// map key.
func NewOwner(t *testing.T, id string, hrefs map[string]string) *manifest.Owner {
	t.Helper()
	owner := manifest.NewOwner(id)
	for key, href := range hrefs {
		owner.SetAsset(key, &manifest.Asset{Href: href})
	}
	return owner
}
