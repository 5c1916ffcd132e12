package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cperrin88/assetfetch/test/testutil"
)

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func writeManifest(t *testing.T, dir string, assets map[string]string) string {
	t.Helper()
	assetObjs := make(map[string]map[string]string, len(assets))
	for key, href := range assets {
		assetObjs[key] = map[string]string{"href": href}
	}
	doc := map[string]any{
		"id":      "test-owner",
		"version": "1.1.0",
		"assets":  assetObjs,
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	path := filepath.Join(dir, "manifest.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestDownloadCommand(t *testing.T) {
	srv := testutil.ServeAssets(t, map[string]string{"/data.tif": "tiff bytes"})
	manifestPath := writeManifest(t, t.TempDir(), map[string]string{
		"data": srv.URL + "/data.tif",
	})
	dest := t.TempDir()

	out, _, err := execute(t, NewDownloadCmd(), manifestPath, dest, "--quiet")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dest, "data.tif"))
	require.NoError(t, err)
	assert.Equal(t, "tiff bytes", string(data))

	// The rewritten document on stdout points at the local copy.
	var doc struct {
		Assets map[string]struct {
			Href string `json:"href"`
		} `json:"assets"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, filepath.Join(dest, "data.tif"), doc.Assets["data"].Href)
}

func TestDownloadCommandRelativeHrefs(t *testing.T) {
	srcDir := t.TempDir()
	testutil.WriteFile(t, srcDir, "data.tif", "local bytes")
	manifestPath := writeManifest(t, srcDir, map[string]string{"data": "./data.tif"})
	dest := t.TempDir()

	_, _, err := execute(t, NewDownloadCmd(), manifestPath, dest, "--quiet")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dest, "data.tif"))
}

func TestDownloadCommandReportsProgress(t *testing.T) {
	srv := testutil.ServeAssets(t, map[string]string{"/data.tif": "tiff bytes"})
	manifestPath := writeManifest(t, t.TempDir(), map[string]string{
		"data": srv.URL + "/data.tif",
	})

	_, errOut, err := execute(t, NewDownloadCmd(), manifestPath, t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, errOut, "downloading data")
	assert.Contains(t, errOut, "finished data")
}

func TestDownloadCommandFailure(t *testing.T) {
	srv := testutil.ServeAssets(t, nil)
	manifestPath := writeManifest(t, t.TempDir(), map[string]string{
		"data": srv.URL + "/missing.tif",
	})

	_, _, err := execute(t, NewDownloadCmd(), manifestPath, t.TempDir(), "--quiet")
	require.Error(t, err)
}

func TestExistsCommand(t *testing.T) {
	srcDir := t.TempDir()
	testutil.WriteFile(t, srcDir, "data.tif", "bytes")
	manifestPath := writeManifest(t, t.TempDir(), map[string]string{
		"data": filepath.Join(srcDir, "data.tif"),
		"gone": filepath.Join(srcDir, "gone.tif"),
	})

	out, _, err := execute(t, NewExistsCmd(), manifestPath, "data")
	require.NoError(t, err)
	assert.Contains(t, out, "data: true")

	out, _, err = execute(t, NewExistsCmd(), manifestPath)
	require.Error(t, err)
	assert.Contains(t, out, "gone: false")
}

func TestBackendResolveCommand(t *testing.T) {
	out, _, err := execute(t, NewBackendCmd(), "resolve",
		"s3://bucket/key.tif",
		"https://example.com/data.tif",
		"/local/data.tif",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "s3://bucket/key.tif: s3")
	assert.Contains(t, out, "https://example.com/data.tif: http")
	assert.Contains(t, out, "/local/data.tif: filesystem")
}

func TestDownloadCommandSave(t *testing.T) {
	srv := testutil.ServeAssets(t, map[string]string{"/data.tif": "bytes"})
	manifestPath := writeManifest(t, t.TempDir(), map[string]string{
		"data": srv.URL + "/data.tif",
	})
	dest := t.TempDir()

	_, _, err := execute(t, NewDownloadCmd(), manifestPath, dest, "--quiet", "--save", "owner.json")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dest, "owner.json"))
}

func TestVersionCommand(t *testing.T) {
	cmd := NewVersionCmd()
	require.NotNil(t, cmd)
	assert.Equal(t, "version", cmd.Use)
	assert.NotEmpty(t, Version)
}
