package download

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cperrin88/assetfetch/pkg/errors"
	"github.com/cperrin88/assetfetch/pkg/manifest"
)

func newTestOwner() *manifest.Owner {
	owner := manifest.NewOwner("scene-001")
	owner.SetAsset("data", &manifest.Asset{Href: "https://example.com/scenes/001/data.tif", MediaType: "image/tiff"})
	owner.SetAsset("thumbnail", &manifest.Asset{Href: "https://example.com/scenes/001/thumb.png"})
	return owner
}

func TestResolveFileNameStrategies(t *testing.T) {
	root := t.TempDir()

	t.Run("by file name", func(t *testing.T) {
		downloads, err := Resolve(newTestOwner(), root, DefaultConfig())
		require.NoError(t, err)
		require.Len(t, downloads, 2)
		assert.Equal(t, filepath.Join(root, "data.tif"), downloads[0].Path)
		assert.Equal(t, filepath.Join(root, "thumb.png"), downloads[1].Path)
	})

	t.Run("by key", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Naming = NamingByKey
		downloads, err := Resolve(newTestOwner(), root, cfg)
		require.NoError(t, err)
		require.Len(t, downloads, 2)
		assert.Equal(t, filepath.Join(root, "data.tif"), downloads[0].Path)
		assert.Equal(t, filepath.Join(root, "thumbnail.png"), downloads[1].Path)
	})
}

func TestResolveScope(t *testing.T) {
	root := t.TempDir()

	t.Run("include", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Include = []string{"data"}
		downloads, err := Resolve(newTestOwner(), root, cfg)
		require.NoError(t, err)
		require.Len(t, downloads, 1)
		assert.Equal(t, "data", downloads[0].Key)
	})

	t.Run("exclude", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Exclude = []string{"data"}
		downloads, err := Resolve(newTestOwner(), root, cfg)
		require.NoError(t, err)
		require.Len(t, downloads, 1)
		assert.Equal(t, "thumbnail", downloads[0].Key)
	})

	t.Run("include of unknown key yields empty plan", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Include = []string{"nope"}
		downloads, err := Resolve(newTestOwner(), root, cfg)
		require.NoError(t, err)
		assert.Empty(t, downloads)
	})
}

func TestResolveCollisions(t *testing.T) {
	owner := manifest.NewOwner("scene-002")
	owner.SetAsset("red", &manifest.Asset{Href: "https://example.com/red/band.tif"})
	owner.SetAsset("green", &manifest.Asset{Href: "https://example.com/green/band.tif"})
	owner.SetAsset("thumb", &manifest.Asset{Href: "https://example.com/thumb.png"})

	_, err := Resolve(owner, t.TempDir(), DefaultConfig())
	var overwrite *OverwriteError
	require.ErrorAs(t, err, &overwrite)
	assert.Equal(t, []string{"band.tif"}, overwrite.Names)

	// Key naming sidesteps the collision.
	cfg := DefaultConfig()
	cfg.Naming = NamingByKey
	downloads, err := Resolve(owner, t.TempDir(), cfg)
	require.NoError(t, err)
	assert.Len(t, downloads, 3)
}

func TestResolveAlternates(t *testing.T) {
	newOwner := func() *manifest.Owner {
		owner := manifest.NewOwner("scene-003")
		owner.SetAsset("data", &manifest.Asset{
			Href: "https://example.com/data.tif",
			Alternates: map[string]manifest.Alternate{
				"mirror": {Href: "s3://mirror-bucket/data.tif"},
			},
		})
		return owner
	}

	t.Run("alternate preferred", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Alternates = []string{"mirror"}
		downloads, err := Resolve(newOwner(), t.TempDir(), cfg)
		require.NoError(t, err)
		assert.Equal(t, "s3://mirror-bucket/data.tif", downloads[0].Href)
	})

	t.Run("missing alternate falls back to declared href", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Alternates = []string{"nonexistent"}
		downloads, err := Resolve(newOwner(), t.TempDir(), cfg)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/data.tif", downloads[0].Href)
	})

	t.Run("first match wins", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Alternates = []string{"nonexistent", "mirror"}
		downloads, err := Resolve(newOwner(), t.TempDir(), cfg)
		require.NoError(t, err)
		assert.Equal(t, "s3://mirror-bucket/data.tif", downloads[0].Href)
	})

	t.Run("alternate without href", func(t *testing.T) {
		owner := newOwner()
		asset, _ := owner.Asset("data")
		asset.Alternates["broken"] = manifest.Alternate{Title: "no href here"}
		cfg := DefaultConfig()
		cfg.Alternates = []string{"broken"}
		_, err := Resolve(owner, t.TempDir(), cfg)
		require.ErrorIs(t, err, errors.ErrInvalidAlternate)
	})
}

func TestResolveRelativeHrefs(t *testing.T) {
	t.Run("resolved against base", func(t *testing.T) {
		owner := manifest.NewOwner("scene-004")
		owner.SetBaseHref("https://example.com/scenes/004/owner.json")
		owner.SetAsset("data", &manifest.Asset{Href: "./data.tif"})

		downloads, err := Resolve(owner, t.TempDir(), DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/scenes/004/data.tif", downloads[0].Href)
	})

	t.Run("no base href", func(t *testing.T) {
		owner := manifest.NewOwner("scene-005")
		owner.SetAsset("data", &manifest.Asset{Href: "./data.tif"})

		_, err := Resolve(owner, t.TempDir(), DefaultConfig())
		require.ErrorIs(t, err, errors.ErrNoBaseHref)
	})
}

func TestResolveRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Include = []string{"a"}
	cfg.Exclude = []string{"b"}
	_, err := Resolve(newTestOwner(), t.TempDir(), cfg)
	require.ErrorIs(t, err, errors.ErrIncludeAndExclude)
}
