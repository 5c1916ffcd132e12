package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cperrin88/assetfetch/pkg/errors"
)

func TestOwnerAssetOrdering(t *testing.T) {
	owner := NewOwner("item")
	owner.SetAsset("b", &Asset{Href: "b.tif"})
	owner.SetAsset("a", &Asset{Href: "a.tif"})
	owner.SetAsset("c", &Asset{Href: "c.tif"})
	assert.Equal(t, []string{"b", "a", "c"}, owner.AssetKeys())

	// Replacing keeps the original position.
	owner.SetAsset("a", &Asset{Href: "a2.tif"})
	assert.Equal(t, []string{"b", "a", "c"}, owner.AssetKeys())

	owner.DeleteAsset("a")
	assert.Equal(t, []string{"b", "c"}, owner.AssetKeys())
	assert.Equal(t, 2, owner.Len())

	// Deleting a missing key is a no-op.
	owner.DeleteAsset("missing")
	assert.Equal(t, 2, owner.Len())
}

func TestOwnerClone(t *testing.T) {
	owner := NewOwner("item")
	owner.SetBaseHref("https://example.com/item.json")
	owner.SetAsset("data", &Asset{
		Href:       "https://example.com/data.tif",
		Alternates: map[string]Alternate{"s3": {Href: "s3://bucket/data.tif"}},
	})

	clone := owner.Clone()
	clone.SetBaseHref("/tmp/item.json")
	cloned, _ := clone.Asset("data")
	cloned.Href = "./data.tif"
	cloned.Alternates["s3"] = Alternate{Href: "changed"}
	clone.DeleteAsset("data")

	assert.Equal(t, "https://example.com/item.json", owner.BaseHref())
	original, ok := owner.Asset("data")
	require.True(t, ok)
	assert.Equal(t, "https://example.com/data.tif", original.Href)
	assert.Equal(t, "s3://bucket/data.tif", original.Alternates["s3"].Href)
	assert.Equal(t, []string{"data"}, owner.AssetKeys())
}

func TestSetBaseHref(t *testing.T) {
	owner := NewOwner("item")
	assert.Empty(t, owner.BaseHref())

	owner.SetBaseHref("https://example.com/item.json")
	assert.Equal(t, "https://example.com/item.json", owner.BaseHref())

	owner.SetBaseHref("/tmp/item.json")
	assert.Equal(t, "/tmp/item.json", owner.BaseHref())
	assert.Len(t, owner.Links(), 1)

	owner.SetBaseHref("")
	assert.Empty(t, owner.BaseHref())
	assert.Empty(t, owner.Links())
}

func TestMakeAssetHrefsAbsolute(t *testing.T) {
	owner := NewOwner("item")
	owner.SetBaseHref("https://example.com/items/item.json")
	owner.SetAsset("rel", &Asset{Href: "./data.tif"})
	owner.SetAsset("abs", &Asset{Href: "s3://bucket/key.tif"})

	require.NoError(t, owner.MakeAssetHrefsAbsolute())

	rel, _ := owner.Asset("rel")
	assert.Equal(t, "https://example.com/items/data.tif", rel.Href)
	abs, _ := owner.Asset("abs")
	assert.Equal(t, "s3://bucket/key.tif", abs.Href)
}

func TestMakeAssetHrefsAbsoluteNoBase(t *testing.T) {
	owner := NewOwner("item")
	owner.SetAsset("rel", &Asset{Href: "./data.tif"})

	err := owner.MakeAssetHrefsAbsolute()
	require.ErrorIs(t, err, errors.ErrNoBaseHref)
}

func TestMakeLinkHrefsAbsolute(t *testing.T) {
	owner := NewOwner("item")
	owner.SetBaseHref("https://example.com/items/item.json")
	owner.AddLink(Link{Rel: "collection", Href: "../collection.json"})
	owner.AddLink(Link{Rel: "license", Href: "https://example.com/license"})

	require.NoError(t, owner.MakeLinkHrefsAbsolute(false))

	links := owner.Links()
	require.Len(t, links, 3)
	for _, link := range links {
		assert.True(t, IsAbsoluteHref(link.Href), "link %s should be absolute", link.Rel)
	}
}

func TestMakeLinkHrefsAbsoluteDropsUnresolvable(t *testing.T) {
	owner := NewOwner("item")
	owner.AddLink(Link{Rel: "collection", Href: "../collection.json"})

	require.NoError(t, owner.MakeLinkHrefsAbsolute(false))
	assert.Empty(t, owner.Links())

	strictOwner := NewOwner("item")
	strictOwner.AddLink(Link{Rel: "collection", Href: "../collection.json"})
	err := strictOwner.MakeLinkHrefsAbsolute(true)
	require.ErrorIs(t, err, errors.ErrInvalidLink)
}

func TestMakeAssetHrefsRelative(t *testing.T) {
	owner := NewOwner("item")
	owner.SetBaseHref("/out/item.json")
	owner.SetAsset("local", &Asset{Href: "/out/data.tif"})
	owner.SetAsset("remote", &Asset{Href: "https://example.com/other.tif"})
	owner.SetAsset("outside", &Asset{Href: "/elsewhere/other.tif"})

	owner.MakeAssetHrefsRelative()

	local, _ := owner.Asset("local")
	assert.Equal(t, "./data.tif", local.Href)
	remote, _ := owner.Asset("remote")
	assert.Equal(t, "https://example.com/other.tif", remote.Href)
	outside, _ := owner.Asset("outside")
	assert.Equal(t, "/elsewhere/other.tif", outside.Href)
}
