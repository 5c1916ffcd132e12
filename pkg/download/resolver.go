package download

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/cperrin88/assetfetch/pkg/errors"
	"github.com/cperrin88/assetfetch/pkg/manifest"
)

// ResolvedDownload is one planned asset transfer: the source href after
// alternate substitution and the absolute destination path.
type ResolvedDownload struct {
	Owner *manifest.Owner
	Key   string
	Asset *manifest.Asset
	Href  string
	Path  string
}

// Resolve plans a batch: it absolutizes the owner's hrefs, applies the
// include/exclude scope and alternate preferences, derives destination file
// names, and rejects colliding names before any I/O starts. The owner's
// links and asset hrefs are rewritten absolute in place.
func Resolve(owner *manifest.Owner, root string, cfg Config) ([]ResolvedDownload, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := owner.MakeLinkHrefsAbsolute(cfg.StrictLinks); err != nil {
		return nil, err
	}
	if err := owner.MakeAssetHrefsAbsolute(); err != nil {
		return nil, err
	}

	downloads := make([]ResolvedDownload, 0, owner.Len())
	byName := make(map[string][]string)
	for _, key := range owner.AssetKeys() {
		if !inScope(key, cfg) {
			continue
		}
		asset, _ := owner.Asset(key)
		href, err := resolveAssetHref(asset, owner.BaseHref(), cfg.Alternates)
		if err != nil {
			return nil, err
		}
		name, err := fileName(key, href, cfg.Naming)
		if err != nil {
			return nil, err
		}
		byName[name] = append(byName[name], key)
		downloads = append(downloads, ResolvedDownload{
			Owner: owner,
			Key:   key,
			Asset: asset,
			Href:  href,
			Path:  filepath.Join(root, name),
		})
	}

	var colliding []string
	for name, keys := range byName {
		if len(keys) > 1 {
			colliding = append(colliding, name)
		}
	}
	if len(colliding) > 0 {
		slices.Sort(colliding)
		return nil, &OverwriteError{Names: colliding}
	}
	return downloads, nil
}

// inScope applies the include/exclude filter to an asset key.
func inScope(key string, cfg Config) bool {
	if len(cfg.Include) > 0 {
		return slices.Contains(cfg.Include, key)
	}
	return !slices.Contains(cfg.Exclude, key)
}

// resolveAssetHref picks the asset's source href, preferring the first
// matching alternate, and makes it absolute against base.
func resolveAssetHref(asset *manifest.Asset, base string, alternates []string) (string, error) {
	href := asset.Href
	for _, name := range alternates {
		alt, ok := asset.Alternate(name)
		if !ok {
			continue
		}
		if alt.Href == "" {
			return "", errors.Wrapf(errors.ErrInvalidAlternate, "alternate %q has no href", name)
		}
		href = alt.Href
		break
	}
	return manifest.MakeAbsoluteHref(href, base)
}

// fileName derives the destination file name for an asset.
func fileName(key, href string, naming NamingStrategy) (string, error) {
	switch naming {
	case NamingByKey:
		return key + manifest.HrefExt(href), nil
	case NamingByFileName, "":
		name := manifest.HrefFileName(href)
		if name == "" {
			return "", errors.Wrapf(errors.ErrInvalidPath, "href %s has no file name", href)
		}
		return name, nil
	default:
		return "", fmt.Errorf("unknown naming strategy %q", naming)
	}
}
