// Package manifest implements the metadata document that groups downloadable
// assets under an owner record. The download engine reads and mutates the
// owner's asset mapping; this package owns parsing, serialization and href
// bookkeeping.
package manifest

import (
	"slices"

	"github.com/cperrin88/assetfetch/internal/logger"
	"github.com/cperrin88/assetfetch/pkg/errors"
)

// SelfRel is the link relation that carries the owner's own location. It is
// the base that relative asset hrefs are resolved against.
const SelfRel = "self"

// Link relates an owner to another document.
type Link struct {
	Rel   string `json:"rel"`
	Href  string `json:"href"`
	Title string `json:"title,omitempty"`
}

// Owner is a metadata record holding an ordered set of named assets.
type Owner struct {
	id      string
	version string
	links   []Link
	assets  map[string]*Asset
	order   []string
}

// NewOwner creates an empty owner with the given id.
func NewOwner(id string) *Owner {
	return &Owner{
		id:      id,
		version: SpecVersion,
		assets:  make(map[string]*Asset),
	}
}

// ID returns the owner's identifier.
func (o *Owner) ID() string { return o.id }

// Version returns the manifest spec version the owner was parsed with.
func (o *Owner) Version() string { return o.version }

// Links returns the owner's links.
func (o *Owner) Links() []Link { return o.links }

// AddLink appends a link.
func (o *Owner) AddLink(link Link) {
	o.links = append(o.links, link)
}

// BaseHref returns the href of the owner's self link, or an empty string when
// the owner has no self link. Relative asset hrefs are resolved against it.
func (o *Owner) BaseHref() string {
	for _, link := range o.links {
		if link.Rel == SelfRel {
			return link.Href
		}
	}
	return ""
}

// SetBaseHref sets the owner's self link, replacing any existing one. An
// empty href removes the self link.
func (o *Owner) SetBaseHref(href string) {
	o.links = slices.DeleteFunc(o.links, func(l Link) bool { return l.Rel == SelfRel })
	if href != "" {
		o.links = append(o.links, Link{Rel: SelfRel, Href: href})
	}
}

// Asset returns the asset stored under key, if present.
func (o *Owner) Asset(key string) (*Asset, bool) {
	asset, ok := o.assets[key]
	return asset, ok
}

// SetAsset stores an asset under key, preserving insertion order for new keys.
func (o *Owner) SetAsset(key string, asset *Asset) {
	if _, ok := o.assets[key]; !ok {
		o.order = append(o.order, key)
	}
	o.assets[key] = asset
}

// DeleteAsset removes the asset stored under key.
func (o *Owner) DeleteAsset(key string) {
	if _, ok := o.assets[key]; !ok {
		return
	}
	delete(o.assets, key)
	o.order = slices.DeleteFunc(o.order, func(k string) bool { return k == key })
}

// AssetKeys returns the asset keys in insertion order.
func (o *Owner) AssetKeys() []string {
	return slices.Clone(o.order)
}

// Len returns the number of assets.
func (o *Owner) Len() int { return len(o.assets) }

// Clone returns a deep copy of the owner. Mutating the clone's links or
// assets never touches the original.
func (o *Owner) Clone() *Owner {
	clone := &Owner{
		id:      o.id,
		version: o.version,
		links:   slices.Clone(o.links),
		assets:  make(map[string]*Asset, len(o.assets)),
		order:   slices.Clone(o.order),
	}
	for key, asset := range o.assets {
		clone.assets[key] = asset.Clone()
	}
	return clone
}

// MakeLinkHrefsAbsolute resolves every link href against the owner's base
// href. Links that cannot be resolved are dropped, unless strict is set, in
// which case the first unresolvable link is an error. The self link is left
// untouched.
func (o *Owner) MakeLinkHrefsAbsolute(strict bool) error {
	links := make([]Link, 0, len(o.links))
	base := o.BaseHref()
	for _, link := range o.links {
		if link.Rel == SelfRel || IsAbsoluteHref(link.Href) {
			links = append(links, link)
			continue
		}
		href, err := MakeAbsoluteHref(link.Href, base)
		if err != nil {
			if strict {
				return errors.Wrapf(errors.ErrInvalidLink, "link rel=%s href=%s", link.Rel, link.Href)
			}
			logger.Debugf("dropping unresolvable link rel=%s href=%s", link.Rel, link.Href)
			continue
		}
		link.Href = href
		links = append(links, link)
	}
	o.links = links
	return nil
}

// MakeAssetHrefsAbsolute resolves every asset href against the owner's base
// href. A relative asset href with no base href is an error.
func (o *Owner) MakeAssetHrefsAbsolute() error {
	for _, key := range o.order {
		asset := o.assets[key]
		href, err := MakeAbsoluteHref(asset.Href, o.BaseHref())
		if err != nil {
			return errors.Wrapf(err, "asset %q", key)
		}
		asset.Href = href
	}
	return nil
}

// MakeAssetHrefsRelative rewrites local asset hrefs relative to the owner's
// base href where possible.
func (o *Owner) MakeAssetHrefsRelative() {
	base := o.BaseHref()
	for _, asset := range o.assets {
		asset.Href = MakeRelativeHref(asset.Href, base)
	}
}
