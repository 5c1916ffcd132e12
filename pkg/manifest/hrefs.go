package manifest

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/cperrin88/assetfetch/pkg/errors"
)

// IsAbsoluteHref reports whether href is absolute, either as a URL with a
// scheme and host or as an absolute filesystem path.
func IsAbsoluteHref(href string) bool {
	if filepath.IsAbs(href) {
		return true
	}
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	return u.Scheme != ""
}

// MakeAbsoluteHref resolves href against base. Absolute hrefs are returned
// unchanged. A relative href with an empty base is an error.
func MakeAbsoluteHref(href, base string) (string, error) {
	if IsAbsoluteHref(href) {
		return href, nil
	}
	if base == "" {
		return "", errors.Wrapf(errors.ErrNoBaseHref, "relative href %q", href)
	}

	baseURL, err := url.Parse(base)
	if err == nil && baseURL.Scheme != "" {
		ref, err := url.Parse(href)
		if err != nil {
			return "", errors.Wrapf(err, "invalid href %q", href)
		}
		return baseURL.ResolveReference(ref).String(), nil
	}

	// Base is a filesystem path; resolve relative to its directory.
	return filepath.Clean(filepath.Join(filepath.Dir(base), filepath.FromSlash(href))), nil
}

// MakeRelativeHref rewrites href relative to the directory of base when both
// point into the filesystem and href lives under that directory. Hrefs that
// cannot be made relative are returned unchanged.
func MakeRelativeHref(href, base string) string {
	if base == "" || !filepath.IsAbs(href) {
		return href
	}
	rel, err := filepath.Rel(filepath.Dir(base), href)
	if err != nil || strings.HasPrefix(rel, "..") {
		return href
	}
	return "./" + filepath.ToSlash(rel)
}

// HrefFileName returns the base file name of an href's path component.
func HrefFileName(href string) string {
	u, err := url.Parse(href)
	if err != nil || u.Scheme == "" {
		return filepath.Base(filepath.FromSlash(href))
	}
	return path.Base(u.Path)
}

// HrefExt returns the file extension of an href's path component, including
// the leading dot.
func HrefExt(href string) string {
	return path.Ext(HrefFileName(href))
}
