package backend

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"

	"github.com/cperrin88/assetfetch/pkg/errors"
)

// Kind identifies one backend variant.
type Kind string

const (
	KindFilesystem Kind = "filesystem"
	KindHTTP       Kind = "http"
	KindS3         Kind = "s3"
	KindSigned     Kind = "signed-http"
	KindBearer     Kind = "bearer-http"
	KindOAuth      Kind = "oauth-http"
)

// constructors is the closed table of backend kinds. Adding a variant means
// adding a row here; there is no runtime discovery.
var constructors = map[Kind]func(ctx context.Context, opts Options) (Backend, error){
	KindFilesystem: newFilesystemBackend,
	KindHTTP:       newHTTPBackend,
	KindS3:         newS3Backend,
	KindSigned:     newSignedBackend,
	KindBearer:     newBearerBackend,
	KindOAuth:      newOAuthBackend,
}

// ResolveKind classifies an href into the backend kind that will serve it.
// It is a pure function, usable on its own for diagnostics.
func ResolveKind(href string, opts Options) (Kind, error) {
	if opts.Override != "" {
		kind := Kind(opts.Override)
		if _, ok := constructors[kind]; !ok {
			return "", errors.Wrapf(ErrUnknownKind, "override %q", opts.Override)
		}
		return kind, nil
	}

	u, err := url.Parse(href)
	if err != nil {
		return "", errors.Wrapf(ErrNoBackend, "invalid href %q", href)
	}
	opts = opts.withDefaults()

	switch {
	case u.Host == "":
		return KindFilesystem, nil
	case u.Scheme == "s3":
		return KindS3, nil
	case hostMatches(u.Host, opts.SignedHostSuffixes):
		return KindSigned, nil
	case u.Scheme == "http" || u.Scheme == "https":
		if hostMatches(u.Host, opts.BearerHostSuffixes) {
			return KindBearer, nil
		}
		if hostMatches(u.Host, opts.OAuthHostSuffixes) {
			return KindOAuth, nil
		}
		return KindHTTP, nil
	default:
		return "", errors.Wrapf(ErrNoBackend, "href %q", href)
	}
}

func hostMatches(host string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(host, suffix) {
			return true
		}
	}
	return false
}

// Registry hands out memoized backend instances keyed by kind. Construction
// happens lazily under a lock, so parallel downloads racing for the same kind
// never build two instances. Backends live until CloseAll.
type Registry struct {
	mu       sync.Mutex
	opts     Options
	backends map[Kind]Backend
}

// NewRegistry creates a registry for one batch.
func NewRegistry(opts Options) *Registry {
	return &Registry{
		opts:     opts.withDefaults(),
		backends: make(map[Kind]Backend),
	}
}

// Get returns the backend serving href, constructing it on first use.
// Construction may itself block, e.g. to perform a login.
func (r *Registry) Get(ctx context.Context, href string) (Backend, error) {
	kind, err := ResolveKind(href, r.opts)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if be, ok := r.backends[kind]; ok {
		return be, nil
	}
	construct, ok := constructors[kind]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownKind, "%s", kind)
	}
	be, err := construct(ctx, r.opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to construct %s backend", kind)
	}
	r.backends[kind] = be
	return be, nil
}

// CloseAll closes every constructed backend. An error closing one does not
// prevent closing the rest; all close errors are collected.
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result *multierror.Error
	for kind, be := range r.backends {
		if err := be.Close(); err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "failed to close %s backend", kind))
		}
		delete(r.backends, kind)
	}
	return result.ErrorOrNil()
}
