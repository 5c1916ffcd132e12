package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cperrin88/assetfetch/pkg/errors"
)

// tokenRefreshWindow is how close to expiry a cached signing token may get
// before it is refreshed.
const tokenRefreshWindow = time.Minute

// signedBackend serves blob-storage hrefs that need a short-lived SAS-style
// signing token appended to the URL. Tokens are fetched from a signing
// endpoint, cached per account/container, and refreshed under a lock when
// near expiry. Everything after signing is the plain HTTP backend.
type signedBackend struct {
	http     *httpBackend
	endpoint string
	suffixes []string

	mu    sync.Mutex
	cache map[string]signingToken
}

type signingToken struct {
	Token  string    `json:"token"`
	Expiry time.Time `json:"msft:expiry"`
}

func (t signingToken) ttl() time.Duration {
	return time.Until(t.Expiry)
}

func newSignedBackend(_ context.Context, opts Options) (Backend, error) {
	opts = opts.withDefaults()
	if opts.SigningEndpoint == "" {
		return nil, errors.Wrap(ErrMissingCredentials, "signed backend requires a signing endpoint")
	}
	return &signedBackend{
		http:     newHTTPBackendWithClient(timeoutClient(opts.HTTPTimeout), opts),
		endpoint: strings.TrimRight(opts.SigningEndpoint, "/"),
		suffixes: opts.SignedHostSuffixes,
		cache:    make(map[string]signingToken),
	}, nil
}

func (b *signedBackend) Open(ctx context.Context, href string, mediaType string) (io.ReadCloser, int64, error) {
	signed, err := b.maybeSign(ctx, href)
	if err != nil {
		return nil, SizeUnknown, err
	}
	return b.http.Open(ctx, signed, mediaType)
}

func (b *signedBackend) AssertExists(ctx context.Context, href string) error {
	signed, err := b.maybeSign(ctx, href)
	if err != nil {
		return err
	}
	return b.http.AssertExists(ctx, signed)
}

func (b *signedBackend) Close() error {
	return b.http.Close()
}

// maybeSign appends a signing token to hrefs that need one. Hrefs outside the
// signed storage domains and hrefs that already carry SAS-like query
// parameters pass through untouched.
func (b *signedBackend) maybeSign(ctx context.Context, href string) (string, error) {
	u, err := url.Parse(href)
	if err != nil {
		return "", errors.Wrapf(err, "invalid href %q", href)
	}
	if !hostMatches(u.Host, b.suffixes) || alreadySigned(u) {
		return href, nil
	}

	account, container, err := splitBlobHref(u)
	if err != nil {
		return "", err
	}
	token, err := b.token(ctx, account, container)
	if err != nil {
		return "", err
	}

	unsigned := *u
	unsigned.RawQuery = ""
	return unsigned.String() + "?" + token, nil
}

func alreadySigned(u *url.URL) bool {
	query := u.Query()
	for _, param := range []string{"st", "se", "sp"} {
		if query.Has(param) {
			return true
		}
	}
	return false
}

// splitBlobHref extracts the storage account (first host label) and container
// (first path segment) from a blob-storage href.
func splitBlobHref(u *url.URL) (string, string, error) {
	account, _, ok := strings.Cut(u.Host, ".")
	if !ok || account == "" {
		return "", "", fmt.Errorf("cannot determine storage account from host %q", u.Host)
	}
	segments := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 2)
	if len(segments) < 2 || segments[0] == "" {
		return "", "", fmt.Errorf("cannot determine container from path %q", u.Path)
	}
	return account, segments[0], nil
}

// token returns a cached signing token for the account/container pair,
// fetching a fresh one when the cache misses or the token is near expiry.
// The lock covers the fetch so concurrent downloads don't stampede the
// signing endpoint.
func (b *signedBackend) token(ctx context.Context, account, container string) (string, error) {
	key := account + "/" + container

	b.mu.Lock()
	defer b.mu.Unlock()
	if token, ok := b.cache[key]; ok && token.ttl() > tokenRefreshWindow {
		return token.Token, nil
	}

	token, err := b.fetchToken(ctx, account, container)
	if err != nil {
		return "", err
	}
	b.cache[key] = token
	return token.Token, nil
}

func (b *signedBackend) fetchToken(ctx context.Context, account, container string) (signingToken, error) {
	endpoint := b.endpoint + "/" + account + "/" + container
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return signingToken{}, errors.Wrap(err, "failed to create token request")
	}

	resp, err := b.http.client.Do(req)
	if err != nil {
		return signingToken{}, errors.Wrap(err, "failed to fetch signing token")
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return signingToken{}, fmt.Errorf("%w: %d from signing endpoint %s", ErrUnexpectedStatus, resp.StatusCode, endpoint)
	}

	var token signingToken
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return signingToken{}, errors.Wrap(err, "failed to decode signing token")
	}
	if token.Token == "" {
		return signingToken{}, fmt.Errorf("signing endpoint %s returned an empty token", endpoint)
	}
	return token, nil
}
