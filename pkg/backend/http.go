package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cperrin88/assetfetch/pkg/errors"
)

// httpBackend is the generic HTTP(S) backend. It does no authentication of
// its own; the bearer, oauth and signing backends all layer on top of it.
type httpBackend struct {
	client           *http.Client
	headers          map[string]string
	userAgent        string
	checkContentType bool
}

func newHTTPBackend(_ context.Context, opts Options) (Backend, error) {
	opts = opts.withDefaults()
	return newHTTPBackendWithClient(timeoutClient(opts.HTTPTimeout), opts), nil
}

func newHTTPBackendWithClient(client *http.Client, opts Options) *httpBackend {
	return &httpBackend{
		client:           client,
		headers:          opts.HTTPHeaders,
		userAgent:        opts.UserAgent,
		checkContentType: opts.CheckContentType,
	}
}

func (b *httpBackend) Open(ctx context.Context, href string, mediaType string) (io.ReadCloser, int64, error) {
	resp, err := b.do(ctx, http.MethodGet, href)
	if err != nil {
		return nil, SizeUnknown, err
	}
	if b.checkContentType && mediaType != "" {
		if err := CheckContentType(resp.Header.Get("Content-Type"), mediaType); err != nil {
			_ = resp.Body.Close()
			return nil, SizeUnknown, err
		}
	}
	return resp.Body, resp.ContentLength, nil
}

func (b *httpBackend) AssertExists(ctx context.Context, href string) error {
	resp, err := b.do(ctx, http.MethodHead, href)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

func (b *httpBackend) Close() error {
	b.client.CloseIdleConnections()
	return nil
}

// do issues a request and fails on any non-2xx status.
func (b *httpBackend) do(ctx context.Context, method, href string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, href, http.NoBody)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", b.userAgent)
	for key, value := range b.headers {
		req.Header.Set(key, value)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "request failed")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: %d for %s", ErrUnexpectedStatus, resp.StatusCode, href)
	}
	return resp, nil
}

// timeoutClient builds the http.Client shared by the HTTP-derived backends.
func timeoutClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
