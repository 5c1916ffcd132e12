package backend

import (
	"context"
	"maps"
	"os"

	"github.com/cperrin88/assetfetch/pkg/errors"
)

// newBearerBackend wraps the generic HTTP backend with a bearer token taken
// from the options or, failing that, from the configured environment
// variable. Construction fails when no token can be found, so a misconfigured
// batch dies before any download starts.
func newBearerBackend(_ context.Context, opts Options) (Backend, error) {
	opts = opts.withDefaults()

	token := opts.BearerToken
	if token == "" {
		token = os.Getenv(opts.BearerTokenEnv)
	}
	if token == "" {
		return nil, errors.Wrapf(ErrMissingCredentials, "no bearer token provided and %s is not set", opts.BearerTokenEnv)
	}

	headers := maps.Clone(opts.HTTPHeaders)
	if headers == nil {
		headers = make(map[string]string, 1)
	}
	headers["Authorization"] = "Bearer " + token
	opts.HTTPHeaders = headers
	return newHTTPBackendWithClient(timeoutClient(opts.HTTPTimeout), opts), nil
}
