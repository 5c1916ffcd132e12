package backend

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/cperrin88/assetfetch/pkg/errors"
)

// newOAuthBackend wraps the generic HTTP backend with an OAuth2
// client-credentials grant. Token acquisition and refresh are handled by the
// oauth2 transport; the rest of the download path is the plain HTTP backend.
func newOAuthBackend(ctx context.Context, opts Options) (Backend, error) {
	opts = opts.withDefaults()

	if opts.OAuthTokenURL == "" || opts.OAuthClientID == "" || opts.OAuthClientSecret == "" {
		return nil, errors.Wrap(ErrMissingCredentials, "oauth backend requires token url, client id and client secret")
	}

	conf := &clientcredentials.Config{
		ClientID:     opts.OAuthClientID,
		ClientSecret: opts.OAuthClientSecret,
		TokenURL:     opts.OAuthTokenURL,
		Scopes:       opts.OAuthScopes,
	}

	// Token exchange and asset requests share the configured timeout.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, timeoutClient(opts.HTTPTimeout))
	return newHTTPBackendWithClient(conf.Client(ctx), opts), nil
}
