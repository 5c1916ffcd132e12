package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerBackendRequiresToken(t *testing.T) {
	opts := DefaultOptions()
	opts.BearerTokenEnv = "ASSETFETCH_TEST_TOKEN_UNSET"

	_, err := newBearerBackend(context.Background(), opts)
	require.ErrorIs(t, err, ErrMissingCredentials)
}

func TestBearerBackendTokenFromOptions(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	opts := DefaultOptions()
	opts.BearerToken = "secret-token"
	be, err := newBearerBackend(context.Background(), opts)
	require.NoError(t, err)
	defer func() { _ = be.Close() }()

	body, _, err := be.Open(context.Background(), server.URL+"/data.tif", "")
	require.NoError(t, err)
	_ = body.Close()

	assert.Equal(t, "Bearer secret-token", gotAuth)
}

func TestBearerBackendTokenFromEnvironment(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	t.Setenv("ASSETFETCH_TEST_TOKEN", "env-token")
	opts := DefaultOptions()
	opts.BearerTokenEnv = "ASSETFETCH_TEST_TOKEN"
	be, err := newBearerBackend(context.Background(), opts)
	require.NoError(t, err)
	defer func() { _ = be.Close() }()

	body, _, err := be.Open(context.Background(), server.URL+"/data.tif", "")
	require.NoError(t, err)
	_ = body.Close()

	assert.Equal(t, "Bearer env-token", gotAuth)
}

func TestBearerBackendDoesNotMutateSharedHeaders(t *testing.T) {
	opts := DefaultOptions()
	opts.BearerToken = "secret"
	opts.HTTPHeaders = map[string]string{"X-Custom": "value"}

	_, err := newBearerBackend(context.Background(), opts)
	require.NoError(t, err)

	_, ok := opts.HTTPHeaders["Authorization"]
	assert.False(t, ok, "bearer backend must not mutate the caller's header map")
}
