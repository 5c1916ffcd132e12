package backend

import (
	"maps"
	"slices"
	"time"
)

// Default backend tuning values.
const (
	DefaultHTTPTimeout   = 5 * time.Minute
	DefaultUserAgent     = "assetfetch/0.1.0"
	DefaultS3Region      = "us-west-2"
	DefaultS3RetryMode   = "adaptive"
	DefaultS3MaxAttempts = 10

	// DefaultBearerTokenEnv is the environment variable the bearer backend
	// reads its token from when the options don't carry one.
	DefaultBearerTokenEnv = "ASSETFETCH_BEARER_TOKEN"
)

// DefaultSignedHostSuffixes are host suffixes served out of signed blob
// storage, handled by the URL-signing backend.
var DefaultSignedHostSuffixes = []string{".blob.core.windows.net"}

// Options carries the per-backend tuning of a batch: timeouts, retry counts,
// credentials and host patterns. Treated as an immutable value once a batch
// starts; use Copy for derived configurations.
type Options struct {
	// Override forces a backend kind for every href instead of classifying
	// by scheme and host.
	Override string `yaml:"override,omitempty" validate:"omitempty,oneof=filesystem http s3 signed-http bearer-http oauth-http"`

	// HTTP settings, shared by every HTTP-derived backend.
	HTTPTimeout      time.Duration     `yaml:"http_timeout,omitempty"`
	HTTPHeaders      map[string]string `yaml:"http_headers,omitempty"`
	UserAgent        string            `yaml:"user_agent,omitempty"`
	CheckContentType bool              `yaml:"check_content_type"`

	// S3 settings.
	S3Region        string `yaml:"s3_region,omitempty"`
	S3RetryMode     string `yaml:"s3_retry_mode,omitempty" validate:"omitempty,oneof=standard adaptive"`
	S3MaxAttempts   int    `yaml:"s3_max_attempts,omitempty" validate:"omitempty,min=1"`
	S3RequesterPays bool   `yaml:"s3_requester_pays"`

	// URL-signing settings.
	SignedHostSuffixes []string `yaml:"signed_host_suffixes,omitempty"`
	SigningEndpoint    string   `yaml:"signing_endpoint,omitempty"`

	// Bearer-token settings. The token itself is never read from the config
	// file; it comes from BearerTokenEnv.
	BearerToken        string   `yaml:"-"`
	BearerTokenEnv     string   `yaml:"bearer_token_env,omitempty"`
	BearerHostSuffixes []string `yaml:"bearer_host_suffixes,omitempty"`

	// OAuth2 client-credentials settings.
	OAuthClientID     string   `yaml:"oauth_client_id,omitempty"`
	OAuthClientSecret string   `yaml:"-"`
	OAuthTokenURL     string   `yaml:"oauth_token_url,omitempty"`
	OAuthScopes       []string `yaml:"oauth_scopes,omitempty"`
	OAuthHostSuffixes []string `yaml:"oauth_host_suffixes,omitempty"`
}

// DefaultOptions returns backend options with sane defaults applied.
func DefaultOptions() Options {
	return Options{
		HTTPTimeout:        DefaultHTTPTimeout,
		UserAgent:          DefaultUserAgent,
		CheckContentType:   true,
		S3Region:           DefaultS3Region,
		S3RetryMode:        DefaultS3RetryMode,
		S3MaxAttempts:      DefaultS3MaxAttempts,
		SignedHostSuffixes: slices.Clone(DefaultSignedHostSuffixes),
		BearerTokenEnv:     DefaultBearerTokenEnv,
	}
}

// Copy returns a deep copy of the options, so derived configurations never
// share mutable state across concurrent tasks.
func (o Options) Copy() Options {
	out := o
	out.HTTPHeaders = maps.Clone(o.HTTPHeaders)
	out.SignedHostSuffixes = slices.Clone(o.SignedHostSuffixes)
	out.BearerHostSuffixes = slices.Clone(o.BearerHostSuffixes)
	out.OAuthScopes = slices.Clone(o.OAuthScopes)
	out.OAuthHostSuffixes = slices.Clone(o.OAuthHostSuffixes)
	return out
}

// withDefaults fills in zero values so backend constructors don't have to.
func (o Options) withDefaults() Options {
	out := o.Copy()
	if out.HTTPTimeout <= 0 {
		out.HTTPTimeout = DefaultHTTPTimeout
	}
	if out.UserAgent == "" {
		out.UserAgent = DefaultUserAgent
	}
	if out.S3Region == "" {
		out.S3Region = DefaultS3Region
	}
	if out.S3RetryMode == "" {
		out.S3RetryMode = DefaultS3RetryMode
	}
	if out.S3MaxAttempts <= 0 {
		out.S3MaxAttempts = DefaultS3MaxAttempts
	}
	if len(out.SignedHostSuffixes) == 0 {
		out.SignedHostSuffixes = slices.Clone(DefaultSignedHostSuffixes)
	}
	if out.BearerTokenEnv == "" {
		out.BearerTokenEnv = DefaultBearerTokenEnv
	}
	return out
}
