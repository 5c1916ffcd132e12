//go:generate mockgen -destination=mocks/backend.go -package=mocks . Backend

// Package backend implements the pluggable transports that open bytes from a
// href. A backend is selected per href by scheme and host, constructed lazily,
// and shared by every concurrent download of a batch.
package backend

import (
	"context"
	"io"
)

// SizeUnknown is reported by Open when the backend cannot determine the
// content length up front.
const SizeUnknown int64 = -1

// Backend opens hrefs of one particular kind and produces byte streams.
// Implementations must be safe for concurrent use; a single instance is
// shared by all downloads of a batch.
type Backend interface {
	// Open opens the href and returns a stream over its bytes along with the
	// content size, or SizeUnknown. If mediaType is non-empty the backend may
	// verify it against the server-reported content type.
	Open(ctx context.Context, href string, mediaType string) (io.ReadCloser, int64, error)

	// AssertExists returns an error if the href does not exist. It must not
	// transfer the href's content.
	AssertExists(ctx context.Context, href string) error

	// Close releases any resources held by the backend. A backend is closed
	// exactly once, at batch teardown.
	Close() error
}
