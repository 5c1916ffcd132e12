package download

//go:generate mockgen -destination=mocks/download.go -package=mocks . BackendProvider

import (
	"context"

	"github.com/cperrin88/assetfetch/pkg/backend"
)

// BackendProvider hands out backends for hrefs. backend.Registry is the
// production implementation.
type BackendProvider interface {
	// Get returns the backend responsible for href.
	Get(ctx context.Context, href string) (backend.Backend, error)

	// CloseAll releases every backend handed out so far.
	CloseAll() error
}
