package backend

import (
	"context"
	"io"
	"net/url"
	"os"

	"github.com/cperrin88/assetfetch/pkg/errors"
)

// filesystemBackend reads assets straight off the local filesystem. Mostly
// used for testing and for manifests that already point at local mirrors.
type filesystemBackend struct{}

func newFilesystemBackend(context.Context, Options) (Backend, error) {
	return &filesystemBackend{}, nil
}

func (b *filesystemBackend) Open(_ context.Context, href string, _ string) (io.ReadCloser, int64, error) {
	path, err := localPath(href)
	if err != nil {
		return nil, SizeUnknown, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, SizeUnknown, errors.Wrapf(err, "failed to open %s", path)
	}
	size := SizeUnknown
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}
	return f, size, nil
}

func (b *filesystemBackend) AssertExists(_ context.Context, href string) error {
	path, err := localPath(href)
	if err != nil {
		return err
	}
	_, err = os.Stat(path)
	return err
}

func (b *filesystemBackend) Close() error { return nil }

// localPath turns an href into a filesystem path, accepting bare paths and
// file:// urls but nothing else.
func localPath(href string) (string, error) {
	u, err := url.Parse(href)
	if err != nil {
		return "", errors.Wrapf(err, "invalid href %q", href)
	}
	switch u.Scheme {
	case "":
		return href, nil
	case "file":
		return u.Path, nil
	default:
		return "", errors.Wrapf(ErrUnsupportedScheme, "cannot read %q with the filesystem backend", href)
	}
}
