package download

import (
	"fmt"
	"strings"
)

// OverwriteError is raised during planning when two in-scope assets resolve
// to the same destination file name. It lists every colliding name and is
// always raised before any network I/O happens.
type OverwriteError struct {
	Names []string
}

func (e *OverwriteError) Error() string {
	return fmt.Sprintf("assets resolve to the same file names and would overwrite each other: %s", strings.Join(e.Names, ", "))
}

// AssetError wraps a failure to download a single asset, carrying enough
// context to identify it in an aggregate report.
type AssetError struct {
	Key  string
	Href string
	Path string
	Err  error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("asset %q (%s -> %s): %v", e.Key, e.Href, e.Path, e.Err)
}

func (e *AssetError) Unwrap() error {
	return e.Err
}
