// Package download orchestrates batch asset transfers: planning which assets
// to fetch, streaming them through scheme-matched backends under a
// concurrency bound, and rewriting the owner record to point at the local
// copies.
package download

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/semaphore"

	"github.com/cperrin88/assetfetch/internal/logger"
	"github.com/cperrin88/assetfetch/pkg/backend"
	"github.com/cperrin88/assetfetch/pkg/errors"
	"github.com/cperrin88/assetfetch/pkg/fsutil"
	"github.com/cperrin88/assetfetch/pkg/manifest"
)

// chunkSize is the copy buffer size for streaming transfers.
const chunkSize = 32 * 1024

// Manager coordinates batch downloads. Construct with New, or populate the
// fields directly to inject a custom provider.
type Manager struct {
	Config   Config
	Backends BackendProvider
}

// New creates a manager backed by a memoizing backend registry.
func New(cfg Config) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Manager{
		Config:   cfg,
		Backends: backend.NewRegistry(cfg.Backends),
	}, nil
}

// Close releases every backend the manager opened.
func (m *Manager) Close() error {
	return m.Backends.CloseAll()
}

// DownloadOwner downloads every in-scope asset of owner into root and
// returns the owner with asset hrefs rewritten to the local copies. Progress
// events are delivered on events when it is non-nil; the caller must drain
// the channel, which the manager never closes. Failed assets are handled
// according to the configured error policy; under fail-fast the first
// failure cancels the rest of the batch.
func (m *Manager) DownloadOwner(ctx context.Context, owner *manifest.Owner, root string, events chan<- Event) (*manifest.Owner, error) {
	cfg := m.Config
	downloads, err := Resolve(owner, root, cfg)
	if err != nil {
		return nil, err
	}

	batch := uuid.NewString()
	logger.Debugf("starting batch %s: owner=%s assets=%d root=%s", batch, owner.ID(), len(downloads), root)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := semaphore.NewWeighted(int64(cfg.MaxConcurrent))
	results := make([]result, len(downloads))
	done := make(chan int, len(downloads))
	for i, dl := range downloads {
		go func(i int, dl ResolvedDownload) {
			results[i] = m.downloadOne(ctx, dl, sem, events)
			if results[i].err != nil && cfg.FailFast {
				cancel()
			}
			done <- i
		}(i, dl)
	}
	for range downloads {
		<-done
	}

	if cfg.FailFast {
		if err := firstRealError(results); err != nil {
			return nil, err
		}
	}

	var agg *multierror.Error
	skipped := 0
	for _, res := range results {
		if res.skipped {
			skipped++
		}
		if res.err != nil {
			switch cfg.ErrorPolicy {
			case ErrorPolicyWarnAndKeep:
				logger.WarnfWithFields(logger.Fields{"asset": res.download.Key, "href": res.download.Href},
					"keeping failed asset: %v", res.err.Err)
			case ErrorPolicyWarnAndDelete:
				logger.WarnfWithFields(logger.Fields{"asset": res.download.Key, "href": res.download.Href},
					"removing failed asset: %v", res.err.Err)
				owner.DeleteAsset(res.download.Key)
			default:
				agg = multierror.Append(agg, res.err)
			}
			continue
		}
		localize(res.download)
	}
	if err := agg.ErrorOrNil(); err != nil {
		return nil, err
	}

	if cfg.OwnerFileName != "" {
		if err := m.saveOwner(owner, root); err != nil {
			return nil, err
		}
	}
	logger.Debugf("finished batch %s: owner=%s downloaded=%d skipped=%d", batch, owner.ID(), len(results)-skipped, skipped)
	return owner, nil
}

// DownloadOwner is a convenience wrapper that runs a single batch with a
// throwaway manager.
func DownloadOwner(ctx context.Context, owner *manifest.Owner, root string, cfg Config, events chan<- Event) (*manifest.Owner, error) {
	m, err := New(cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = m.Close() }()
	return m.DownloadOwner(ctx, owner, root, events)
}

// AssetExists probes whether the asset stored under key can be reached
// without downloading it. Probe failures report false; only resolution and
// backend-selection problems are errors.
func (m *Manager) AssetExists(ctx context.Context, owner *manifest.Owner, key string) (bool, error) {
	asset, ok := owner.Asset(key)
	if !ok {
		return false, errors.Wrapf(errors.ErrDownloadFailed, "owner %s has no asset %q", owner.ID(), key)
	}
	href, err := resolveAssetHref(asset, owner.BaseHref(), m.Config.Alternates)
	if err != nil {
		return false, err
	}
	be, err := m.Backends.Get(ctx, href)
	if err != nil {
		return false, err
	}
	if err := be.AssertExists(ctx, href); err != nil {
		logger.Debugf("asset %q not reachable at %s: %v", key, href, err)
		return false, nil
	}
	return true, nil
}

// result is the settled outcome of one planned transfer.
type result struct {
	download ResolvedDownload
	skipped  bool
	err      *AssetError
}

// downloadOne runs the full life cycle of a single asset: the skip check,
// the concurrency gate, directory preparation, streaming, and cleanup.
func (m *Manager) downloadOne(ctx context.Context, dl ResolvedDownload, sem *semaphore.Weighted, events chan<- Event) result {
	base := Event{OwnerID: dl.Owner.ID(), Key: dl.Key, Href: dl.Href, Path: dl.Path}

	if !m.Config.Overwrite && fsutil.FileExists(dl.Path) {
		ev := base
		ev.Type = EventSkip
		notify(events, ev)
		return result{download: dl, skipped: true}
	}

	if err := sem.Acquire(ctx, 1); err != nil {
		return result{download: dl, err: &AssetError{Key: dl.Key, Href: dl.Href, Path: dl.Path, Err: err}}
	}
	defer sem.Release(1)

	fail := func(err error) result {
		ev := base
		ev.Type = EventError
		ev.Err = err
		notify(events, ev)
		return result{download: dl, err: &AssetError{Key: dl.Key, Href: dl.Href, Path: dl.Path, Err: err}}
	}

	be, err := m.Backends.Get(ctx, dl.Href)
	if err != nil {
		return fail(err)
	}

	ev := base
	ev.Type = EventStart
	notify(events, ev)

	if err := m.ensureDestinationDir(dl.Path); err != nil {
		return fail(err)
	}

	if err := m.stream(ctx, be, dl, base, events); err != nil {
		if m.Config.CleanOnError {
			if rmErr := os.Remove(dl.Path); rmErr != nil && !os.IsNotExist(rmErr) {
				logger.Debugf("could not remove partial file %s: %v", dl.Path, rmErr)
			}
		}
		return fail(err)
	}

	ev = base
	ev.Type = EventFinish
	notify(events, ev)
	return result{download: dl}
}

// stream copies the asset body to its destination file chunk by chunk,
// checking for cancellation between chunks.
func (m *Manager) stream(ctx context.Context, be backend.Backend, dl ResolvedDownload, base Event, events chan<- Event) error {
	body, size, err := be.Open(ctx, dl.Href, dl.Asset.MediaType)
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }()

	ev := base
	ev.Type = EventOpen
	ev.Size = size
	notify(events, ev)

	f, err := os.OpenFile(dl.Path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fsutil.FileModeDefault)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", dl.Path)
	}

	buf := make([]byte, chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			_ = f.Close()
			return err
		}
		n, readErr := body.Read(buf)
		if n > 0 {
			if _, writeErr := f.Write(buf[:n]); writeErr != nil {
				_ = f.Close()
				return errors.Wrapf(writeErr, "failed to write %s", dl.Path)
			}
			chunk := base
			chunk.Type = EventWriteChunk
			chunk.Size = int64(n)
			notifyChunk(events, chunk)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			_ = f.Close()
			return readErr
		}
	}
	return f.Close()
}

// ensureDestinationDir makes sure the destination's parent directory exists,
// creating it only when the config allows.
func (m *Manager) ensureDestinationDir(path string) error {
	dir := filepath.Dir(path)
	if fsutil.DirExists(dir) {
		return nil
	}
	if !m.Config.MakeDirectory {
		return errors.Wrapf(errors.ErrDirectoryMissing, "%s", dir)
	}
	return fsutil.EnsureDir(dir)
}

// localize rewrites a successfully downloaded asset to point at its local
// copy, remembering where it came from.
func localize(dl ResolvedDownload) {
	if dl.Asset.Href != dl.Path {
		dl.Asset.OriginalHref = dl.Href
	}
	dl.Asset.Href = dl.Path
}

// firstRealError returns the first asset failure that is not a cancellation
// echo of an earlier one.
func firstRealError(results []result) error {
	var firstCanceled *AssetError
	for _, res := range results {
		if res.err == nil {
			continue
		}
		if stderrors.Is(res.err.Err, context.Canceled) {
			if firstCanceled == nil {
				firstCanceled = res.err
			}
			continue
		}
		return res.err
	}
	if firstCanceled != nil {
		return firstCanceled
	}
	return nil
}

// saveOwner writes the rewritten owner document into the destination root
// with asset hrefs made relative to it. Only the saved document is
// relativized; the in-memory owner keeps its absolute local hrefs.
func (m *Manager) saveOwner(owner *manifest.Owner, root string) error {
	path := filepath.Join(root, m.Config.OwnerFileName)
	saved := owner.Clone()
	saved.SetBaseHref(path)
	saved.MakeAssetHrefsRelative()
	return saved.WriteFile(path)
}
