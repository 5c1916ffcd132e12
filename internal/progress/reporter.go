// Package progress renders download events as human-readable lines.
package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/cperrin88/assetfetch/pkg/backend"
	"github.com/cperrin88/assetfetch/pkg/download"
)

// Reporter consumes a batch's event stream and writes one line per
// lifecycle change. Chunk events are folded into a per-asset byte count
// reported on finish.
type Reporter struct {
	w       io.Writer
	mu      sync.Mutex
	written map[string]int64
	totals  map[string]int64
	done    chan struct{}
}

// NewReporter creates a reporter writing to w.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{
		w:       w,
		written: make(map[string]int64),
		totals:  make(map[string]int64),
		done:    make(chan struct{}),
	}
}

// Run consumes events until the channel is closed. Call Wait after the
// producer is finished and the channel closed.
func (r *Reporter) Run(events <-chan download.Event) {
	go func() {
		defer close(r.done)
		for ev := range events {
			r.handle(ev)
		}
	}()
}

// Wait blocks until the event stream has been fully drained.
func (r *Reporter) Wait() {
	<-r.done
}

func (r *Reporter) handle(ev download.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch ev.Type {
	case download.EventStart:
		fmt.Fprintf(r.w, "downloading %s (%s)\n", ev.Key, ev.Href)
	case download.EventOpen:
		if ev.Size != backend.SizeUnknown {
			r.totals[ev.Key] = ev.Size
		}
	case download.EventWriteChunk:
		r.written[ev.Key] += ev.Size
	case download.EventSkip:
		fmt.Fprintf(r.w, "skipping %s: %s exists\n", ev.Key, ev.Path)
	case download.EventError:
		fmt.Fprintf(r.w, "failed %s: %v\n", ev.Key, ev.Err)
	case download.EventFinish:
		if total, ok := r.totals[ev.Key]; ok {
			fmt.Fprintf(r.w, "finished %s (%s)\n", ev.Key, formatBytes(total))
		} else {
			fmt.Fprintf(r.w, "finished %s (%s written)\n", ev.Key, formatBytes(r.written[ev.Key]))
		}
	}
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
