package download

// EventType identifies a progress event.
type EventType string

const (
	// EventStart fires when an asset's transfer begins.
	EventStart EventType = "start"

	// EventOpen fires once the backend has opened the source. Size carries
	// the total byte count, or backend.SizeUnknown.
	EventOpen EventType = "open"

	// EventWriteChunk fires after a chunk is written. Size carries the
	// chunk's byte count. Chunk events are dropped when the receiver lags.
	EventWriteChunk EventType = "write_chunk"

	// EventSkip fires when an existing destination is left in place.
	EventSkip EventType = "skip"

	// EventError fires when an asset's transfer fails. Err carries the
	// failure.
	EventError EventType = "error"

	// EventFinish fires when an asset has been fully written.
	EventFinish EventType = "finish"
)

// Event is a single progress message for one asset of a batch.
type Event struct {
	Type    EventType
	OwnerID string
	Key     string
	Href    string
	Path    string
	Size    int64
	Err     error
}

// notify delivers lifecycle events. It blocks until the receiver is ready
// and is a no-op when no channel was supplied.
func notify(ch chan<- Event, ev Event) {
	if ch == nil {
		return
	}
	ch <- ev
}

// notifyChunk delivers high-frequency chunk events. A slow receiver loses
// chunks instead of stalling the transfer.
func notifyChunk(ch chan<- Event, ev Event) {
	if ch == nil {
		return
	}
	select {
	case ch <- ev:
	default:
	}
}
