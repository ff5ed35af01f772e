package fetcher

// EventKind identifies a progress notification.
type EventKind int

const (
	EventStart EventKind = iota
	EventSkip
	EventDownload
	EventDone
	EventFailed
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventSkip:
		return "skip"
	case EventDownload:
		return "download"
	case EventDone:
		return "done"
	case EventFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event is emitted to a Reporter as each identifier progresses.
type Event struct {
	Kind  EventKind
	Input string
	ID    string
	URL   string
	Path  string
	Bytes int64
	Err   error
}

// Reporter receives progress events. Calls happen on the goroutine running the
// fetcher, in order.
type Reporter interface {
	Report(Event)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(Event)

func (f ReporterFunc) Report(e Event) { f(e) }

type nopReporter struct{}

func (nopReporter) Report(Event) {}
