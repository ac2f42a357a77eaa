package eventscrape

import "github.com/google/uuid"

// ProgressKind tags a pipeline notification.
type ProgressKind string

const (
	ProgressRunStarted   ProgressKind = "run_started"
	ProgressSeedRouted   ProgressKind = "seed_routed"
	ProgressPageScraped  ProgressKind = "page_scraped"
	ProgressFetchSkipped ProgressKind = "fetch_skipped"
	ProgressFeedIngested ProgressKind = "feed_ingested"
	ProgressRunFinished  ProgressKind = "run_finished"
)

// Progress is one pipeline notification. Front ends consume these off the
// bus instead of reaching into the pipeline, so the extraction core stays
// decoupled from whatever surface is driving it.
type Progress struct {
	Kind    ProgressKind
	RunID   uuid.UUID
	URL     string
	Source  string
	Message string
	Count   int
}

// ProgressBus carries pipeline notifications to a listening front end.
type ProgressBus struct {
	ch chan Progress
}

// NewProgressBus creates a bus with the given buffer.
func NewProgressBus(buffer int) *ProgressBus {
	return &ProgressBus{ch: make(chan Progress, buffer)}
}

// Channel returns the receive side of the bus.
func (b *ProgressBus) Channel() <-chan Progress {
	return b.ch
}

// Close closes the bus. The pipeline's driver calls this once the run it
// subscribed to is over.
func (b *ProgressBus) Close() {
	close(b.ch)
}

// emit publishes without blocking: a slow or absent listener drops
// notifications rather than stalling the scrape.
func (b *ProgressBus) emit(p Progress) {
	if b == nil {
		return
	}
	select {
	case b.ch <- p:
	default:
	}
}
