package eventscrape

import (
	"context"
	"log"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// PipelineConfig holds every knob of one scrape run.
type PipelineConfig struct {
	// Delay is the pause after each page-level extraction.
	Delay time.Duration
	// FetchTimeout bounds each page fetch.
	FetchTimeout time.Duration
	// Extractor carries the field-extraction tuning knobs.
	Extractor ExtractorConfig
	// Dedup controls the aggregate dedup stage.
	Dedup DedupPolicy
}

// DefaultPipelineConfig returns the defaults: one second between requests
// and the standard fetch timeout.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Delay:        time.Second,
		FetchTimeout: DefaultFetchTimeout,
		Extractor:    DefaultExtractorConfig(),
	}
}

// Pipeline walks seed URLs and turns the event pages behind them into
// Events. Execution is strictly sequential: one fetch at a time, paced by
// the configured delay. All dedup state is scoped to a single Run call, so
// repeated or concurrent runs never interfere.
type Pipeline struct {
	cfg       PipelineConfig
	fetcher   *Fetcher
	extractor *Extractor
	router    *Router
	bus       *ProgressBus
}

// NewPipeline creates a pipeline. A nil router means the built-in rules; a
// nil bus means no progress notifications.
func NewPipeline(cfg PipelineConfig, router *Router, bus *ProgressBus) *Pipeline {
	if router == nil {
		router = NewRouter()
	}
	return &Pipeline{
		cfg:       cfg,
		fetcher:   NewFetcher(cfg.FetchTimeout),
		extractor: NewExtractor(cfg.Extractor),
		router:    router,
		bus:       bus,
	}
}

// Run scrapes every seed URL in order and returns the deduplicated
// aggregate. A failed fetch anywhere contributes zero events and never
// aborts the run. Cancelling the context stops the run between pages; the
// events gathered so far come back along with ctx.Err().
func (p *Pipeline) Run(ctx context.Context, seeds []string) ([]Event, error) {
	runID := uuid.New()
	p.bus.emit(Progress{Kind: ProgressRunStarted, RunID: runID, Count: len(seeds)})

	results := make([]Event, 0)
	for _, seed := range seeds {
		if err := ctx.Err(); err != nil {
			return p.finish(runID, results, err)
		}
		listing, err := p.scrapeListing(ctx, runID, seed)
		results = append(results, listing...)
		if err != nil {
			return p.finish(runID, results, err)
		}
	}

	return p.finish(runID, results, nil)
}

// finish applies the aggregate dedup stage and emits the closing
// notification.
func (p *Pipeline) finish(runID uuid.UUID, results []Event, err error) ([]Event, error) {
	unique := DedupAggregate(results, p.cfg.Dedup)
	done := Progress{Kind: ProgressRunFinished, RunID: runID, Count: len(unique)}
	if err != nil {
		done.Message = err.Error()
	}
	p.bus.emit(done)
	return unique, err
}

// scrapeListing handles one seed: route it, fetch the listing page,
// discover event links, and extract each linked page. The returned slice is
// already deduplicated by URL. The only error it returns is context
// cancellation.
func (p *Pipeline) scrapeListing(ctx context.Context, runID uuid.UUID, seed string) ([]Event, error) {
	strategy := p.router.Route(seed)
	p.bus.emit(Progress{Kind: ProgressSeedRouted, RunID: runID, URL: seed, Source: strategy.Label})

	doc, err := p.fetcher.FetchHTML(seed)
	if err != nil {
		log.Printf("WARN: Failed to fetch listing %s: %v", seed, err)
		p.bus.emit(Progress{Kind: ProgressFetchSkipped, RunID: runID, URL: seed, Message: err.Error()})
		return nil, nil
	}

	base, err := url.Parse(seed)
	if err != nil {
		log.Printf("WARN: Unusable seed URL %s: %v", seed, err)
		return nil, nil
	}

	events := make([]Event, 0)
	for _, link := range DiscoverLinks(doc, base, strategy.Match) {
		if err := ctx.Err(); err != nil {
			return DedupByURL(events), err
		}
		if ev, ok := p.scrapePage(runID, link, strategy.Label); ok {
			events = append(events, ev)
		}
		if err := p.pause(ctx); err != nil {
			return DedupByURL(events), err
		}
	}

	if strategy.Feeds {
		events = append(events, p.ingestFeeds(runID, doc, base, strategy.Label)...)
	}

	return DedupByURL(events), nil
}

// scrapePage fetches one discovered link and extracts a candidate Event. A
// fetch failure yields no event and never raises.
func (p *Pipeline) scrapePage(runID uuid.UUID, link, source string) (Event, bool) {
	doc, err := p.fetcher.FetchHTML(link)
	if err != nil {
		log.Printf("WARN: Failed to fetch %s: %v", link, err)
		p.bus.emit(Progress{Kind: ProgressFetchSkipped, RunID: runID, URL: link, Message: err.Error()})
		return Event{}, false
	}

	ev := p.extractor.Extract(doc, link, source)
	p.bus.emit(Progress{Kind: ProgressPageScraped, RunID: runID, URL: link, Source: source})
	return ev, true
}

// pause waits out the inter-request delay, ending early if the context
// does.
func (p *Pipeline) pause(ctx context.Context) error {
	if p.cfg.Delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(p.cfg.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
