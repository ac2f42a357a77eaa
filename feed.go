package eventscrape

import (
	"fmt"
	"log"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
)

// feedLinkSelector finds the RSS/Atom feeds a listing page declares about
// itself.
const feedLinkSelector = `link[type="application/rss+xml"], link[type="application/atom+xml"]`

// DiscoverFeeds returns the absolute URLs of alternate feeds declared in
// the page head, in document order.
func DiscoverFeeds(doc *goquery.Document, base *url.URL) []string {
	feeds := make([]string, 0)

	doc.Find(feedLinkSelector).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if href == "" {
			return
		}
		resolved, err := base.Parse(href)
		if err != nil || resolved.Host == "" {
			return
		}
		feeds = append(feeds, resolved.String())
	})

	return feeds
}

// FeedEvents fetches an RSS or Atom feed and maps its entries to Events.
// gofeed normalizes both formats, so one mapping covers them.
func FeedEvents(feedURL, source string) ([]Event, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = UserAgent
	feed, err := fp.ParseURL(feedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}
	return FeedToEvents(feed, source), nil
}

// FeedToEvents maps feed items onto Events. Entry dates that gofeed could
// not parse itself go through the same temporal parser the page heuristics
// use, so date and time always come from one instant.
func FeedToEvents(feed *gofeed.Feed, source string) []Event {
	events := make([]Event, 0, len(feed.Items))

	for _, item := range feed.Items {
		ev := Event{
			Title:       normalizeSpace(item.Title),
			Description: normalizeSpace(item.Description),
			URL:         item.Link,
			Source:      source,
		}
		if item.PublishedParsed != nil {
			ev.Date = FormatDate(*item.PublishedParsed)
			ev.Time = FormatClock(*item.PublishedParsed)
		} else if t, ok := ParseDateTime(item.Published); ok {
			ev.Date = FormatDate(t)
			ev.Time = FormatClock(t)
		}
		events = append(events, ev)
	}

	return events
}

// ingestFeeds pulls every alternate feed the listing page declares. Feed
// failures are skipped the same way page fetch failures are.
func (p *Pipeline) ingestFeeds(runID uuid.UUID, doc *goquery.Document, base *url.URL, source string) []Event {
	events := make([]Event, 0)

	for _, feedURL := range DiscoverFeeds(doc, base) {
		items, err := FeedEvents(feedURL, source)
		if err != nil {
			log.Printf("WARN: Failed to ingest feed %s: %v", feedURL, err)
			continue
		}
		p.bus.emit(Progress{Kind: ProgressFeedIngested, RunID: runID, URL: feedURL, Source: source, Count: len(items)})
		events = append(events, items...)
	}

	return events
}
