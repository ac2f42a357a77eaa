package eventscrape

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ExtractorConfig carries the tuning knobs of the free-text fallback. The
// defaults match the limits the heuristics were tuned with; they are
// configuration rather than constants because nothing about them is
// fundamental.
type ExtractorConfig struct {
	// FreeTextTokenLimit is how many page-text tokens the last-resort scan
	// will attempt to parse.
	FreeTextTokenLimit int
	// FreeTextTokenMaxLen skips tokens longer than this many characters.
	FreeTextTokenMaxLen int
}

// DefaultExtractorConfig returns the default fallback limits.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		FreeTextTokenLimit:  200,
		FreeTextTokenMaxLen: 300,
	}
}

// Extractor resolves a candidate Event from one fetched page. It is purely
// functional over the document: the same markup always yields the same
// record.
type Extractor struct {
	cfg       ExtractorConfig
	dateSteps []dateStep
}

// dateStep is one attempt in the date/time cascade. It reports the parsed
// instant and whether it found one; the cascade stops at the first success.
type dateStep func(doc *goquery.Document) (time.Time, bool)

// NewExtractor creates an extractor. Zero or negative config values fall
// back to the defaults.
func NewExtractor(cfg ExtractorConfig) *Extractor {
	def := DefaultExtractorConfig()
	if cfg.FreeTextTokenLimit <= 0 {
		cfg.FreeTextTokenLimit = def.FreeTextTokenLimit
	}
	if cfg.FreeTextTokenMaxLen <= 0 {
		cfg.FreeTextTokenMaxLen = def.FreeTextTokenMaxLen
	}

	e := &Extractor{cfg: cfg}
	e.dateSteps = []dateStep{
		e.dateFromStructuredData,
		e.dateFromMetaTags,
		e.dateFromTimeElement,
		e.dateFromKeywordElements,
		e.dateFromFreeText,
	}
	return e
}

// structuredDataKeys is the key preference order inside a JSON-LD object.
var structuredDataKeys = []string{"startDate", "start_date", "start_time", "date"}

// metaDateHints mark meta tags worth feeding to the temporal parser.
var metaDateHints = []string{"start", "date", "event"}

// metaDateAttrs are the meta tag attributes checked for those hints.
var metaDateAttrs = []string{"property", "name", "itemprop"}

var dateKeywordPattern = regexp.MustCompile(`(?i)date|time|when|dtstart|start`)

// locationSelector matches the elements that commonly carry a venue or
// address string.
const locationSelector = "[data-venue-name], .event-details, .venue, .location"

var freeTextSplit = regexp.MustCompile(`\s{2,}|\n`)

// Extract runs every field heuristic over the document. Fields resolve
// independently; each keeps the first heuristic that succeeds and stays
// empty when none do.
func (e *Extractor) Extract(doc *goquery.Document, pageURL, source string) Event {
	ev := Event{
		URL:    pageURL,
		Source: source,
	}

	ev.Title = firstOf(metaContent(doc, "og:title"), elementText(doc, "h1"))
	ev.Description = firstOf(metaContent(doc, "og:description"), elementText(doc, "p"))

	for _, step := range e.dateSteps {
		if t, ok := step(doc); ok {
			ev.Date = FormatDate(t)
			ev.Time = FormatClock(t)
			break
		}
	}

	ev.Location = elementText(doc, locationSelector)

	return ev
}

// dateFromStructuredData scans embedded JSON-LD blocks. A block holds one
// object or a list of objects; the first object whose preferred key parses
// wins. Malformed blocks are skipped, not errors.
func (e *Extractor) dateFromStructuredData(doc *goquery.Document) (time.Time, bool) {
	var when time.Time
	var found bool

	doc.Find(`script[type*="ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var raw any
		if err := json.Unmarshal([]byte(s.Text()), &raw); err != nil {
			return true
		}

		items, ok := raw.([]any)
		if !ok {
			items = []any{raw}
		}

		for _, item := range items {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			for _, key := range structuredDataKeys {
				val, ok := obj[key]
				if !ok || val == nil {
					continue
				}
				text := strings.TrimSpace(fmt.Sprintf("%v", val))
				if text == "" {
					continue
				}
				if t, ok := ParseDateTime(text); ok {
					when, found = t, true
					return false
				}
			}
		}
		return true
	})

	return when, found
}

// dateFromMetaTags scans every meta tag whose property, name, or itemprop
// attribute hints at a date and feeds its content to the temporal parser.
func (e *Extractor) dateFromMetaTags(doc *goquery.Document) (time.Time, bool) {
	var when time.Time
	var found bool

	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, attr := range metaDateAttrs {
			val := strings.ToLower(s.AttrOr(attr, ""))
			if val == "" || !containsAny(val, metaDateHints) {
				continue
			}
			if t, ok := ParseDateTime(s.AttrOr("content", "")); ok {
				when, found = t, true
				return false
			}
		}
		return true
	})

	return when, found
}

// dateFromTimeElement reads the page's first <time> element, preferring its
// machine-readable datetime attribute over its visible text.
func (e *Extractor) dateFromTimeElement(doc *goquery.Document) (time.Time, bool) {
	sel := doc.Find("time").First()
	if sel.Length() == 0 {
		return time.Time{}, false
	}
	if dt, ok := sel.Attr("datetime"); ok {
		if t, parsed := ParseDateTime(dt); parsed {
			return t, true
		}
	}
	return ParseDateTime(sel.Text())
}

// dateFromKeywordElements collects the text of every element whose class
// list or id matches the date keywords, in document order, and takes the
// first candidate that parses.
func (e *Extractor) dateFromKeywordElements(doc *goquery.Document) (time.Time, bool) {
	var when time.Time
	var found bool

	doc.Find("[class],[id]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !dateKeywordPattern.MatchString(s.AttrOr("class", "")) &&
			!dateKeywordPattern.MatchString(s.AttrOr("id", "")) {
			return true
		}
		if t, ok := ParseDateTime(s.Text()); ok {
			when, found = t, true
			return false
		}
		return true
	})

	return when, found
}

// dateFromFreeText is the last resort: split the page's visible text on
// whitespace runs and newlines and try to parse the leading tokens.
func (e *Extractor) dateFromFreeText(doc *goquery.Document) (time.Time, bool) {
	body := doc.Find("body")
	text := body.Text()
	if body.Length() == 0 {
		text = doc.Text()
	}

	tokens := freeTextSplit.Split(text, -1)
	if len(tokens) > e.cfg.FreeTextTokenLimit {
		tokens = tokens[:e.cfg.FreeTextTokenLimit]
	}

	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" || len(token) > e.cfg.FreeTextTokenMaxLen {
			continue
		}
		if t, ok := ParseDateTime(token); ok {
			return t, true
		}
	}

	return time.Time{}, false
}

// metaContent returns the normalized content of the first meta tag with the
// given property.
func metaContent(doc *goquery.Document, property string) string {
	return normalizeSpace(doc.Find(`meta[property="` + property + `"]`).First().AttrOr("content", ""))
}

// elementText returns the normalized text of the first element matching the
// selector.
func elementText(doc *goquery.Document, selector string) string {
	return normalizeSpace(doc.Find(selector).First().Text())
}

// normalizeSpace collapses runs of whitespace into single spaces and trims.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstOf(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
