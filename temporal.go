package eventscrape

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// exactLayouts are tried before the open-format parser. dateparse covers
// most of these too, but the list pins the interpretation of the datetime
// attribute forms pages emit most often.
var exactLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"January 2, 2006 3:04 PM",
	"January 2, 2006",
	"Jan 2, 2006",
}

// maxFuzzyWindow bounds the token window slid across free text when the
// whole string doesn't parse on its own.
const maxFuzzyWindow = 6

// maxFuzzyTokens caps how much of a candidate string the sliding windows
// will cover. Keyword-matched elements can wrap a lot of text.
const maxFuzzyTokens = 48

var monthHints = []string{
	"jan", "feb", "mar", "apr", "may", "jun",
	"jul", "aug", "sep", "oct", "nov", "dec",
}

// ParseDateTime extracts a calendar instant from free text. The text may
// carry words around the date ("Doors open May 3, 2024 at the hall"); the
// parser takes the first fragment that resolves to a date. Returns false
// when nothing in the text parses, never an error.
func ParseDateTime(text string) (time.Time, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return time.Time{}, false
	}
	s := strings.Join(fields, " ")

	if t, ok := parseFragment(s); ok {
		return t, true
	}

	// Fuzzy pass: slide shrinking windows over the tokens and keep the
	// first window that parses. Wider windows go first so a date and its
	// time resolve together as one instant.
	if len(fields) > maxFuzzyTokens {
		fields = fields[:maxFuzzyTokens]
	}
	for width := maxFuzzyWindow; width >= 1; width-- {
		if width > len(fields) {
			continue
		}
		for start := 0; start+width <= len(fields); start++ {
			window := strings.Join(fields[start:start+width], " ")
			if !looksDateLike(window) {
				continue
			}
			window = strings.Trim(window, ".,;:()[]")
			if t, ok := parseFragment(window); ok {
				return t, true
			}
		}
	}

	return time.Time{}, false
}

// parseFragment tries the pinned layouts, then the open-format parser.
func parseFragment(s string) (time.Time, bool) {
	for _, layout := range exactLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if t, err := dateparse.ParseAny(s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// looksDateLike is a cheap filter: a fragment with no digit and no month
// name is never worth a parse attempt.
func looksDateLike(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	lower := strings.ToLower(s)
	for _, m := range monthHints {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// FormatDate renders the instant's calendar date as it appears in exported
// records.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatClock renders the instant's clock time at minute precision.
func FormatClock(t time.Time) string {
	return t.Format("15:04")
}
