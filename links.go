package eventscrape

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// LinkMatcher reports whether a raw href looks like an event link. Matchers
// see the href exactly as it appears in the markup, before resolution.
type LinkMatcher func(href string) bool

// SubstringMatcher keeps hrefs containing the given fragment.
func SubstringMatcher(fragment string) LinkMatcher {
	return func(href string) bool {
		return strings.Contains(href, fragment)
	}
}

// KeywordMatcher keeps hrefs containing any of the keywords,
// case-insensitively.
func KeywordMatcher(keywords ...string) LinkMatcher {
	return func(href string) bool {
		lower := strings.ToLower(href)
		for _, k := range keywords {
			if strings.Contains(lower, k) {
				return true
			}
		}
		return false
	}
}

// DiscoverLinks scans every hyperlink on the page, keeps the ones the
// matcher accepts, and resolves them against base. Only absolute http(s)
// URLs with a host come back, in document order. Duplicates are kept;
// dedup happens downstream.
func DiscoverLinks(doc *goquery.Document, base *url.URL, match LinkMatcher) []string {
	links := make([]string, 0)

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if href == "" || !match(href) {
			return
		}
		resolved, err := base.Parse(href)
		if err != nil {
			return
		}
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}
		if resolved.Host == "" {
			return
		}
		links = append(links, resolved.String())
	})

	return links
}
