package eventscrape

import (
	"net/url"
	"strings"
)

// GenericKeywords is the href filter used when no site-specific rule
// matches a seed's domain.
var GenericKeywords = []string{"event", "meetup", "networking", "tickets", "/e/"}

// Strategy is the pattern and label pair used to walk one listing page.
type Strategy struct {
	// Label tags every event produced from this listing: a provider name
	// for known sites, the raw domain for generic discovery.
	Label string
	// Match filters candidate hrefs on the listing page.
	Match LinkMatcher
	// Feeds enables RSS/Atom alternate-feed ingestion for this listing.
	Feeds bool
}

// Rule maps a domain fragment to a listing strategy.
type Rule struct {
	DomainContains string
	Pattern        string
	Label          string
}

// Router classifies seed URLs into listing strategies by domain. The rule
// set is open: custom rules run ahead of the built-in eventbrite and meetup
// rules, and anything unmatched falls through to generic discovery.
type Router struct {
	rules []Rule
}

// NewRouter builds a router from the built-in rules plus any extra rules,
// which take precedence.
func NewRouter(extra ...Rule) *Router {
	rules := make([]Rule, 0, len(extra)+2)
	rules = append(rules, extra...)
	rules = append(rules,
		Rule{DomainContains: "eventbrite", Pattern: "/e/", Label: "eventbrite"},
		Rule{DomainContains: "meetup", Pattern: "/events/", Label: "meetup"},
	)
	return &Router{rules: rules}
}

// Route picks the listing strategy for a seed URL. Unrecognized domains get
// generic keyword discovery labeled with the domain itself; that path also
// ingests any feeds the listing page declares.
func (r *Router) Route(seedURL string) Strategy {
	domain := ""
	if u, err := url.Parse(seedURL); err == nil {
		domain = strings.ToLower(u.Hostname())
	}

	for _, rule := range r.rules {
		if rule.DomainContains != "" && strings.Contains(domain, rule.DomainContains) {
			return Strategy{
				Label: rule.Label,
				Match: SubstringMatcher(rule.Pattern),
			}
		}
	}

	return Strategy{
		Label: domain,
		Match: KeywordMatcher(GenericKeywords...),
		Feeds: true,
	}
}
