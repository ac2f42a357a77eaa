package eventscrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestRouteKnownProviders verifies the built-in domain rules.
func TestRouteKnownProviders(t *testing.T) {
	router := NewRouter()

	eb := router.Route("https://www.eventbrite.com/d/md--baltimore/events/")
	assert.Equal(t, "eventbrite", eb.Label)
	assert.True(t, eb.Match("/e/concert"))
	assert.False(t, eb.Match("/events/concert"))
	assert.False(t, eb.Feeds)

	mu := router.Route("https://www.meetup.com/find/?location=us--md--baltimore")
	assert.Equal(t, "meetup", mu.Label)
	assert.True(t, mu.Match("/events/12345"))
	assert.False(t, mu.Match("/e/12345"))
}

// TestRouteGeneric verifies unknown domains fall back to keyword discovery
// labeled with the domain itself.
func TestRouteGeneric(t *testing.T) {
	router := NewRouter()

	s := router.Route("https://visitbaltimore.org/things-to-do/")
	assert.Equal(t, "visitbaltimore.org", s.Label)
	assert.True(t, s.Match("/upcoming-events"))
	assert.True(t, s.Match("/buy-tickets"))
	assert.False(t, s.Match("/contact"))
	assert.True(t, s.Feeds)
}

// TestRouteCustomRulePrecedence verifies custom rules run ahead of the
// built-ins.
func TestRouteCustomRulePrecedence(t *testing.T) {
	router := NewRouter(Rule{DomainContains: "eventbrite", Pattern: "/x/", Label: "custom"})

	s := router.Route("https://www.eventbrite.com/")
	assert.Equal(t, "custom", s.Label)
	assert.True(t, s.Match("/x/thing"))
	assert.False(t, s.Match("/e/thing"))
}

// TestRouteDomainNormalization verifies routing is by lowercased hostname,
// ignoring port and path.
func TestRouteDomainNormalization(t *testing.T) {
	router := NewRouter()

	assert.Equal(t, "meetup", router.Route("https://WWW.MEETUP.COM:443/events/").Label)
	assert.Equal(t, "localhost", router.Route("http://localhost:8080/calendar").Label)
}

// TestRouteUnparseable verifies a junk seed still yields a usable generic
// strategy rather than a panic.
func TestRouteUnparseable(t *testing.T) {
	s := NewRouter().Route("::not a url::")
	assert.NotNil(t, s.Match)
}
