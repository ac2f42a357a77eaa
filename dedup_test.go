package eventscrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDedupByURL verifies the per-listing stage keeps exactly one record
// per distinct URL, in first-seen order.
func TestDedupByURL(t *testing.T) {
	events := []Event{
		{Title: "A", URL: "https://example.com/e/1"},
		{Title: "B", URL: "https://example.com/e/2"},
		{Title: "A again", URL: "https://example.com/e/1"},
		{Title: "C", URL: "https://example.com/e/3"},
		{Title: "B again", URL: "https://example.com/e/2"},
	}

	out := DedupByURL(events)

	require.Len(t, out, 3)
	assert.Equal(t, "A", out[0].Title)
	assert.Equal(t, "B", out[1].Title)
	assert.Equal(t, "C", out[2].Title)
}

// TestDedupByURLKeepsURLless verifies records without a URL are never
// duplicates of each other at this stage.
func TestDedupByURLKeepsURLless(t *testing.T) {
	events := []Event{
		{Title: "X"},
		{Title: "Y"},
		{Title: ""},
	}

	out := DedupByURL(events)

	assert.Len(t, out, 3)
}

// TestDedupAggregate verifies the final stage collapses identical
// (title, url) pairs, including the all-empty pair.
func TestDedupAggregate(t *testing.T) {
	events := []Event{
		{Title: "Jazz Night", URL: "https://example.com/e/1"},
		{Title: "Jazz Night", URL: "https://example.com/e/1", Description: "seen second"},
		{Title: "Jazz Night", URL: "https://example.com/e/2"},
		{},
		{},
	}

	out := DedupAggregate(events, DedupPolicy{})

	require.Len(t, out, 3)
	assert.Empty(t, out[0].Description, "first-seen record wins")
	assert.Equal(t, "https://example.com/e/2", out[1].URL)
	assert.Empty(t, out[2].URL, "the two fully-empty records collapse into one")
}

// TestDedupAggregateKeepUnresolved verifies the configurable policy keeps
// fully-unresolved records distinct.
func TestDedupAggregateKeepUnresolved(t *testing.T) {
	events := []Event{
		{},
		{},
		{Title: "T", URL: "u"},
		{Title: "T", URL: "u"},
	}

	out := DedupAggregate(events, DedupPolicy{KeepUnresolved: true})

	assert.Len(t, out, 3)
}

// TestDedupAggregateKeySeparation verifies titles and urls can't bleed into
// each other's key halves.
func TestDedupAggregateKeySeparation(t *testing.T) {
	events := []Event{
		{Title: "ab", URL: "c"},
		{Title: "a", URL: "bc"},
	}

	out := DedupAggregate(events, DedupPolicy{})

	assert.Len(t, out, 2)
}

func TestEventRow(t *testing.T) {
	ev := Event{
		Title:       "T",
		Date:        "2024-05-01",
		Time:        "19:00",
		Location:    "Hall",
		URL:         "https://example.com/e/1",
		Description: "D",
		Source:      "eventbrite",
	}

	assert.Equal(t, []string{"T", "2024-05-01", "19:00", "Hall", "https://example.com/e/1", "D", "eventbrite"}, ev.Row())
	assert.Len(t, Columns, len(ev.Row()))
}
