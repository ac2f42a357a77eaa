package eventscrape

// DedupPolicy controls the aggregate dedup stage.
type DedupPolicy struct {
	// KeepUnresolved keeps every record with neither title nor url instead
	// of collapsing them into one. Off by default: the historical key is
	// the plain (title, url) pair, under which fully-unresolved records all
	// share ("", "").
	KeepUnresolved bool
}

// DedupByURL removes repeated records within one listing's results, keyed
// by resolved URL. Records without a URL are never considered duplicates of
// each other and are always kept. First-seen order is preserved.
func DedupByURL(events []Event) []Event {
	seen := make(map[string]bool, len(events))
	out := make([]Event, 0, len(events))

	for _, e := range events {
		if e.URL != "" {
			if seen[e.URL] {
				continue
			}
			seen[e.URL] = true
		}
		out = append(out, e)
	}

	return out
}

// DedupAggregate removes repeated records across the whole run, keyed by
// the (title, url) pair with absent fields defaulting to empty text.
// First-seen order is preserved.
func DedupAggregate(events []Event, policy DedupPolicy) []Event {
	seen := make(map[string]bool, len(events))
	out := make([]Event, 0, len(events))

	for _, e := range events {
		if policy.KeepUnresolved && e.Title == "" && e.URL == "" {
			out = append(out, e)
			continue
		}
		key := e.identityKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}

	return out
}
