package eventscrape

// Event is one extracted event record. Every field is independently
// optional: an empty string means the heuristics found nothing on the page,
// which is a normal outcome rather than an error. Date carries an ISO-8601
// calendar date and Time a clock time at minute precision; when both are
// present they always come from the same parsed instant.
type Event struct {
	Title       string `json:"title,omitempty"`
	Date        string `json:"date,omitempty"`
	Time        string `json:"time,omitempty"`
	Location    string `json:"location,omitempty"`
	URL         string `json:"url,omitempty"`
	Description string `json:"description,omitempty"`
	Source      string `json:"source,omitempty"`
}

// Columns is the fixed column order used by every export target.
var Columns = []string{"title", "date", "time", "location", "url", "description", "source"}

// Row returns the event's fields in Columns order. Absent fields come back
// as empty strings so exporters can write them as empty cells.
func (e Event) Row() []string {
	return []string{e.Title, e.Date, e.Time, e.Location, e.URL, e.Description, e.Source}
}

// identityKey is the aggregate dedup key: the (title, url) pair with absent
// fields as empty text.
func (e Event) identityKey() string {
	return e.Title + "\x00" + e.URL
}
