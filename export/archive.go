package export

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harborview/eventscrape"
)

// Archive is a sqlite store that accumulates scrape runs across
// invocations. The pipeline itself never touches it; it is purely an
// optional export sink.
type Archive struct {
	db *sql.DB
}

// OpenArchive opens (or creates) the archive database at path.
func OpenArchive(path string) (*Archive, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	a := &Archive{db: db}
	if err := a.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return a, nil
}

// initSchema creates the archive tables if they don't exist.
func (a *Archive) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		event_count INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		run_id TEXT NOT NULL,
		title TEXT,
		date TEXT,
		time TEXT,
		location TEXT,
		url TEXT,
		description TEXT,
		source TEXT
	);
	`

	_, err := a.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (a *Archive) Close() error {
	return a.db.Close()
}

// SaveRun appends one run's deduplicated events.
func (a *Archive) SaveRun(runID uuid.UUID, startedAt time.Time, events []eventscrape.Event) error {
	tx, err := a.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec(
		"INSERT INTO runs (run_id, started_at, event_count) VALUES (?, ?, ?)",
		runID.String(), startedAt.UTC().Format(time.RFC3339), len(events),
	); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, ev := range events {
		if _, err := tx.Exec(
			"INSERT INTO events (run_id, title, date, time, location, url, description, source) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			runID.String(), ev.Title, ev.Date, ev.Time, ev.Location, ev.URL, ev.Description, ev.Source,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert event: %w", err)
		}
	}

	return tx.Commit()
}

// RunCount returns the number of archived runs.
func (a *Archive) RunCount() (int, error) {
	var n int
	if err := a.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return n, nil
}

// EventCount returns the number of archived events across all runs.
func (a *Archive) EventCount() (int, error) {
	var n int
	if err := a.db.QueryRow("SELECT COUNT(*) FROM events").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return n, nil
}
