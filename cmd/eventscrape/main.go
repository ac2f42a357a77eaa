package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/harborview/eventscrape"
)

func main() {
	root := &cobra.Command{
		Use:           "eventscrape",
		Short:         "Scrape event listings into structured records",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newScrapeCmd(), newWatchCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// logProgress renders one pipeline notification as a log line.
func logProgress(p eventscrape.Progress) {
	switch p.Kind {
	case eventscrape.ProgressSeedRouted:
		log.Printf("INFO: Routing %s via %s", p.URL, p.Source)
	case eventscrape.ProgressPageScraped:
		log.Printf("INFO: Scraped %s", p.URL)
	case eventscrape.ProgressFetchSkipped:
		log.Printf("WARN: Skipping %s: %s", p.URL, p.Message)
	case eventscrape.ProgressFeedIngested:
		log.Printf("INFO: Ingested %d feed entries from %s", p.Count, p.URL)
	}
}
