package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/harborview/eventscrape"
	"github.com/harborview/eventscrape/config"
	"github.com/harborview/eventscrape/export"
)

type scrapeOptions struct {
	urlsFile       string
	output         string
	delay          float64
	configPath     string
	archivePath    string
	keepUnresolved bool
}

func (o *scrapeOptions) bindFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.urlsFile, "urls-file", "u", getEnv("EVENTSCRAPE_URLS_FILE", ""), "File with seed URLs, one per line (EVENTSCRAPE_URLS_FILE)")
	cmd.Flags().StringVarP(&o.output, "output", "o", "events.xlsx", "Output spreadsheet path")
	cmd.Flags().Float64VarP(&o.delay, "delay", "d", 1.0, "Delay between requests in seconds")
	cmd.Flags().StringVar(&o.configPath, "config", getEnv("EVENTSCRAPE_CONFIG", ""), "Optional yaml config file (EVENTSCRAPE_CONFIG)")
	cmd.Flags().StringVar(&o.archivePath, "archive", "", "Optional sqlite archive for run history")
	cmd.Flags().BoolVar(&o.keepUnresolved, "keep-unresolved", false, "Keep records with no title and no url distinct in the final dedup")
}

func newScrapeCmd() *cobra.Command {
	opts := &scrapeOptions{}
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Run one scrape pass over the seed URLs and export the results",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScrape(cmd, opts)
		},
	}
	opts.bindFlags(cmd)
	return cmd
}

// setup validates configuration before any fetching begins. Every failure
// here surfaces to the operator; nothing network-related has happened yet.
func setup(cmd *cobra.Command, opts *scrapeOptions) (*eventscrape.Pipeline, *eventscrape.ProgressBus, []string, error) {
	if opts.urlsFile == "" {
		return nil, nil, nil, fmt.Errorf("no seed URLs provided; pass --urls-file with a file of event-listing URLs")
	}

	fileCfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	seeds, err := config.LoadSeeds(opts.urlsFile)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(seeds) == 0 {
		return nil, nil, nil, fmt.Errorf("seed file %s contains no URLs", opts.urlsFile)
	}

	cfg := eventscrape.DefaultPipelineConfig()
	fileCfg.Apply(&cfg)

	// Explicit flags win over the config file.
	if cmd.Flags().Changed("delay") || fileCfg == nil {
		cfg.Delay = time.Duration(opts.delay * float64(time.Second))
	}
	if opts.keepUnresolved {
		cfg.Dedup.KeepUnresolved = true
	}
	if opts.archivePath == "" && fileCfg != nil {
		opts.archivePath = fileCfg.Archive
	}
	if !cmd.Flags().Changed("output") && fileCfg != nil && fileCfg.Output != "" {
		opts.output = fileCfg.Output
	}

	bus := eventscrape.NewProgressBus(64)
	pipeline := eventscrape.NewPipeline(cfg, eventscrape.NewRouter(fileCfg.Rules()...), bus)
	return pipeline, bus, seeds, nil
}

func runScrape(cmd *cobra.Command, opts *scrapeOptions) error {
	pipeline, bus, seeds, err := setup(cmd, opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var runID uuid.UUID
	done := make(chan struct{})
	go func() {
		defer close(done)
		for p := range bus.Channel() {
			if runID == (uuid.UUID{}) {
				runID = p.RunID
			}
			logProgress(p)
		}
	}()

	fmt.Printf("Scraping %d seed URLs...\n", len(seeds))
	started := time.Now()
	events, runErr := pipeline.Run(ctx, seeds)
	bus.Close()
	<-done

	if runErr != nil && len(events) == 0 {
		return runErr
	}

	fmt.Printf("Found %d events; saving to %s\n", len(events), opts.output)
	if err := exportEvents(events, runID, started, opts); err != nil {
		return err
	}

	return runErr
}

// exportEvents writes the spreadsheet and, when configured, appends the run
// to the archive.
func exportEvents(events []eventscrape.Event, runID uuid.UUID, started time.Time, opts *scrapeOptions) error {
	if err := export.WriteXLSX(events, opts.output); err != nil {
		return err
	}

	if opts.archivePath != "" {
		a, err := export.OpenArchive(opts.archivePath)
		if err != nil {
			return err
		}
		defer a.Close()
		if runID == (uuid.UUID{}) {
			runID = uuid.New()
		}
		if err := a.SaveRun(runID, started, events); err != nil {
			return err
		}
	}

	return nil
}
