package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/harborview/eventscrape"
)

func newWatchCmd() *cobra.Command {
	opts := &scrapeOptions{}
	var every time.Duration
	var cronExpr string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the scrape on a schedule, re-exporting after each pass",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pipeline, bus, seeds, err := setup(cmd, opts)
			if err != nil {
				return err
			}

			var schedule eventscrape.Schedule
			if cronExpr != "" {
				schedule, err = eventscrape.CronSchedule(cronExpr)
				if err != nil {
					return err
				}
			} else {
				schedule = eventscrape.IntervalSchedule(every)
			}

			sink := func(events []eventscrape.Event) error {
				return exportEvents(events, uuid.New(), time.Now(), opts)
			}
			watcher := eventscrape.NewWatcher(pipeline, seeds, schedule, sink)

			go func() {
				for p := range bus.Channel() {
					logProgress(p)
				}
			}()
			defer bus.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}

	opts.bindFlags(cmd)
	cmd.Flags().DurationVar(&every, "every", time.Hour, "Interval between passes")
	cmd.Flags().StringVar(&cronExpr, "cron", "", "Cron expression for passes (overrides --every)")
	return cmd
}
