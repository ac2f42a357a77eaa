package eventscrape

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Schedule decides when the next watch pass runs.
type Schedule interface {
	Next(after time.Time) time.Time
}

type intervalSchedule struct {
	every time.Duration
}

func (s intervalSchedule) Next(after time.Time) time.Time {
	return after.Add(s.every)
}

// IntervalSchedule runs a pass every fixed duration.
func IntervalSchedule(every time.Duration) Schedule {
	return intervalSchedule{every: every}
}

// CronSchedule parses a standard five-field cron expression into a
// Schedule.
func CronSchedule(expression string) (Schedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("parse cron: %w", err)
	}
	return sched, nil
}

// Watcher re-runs the pipeline on a schedule and hands each pass's events
// to a sink. The sink is whatever the operator wired up: spreadsheet
// export, the archive, both.
type Watcher struct {
	pipeline *Pipeline
	seeds    []string
	schedule Schedule
	sink     func([]Event) error
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewWatcher creates a watcher over the given seeds.
func NewWatcher(pipeline *Pipeline, seeds []string, schedule Schedule, sink func([]Event) error) *Watcher {
	return &Watcher{
		pipeline: pipeline,
		seeds:    seeds,
		schedule: schedule,
		sink:     sink,
		stopChan: make(chan struct{}),
	}
}

// Run executes one pass immediately, then keeps running passes on the
// schedule until Stop is called or the context ends.
func (w *Watcher) Run(ctx context.Context) error {
	log.Println("Watch service starting")
	w.pass(ctx)

	for {
		timer := time.NewTimer(time.Until(w.schedule.Next(time.Now())))
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Println("Watch service stopping (context cancelled)")
			return ctx.Err()
		case <-w.stopChan:
			timer.Stop()
			log.Println("Watch service stopping")
			return nil
		case <-timer.C:
			w.pass(ctx)
		}
	}
}

// Stop signals the watcher to stop after the current pass.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
	})
}

// pass runs the pipeline once and feeds the sink. Pass failures are logged
// and the service keeps going; only the operator stopping it ends the loop.
func (w *Watcher) pass(ctx context.Context) {
	start := time.Now()

	events, err := w.pipeline.Run(ctx, w.seeds)
	if err != nil {
		log.Printf("ERROR: Watch pass failed: %v", err)
		return
	}

	if w.sink != nil {
		if err := w.sink(events); err != nil {
			log.Printf("ERROR: Failed to sink %d events: %v", len(events), err)
			return
		}
	}

	log.Printf("INFO: Watch pass finished: %d events in %v", len(events), time.Since(start))
}
