package eventscrape

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntervalSchedule(t *testing.T) {
	sched := IntervalSchedule(30 * time.Minute)
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, now.Add(30*time.Minute), sched.Next(now))
}

func TestCronSchedule(t *testing.T) {
	sched, err := CronSchedule("0 6 * * *")
	require.NoError(t, err)

	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	next := sched.Next(now)
	assert.Equal(t, 6, next.Hour())
	assert.Equal(t, 15, next.Day(), "past today's slot, so tomorrow")
}

func TestCronScheduleInvalid(t *testing.T) {
	_, err := CronSchedule("not a cron line")
	assert.Error(t, err)
}

// TestWatcherRunsPasses drives the watcher with a tiny interval and no
// seeds, counting sink calls until Stop.
func TestWatcherRunsPasses(t *testing.T) {
	passes := make(chan int, 8)
	count := 0
	sink := func([]Event) error {
		count++
		passes <- count
		return nil
	}

	w := NewWatcher(newTestPipeline(nil), nil, IntervalSchedule(10*time.Millisecond), sink)

	done := make(chan error, 1)
	go func() {
		done <- w.Run(context.Background())
	}()

	for n := range passes {
		if n >= 2 {
			break
		}
	}
	w.Stop()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
	assert.GreaterOrEqual(t, count, 2, "immediate pass plus at least one scheduled pass")
}

// TestWatcherContextCancel verifies a cancelled context ends the loop with
// the context's error.
func TestWatcherContextCancel(t *testing.T) {
	w := NewWatcher(newTestPipeline(nil), nil, IntervalSchedule(time.Hour), nil)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx)
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
