package scheduler

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

type fakeFetcher struct {
	calls int
}

func (f *fakeFetcher) FetchSeasons(ctx context.Context, seasons []int) error {
	f.calls++
	return nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestScheduleHistoricalSyncInvalidCron(t *testing.T) {
	s := NewScheduler(&fakeFetcher{}, quietLogger())
	if err := s.ScheduleHistoricalSync("not a cron expression", []int{2023}); err == nil {
		t.Fatal("expected error for invalid cron expression")
	}
}

func TestStartWithoutJobs(t *testing.T) {
	s := NewScheduler(&fakeFetcher{}, quietLogger())
	if err := s.Start(); err == nil {
		t.Fatal("expected error when starting with no scheduled jobs")
	}
}

func TestStartStopLifecycle(t *testing.T) {
	s := NewScheduler(&fakeFetcher{}, quietLogger())
	if err := s.ScheduleHistoricalSync("0 6 * * *", []int{2022, 2023}); err != nil {
		t.Fatalf("ScheduleHistoricalSync failed: %v", err)
	}

	if s.IsRunning() {
		t.Error("scheduler should not run before Start")
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !s.IsRunning() {
		t.Error("scheduler should run after Start")
	}
	if err := s.Start(); err == nil {
		t.Error("expected error for double Start")
	}

	if next := s.GetNextRun(); next.IsZero() {
		t.Error("expected a next run time while running")
	}
	if entries := s.Entries(); len(entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(entries))
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if s.IsRunning() {
		t.Error("scheduler should not run after Stop")
	}
	if err := s.Stop(); err != nil {
		t.Errorf("Stop should be idempotent, got %v", err)
	}
}

func TestScheduleWhileRunning(t *testing.T) {
	s := NewScheduler(&fakeFetcher{}, quietLogger())
	if err := s.ScheduleHistoricalSync("0 6 * * *", []int{2023}); err != nil {
		t.Fatalf("ScheduleHistoricalSync failed: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer func() { _ = s.Stop() }()

	if err := s.ScheduleHistoricalSync("0 7 * * *", []int{2023}); err == nil {
		t.Error("expected error scheduling while running")
	}
	if err := s.SchedulePipelineRun("0 8 * * *", func(ctx context.Context) error { return nil }); err == nil {
		t.Error("expected error scheduling while running")
	}
}

func TestGetNextRunBeforeStart(t *testing.T) {
	s := NewScheduler(&fakeFetcher{}, quietLogger())
	if err := s.ScheduleHistoricalSync("0 6 * * *", []int{2023}); err != nil {
		t.Fatalf("ScheduleHistoricalSync failed: %v", err)
	}
	if next := s.GetNextRun(); !next.IsZero() {
		t.Errorf("expected zero next run before Start, got %v", next)
	}
}
